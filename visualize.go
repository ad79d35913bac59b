package geovec

import (
	"math"

	"github.com/wgs84lab/geovec/log"
	"github.com/wgs84lab/geovec/render"

	"go.uber.org/zap"
)

// 读取栅格波段为展示网格，超过maxDim的边按步长抽稀（maxDim<=0不抽稀）
func (g *Toolbox) BandGrid(r *Raster, band, maxDim int) (grid *render.Grid, err error) {
	buf, err := g.ReadBand(r, band)
	if err != nil {
		return
	}
	nodata, nd, err := g.BandNoData(r, band)
	if err != nil {
		return
	}
	sx, sy := r.grid.SizeX, r.grid.SizeY
	stride := 1
	if maxDim > 0 {
		for sx/stride > maxDim || sy/stride > maxDim {
			stride++
		}
	}
	cols, rows := (sx+stride-1)/stride, (sy+stride-1)/stride
	// 展示网格约定第0行在北侧；南上的geotransform（gt[5]>0）按行倒序取
	northUp := r.grid.GeoTransform[5] < 0
	vals := make([]float64, cols*rows)
	for ry := 0; ry < rows; ry++ {
		sy0 := ry * stride
		if !northUp {
			sy0 = (rows - 1 - ry) * stride
		}
		for rx := 0; rx < cols; rx++ {
			v := buf[sy0*sx+rx*stride]
			if nd && v == nodata {
				v = math.NaN() // heatmap跳过NaN像元
			}
			vals[ry*cols+rx] = v
		}
	}
	ext := r.grid.Extent()
	grid = &render.Grid{
		Cols: cols, Rows: rows,
		West: ext.MinX, East: ext.MaxX,
		South: ext.MinY, North: ext.MaxY,
		Values: vals,
	}
	if stride > 1 {
		log.Info(g.logTag+"downsampled band grid", zap.Int("stride", stride),
			zap.Int("cols", cols), zap.Int("rows", rows))
	}
	return
}

// 连接产物转点符号：valueBand提供着色数值，categoryField提供分类（可为空）
func (js *JoinedSet) Symbols(valueBand, categoryField string) (pts []render.SymbolPoint, err error) {
	col, err := js.Column(valueBand)
	if err != nil {
		return
	}
	pts = make([]render.SymbolPoint, len(js.Points))
	for i, p := range js.Points {
		pts[i] = render.SymbolPoint{X: p.X, Y: p.Y, Value: col[i]}
		if categoryField != "" {
			pts[i].Category = p.Attrs[categoryField]
		}
	}
	return
}

// 一步出静态图：堆叠栅格某波段为底图，连接点按value/分类着色
func (g *Toolbox) RenderStaticMap(s *Stack, backdropBand string, js *JoinedSet, valueBand, categoryField, out string) (err error) {
	b := s.bandOf(backdropBand)
	if b == 0 {
		err = ErrUnknownAttribute
		return
	}
	grid, err := g.BandGrid(&s.Raster, b, 1024)
	if err != nil {
		return
	}
	pts, err := js.Symbols(valueBand, categoryField)
	if err != nil {
		return
	}
	if categoryField == "" {
		pts = render.ClassifyPoints(pts, 5)
	}
	err = render.StaticMap(render.StaticConfig{
		Title:    backdropBand,
		XLabel:   "lon",
		YLabel:   "lat",
		Backdrop: grid,
		Points:   pts,
	}, out)
	if err == nil {
		log.Info(g.logTag+"static map rendered", zap.String("out", out))
	}
	return
}

// 一步出交互地图HTML
func (g *Toolbox) RenderInteractiveMap(js *JoinedSet, valueBand, categoryField, out string) (err error) {
	pts, err := js.Symbols(valueBand, categoryField)
	if err != nil {
		return
	}
	err = render.InteractiveMapFile(out, render.InteractiveConfig{
		PageTitle: valueBand,
		Title:     valueBand,
		ValueName: valueBand,
		Points:    pts,
	})
	if err == nil {
		log.Info(g.logTag+"interactive map rendered", zap.String("out", out))
	}
	return
}
