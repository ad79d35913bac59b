// Package render 提供静态图与交互地图输出，纯展示层，不回写数据
package render

import (
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"gonum.org/v1/plot/palette/moreland"
)

// 地图上的一个点符号：坐标 + 数值 + 分类
type SymbolPoint struct {
	X, Y     float64
	Value    float64
	Category string
}

// 栅格波段的展示网格，行主序，第0行在北侧
type Grid struct {
	Cols, Rows   int
	West, East   float64
	South, North float64
	Values       []float64
}

func (g *Grid) Dims() (c, r int) {
	return g.Cols, g.Rows
}

// 像元中心坐标，heatmap要求递增
func (g *Grid) X(c int) float64 {
	return g.West + (float64(c)+0.5)*(g.East-g.West)/float64(g.Cols)
}

func (g *Grid) Y(r int) float64 {
	return g.South + (float64(r)+0.5)*(g.North-g.South)/float64(g.Rows)
}

func (g *Grid) Z(c, r int) float64 {
	return g.Values[(g.Rows-1-r)*g.Cols+c]
}

type StaticConfig struct {
	Title  string
	XLabel string
	YLabel string
	// 栅格底图，可为空（只画点）
	Backdrop *Grid
	Points   []SymbolPoint
	// 图幅尺寸（英寸），零值时取10x8
	WidthInch, HeightInch float64
}

// 输出静态PNG：栅格热力底图 + 按分类着色的点符号
func StaticMap(cfg StaticConfig, out string) error {
	p := plot.New()
	p.Title.Text = cfg.Title
	p.X.Label.Text = cfg.XLabel
	p.Y.Label.Text = cfg.YLabel

	if cfg.Backdrop != nil {
		pal := moreland.SmoothBlueRed().Palette(255)
		hm := plotter.NewHeatMap(cfg.Backdrop, pal)
		p.Add(hm)
	}

	byCat := map[string][]SymbolPoint{}
	for _, pt := range cfg.Points {
		byCat[pt.Category] = append(byCat[pt.Category], pt)
	}
	cats := make([]string, 0, len(byCat))
	for c := range byCat {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	colors := CategoryColors(len(cats))
	for i, cat := range cats {
		pts := byCat[cat]
		xys := make(plotter.XYs, len(pts))
		for j, pt := range pts {
			xys[j] = plotter.XY{X: pt.X, Y: pt.Y}
		}
		s, err := plotter.NewScatter(xys)
		if err != nil {
			return err
		}
		s.GlyphStyle.Color = colors[i]
		s.GlyphStyle.Radius = vg.Points(3)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
		if cat != "" {
			p.Legend.Add(cat, s)
		}
	}
	p.Legend.Top = true
	p.Legend.Left = false

	w, h := cfg.WidthInch, cfg.HeightInch
	if w <= 0 {
		w = 10
	}
	if h <= 0 {
		h = 8
	}
	return p.Save(vg.Length(w)*vg.Inch, vg.Length(h)*vg.Inch, out)
}
