package geovec

import (
	"math"

	"github.com/wgs84lab/geovec/log"

	gdal "github.com/airbusgeo/godal"
	"go.uber.org/zap"
)

// 点集 + 采样列的连接产物，Samples各列与Points严格同序。
// Missed为落在栅格范围外的点数
type JoinedSet struct {
	*PointSet
	Bands   []string
	Samples map[string][]float64
	Missed  int
}

// 像元坐标换算：仿射逆变换（支持带旋转项的geotransform）
func pixelOf(gt [6]float64, x, y float64) (px, py int, ok bool) {
	det := gt[1]*gt[5] - gt[2]*gt[4]
	if det == 0 {
		return
	}
	dx, dy := x-gt[0], y-gt[3]
	fx := (gt[5]*dx - gt[2]*dy) / det
	fy := (gt[1]*dy - gt[4]*dx) / det
	return int(math.Floor(fx)), int(math.Floor(fy)), true
}

// 在每个点位置采样堆叠栅格的各波段值，按列追加到点集属性上。
// 点集与栅格坐标系不同时先转换点集副本。落在栅格范围外的点取
// 波段NoData值，未定义NoData时取NaN
func (g *Toolbox) SampleAtPoints(s *Stack, ps *PointSet) (ret *JoinedSet, err error) {
	if len(ps.Points) == 0 {
		err = ErrEmptyPointSet
		return
	}
	sampled := ps
	if ps.SRID != s.grid.SRID {
		log.Info(g.logTag+"reproject points onto raster srid", zap.Int("srid", ps.SRID), zap.Int("tSrid", s.grid.SRID))
		if sampled, err = g.ReprojectPoints(ps, s.grid.SRID); err != nil {
			return
		}
	}
	var (
		gt      = s.grid.GeoTransform
		bands   = s.ds.Bands()
		samples = make(map[string][]float64, len(s.names))
		buf     = make([]float64, 1)
		missed  int
	)
	for bi, name := range s.names {
		var (
			band       = bands[bi]
			col        = make([]float64, len(sampled.Points))
			nodata, nd = band.NoData()
		)
		if !nd {
			nodata = math.NaN()
		}
		for i, p := range sampled.Points {
			px, py, ok := pixelOf(gt, p.X, p.Y)
			if !ok || px < 0 || py < 0 || px >= s.grid.SizeX || py >= s.grid.SizeY {
				col[i] = nodata
				// 各波段落点一致，范围外的点只数一次
				if bi == 0 {
					missed++
				}
				continue
			}
			if err = band.IO(gdal.IORead, px, py, buf, 1, 1); err != nil {
				log.Error(g.logTag+"read band offset failed", zap.String("band", name),
					zap.Int("px", px), zap.Int("py", py), zap.Error(err))
				err = ErrTifReadFailed
				return
			}
			col[i] = buf[0]
		}
		// 位置连接的硬性前提：行数与点数一致、同序
		if len(col) != len(ps.Points) {
			err = ErrPointCountDrift
			return
		}
		samples[name] = col
	}
	if missed > 0 {
		log.Warn(g.logTag+"points outside raster extent", zap.Int("missed", missed))
	}
	ret = &JoinedSet{
		PointSet: ps,
		Bands:    append([]string{}, s.names...),
		Samples:  samples,
		Missed:   missed,
	}
	log.Info(g.logTag+"sampled stack at points", zap.Int("points", len(ps.Points)), zap.Int("bands", len(s.names)))
	return
}

// 采样列，与Points同序
func (js *JoinedSet) Column(band string) (vals []float64, err error) {
	vals, ok := js.Samples[band]
	if !ok {
		err = ErrUnknownAttribute
	}
	return
}

// 将连接产物写入shp（采样列为浮点字段）
func (g *Toolbox) WriteJoinedShapefile(shp string, js *JoinedSet) error {
	return g.WritePointShapefile(shp, js.PointSet, js.Bands, js.Samples)
}

// 将连接产物写为csv
func (g *Toolbox) WriteJoinedCSV(path string, js *JoinedSet) error {
	return g.WritePointCSV(path, js.PointSet, js.Bands, js.Samples)
}
