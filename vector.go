package geovec

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/wgs84lab/geovec/log"
	"github.com/wgs84lab/geovec/utils"

	"github.com/lukeroth/gdal"
	"go.uber.org/zap"
)

// 按多边形WKT过滤点集，保留落在多边形内的点，原序保持。
// wktSrid与点集坐标系不同时先转换谓词
func (g *Toolbox) FilterByWkt(ps *PointSet, wkt string, wktSrid int) (ret *PointSet, err error) {
	if ps.SRID == 0 {
		err = ErrMissingSRID
		return
	}
	if wktSrid != ps.SRID {
		if wkt, err = g.TransformWkt(wkt, wktSrid, ps.SRID); err != nil {
			return
		}
	}
	ref, err := g.getSridRef(ps.SRID)
	if err != nil {
		return
	}
	zone, err := g.parseWKT(wkt, ref)
	if err != nil {
		return
	}
	defer zone.Destroy()
	switch zone.Type() {
	case gdal.GT_Polygon, gdal.GT_MultiPolygon:
	default:
		err = ErrInvalidWKT
		return
	}
	ret = g.filterByZone(ps, zone)
	log.Info(g.logTag+"filtered points by wkt", zap.Int("in", len(ps.Points)), zap.Int("out", len(ret.Points)))
	return
}

// 按多边形WKB过滤点集，WKB来自数据库几何列等二进制来源
func (g *Toolbox) FilterByWkb(ps *PointSet, wkb GdalGeo, wkbSrid int) (ret *PointSet, err error) {
	if ps.SRID == 0 {
		err = ErrMissingSRID
		return
	}
	ref, err := g.getSridRef(wkbSrid)
	if err != nil {
		return
	}
	zone, err := g.parseWKB(wkb, ref)
	if err != nil {
		return
	}
	defer zone.Destroy()
	if wkbSrid != ps.SRID {
		tRef, e := g.getSridRef(ps.SRID)
		if e != nil {
			err = e
			return
		}
		if err = zone.TransformTo(tRef); err != nil {
			log.Error(g.logTag+"zone transform failed", zap.Error(err))
			return
		}
	}
	switch zone.Type() {
	case gdal.GT_Polygon, gdal.GT_MultiPolygon:
	default:
		err = ErrInvalidWKT
		return
	}
	ret = g.filterByZone(ps, zone)
	log.Info(g.logTag+"filtered points by wkb", zap.Int("in", len(ps.Points)), zap.Int("out", len(ret.Points)))
	return
}

func (g *Toolbox) filterByZone(ps *PointSet, zone gdal.Geometry) (ret *PointSet) {
	ret = &PointSet{SRID: ps.SRID, Fields: ps.Fields}
	var geo gdal.Geometry
	for _, p := range ps.Points {
		geo = gdal.Create(gdal.GT_Point)
		geo.AddPoint2D(p.X, p.Y)
		if geo.Within(zone) {
			ret.Points = append(ret.Points, p)
		}
		geo.Destroy()
	}
	return
}

// 点集某字段的数值列，与Points同序
func (ps *PointSet) NumericColumn(field string) (vals []float64, err error) {
	if !utils.ContainsAll(ps.Fields, []string{field}) {
		err = fmt.Errorf(ErrColumnMissingTemplate, field)
		return
	}
	vals = make([]float64, len(ps.Points))
	for i, p := range ps.Points {
		raw := p.Attrs[field]
		if raw == "" {
			err = fmt.Errorf(ErrColumnEmptyTemplate, field)
			vals = nil
			return
		}
		v, ok := utils.StrToFloat(raw)
		if !ok {
			err = fmt.Errorf(ErrColumnBadNumberTemplate, field)
			vals = nil
			return
		}
		vals[i] = v
	}
	return
}

func (ps *PointSet) Extent() (b Bounds) {
	for i, p := range ps.Points {
		if i == 0 {
			b = Bounds{MinX: p.X, MaxX: p.X, MinY: p.Y, MaxY: p.Y}
			continue
		}
		if p.X < b.MinX {
			b.MinX = p.X
		}
		if p.X > b.MaxX {
			b.MaxX = p.X
		}
		if p.Y < b.MinY {
			b.MinY = p.Y
		}
		if p.Y > b.MaxY {
			b.MaxY = p.Y
		}
	}
	return
}

func (g *Toolbox) getShpDriver(shp string, srid int) (ds gdal.DataSource, ref gdal.SpatialReference, layer gdal.Layer, err error) {
	log.Info(g.logTag+"output shp files", zap.String("shp", shp), zap.Int("srid", srid))
	driver := gdal.OGRDriverByName(SHP_DRIVER_NAME)
	ds, ok := driver.Create(shp, nil)
	if !ok {
		err = ErrGdalDriverCreate
		return
	}
	if ref, err = g.getSridRef(srid); err != nil {
		return
	}
	layer = ds.CreateLayer("", ref, gdal.GT_Point, []string{ENCODING_OPTION})
	return
}

// 将点集写入shp，属性字段写为文本列，numCols追加为浮点列（与Points同序）
func (g *Toolbox) WritePointShapefile(shp string, ps *PointSet, numNames []string, numCols map[string][]float64) (err error) {
	if len(ps.Points) == 0 {
		err = ErrEmptyPointSet
		return
	}
	if ps.SRID == 0 {
		err = ErrMissingSRID
		return
	}
	ds, _, layer, err := g.getShpDriver(shp, ps.SRID)
	if err != nil {
		return
	}
	defer ds.Destroy() // 生成shp文件 + 释放资源
	for _, name := range ps.Fields {
		fd := gdal.CreateFieldDefinition(name, gdal.FT_String)
		fd.SetWidth(64)
		if err = layer.CreateField(fd, false); err != nil {
			return
		}
	}
	for _, name := range numNames {
		fd := gdal.CreateFieldDefinition(name, gdal.FT_Real)
		if err = layer.CreateField(fd, false); err != nil {
			return
		}
	}
	var (
		def     = layer.Definition()
		feature gdal.Feature
		geo     gdal.Geometry
		valid   int
		e       error
		gc      = make([]destroyable, 0, len(ps.Points))
	)
	defer func() {
		for _, v := range gc {
			v.Destroy()
		}
	}()
	for i, p := range ps.Points {
		feature = def.Create()
		gc = append(gc, feature)
		if e = feature.SetFID(int64(i)); e != nil {
			log.Error(g.logTag+"err in set feature fid", zap.Error(e))
			continue
		}
		for j, name := range ps.Fields {
			feature.SetFieldString(j, p.Attrs[name])
		}
		for j, name := range numNames {
			feature.SetFieldFloat64(len(ps.Fields)+j, numCols[name][i])
		}
		geo = gdal.Create(gdal.GT_Point)
		geo.AddPoint2D(p.X, p.Y)
		if e = feature.SetGeometryDirectly(geo); e != nil {
			log.Error(g.logTag+"err in set geom of feature", zap.Error(e))
			continue
		}
		if e = layer.Create(feature); e != nil {
			log.Error(g.logTag+"err in create feature of layer", zap.Error(e))
			continue
		}
		valid++
	}
	log.Info(g.logTag+"point shp created", zap.String("shp", shp), zap.Int("total", len(ps.Points)), zap.Int("valid", valid))
	return
}

// 将点集写为csv，坐标列在前，属性与数值列其后
func (g *Toolbox) WritePointCSV(path string, ps *PointSet, numNames []string, numCols map[string][]float64) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return
	}
	defer f.Close()
	w := csv.NewWriter(f)
	header := append([]string{"x", "y"}, ps.Fields...)
	header = append(header, numNames...)
	if err = w.Write(header); err != nil {
		return
	}
	row := make([]string, len(header))
	for i, p := range ps.Points {
		row[0] = utils.FloatToStr(p.X)
		row[1] = utils.FloatToStr(p.Y)
		for j, name := range ps.Fields {
			row[2+j] = p.Attrs[name]
		}
		for j, name := range numNames {
			row[2+len(ps.Fields)+j] = utils.FloatToStr(numCols[name][i])
		}
		if err = w.Write(row); err != nil {
			return
		}
	}
	w.Flush()
	err = w.Error()
	log.Info(g.logTag+"point csv created", zap.String("path", path), zap.Int("rows", len(ps.Points)))
	return
}
