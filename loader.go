package geovec

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wgs84lab/geovec/log"
	"github.com/wgs84lab/geovec/utils"

	"github.com/google/uuid"
	"github.com/lukeroth/gdal"
	"go.uber.org/zap"
)

func vectorDriverOf(path string) (name string, err error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case FILE_EXT_SHP:
		name = SHP_DRIVER_NAME
	case FILE_EXT_JSON, FILE_EXT_GEOJSON:
		name = GEOJSON_DRIVER_NAME
	default:
		err = ErrUnsupportedFile
	}
	return
}

// 读取点矢量文件（shp/GeoJSON），属性字段全部带出。
// 源文件缺失坐标系时srid置0，由调用方AssignSRID补齐
func (g *Toolbox) LoadVectorPoints(path string) (ps *PointSet, err error) {
	drvName, err := vectorDriverOf(path)
	if err != nil {
		return
	}
	driver := gdal.OGRDriverByName(drvName)
	ds, ok := driver.Open(path, 0)
	if !ok {
		err = ErrGdalDriverOpen
		return
	}
	defer ds.Destroy()
	layer := ds.LayerByIndex(0)
	srid, e := g.getSrid(layer.SpatialReference())
	if e != nil {
		log.Warn(g.logTag+"vector file with void srid", zap.String("path", path))
		srid = 0
	}
	ps, err = g.parsePointLayer(layer, srid)
	if err != nil {
		return
	}
	log.Info(g.logTag+"loaded vector points", zap.String("path", path),
		zap.Int("srid", srid), zap.Int("points", len(ps.Points)), zap.Int("fields", len(ps.Fields)))
	return
}

// 读取带坐标列的分隔符表格文件。坐标列通过OGR CSV驱动的open option指定，
// 先转成临时GeoJSON再按矢量文件解析，srid为声明坐标系
func (g *Toolbox) LoadPointCSV(csv, xCol, yCol string, srid int) (ps *PointSet, err error) {
	oo := []string{
		"X_POSSIBLE_NAMES=" + xCol,
		"Y_POSSIBLE_NAMES=" + yCol,
		"KEEP_GEOM_COLUMNS=NO",
	}
	sds, err := gdal.OpenEx(csv, gdal.OFVector, []string{"CSV"}, oo, nil)
	if err != nil {
		log.Error(g.logTag+"open csv error", zap.String("csv", csv), zap.Error(err))
		return
	}
	defer sds.Close()
	tmpJson := filepath.Join(g.tmpDir, fmt.Sprintf(TMP_GEOJSON, uuid.NewString()))
	defer os.Remove(tmpJson)
	dds, err := gdal.VectorTranslate(tmpJson, []gdal.Dataset{sds}, []string{"-f", "GeoJSON"})
	if err != nil {
		log.Error(g.logTag+"VectorTranslate failed", zap.String("csv", csv), zap.Error(err))
		return
	}
	dds.Close() // 生成转换后的json文件
	if ps, err = g.LoadVectorPoints(tmpJson); err != nil {
		return
	}
	ps.SRID = srid
	log.Info(g.logTag+"loaded csv points", zap.String("csv", csv), zap.Int("srid", srid), zap.Int("points", len(ps.Points)))
	return
}

// 读取zip包中的点shp。cpg声明非UTF-8时先按GBK整体转码成临时GeoJSON再解析
func (g *Toolbox) LoadShpInZip(zipFile string) (ps *PointSet, err error) {
	dstDir, err := utils.GetUniqSubDir(g.tmpDir)
	if err != nil {
		return
	}
	defer os.RemoveAll(dstDir)
	shp, utf8, err := utils.GetShpInZip(zipFile, dstDir)
	if err != nil {
		log.Error(g.logTag+"extract shp from zip failed", zap.String("zip", zipFile), zap.Error(err))
		return
	}
	if utf8 {
		return g.LoadVectorPoints(shp)
	}
	sds, err := gdal.OpenEx(shp, gdal.OFVector, nil, []string{OO_ENCODING}, nil)
	if err != nil {
		log.Error(g.logTag+"open gbk shp error", zap.String("shp", shp), zap.Error(err))
		return
	}
	defer sds.Close()
	tmpJson := filepath.Join(dstDir, fmt.Sprintf(TMP_GEOJSON, uuid.NewString()))
	dds, err := gdal.VectorTranslate(tmpJson, []gdal.Dataset{sds}, []string{"-f", "GeoJSON"})
	if err != nil {
		log.Error(g.logTag+"VectorTranslate failed", zap.String("shp", shp), zap.Error(err))
		return
	}
	dds.Close()
	return g.LoadVectorPoints(tmpJson)
}

func (g *Toolbox) parsePointLayer(layer gdal.Layer, srid int) (ps *PointSet, err error) {
	def := layer.Definition()
	nf := def.FieldCount()
	fields := make([]string, nf)
	for i := 0; i < nf; i++ {
		fields[i] = utils.EnsureUtf8(def.FieldDefinition(i).Name())
	}
	n := 128
	if cnt, ok := layer.FeatureCount(false); ok && cnt > 0 {
		n = cnt
	}
	ps = &PointSet{
		SRID:   srid,
		Fields: fields,
		Points: make([]Feature, 0, n),
	}
	var (
		feature *gdal.Feature
		geo     gdal.Geometry
		skipped int
		gc      []destroyable
	)
	defer func() {
		for _, v := range gc {
			v.Destroy()
		}
	}()
	for {
		if feature = layer.NextFeature(); feature == nil {
			break
		}
		gc = append(gc, *feature)
		geo = feature.Geometry()
		if geo == emptyGeometry || geo.Type() != gdal.GT_Point {
			skipped++
			continue
		}
		x, y, _ := geo.Point(0)
		attrs := make(map[string]string, nf)
		for i := 0; i < nf; i++ {
			// cpg缺失或声明不实时OGR原样返回字节，这里统一兜底转码
			attrs[fields[i]] = utils.EnsureUtf8(feature.FieldAsString(i))
		}
		ps.Points = append(ps.Points, Feature{X: x, Y: y, Attrs: attrs})
	}
	if skipped > 0 {
		log.Warn(g.logTag+"skipped non-point features", zap.Int("skipped", skipped))
	}
	if len(ps.Points) == 0 {
		err = ErrNotPointLayer
		ps = nil
	}
	return
}

// 为缺失坐标系的点集声明srid（只打标，不换算坐标）
func (g *Toolbox) AssignSRID(ps *PointSet, srid int) (err error) {
	if _, err = g.getSridRef(srid); err != nil {
		return
	}
	ps.SRID = srid
	return
}

// 转换点集坐标系，返回新点集，原序保持
func (g *Toolbox) ReprojectPoints(ps *PointSet, tSrid int) (ret *PointSet, err error) {
	if ps.SRID == 0 {
		err = ErrMissingSRID
		return
	}
	if ps.SRID == tSrid {
		ret = ps
		return
	}
	sRef, err := g.getSridRef(ps.SRID)
	if err != nil {
		return
	}
	tRef, err := g.getSridRef(tSrid)
	if err != nil {
		return
	}
	trans := gdal.CreateCoordinateTransform(sRef, tRef)
	defer trans.Destroy()
	ret = &PointSet{
		SRID:   tSrid,
		Fields: ps.Fields,
		Points: make([]Feature, len(ps.Points)),
	}
	var geo gdal.Geometry
	for i, p := range ps.Points {
		geo = gdal.Create(gdal.GT_Point)
		geo.AddPoint2D(p.X, p.Y)
		if err = geo.Transform(trans); err != nil {
			log.Error(g.logTag+"point transform failed", zap.Int("idx", i), zap.Error(err))
			geo.Destroy()
			ret = nil
			return
		}
		x, y, _ := geo.Point(0)
		geo.Destroy()
		ret.Points[i] = Feature{X: x, Y: y, Attrs: p.Attrs}
	}
	log.Info(g.logTag+"reprojected points", zap.Int("srid", ps.SRID), zap.Int("tSrid", tSrid), zap.Int("points", len(ret.Points)))
	return
}
