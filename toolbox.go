package geovec

import (
	"strconv"
	"strings"
	"sync"

	"github.com/wgs84lab/geovec/log"
	"github.com/wgs84lab/geovec/utils"

	"github.com/lukeroth/gdal"
	"go.uber.org/zap"
)

// 矢量/栅格处理工具箱，缓存坐标系对象，持有临时目录与重采样配置
type Toolbox struct {
	refMap     map[int]gdal.SpatialReference
	rLock      sync.Mutex
	tmpDir     string
	resampling string
	logTag     string
}

// 由GDAL库C语言创建的内存对象，需要手动调用Destroy回收
type destroyable interface {
	Destroy()
}

var (
	emptyGeometry = gdal.Geometry{}
)

// 初始化工具箱，配置可选（未提供时读取环境变量）
func NewToolbox(cfg ...Config) *Toolbox {
	c := Config{}
	if len(cfg) > 0 {
		c = cfg[0]
	} else if ec, err := ConfigFromEnv(); err == nil {
		c = ec
	}
	if c.Resampling == "" {
		c.Resampling = ResampleBilinear
	}
	if c.LogLevel != "" {
		log.Setup(c.LogLevel)
	}
	return &Toolbox{
		refMap:     map[int]gdal.SpatialReference{},
		tmpDir:     c.TmpDir,
		resampling: c.Resampling,
		logTag:     "Toolbox:",
	}
}

// 获取srid对应的坐标系（可复用，故无需回收）
func (g *Toolbox) getSridRef(srid int) (ref gdal.SpatialReference, err error) {
	g.rLock.Lock()
	defer g.rLock.Unlock()
	ref, ok := g.refMap[srid]
	if ok {
		return
	}
	ref = gdal.CreateSpatialReference("")
	if err = ref.FromEPSG(srid); err != nil {
		log.Error(g.logTag+"set ref srid failed", zap.Int("srid", srid), zap.Error(err))
		ref.Destroy()
		return
	}
	// 数据轴次序固定为(经度,纬度)传统GIS坐标序，避免转换时次序倒置
	ref.SetAxisMappingStrategy(gdal.OAMS_TraditionalGisOrder)
	g.refMap[srid] = ref
	return
}

func (g *Toolbox) getSrid(sp gdal.SpatialReference) (srid int, err error) {
	wkt, _ := sp.ToWKT()
	rawId, ok := sp.AttrValue("AUTHORITY", 1)
	if !ok {
		if strings.Contains(wkt, "CGCS_2000") {
			rawId = "4490"
		} else {
			err = ErrVoidSrid
			return
		}
	}
	srid, err = strconv.Atoi(rawId)
	log.Debug(g.logTag+"got srid from sp", zap.String("id", rawId))
	return
}

// 从WKT文本解析出srid（栅格侧拿到投影WKT后复用矢量侧的解析）
func (g *Toolbox) sridOfWkt(projWkt string) (srid int, err error) {
	if projWkt == "" {
		err = ErrVoidSrid
		return
	}
	sp := gdal.CreateSpatialReference(projWkt)
	defer sp.Destroy()
	return g.getSrid(sp)
}

func (g *Toolbox) parseWKB(wkb GdalGeo, ref gdal.SpatialReference) (ret gdal.Geometry, err error) {
	ret, err = gdal.CreateFromWKB(wkb, ref, len(wkb))
	if err != nil {
		log.Error(g.logTag+"parse wkb failed", zap.Error(err))
	}
	return
}

func (g *Toolbox) parseWKT(wkt string, ref gdal.SpatialReference) (ret gdal.Geometry, err error) {
	ret, err = gdal.CreateFromWKT(wkt, ref)
	if err != nil {
		log.Error(g.logTag+"parse wkt failed", zap.Error(err))
		err = ErrInvalidWKT
	}
	return
}

// 转换WKT坐标系
func (g *Toolbox) TransformWkt(wkt string, srid, tSrid int) (ret string, err error) {
	if tSrid == srid {
		ret = wkt
		return
	}
	ref, err := g.getSridRef(srid)
	if err != nil {
		return
	}
	tRef, err := g.getSridRef(tSrid)
	if err != nil {
		return
	}
	geo, err := g.parseWKT(wkt, ref)
	if err != nil {
		return
	}
	defer geo.Destroy()
	if err = geo.TransformTo(tRef); err != nil {
		log.Error(g.logTag+"geo transform failed", zap.Error(err))
		return
	}
	ret, err = geo.ToWKT()
	return
}

// 检查WKT有效性
func (g *Toolbox) CheckWkt(wkt string, srid int) (err error) {
	ref, err := g.getSridRef(srid)
	if err != nil {
		return
	}
	geo, err := g.parseWKT(wkt, ref)
	if err != nil {
		return
	}
	geo.Destroy()
	return
}

// 获取WKT经纬度范围
func (g *Toolbox) GetWktSpan(wkt string, srid int) (span Bounds, err error) {
	ref, err := g.getSridRef(srid)
	if err != nil {
		return
	}
	geo, err := g.parseWKT(wkt, ref)
	if err != nil {
		return
	}
	defer geo.Destroy()
	envelop := geo.Envelope()
	span.MinX = envelop.MinX()
	span.MaxX = envelop.MaxX()
	span.MinY = envelop.MinY()
	span.MaxY = envelop.MaxY()
	return
}

// WKT转GeoJSON（cutline等场景需要落地GeoJSON文件）
func (g *Toolbox) wktToGeoJSON(wkt string, srid int) (ret AnyJson, err error) {
	ref, err := g.getSridRef(srid)
	if err != nil {
		return
	}
	geo, err := g.parseWKT(wkt, ref)
	if err != nil {
		return
	}
	ret = utils.S2B(geo.ToJSON())
	geo.Destroy()
	return
}
