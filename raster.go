package geovec

import (
	"fmt"

	"github.com/wgs84lab/geovec/log"

	gdal "github.com/airbusgeo/godal"
	"go.uber.org/zap"
)

func init() {
	gdal.RegisterAll()
}

// 栅格数据集句柄，持有打开的GDAL数据集与网格定义
type Raster struct {
	Path string
	ds   *gdal.Dataset
	grid GridStructure
}

func (r *Raster) Grid() GridStructure {
	return r.grid
}

func (r *Raster) SRID() int {
	return r.grid.SRID
}

func (r *Raster) Close() {
	if r.ds != nil {
		r.ds.Close()
		r.ds = nil
	}
}

// 打开栅格文件并读取网格定义，源文件缺失坐标系时srid为0
func (g *Toolbox) OpenRaster(tif string) (r *Raster, err error) {
	ds, err := gdal.Open(tif, gdal.RasterOnly())
	if err != nil {
		log.Error(g.logTag+"open tif failed", zap.String("tif", tif), zap.Error(err))
		err = ErrInvalidTif
		return
	}
	r = &Raster{Path: tif, ds: ds}
	if r.grid, err = g.gridOf(ds); err != nil {
		ds.Close()
		r = nil
		return
	}
	log.Info(g.logTag+"opened raster", zap.String("tif", tif), zap.Int("bands", r.grid.Bands),
		zap.Int("width", r.grid.SizeX), zap.Int("height", r.grid.SizeY), zap.Int("srid", r.grid.SRID))
	return
}

func (g *Toolbox) gridOf(ds *gdal.Dataset) (grid GridStructure, err error) {
	st := ds.Structure()
	grid.SizeX = st.SizeX
	grid.SizeY = st.SizeY
	grid.Bands = st.NBands
	if grid.Bands == 0 {
		err = ErrEmptyTif
		return
	}
	if grid.GeoTransform, err = ds.GeoTransform(); err != nil {
		log.Error(g.logTag+"tif has no geotransform", zap.Error(err))
		err = ErrInvalidTif
		return
	}
	if sr := ds.SpatialRef(); sr != nil {
		projWkt, _ := sr.WKT()
		if srid, e := g.sridOfWkt(projWkt); e == nil {
			grid.SRID = srid
		} else {
			log.Warn(g.logTag + "raster has void srid")
		}
	}
	return
}

// 为缺失坐标系的栅格声明srid（只写元数据，不动像元）
func (g *Toolbox) AssignRasterSRID(r *Raster, srid int) (err error) {
	sr, err := gdal.NewSpatialRefFromEPSG(srid)
	if err != nil {
		log.Error(g.logTag+"create raster srid ref failed", zap.Int("srid", srid), zap.Error(err))
		return
	}
	defer sr.Close()
	r.Close()
	ds, err := gdal.Open(r.Path, gdal.RasterOnly(), gdal.Update())
	if err != nil {
		log.Error(g.logTag+"reopen tif for update failed", zap.Error(err))
		err = ErrInvalidTif
		return
	}
	if err = ds.SetSpatialRef(sr); err != nil {
		ds.Close()
		log.Error(g.logTag+"set raster srid failed", zap.Error(err))
		return
	}
	r.ds = ds
	r.grid.SRID = srid
	log.Info(g.logTag+"assigned raster srid", zap.String("tif", r.Path), zap.Int("srid", srid))
	return
}

// 重投影整个栅格到目标坐标系，输出新文件
func (g *Toolbox) ReprojectRaster(r *Raster, tSrid int, out string) (ret *Raster, err error) {
	if r.grid.SRID == 0 {
		err = ErrMissingSRID
		return
	}
	if r.grid.SRID == tSrid {
		ret = r
		return
	}
	log.Info(g.logTag+"reproject raster", zap.String("tif", r.Path), zap.Int("srid", tSrid))
	opts := []string{"-t_srs", fmt.Sprintf("epsg:%d", tSrid), "-r", g.resampling, "-overwrite"}
	ods, err := gdal.Warp(out, []*gdal.Dataset{r.ds}, opts)
	if err != nil {
		log.Error(g.logTag+"failed to warp raster", zap.Error(err))
		return
	}
	return g.wrapDataset(out, ods)
}

func (g *Toolbox) wrapDataset(path string, ds *gdal.Dataset) (r *Raster, err error) {
	r = &Raster{Path: path, ds: ds}
	if r.grid, err = g.gridOf(ds); err != nil {
		ds.Close()
		r = nil
	}
	return
}

// 读取指定波段（1起始）全部像元为float64
func (g *Toolbox) ReadBand(r *Raster, band int) (buf []float64, err error) {
	bands := r.ds.Bands()
	if band < 1 || band > len(bands) {
		err = ErrWrongRasterBand
		return
	}
	b := bands[band-1]
	buf = make([]float64, r.grid.SizeX*r.grid.SizeY)
	if err = b.IO(gdal.IORead, 0, 0, buf, r.grid.SizeX, r.grid.SizeY); err != nil {
		log.Error(g.logTag+"read tif band failed", zap.Int("band", band), zap.Error(err))
		err = ErrTifReadFailed
		buf = nil
	}
	return
}

// 波段NoData值，未定义时ok为false
func (g *Toolbox) BandNoData(r *Raster, band int) (nodata float64, ok bool, err error) {
	bands := r.ds.Bands()
	if band < 1 || band > len(bands) {
		err = ErrWrongRasterBand
		return
	}
	nodata, ok = bands[band-1].NoData()
	return
}
