package geovec

import (
	"fmt"

	"github.com/wgs84lab/geovec/log"
	"github.com/wgs84lab/geovec/utils"

	gdal "github.com/airbusgeo/godal"
	"go.uber.org/zap"
)

// 将src重采样到target的网格上（同坐标系、同范围、同分辨率、同像元对齐），
// 输出新栅格，堆叠波段的前置条件。重采样方法未指定时用工具箱配置
func (g *Toolbox) AlignRaster(src, target *Raster, out string, resampling ...string) (ret *Raster, err error) {
	if src.grid.SRID == 0 || target.grid.SRID == 0 {
		err = ErrMissingSRID
		return
	}
	rs := g.resampling
	if len(resampling) > 0 && resampling[0] != "" {
		rs = resampling[0]
	}
	tg := target.grid
	ext := tg.Extent()
	opts := []string{
		"-t_srs", fmt.Sprintf("epsg:%d", tg.SRID),
		"-te", utils.FloatToStr(ext.MinX), utils.FloatToStr(ext.MinY), utils.FloatToStr(ext.MaxX), utils.FloatToStr(ext.MaxY),
		"-ts", fmt.Sprintf("%d", tg.SizeX), fmt.Sprintf("%d", tg.SizeY),
		"-r", rs,
		"-overwrite",
	}
	log.Info(g.logTag+"align raster", zap.String("src", src.Path), zap.String("target", target.Path),
		zap.String("resampling", rs), zap.String("out", out))
	ods, err := gdal.Warp(out, []*gdal.Dataset{src.ds}, opts)
	if err != nil {
		log.Error(g.logTag+"failed to warp raster onto target grid", zap.Error(err))
		return
	}
	if ret, err = g.wrapDataset(out, ods); err != nil {
		return
	}
	// 对齐后必须与目标网格完全一致，否则后续堆叠会错位
	if !ret.grid.SameGridAs(tg) {
		log.Error(g.logTag+"warp result grid differs from target",
			zap.Any("got", ret.grid), zap.Any("want", tg))
		ret.Close()
		ret = nil
		err = ErrGridMismatch
	}
	return
}
