package geovec

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wgs84lab/geovec/log"
	"github.com/wgs84lab/geovec/utils"

	gdal "github.com/airbusgeo/godal"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 多属性栅格：堆叠后的多波段栅格，属性名与波段一一对应（1起始）
type Stack struct {
	Raster
	names []string
}

// 波段属性名，与波段次序一致
func (s *Stack) Attributes() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

func (s *Stack) bandOf(name string) int {
	for i, n := range s.names {
		if n == name {
			return i + 1
		}
	}
	return 0
}

// 重命名波段属性，纯账面变更，不触碰像元
func (s *Stack) Rename(old, new string) error {
	b := s.bandOf(old)
	if b == 0 {
		return ErrUnknownAttribute
	}
	if s.bandOf(new) != 0 {
		return ErrDupAttribute
	}
	s.names[b-1] = new
	return nil
}

// 将多个已对齐的单波段栅格堆叠为一个多波段栅格。
// 属性名未指定时取文件名。各层网格必须完全一致
func (g *Toolbox) StackRasters(out string, layers []StackLayer) (ret *Stack, err error) {
	if len(layers) == 0 {
		err = ErrEmptyStack
		return
	}
	names := make([]string, len(layers))
	paths := make([]string, len(layers))
	base := layers[0].Raster.grid
	for i, l := range layers {
		if l.Raster.grid.Bands != 1 {
			log.Error(g.logTag+"stack layer must be single band", zap.String("tif", l.Raster.Path),
				zap.Int("bands", l.Raster.grid.Bands))
			err = ErrNotSingleBand
			return
		}
		if !l.Raster.grid.SameGridAs(base) {
			log.Error(g.logTag+"stack layer grid mismatch", zap.String("tif", l.Raster.Path))
			err = ErrGridMismatch
			return
		}
		names[i] = l.Name
		if names[i] == "" {
			names[i] = utils.GetFilenameWithoutExt(l.Raster.Path)
		}
		paths[i] = l.Raster.Path
		for j := 0; j < i; j++ {
			if names[j] == names[i] {
				err = ErrDupAttribute
				return
			}
		}
	}
	log.Info(g.logTag+"stack rasters", zap.Int("layers", len(layers)), zap.String("out", out))
	tmpVrt := filepath.Join(g.tmpDir, fmt.Sprintf(TMP_VRT, uuid.NewString()))
	defer os.Remove(tmpVrt)
	// 各单波段先拼成分波段VRT，再落成最终GTiff
	vds, err := gdal.BuildVRT(tmpVrt, paths, []string{"-separate", "-overwrite"})
	if err != nil {
		log.Error(g.logTag+"failed to build vrt", zap.Error(err))
		return
	}
	ods, err := vds.Translate(out, []string{"-co", "compress=lzw"})
	vds.Close()
	if err != nil {
		log.Error(g.logTag+"failed to translate vrt", zap.Error(err))
		return
	}
	r, err := g.wrapDataset(out, ods)
	if err != nil {
		return
	}
	if r.grid.Bands != len(layers) {
		r.Close()
		err = ErrGridMismatch
		return
	}
	ret = &Stack{Raster: *r, names: names}
	return
}

// 抽取堆叠栅格中选定的属性波段，输出新的堆叠栅格（拆分/子集）
func (g *Toolbox) SelectBands(s *Stack, out string, names ...string) (ret *Stack, err error) {
	if len(names) == 0 {
		err = ErrEmptyStack
		return
	}
	opts := []string{"-co", "compress=lzw"}
	for _, name := range names {
		b := s.bandOf(name)
		if b == 0 {
			err = ErrUnknownAttribute
			return
		}
		opts = append(opts, "-b", fmt.Sprintf("%d", b))
	}
	log.Info(g.logTag+"select stack bands", zap.Any("names", names), zap.String("out", out))
	ods, err := s.ds.Translate(out, opts)
	if err != nil {
		log.Error(g.logTag+"failed to translate bands", zap.Error(err))
		return
	}
	r, err := g.wrapDataset(out, ods)
	if err != nil {
		return
	}
	kept := make([]string, len(names))
	copy(kept, names)
	ret = &Stack{Raster: *r, names: kept}
	return
}

// 按多边形WKT裁剪堆叠栅格（空间谓词过滤像元），wkt须与栅格同坐标系
func (g *Toolbox) ClipStack(s *Stack, wkt string, out string) (ret *Stack, err error) {
	geoJson, err := g.wktToGeoJSON(wkt, s.grid.SRID)
	if err != nil {
		return
	}
	tmpGeoJson := filepath.Join(g.tmpDir, fmt.Sprintf(TMP_GEOJSON, uuid.NewString()))
	if err = os.WriteFile(tmpGeoJson, geoJson, os.ModePerm); err != nil {
		return
	}
	defer os.Remove(tmpGeoJson)
	opts := []string{"-cutline", tmpGeoJson, "-crop_to_cutline", "-overwrite"}
	log.Info(g.logTag+"clip stack", zap.String("tif", s.Path), zap.String("out", out))
	ods, err := gdal.Warp(out, []*gdal.Dataset{s.ds}, opts)
	if err != nil {
		log.Error(g.logTag+"failed to clip raster", zap.Error(err))
		return
	}
	r, err := g.wrapDataset(out, ods)
	if err != nil {
		return
	}
	kept := make([]string, len(s.names))
	copy(kept, s.names)
	ret = &Stack{Raster: *r, names: kept}
	return
}
