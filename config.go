package geovec

import (
	"github.com/caarlos0/env/v11"
)

const (
	FILE_EXT_SHP     = ".shp"
	FILE_EXT_JSON    = ".json"
	FILE_EXT_GEOJSON = ".geojson"

	SHAPE_ENCODING      = "UTF-8"
	ZH_ENC              = "GBK"
	SHP_DRIVER_NAME     = "ESRI Shapefile"
	GEOJSON_DRIVER_NAME = "GeoJSON"
	ENCODING_OPTION     = "ENCODING=" + SHAPE_ENCODING
	OO_ENCODING         = "ENCODING=" + ZH_ENC

	UNIVERSAL_SRID    = 4326
	WEB_MERCATOR_SRID = 3857

	ResampleNear     = "near"
	ResampleBilinear = "bilinear"
	ResampleCubic    = "cubic"

	// 网格对齐比较容差
	GridAlignEps = 1e-9

	ErrColumnMissingTemplate   = `矢量文件中缺失【%s】字段`
	ErrColumnEmptyTemplate     = `矢量文件要素中【%s】字段为空`
	ErrColumnBadNumberTemplate = `矢量文件中【%s】字段不是合法数值`

	TMP_GEOJSON = "geo_%s.json"
	TMP_VRT     = "stack_%s.vrt"
)

// 运行配置，均可由环境变量覆盖
type Config struct {
	TmpDir     string `env:"GEOVEC_TMP_DIR"`
	Resampling string `env:"GEOVEC_RESAMPLING" envDefault:"bilinear"`
	LogLevel   string `env:"GEOVEC_LOG_LEVEL" envDefault:"info"`
}

func ConfigFromEnv() (cfg Config, err error) {
	err = env.Parse(&cfg)
	return
}
