package render

import (
	"io"
	"math"
	"os"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

type InteractiveConfig struct {
	PageTitle string
	Title     string
	Subtitle  string
	// visual map所用数值列的名称（展示用）
	ValueName string
	Points    []SymbolPoint
	// 画幅，零值时取900px见方
	Width, Height string
}

// 输出自包含HTML交互地图：散点按经纬度铺开，数值走visual map着色，
// 可拖拽/缩放，分类单独成系列可在图例上开关
func InteractiveMap(w io.Writer, cfg InteractiveConfig) error {
	var (
		minX, minY = math.Inf(1), math.Inf(1)
		maxX, maxY = math.Inf(-1), math.Inf(-1)
		minV, maxV = math.Inf(1), math.Inf(-1)
	)
	byCat := map[string][]SymbolPoint{}
	for _, p := range cfg.Points {
		byCat[p.Category] = append(byCat[p.Category], p)
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		if !math.IsNaN(p.Value) {
			minV, maxV = math.Min(minV, p.Value), math.Max(maxV, p.Value)
		}
	}
	cats := make([]string, 0, len(byCat))
	for c := range byCat {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	// 边缘留5%空白，贴边的点才看得见
	padX := (maxX - minX) * 0.05
	padY := (maxY - minY) * 0.05
	if padX == 0 {
		padX = 1
	}
	if padY == 0 {
		padY = 1
	}
	if minV > maxV {
		minV, maxV = 0, 1
	}

	width, height := cfg.Width, cfg.Height
	if width == "" {
		width = "900px"
	}
	if height == "" {
		height = "900px"
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: cfg.PageTitle, Width: width, Height: height}),
		charts.WithTitleOpts(opts.Title{Title: cfg.Title, Subtitle: cfg.Subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: minX - padX, Max: maxX + padX, Name: "lon"}),
		charts.WithYAxisOpts(opts.YAxis{Min: minY - padY, Max: maxY + padY, Name: "lat"}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(minV),
			Max:        float32(maxV),
			Text:       []string{cfg.ValueName, ""},
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: viridisRamp},
		}),
		charts.WithDataZoomOpts(
			opts.DataZoom{Type: "inside", XAxisIndex: []int{0}},
			opts.DataZoom{Type: "inside", YAxisIndex: []int{0}},
		),
	)

	hex := CategoryHexColors(len(cats))
	for ci, cat := range cats {
		pts := byCat[cat]
		data := make([]opts.ScatterData, len(pts))
		for i, p := range pts {
			// NaN无法编码进JSON，按echarts缺失值"-"写出
			v := interface{}(p.Value)
			if math.IsNaN(p.Value) {
				v = "-"
			}
			data[i] = opts.ScatterData{Value: []interface{}{p.X, p.Y, v}}
		}
		name := cat
		if name == "" {
			name = "points"
		}
		scatter.AddSeries(name, data,
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: hex[ci]}),
		)
	}
	return scatter.Render(w)
}

// InteractiveMap的落盘形式
func InteractiveMapFile(path string, cfg InteractiveConfig) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return InteractiveMap(f, cfg)
}
