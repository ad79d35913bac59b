package geovec

import "encoding/json"

type AnyJson = json.RawMessage

type GdalGeo = []byte

// 点要素：坐标 + 属性名到属性值的映射
type Feature struct {
	X, Y  float64
	Attrs map[string]string
}

// 点矢量数据集，所有要素共享同一坐标系
type PointSet struct {
	SRID   int
	Fields []string
	Points []Feature

	idx *featureIndex // 惰性构建的空间索引
}

// 经纬度范围
type Bounds struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

func (b Bounds) Contains(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// 栅格网格定义：尺寸 + 仿射变换 + 坐标系
type GridStructure struct {
	SizeX, SizeY int
	Bands        int
	GeoTransform [6]float64
	SRID         int
}

// 两个栅格是否共享同一网格（可堆叠的前提）
func (g GridStructure) SameGridAs(o GridStructure) bool {
	if g.SizeX != o.SizeX || g.SizeY != o.SizeY || g.SRID != o.SRID {
		return false
	}
	for i := range g.GeoTransform {
		if !almostEqual(g.GeoTransform[i], o.GeoTransform[i]) {
			return false
		}
	}
	return true
}

// 网格覆盖范围（与仿射符号无关，min/max已排好）
func (g GridStructure) Extent() (b Bounds) {
	gt := g.GeoTransform
	x0, y0 := gt[0], gt[3]
	x1 := gt[0] + float64(g.SizeX)*gt[1] + float64(g.SizeY)*gt[2]
	y1 := gt[3] + float64(g.SizeX)*gt[4] + float64(g.SizeY)*gt[5]
	b.MinX, b.MaxX = minMax(x0, x1)
	b.MinY, b.MaxY = minMax(y0, y1)
	return
}

// 堆叠输入：单波段栅格 + 属性名
type StackLayer struct {
	Raster *Raster
	Name   string
}

func minMax(a, b float64) (float64, float64) {
	if a > b {
		return b, a
	}
	return a, b
}

func almostEqual(a, b float64) bool {
	d := a - b
	return d < GridAlignEps && d > -GridAlignEps
}
