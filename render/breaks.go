package render

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// 数值列的分位数断点，classes个等频区间返回classes-1个断点
func QuantileBreaks(vals []float64, classes int) []float64 {
	if classes < 2 || len(vals) == 0 {
		return nil
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	breaks := make([]float64, classes-1)
	for i := 1; i < classes; i++ {
		breaks[i-1] = stat.Quantile(float64(i)/float64(classes), stat.Empirical, sorted, nil)
	}
	return breaks
}

// 数值落入的区间序号，0起始，共len(breaks)+1个区间
func Classify(v float64, breaks []float64) int {
	for i, b := range breaks {
		if v <= b {
			return i
		}
	}
	return len(breaks)
}

// 按分位区间给点打分类标签，无离散类别时用于静态图着色
func ClassifyPoints(pts []SymbolPoint, classes int) []SymbolPoint {
	vals := make([]float64, len(pts))
	for i, p := range pts {
		vals[i] = p.Value
	}
	breaks := QuantileBreaks(vals, classes)
	out := make([]SymbolPoint, len(pts))
	for i, p := range pts {
		p.Category = fmt.Sprintf("q%d", Classify(p.Value, breaks)+1)
		out[i] = p
	}
	return out
}
