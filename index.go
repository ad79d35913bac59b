package geovec

import (
	"sort"

	"github.com/dhconnelly/rtreego"
)

// R树点要素索引，供范围过滤走O(log n)查询
type featureIndex struct {
	rtree *rtreego.Rtree
}

type indexedPoint struct {
	i int
	p Feature
}

// 点要素零面积，R树要求非零边长，给一个极小的包围盒
const pointRectEps = 1e-9

func (ip *indexedPoint) Bounds() rtreego.Rect {
	rect, _ := rtreego.NewRect(rtreego.Point{ip.p.X, ip.p.Y}, []float64{pointRectEps, pointRectEps})
	return rect
}

func buildIndex(ps *PointSet) *featureIndex {
	rtree := rtreego.NewTree(2, 25, 50)
	for i := range ps.Points {
		rtree.Insert(&indexedPoint{i: i, p: ps.Points[i]})
	}
	return &featureIndex{rtree: rtree}
}

// 按范围过滤点集，结果为满足谓词的严格子集，原序保持
func (ps *PointSet) FilterByBounds(b Bounds) *PointSet {
	if ps.idx == nil {
		ps.idx = buildIndex(ps)
	}
	// 退化成线/点的查询框给极小边长，R树不接受零边长
	lx, ly := b.MaxX-b.MinX, b.MaxY-b.MinY
	if lx < pointRectEps {
		lx = pointRectEps
	}
	if ly < pointRectEps {
		ly = pointRectEps
	}
	queryRect, _ := rtreego.NewRect(rtreego.Point{b.MinX, b.MinY}, []float64{lx, ly})
	spatials := ps.idx.rtree.SearchIntersect(queryRect)
	kept := make([]int, 0, len(spatials))
	for _, s := range spatials {
		ip := s.(*indexedPoint)
		// R树返回包围盒相交的候选，这里再精确校验
		if b.Contains(ip.p.X, ip.p.Y) {
			kept = append(kept, ip.i)
		}
	}
	sort.Ints(kept)
	ret := &PointSet{
		SRID:   ps.SRID,
		Fields: ps.Fields,
		Points: make([]Feature, len(kept)),
	}
	for j, i := range kept {
		ret.Points[j] = ps.Points[i]
	}
	return ret
}
