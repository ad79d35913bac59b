package geovec

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gridPointSet(n int) *PointSet {
	ps := &PointSet{SRID: UNIVERSAL_SRID, Fields: []string{"name"}}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			ps.Points = append(ps.Points, Feature{
				X:     float64(i),
				Y:     float64(j),
				Attrs: map[string]string{"name": fmt.Sprintf("p_%d_%d", i, j)},
			})
		}
	}
	return ps
}

func TestFilterByBounds(t *testing.T) {
	ps := gridPointSet(10)
	b := Bounds{MinX: 2, MinY: 3, MaxX: 4.5, MaxY: 5}
	out := ps.FilterByBounds(b)

	require.NotEmpty(t, out.Points)
	assert.Less(t, len(out.Points), len(ps.Points), "filter must be a strict subset")
	for _, p := range out.Points {
		assert.True(t, b.Contains(p.X, p.Y), "point %+v escapes bounds", p)
	}
	// 3 x values (2,3,4) * 3 y values (3,4,5)
	assert.Len(t, out.Points, 9)
}

func TestFilterByBoundsKeepsOrder(t *testing.T) {
	ps := gridPointSet(6)
	out := ps.FilterByBounds(Bounds{MinX: 0, MinY: 0, MaxX: 5, MaxY: 5})
	require.Len(t, out.Points, len(ps.Points))
	for i := range out.Points {
		assert.Equal(t, ps.Points[i].Attrs["name"], out.Points[i].Attrs["name"], "order drift at %d", i)
	}
}

func TestFilterByBoundsDegenerate(t *testing.T) {
	ps := gridPointSet(10)
	// 宽度为零的查询框（一条经线）仍须命中线上的点
	out := ps.FilterByBounds(Bounds{MinX: 3, MinY: 0, MaxX: 3, MaxY: 9})
	require.Len(t, out.Points, 10)
	for _, p := range out.Points {
		assert.Equal(t, 3.0, p.X)
	}

	// 单点查询框
	one := ps.FilterByBounds(Bounds{MinX: 5, MinY: 7, MaxX: 5, MaxY: 7})
	require.Len(t, one.Points, 1)
	assert.Equal(t, "p_5_7", one.Points[0].Attrs["name"])
}

func TestFilterByBoundsEmpty(t *testing.T) {
	ps := gridPointSet(4)
	out := ps.FilterByBounds(Bounds{MinX: 100, MinY: 100, MaxX: 101, MaxY: 101})
	assert.Empty(t, out.Points)
	assert.Equal(t, ps.SRID, out.SRID)
}
