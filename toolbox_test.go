package geovec

import (
	"math"
	"testing"
)

func TestTransformWktRoundTrip(t *testing.T) {
	g := NewToolbox()
	if g == nil {
		t.Fatal()
	}
	span := Bounds{MinX: 113.695688629, MaxX: 115.075725846, MinY: 29.971802123, MaxY: 31.360788281}
	wkt := BoundsToWkt(span)
	mid, err := g.TransformWkt(wkt, UNIVERSAL_SRID, WEB_MERCATOR_SRID)
	if err != nil {
		t.Fatal(err)
	}
	back, err := g.TransformWkt(mid, WEB_MERCATOR_SRID, UNIVERSAL_SRID)
	if err != nil {
		t.Fatal(err)
	}
	got, err := g.GetWktSpan(back, UNIVERSAL_SRID)
	if err != nil {
		t.Fatal(err)
	}
	const eps = 1e-6
	if math.Abs(got.MinX-span.MinX) > eps || math.Abs(got.MaxX-span.MaxX) > eps ||
		math.Abs(got.MinY-span.MinY) > eps || math.Abs(got.MaxY-span.MaxY) > eps {
		t.Fatalf("round trip drifted: %+v vs %+v", got, span)
	}
}

func TestCheckWkt(t *testing.T) {
	g := NewToolbox()
	if err := g.CheckWkt(PointsToWkt(110, 111, 30, 31), 4326); err != nil {
		t.Fatal(err)
	}
	if err := g.CheckWkt("POLYGON((garbage))", 4326); err == nil {
		t.Fatal("expected invalid wkt error")
	}
}

func TestGetWktSpan(t *testing.T) {
	g := NewToolbox()
	span, err := g.GetWktSpan(PointsToWkt(110, 111, 30, 31), 4326)
	if err != nil {
		t.Fatal(err)
	}
	if span.MinX != 110 || span.MaxX != 111 || span.MinY != 30 || span.MaxY != 31 {
		t.Fatalf("wrong span: %+v", span)
	}
}
