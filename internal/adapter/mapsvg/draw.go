package mapsvg

import (
	"fmt"
	"io"
	"math"
	"time"

	svg "github.com/ajstarks/svgo"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// SwitzerlandView is the lon/lat window of the station map.
var SwitzerlandView = orb.Bound{Min: orb.Point{5, 45.5}, Max: orb.Point{11, 48}}

const (
	boundaryStyle = "fill:white;stroke:black;stroke-width:1"
	lineStyle     = "fill:none;stroke:black;stroke-width:1"
	markerStyle   = "stroke:red;stroke-width:1.5"
	gridStyle     = "stroke:#bbbbbb;stroke-width:0.5;stroke-dasharray:2,3"
	labelStyle    = "font-family:sans-serif;font-size:11px;fill:#333333"

	// markerHalf is half the width of an "x" marker in pixels.
	markerHalf = 3

	legendLabel = "stations"
)

// projection maps lon/lat onto pixel space with plate carrée scaling.
type projection struct {
	view   orb.Bound
	width  int
	height int
}

func newProjection(view orb.Bound, width int) projection {
	dx := view.Max.X() - view.Min.X()
	dy := view.Max.Y() - view.Min.Y()
	return projection{
		view:   view,
		width:  width,
		height: int(math.Round(float64(width) * dy / dx)),
	}
}

func (p projection) project(pt orb.Point) (int, int) {
	dx := p.view.Max.X() - p.view.Min.X()
	dy := p.view.Max.Y() - p.view.Min.Y()
	x := (pt.X() - p.view.Min.X()) / dx * float64(p.width)
	y := (p.view.Max.Y() - pt.Y()) / dy * float64(p.height)
	return int(math.Round(x)), int(math.Round(y))
}

func (p projection) projectAll(pts []orb.Point) ([]int, []int) {
	xs := make([]int, len(pts))
	ys := make([]int, len(pts))
	for i, pt := range pts {
		xs[i], ys[i] = p.project(pt)
	}
	return xs, ys
}

// Draw writes the station map as SVG: basemap boundaries, a graticule, one
// red "x" per station point and a legend. Everything outside view is clipped
// by the canvas edge.
func Draw(w io.Writer, basemap, stations *geojson.FeatureCollection, view orb.Bound, width int, generated time.Time) {
	p := newProjection(view, width)

	canvas := svg.New(w)
	canvas.Start(p.width, p.height)
	canvas.Title("IDAweb stations")
	canvas.Desc("generated " + generated.UTC().Format(time.RFC3339))
	canvas.Rect(0, 0, p.width, p.height, "fill:#eef3f7")

	canvas.Gid("basemap")
	for _, f := range basemap.Features {
		if f.Geometry == nil || !f.Geometry.Bound().Intersects(view) {
			continue
		}
		drawGeometry(canvas, p, f.Geometry)
	}
	canvas.Gend()

	drawGraticule(canvas, p)

	canvas.Gid("stations")
	for _, f := range stations.Features {
		pt, ok := f.Geometry.(orb.Point)
		if !ok {
			continue
		}
		x, y := p.project(pt)
		drawMarker(canvas, x, y)
	}
	canvas.Gend()

	drawLegend(canvas, p)
	canvas.End()
}

func drawGeometry(canvas *svg.SVG, p projection, g orb.Geometry) {
	switch g := g.(type) {
	case orb.Polygon:
		for _, ring := range g {
			xs, ys := p.projectAll(ring)
			canvas.Polygon(xs, ys, boundaryStyle)
		}
	case orb.MultiPolygon:
		for _, poly := range g {
			drawGeometry(canvas, p, poly)
		}
	case orb.Ring:
		xs, ys := p.projectAll(g)
		canvas.Polygon(xs, ys, boundaryStyle)
	case orb.LineString:
		xs, ys := p.projectAll(g)
		canvas.Polyline(xs, ys, lineStyle)
	case orb.MultiLineString:
		for _, ls := range g {
			drawGeometry(canvas, p, ls)
		}
	case orb.Collection:
		for _, sub := range g {
			drawGeometry(canvas, p, sub)
		}
	}
}

func drawMarker(canvas *svg.SVG, x, y int) {
	canvas.Line(x-markerHalf, y-markerHalf, x+markerHalf, y+markerHalf, markerStyle)
	canvas.Line(x-markerHalf, y+markerHalf, x+markerHalf, y-markerHalf, markerStyle)
}

// drawGraticule draws meridians every degree and parallels every half degree.
func drawGraticule(canvas *svg.SVG, p projection) {
	canvas.Gid("graticule")
	for lon := math.Ceil(p.view.Min.X()); lon <= p.view.Max.X(); lon++ {
		x, _ := p.project(orb.Point{lon, p.view.Min.Y()})
		canvas.Line(x, 0, x, p.height, gridStyle)
		canvas.Text(x+2, p.height-4, fmt.Sprintf("%g°E", lon), labelStyle)
	}
	for lat := math.Ceil(p.view.Min.Y()*2) / 2; lat <= p.view.Max.Y(); lat += 0.5 {
		_, y := p.project(orb.Point{p.view.Min.X(), lat})
		canvas.Line(0, y, p.width, y, gridStyle)
		canvas.Text(2, y-2, fmt.Sprintf("%g°N", lat), labelStyle)
	}
	canvas.Gend()
}

func drawLegend(canvas *svg.SVG, p projection) {
	x := p.width - 90
	canvas.Gid("legend")
	canvas.Rect(x, 8, 82, 22, "fill:white;stroke:#999999")
	drawMarker(canvas, x+12, 19)
	canvas.Text(x+24, 23, legendLabel, labelStyle)
	canvas.Gend()
}
