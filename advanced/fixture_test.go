package advanced

import (
	"embed"
	"log"
	"math"
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"github.com/JoshVarga/svgparser"
)

// This file parses the svg fixtures and outputs point lists. This is not a
// full (or even correct) svg parser. It finds the single polygon element and
// returns its points in document order. If anything goes wrong, it bails.
//
// Fixtures are available by name in the fixtures/ directory, sans extension.

//go:embed fixtures
var fixtures embed.FS

func LoadFixture(name string) []*Point {
	fixture, err := fixtures.Open("fixtures/" + name + ".svg")
	if err != nil {
		log.Fatalf("Could not load fixture %q: %v", name, err)
	}

	defer fixture.Close()
	rootEl, err := svgparser.Parse(fixture, true)
	if err != nil {
		log.Fatalf("Failed to parse fixture %q: %v", name, err)
	}

	polygons := rootEl.FindAll("polygon")
	if len(polygons) != 1 {
		log.Fatalf("Expected exactly one polygon in fixture %q, found %d", name, len(polygons))
	}

	var points []*Point
	for _, pointString := range strings.Fields(polygons[0].Attributes["points"]) {
		coords := strings.Split(pointString, ",")
		if len(coords) != 2 {
			log.Fatalf("Invalid point string %q", pointString)
		}
		x, err := strconv.ParseFloat(coords[0], 64)
		if err != nil {
			log.Fatalf("Invalid x value %q: %v", coords[0], err)
		}
		y, err := strconv.ParseFloat(coords[1], 64)
		if err != nil {
			log.Fatalf("Invalid y value %q: %v", coords[1], err)
		}
		points = append(points, &Point{x, y})
	}
	return points
}

func points(coords ...float64) []*Point {
	result := make([]*Point, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		result = append(result, &Point{coords[i], coords[i+1]})
	}
	return result
}

// Some ad hoc fixtures

// One reflex vertex at (2, 1), whose extension rays both land on the bottom
// edge.
func Dart() []*Point {
	return points(0, 0, 4, 0, 4, 4, 2, 1, 0, 4)
}

func LShape() []*Point {
	return points(0, 0, 4, 0, 4, 2, 2, 2, 2, 4, 0, 4)
}

func UShape() []*Point {
	return points(0, 0, 6, 0, 6, 4, 4, 4, 4, 2, 2, 2, 2, 4, 0, 4)
}

func Chevron() []*Point {
	return points(0, 0, 10, 10, 0, 20, 5, 10)
}

// The reflex vertex at (0, 5) sees the bottom edge between its extension
// rays, but the wedges coming in from both sides hide the edge's endpoints.
func Notch() []*Point {
	return points(
		-10, 0, 10, 0, 10, 1, 2, 2, 10, 3, 10, 10, 1, 10,
		0, 5,
		-1, 10, -10, 10, -10, 3, -2, 2, -10, 1,
	)
}

func Star(tips int, outerRadius, innerRadius float64) []*Point {
	var points []*Point
	for i := 0; i < 2*tips; i++ {
		radius := outerRadius
		if i%2 == 1 {
			radius = innerRadius
		}
		angle := 2 * math.Pi * float64(i) / float64(2*tips)
		points = append(points, &Point{X: radius * math.Cos(angle), Y: radius * math.Sin(angle)})
	}
	return points
}

func SimpleStar() []*Point {
	return Star(5, 5, 2)
}

// A band wound around the origin, with steps vertices per turn.
func Spiral(turns, steps int) []*Point {
	const inner, width = 1.0, 1.0
	round := func(v float64) float64 {
		return math.Round(v*1e4) / 1e4
	}
	var outside, inside []*Point
	for i := 0; i <= turns*steps; i++ {
		angle := 2 * math.Pi * float64(i) / float64(steps)
		r := inner + 2*width*angle/(2*math.Pi)
		outside = append(outside, &Point{X: round((r + width) * math.Cos(angle)), Y: round((r + width) * math.Sin(angle))})
		inside = append(inside, &Point{X: round(r * math.Cos(angle)), Y: round(r * math.Sin(angle))})
	}
	for i := len(inside) - 1; i >= 0; i-- {
		outside = append(outside, inside[i])
	}
	return outside
}

// Star shaped polygon with n vertices at random angles and radii around the
// origin. Sorting the angles keeps it simple.
func RandomStar(rng *rand.Rand, n int, radius float64) []*Point {
	angles := make([]float64, n)
	for i := range angles {
		angles[i] = 2 * math.Pi * rng.Float64()
	}
	sort.Float64s(angles)
	points := make([]*Point, n)
	for i, angle := range angles {
		r := radius * (0.2 + 0.8*rng.Float64())
		points[i] = &Point{X: r * math.Cos(angle), Y: r * math.Sin(angle)}
	}
	return points
}

// Copy of a point list scaled about the origin and then moved by (dx, dy).
// Scaling by 1e-6 around (7.12, 50.98) gives a field a few meters across in
// latitude and longitude.
func transformed(points []*Point, scale, dx, dy float64) []*Point {
	result := make([]*Point, len(points))
	for i, p := range points {
		result[i] = &Point{X: p.X*scale + dx, Y: p.Y*scale + dy}
	}
	return result
}

// Copy of a point list with the order reversed
func reversed(points []*Point) []*Point {
	result := make([]*Point, len(points))
	for i, p := range points {
		result[len(points)-1-i] = p
	}
	return result
}
