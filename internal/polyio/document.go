package polyio

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/osuushi/convexify/advanced"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Output formats
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Coord is a point as an [x, y] pair. It is written on one line in YAML.
type Coord [2]float64

func (c Coord) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{}
	if err := node.Encode([]float64{c[0], c[1]}); err != nil {
		return nil, err
	}
	node.Style = yaml.FlowStyle
	return node, nil
}

func (c Coord) Point() *advanced.Point {
	return &advanced.Point{X: c[0], Y: c[1]}
}

func CoordOf(p *advanced.Point) Coord {
	return Coord{p.X, p.Y}
}

func Coords(points []*advanced.Point) []Coord {
	coords := make([]Coord, len(points))
	for i, p := range points {
		coords[i] = CoordOf(p)
	}
	return coords
}

func Points(coords []Coord) []*advanced.Point {
	points := make([]*advanced.Point, len(coords))
	for i, c := range coords {
		points[i] = c.Point()
	}
	return points
}

// Failure describes a piece that could not be made convex.
type Failure struct {
	Piece   int     `yaml:"piece" json:"piece"`
	Vertex  int     `yaml:"vertex" json:"vertex"`
	Point   *Coord  `yaml:"point,omitempty" json:"point,omitempty"`
	Polygon []Coord `yaml:"polygon" json:"polygon"`
	Kind    string  `yaml:"kind" json:"kind"`
	Error   string  `yaml:"error" json:"error"`
}

type Stats struct {
	Rounds        int `yaml:"rounds" json:"rounds"`
	Splits        int `yaml:"splits" json:"splits"`
	SteinerPoints int `yaml:"steiner_points" json:"steiner_points"`
}

// Document is the serialized form of a decomposition.
type Document struct {
	Polygons [][]Coord `yaml:"polygons" json:"polygons"`
	Failures []Failure `yaml:"failures,omitempty" json:"failures,omitempty"`
	Stats    Stats     `yaml:"stats" json:"stats"`
}

func NewDocument(result *advanced.Result) *Document {
	doc := &Document{
		Polygons: make([][]Coord, len(result.Polygons)),
		Stats:    Stats(result.Stats),
	}
	for i, poly := range result.Polygons {
		doc.Polygons[i] = Coords(poly.Points)
	}
	for _, failure := range result.Failures {
		doc.Failures = append(doc.Failures, NewFailure(failure))
	}
	return doc
}

func NewFailure(err *advanced.PieceError) Failure {
	failure := Failure{
		Piece:   err.Piece,
		Vertex:  err.Vertex,
		Polygon: Coords(err.Polygon.Points),
		Kind:    ErrorKind(err),
		Error:   err.Error(),
	}
	if err.Point != nil {
		c := CoordOf(err.Point)
		failure.Point = &c
	}
	return failure
}

// ErrorKind gives a short stable name for the sentinel behind err.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, advanced.ErrInvalidPolygon):
		return "invalid_polygon"
	case errors.Is(err, advanced.ErrNoVisiblePoint):
		return "no_visible_point"
	case errors.Is(err, advanced.ErrDegenerateSplit):
		return "degenerate_split"
	case errors.Is(err, advanced.ErrParallelLines):
		return "parallel_lines"
	case errors.Is(err, advanced.ErrDepthExceeded):
		return "depth_exceeded"
	}
	return "internal"
}

// Encode writes the document as yaml, json or text. The text format lists one
// "x y" point per line with a blank line between polygons, so that each
// polygon can be fed back in as input. Failed pieces are not part of the text
// format.
func (doc *Document) Encode(w io.Writer, format string) error {
	switch format {
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(doc); err != nil {
			return errors.Wrap(err, "encoding yaml")
		}
		return errors.Wrap(encoder.Close(), "encoding yaml")
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return errors.Wrap(encoder.Encode(doc), "encoding json")
	case FormatText:
		for i, poly := range doc.Polygons {
			if i > 0 {
				if _, err := fmt.Fprintln(w); err != nil {
					return errors.Wrap(err, "writing text")
				}
			}
			for _, c := range poly {
				if _, err := fmt.Fprintf(w, "%s %s\n", formatFloat(c[0]), formatFloat(c[1])); err != nil {
					return errors.Wrap(err, "writing text")
				}
			}
		}
		return nil
	}
	return errors.Wrapf(ErrFormat, "output format %q", format)
}

// Shortest representation that parses back to the same value
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
