package polyio

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/JoshVarga/svgparser"
	"github.com/osuushi/convexify/advanced"
	"github.com/pkg/errors"
)

// Input formats
const (
	FormatAuto = "auto"
	FormatText = "text"
	FormatSVG  = "svg"
)

var ErrFormat = errors.New("unknown format")

// Read parses a polygon in the given input format. FormatAuto picks SVG for
// input starting with '<' and text otherwise.
func Read(r io.Reader, format string) ([]*advanced.Point, error) {
	switch format {
	case FormatText:
		return ReadText(r)
	case FormatSVG:
		return ReadSVG(r)
	case FormatAuto, "":
	default:
		return nil, errors.Wrapf(ErrFormat, "input format %q", format)
	}

	buffered := bufio.NewReader(r)
	for {
		b, err := buffered.Peek(1)
		if err != nil {
			// Empty input; let the text reader produce the error
			return ReadText(buffered)
		}
		switch b[0] {
		case ' ', '\t', '\r', '\n':
			buffered.ReadByte()
			continue
		case '<':
			return ReadSVG(buffered)
		}
		return ReadText(buffered)
	}
}

// ReadText reads newline separated points in the form "x y" or "x,y". Blank
// lines and lines starting with '#' are ignored.
func ReadText(r io.Reader) ([]*advanced.Point, error) {
	var points []*advanced.Point
	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		p, err := parsePoint(strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		}))
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNumber)
		}
		points = append(points, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading points")
	}
	if len(points) == 0 {
		return nil, errors.New("no points in input")
	}
	return points, nil
}

// ReadSVG takes the points of the only <polygon> (or <polyline>) element in
// an SVG document. Transforms are ignored.
func ReadSVG(r io.Reader) ([]*advanced.Point, error) {
	root, err := svgparser.Parse(r, true)
	if err != nil {
		return nil, errors.Wrap(err, "parsing svg")
	}

	elements := append(root.FindAll("polygon"), root.FindAll("polyline")...)
	if len(elements) != 1 {
		return nil, errors.Errorf("expected exactly one polygon in svg, found %d", len(elements))
	}

	fields := strings.FieldsFunc(elements[0].Attributes["points"], func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields)%2 != 0 {
		return nil, errors.Errorf("odd number of coordinates in svg points: %d", len(fields))
	}
	points := make([]*advanced.Point, 0, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		p, err := parsePoint(fields[i : i+2])
		if err != nil {
			return nil, errors.Wrapf(err, "svg point %d", i/2)
		}
		points = append(points, p)
	}
	if len(points) == 0 {
		return nil, errors.New("no points in svg polygon")
	}
	return points, nil
}

func parsePoint(fields []string) (*advanced.Point, error) {
	if len(fields) != 2 {
		return nil, errors.Errorf("expected 2 coordinates, got %d", len(fields))
	}
	x, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid x value %q", fields[0])
	}
	y, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid y value %q", fields[1])
	}
	return &advanced.Point{X: x, Y: y}, nil
}

