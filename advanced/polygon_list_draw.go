package advanced

import (
	"image"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	imgcat "github.com/martinlindhe/imgcat/lib"
	"github.com/pkg/errors"
)

// Padding around the drawing, in pixels
const drawPadding = 20

// Longest side of the drawing, in pixels, not counting padding
const maxDrawSize = 4096

// Render draws the pieces filled, with their outlines stroked on top so the
// split lines are visible. Scale is pixels per unit, lowered if needed so the
// drawing fits in maxDrawSize.
func (pl PolygonList) Render(scale float64) image.Image {
	var minX, minY, maxX, maxY float64
	minX = math.Inf(1)
	minY = math.Inf(1)
	maxX = math.Inf(-1)
	maxY = math.Inf(-1)
	for _, poly := range pl {
		for _, p := range poly.Points {
			minX = math.Min(minX, p.X)
			minY = math.Min(minY, p.Y)
			maxX = math.Max(maxX, p.X)
			maxY = math.Max(maxY, p.Y)
		}
	}
	if math.IsInf(minX, 1) {
		minX, minY, maxX, maxY = 0, 0, 0, 0
	}

	if extent := math.Max(maxX-minX, maxY-minY); scale*extent > maxDrawSize {
		scale = maxDrawSize / extent
	}

	// Set up the context
	width := int(math.Round(scale*(maxX-minX))) + drawPadding*2
	height := int(math.Round(scale*(maxY-minY))) + drawPadding*2
	c := gg.NewContext(width, height)
	c.SetRGB(0, 0, 0)
	c.DrawRectangle(0, 0, float64(width), float64(height))
	c.Fill()

	// Flip the context so the origin is at the bottom left
	c.Translate(0, float64(height))
	c.Scale(1, -1)
	c.Translate(drawPadding, drawPadding)
	c.Scale(scale, scale)
	c.Translate(-minX, -minY)

	for i, poly := range pl {
		if len(poly.Points) == 0 {
			continue
		}
		c.MoveTo(poly.Points[0].X, poly.Points[0].Y)
		for _, p := range poly.Points[1:] {
			c.LineTo(p.X, p.Y)
		}
		c.ClosePath()
		// Alternate shades so neighboring pieces can be told apart
		shade := 0.35 + 0.3*float64(i%2)
		c.SetRGB(0, shade, 0)
		c.FillPreserve()
		c.SetRGB(0, 1, 1)
		// Line width is in user space, so undo the scale
		c.SetLineWidth(2 / scale)
		c.Stroke()
	}
	return c.Image()
}

// DrawPNG renders the pieces as a PNG.
func (pl PolygonList) DrawPNG(w io.Writer, scale float64) error {
	if scale <= 0 {
		return errors.Errorf("scale must be positive, got %g", scale)
	}
	c := gg.NewContextForImage(pl.Render(scale))
	return errors.Wrap(c.EncodePNG(w), "encoding png")
}

// SavePNG renders the pieces to a PNG file.
func (pl PolygonList) SavePNG(path string, scale float64) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating png")
	}
	defer f.Close()
	return pl.DrawPNG(f, scale)
}

// Cat prints the pieces to a terminal that supports inline images (iTerm).
func (pl PolygonList) Cat(w io.Writer, scale float64) error {
	dir, err := os.MkdirTemp("", "convexify")
	if err != nil {
		return errors.Wrap(err, "creating temp dir")
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "pieces.png")
	if err := pl.SavePNG(path, scale); err != nil {
		return err
	}
	return errors.Wrap(imgcat.CatFile(path, w), "printing image")
}

