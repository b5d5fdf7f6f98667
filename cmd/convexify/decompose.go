package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/osuushi/convexify/advanced"
	"github.com/osuushi/convexify/internal/config"
	"github.com/osuushi/convexify/internal/polyio"
	"github.com/pkg/errors"
	"gopkg.in/alecthomas/kingpin.v2"
)

// Flags left at their zero value fall back to the configuration.
type decomposeFlags struct {
	file        *string
	inputFormat *string
	format      *string
	bestEffort  *bool
	workers     *int
	maxDepth    *int
	png         *string
	scale       *float64
	imgcat      *bool
}

func (f *decomposeFlags) register(cmd *kingpin.CmdClause) {
	f.file = cmd.Arg("file", "Polygon file, stdin when omitted.").String()
	f.inputFormat = cmd.Flag("input-format", "auto, text or svg.").Default(polyio.FormatAuto).Enum(polyio.FormatAuto, polyio.FormatText, polyio.FormatSVG)
	f.format = cmd.Flag("format", "Output format: yaml, json or text.").String()
	f.bestEffort = cmd.Flag("best-effort", "Report pieces that cannot be split instead of failing.").Bool()
	f.workers = cmd.Flag("workers", "Pieces planned in parallel.").Int()
	f.maxDepth = cmd.Flag("max-depth", "Round limit.").Int()
	f.png = cmd.Flag("png", "Also render the pieces to this PNG file.").String()
	f.scale = cmd.Flag("scale", "Pixels per unit when rendering.").Float64()
	f.imgcat = cmd.Flag("imgcat", "Print the pieces inline (iTerm).").Bool()
}

func (f *decomposeFlags) apply(cfg *config.Config) error {
	if *f.format != "" {
		cfg.Output.Format = *f.format
	}
	if *f.bestEffort {
		cfg.Decompose.BestEffort = true
	}
	if *f.workers > 0 {
		cfg.Decompose.Workers = *f.workers
	}
	if *f.maxDepth > 0 {
		cfg.Decompose.MaxDepth = *f.maxDepth
	}
	if *f.scale > 0 {
		cfg.Output.Scale = *f.scale
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return config.ValidationErrors(errs)
	}
	return nil
}

func (c *cli) readInput() ([]*advanced.Point, error) {
	var in io.Reader = c.stdin
	if *c.decompose.file != "" && *c.decompose.file != "-" {
		file, err := os.Open(*c.decompose.file)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		in = file
	}
	return polyio.Read(in, *c.decompose.inputFormat)
}

func (c *cli) runDecompose(cfg *config.Config, logger *slog.Logger) error {
	if err := c.decompose.apply(cfg); err != nil {
		return err
	}
	points, err := c.readInput()
	if err != nil {
		return err
	}
	logger.Debug("read polygon", "points", len(points))

	d := advanced.NewDecomposer(
		advanced.WithBestEffort(cfg.Decompose.BestEffort),
		advanced.WithWorkers(cfg.Decompose.Workers),
		advanced.WithMaxDepth(cfg.Decompose.MaxDepth),
		advanced.WithLogger(logger),
	)
	result, err := d.Decompose(points)
	if err != nil {
		var pieceErr *advanced.PieceError
		if errors.As(err, &pieceErr) {
			c.printFailure(pieceErr)
		}
		return err
	}

	if err := polyio.NewDocument(result).Encode(c.stdout, cfg.Output.Format); err != nil {
		return err
	}
	if *c.decompose.png != "" {
		if err := result.Polygons.SavePNG(*c.decompose.png, cfg.Output.Scale); err != nil {
			return err
		}
	}
	if *c.decompose.imgcat {
		if err := result.Polygons.Cat(c.stderr, cfg.Output.Scale); err != nil {
			return err
		}
	}
	c.printSummary(result)
	return nil
}

func (c *cli) printSummary(result *advanced.Result) {
	fmt.Fprintf(c.stderr, "%v pieces, %v splits, %v steiner points, %d rounds\n",
		c.au.Green(len(result.Polygons)),
		c.au.Cyan(result.Stats.Splits),
		c.au.Cyan(result.Stats.SteinerPoints),
		result.Stats.Rounds,
	)
	for _, failure := range result.Failures {
		c.printFailure(failure)
	}
}

func (c *cli) printFailure(err *advanced.PieceError) {
	fmt.Fprintf(c.stderr, "%v %v (%d vertices left)\n",
		c.au.Yellow("unsplit:"), err, len(err.Polygon.Points))
}
