// Command convexify splits simple polygons into convex pieces, either once
// from a file or as an HTTP service.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/logrusorgru/aurora"
	"github.com/osuushi/convexify/advanced"
	"github.com/osuushi/convexify/internal/config"
	"github.com/osuushi/convexify/internal/logging"
	"github.com/pkg/errors"
	"gopkg.in/alecthomas/kingpin.v2"
)

type cli struct {
	app    *kingpin.Application
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	au     aurora.Aurora

	configFile *string
	logLevel   *string

	decompose decomposeFlags
	serve     serveFlags
}

func newCLI(stdin io.Reader, stdout, stderr io.Writer) *cli {
	c := &cli{
		app:    kingpin.New("convexify", "Decompose simple polygons into convex pieces."),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		au:     aurora.NewAurora(isTerminal(stderr)),
	}
	c.app.Writer(stderr)
	c.app.Terminate(nil)

	c.configFile = c.app.Flag("config", "YAML configuration file.").String()
	c.logLevel = c.app.Flag("log-level", "One of debug, info, warn, error.").String()

	c.decompose.register(c.app.Command("decompose", "Decompose one polygon read from FILE or stdin."))
	c.serve.register(c.app.Command("serve", "Serve decomposition over HTTP."))
	return c
}

// run parses args and executes the selected command.
func (c *cli) run(args []string) error {
	command, err := c.app.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := config.LoadFile(*c.configFile)
	if err != nil {
		return err
	}
	if *c.logLevel != "" {
		cfg.Logging.Level = *c.logLevel
	}
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	logger := logging.NewWriter(c.stderr, level)
	advanced.SetLogger(logger)

	switch command {
	case "decompose":
		return c.runDecompose(cfg, logger)
	case "serve":
		return c.runServe(cfg, logger)
	}
	return errors.Errorf("unknown command %q", command)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

func main() {
	c := newCLI(os.Stdin, os.Stdout, os.Stderr)
	if err := c.run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, c.au.Red("error:"), err)
		os.Exit(1)
	}
}
