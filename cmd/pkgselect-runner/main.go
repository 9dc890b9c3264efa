// Package main is the runner that pkgselect aliases resolve to in runner
// mode. It picks the package for the current working directory and runs its
// executable in place.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/fatih/color"

	"github.com/thoreinstein/pkgselect/internal/config"
	"github.com/thoreinstein/pkgselect/internal/errors"
	"github.com/thoreinstein/pkgselect/internal/logging"
	"github.com/thoreinstein/pkgselect/internal/pkgconfig"
	"github.com/thoreinstein/pkgselect/internal/runner"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, argv []string, stdin io.Reader, stdout, stderr io.Writer) int {
	level := slog.LevelWarn
	if os.Getenv("PKGSELECT_DEBUG") != "" {
		level = slog.LevelDebug
	}
	logger := logging.New(logging.Config{Level: level, Output: stderr})
	ctx = logging.NewContext(ctx, logger)

	fail := func(err error) int {
		fmt.Fprintln(stderr, color.New(color.FgHiRed).Sprint("pkgselect-runner: "+err.Error()))
		return errors.ExitSystem
	}

	var arg0 string
	if len(argv) > 0 {
		arg0 = argv[0]
	}
	alias, err := runner.AliasPath(arg0)
	if err != nil {
		return fail(err)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return fail(errors.Wrap(err, "reading working directory"))
	}

	config.Init()
	settings, err := config.Load("")
	if err != nil {
		return fail(err)
	}
	cfg, ok, err := pkgconfig.NewStore(settings.CatalogPath()).LoadIfExists()
	if err != nil {
		return fail(err)
	}
	if !ok {
		return fail(errors.Newf("no catalog at %s", settings.CatalogPath()))
	}
	logger.Debug("resolving", "alias", alias, "cwd", cwd, "catalog", settings.CatalogPath())

	target, err := runner.Resolve(cfg, alias, cwd)
	if err != nil {
		return fail(err)
	}

	r := &runner.Runner{Stdin: stdin, Stdout: stdout, Stderr: stderr}
	code, err := r.Run(ctx, target, argv[min(1, len(argv)):])
	if err != nil {
		return fail(err)
	}
	return code
}
