package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/idilsaglam/declutter/internal/app"
	"github.com/idilsaglam/declutter/internal/cli"
	"github.com/idilsaglam/declutter/internal/config"
	"github.com/idilsaglam/declutter/internal/model"
	"github.com/idilsaglam/declutter/internal/ui"
)

func main() {
	// Root flags (apply to every subcommand)
	group := flag.Bool("group", false, "group item lists by pending/decided")
	color := flag.String("color", "", "only show items suggested as red, orange, blue or green")
	yes := flag.Bool("yes", false, "do not ask before resetting")
	noColor := flag.Bool("no-color", false, "disable ANSI colours")
	forceColor := flag.Bool("force-color", false, "use ANSI colours even when not a terminal")

	// Settings flags override the config file and environment.
	settings := map[string]*string{
		"backend":   flag.String("backend", "", "storage backend: json, sqlite or memory"),
		"data-dir":  flag.String("data-dir", "", "directory for stored progress"),
		"catalog":   flag.String("catalog", "", "custom catalogue JSON file"),
		"theme":     flag.String("theme", "", "output theme: classic, neon or mono"),
		"log.level": flag.String("log-level", "", "log level: debug, info, warn or error"),
		"log.file":  flag.String("log-file", "", "write logs to this file"),
	}
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		ui.Fail(os.Stderr, "config: "+err.Error())
		os.Exit(1)
	}
	for key, v := range settings {
		if *v == "" {
			continue
		}
		if err := cfg.Set(key, *v); err != nil {
			ui.Fail(os.Stderr, "flag "+key+": "+err.Error())
			os.Exit(2)
		}
	}

	opt := cli.Options{Group: *group, Yes: *yes}
	if *color != "" {
		c, ok := model.ParseColor(*color)
		if !ok {
			ui.Fail(os.Stderr, "unknown colour: "+*color)
			os.Exit(2)
		}
		opt.Color = c
	}

	ui.SetColorForcing(*forceColor, *noColor || os.Getenv("NO_COLOR") != "")
	ui.SetTheme(cfg.Theme)

	a, err := app.Open(cfg)
	if err != nil {
		ui.Fail(os.Stderr, err.Error())
		os.Exit(1)
	}
	opt.App = a
	if err := a.LoadErr(); err != nil {
		ui.Fail(os.Stderr, "saved progress could not be read; changes will not be saved: "+err.Error())
	}

	// Hand the remaining args to the CLI runner.
	code := cli.Run(flag.Args(), opt)
	if err := a.Close(); err != nil && code == 0 {
		ui.Fail(os.Stderr, "close: "+err.Error())
		code = 1
	}
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
