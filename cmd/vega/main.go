package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/vega/internal/engine"
	"github.com/funvibe/vega/internal/index"
	"github.com/funvibe/vega/internal/loader"
)

const (
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorReset = "\033[0m"
)

func main() {
	indexPath := flag.String("index", "", "write a symbol index database to this path")
	listSymbols := flag.Bool("symbols", false, "list the symbols of each processed unit")
	flag.Usage = usage
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		usage()
		os.Exit(2)
	}

	useColor := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

	var ix *index.Index
	if *indexPath != "" {
		var err error
		ix, err = index.Open(*indexPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer ix.Close()
	}

	eng := engine.New()
	failed := false

	for _, path := range files {
		if !loader.IsUnitFile(path) {
			fmt.Fprintf(os.Stderr, "%s: not a recognized unit file\n", path)
			failed = true
			continue
		}
		unit, derr := loader.LoadUnit(path)
		if derr != nil {
			reportError(derr, useColor)
			failed = true
			continue
		}

		session := eng.ProcessUnit(unit)
		if session.Ctx.Failed() {
			for _, e := range session.Ctx.Errors {
				reportError(e, useColor)
			}
			failed = true
			continue
		}

		if useColor {
			fmt.Printf("%sok%s %s (unit %s)\n", colorGreen, colorReset, path, session.Ctx.UnitID)
		} else {
			fmt.Printf("ok %s (unit %s)\n", path, session.Ctx.UnitID)
		}

		if *listSymbols {
			for _, b := range session.Ctx.Namespace.All() {
				fmt.Printf("  %-10s %s\n", b.Kind, b.Name)
			}
		}
		if ix != nil {
			if err := ix.WriteUnit(session.Ctx); err != nil {
				fmt.Fprintln(os.Stderr, err)
				failed = true
			}
		}
	}

	if failed {
		os.Exit(1)
	}
}

func reportError(err error, useColor bool) {
	if useColor {
		fmt.Fprintf(os.Stderr, "%serror%s %v\n", colorRed, colorReset, err)
	} else {
		fmt.Fprintf(os.Stderr, "error %v\n", err)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: vega [-index path] [-symbols] unit-file...\n")
	flag.PrintDefaults()
}
