// Package app wires shiftboard's command-line surface: build, inspect,
// validate, and watch, all sharing one config-to-timeboard pipeline.
package app

import (
	"os"

	"github.com/urfave/cli/v2"
)

const (
	fConfig = "config"
	fOutDir = "outdir"
)

// New builds the shiftboard CLI application.
func New() *cli.App {
	return &cli.App{
		Name:  "shiftboard",
		Usage: "Build and inspect business-calendar timeboards from YAML layouts",

		Writer:    os.Stdout,
		ErrWriter: os.Stderr,

		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    fConfig,
				Aliases: []string{"c"},
				Usage:   "config file(s); later files override earlier ones",
			},
		},

		Commands: []*cli.Command{
			buildCommand(),
			inspectCommand(),
			validateCommand(),
			watchCommand(),
		},
	}
}
