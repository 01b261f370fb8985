package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/plugsmith/plugsmith/internal/commands"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	short := commit
	if len(commit) > 7 {
		short = commit[:7]
	}

	return fmt.Sprintf("%s (%s) %s", version, short, date)
}

func main() {
	ctrl := &commands.Controller{
		Flags: &commands.Flags{},
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	surfaceFlag := &cli.StringFlag{
		Name:        "surface",
		Usage:       "path to the host API surface declaration (JSON)",
		Destination: &ctrl.Flags.Surface,
	}
	catalogFlag := &cli.StringFlag{
		Name:        "catalog",
		Usage:       "directory of template overrides (YAML)",
		Destination: &ctrl.Flags.Catalog,
	}
	templateFlag := &cli.StringFlag{
		Name:        "template",
		Usage:       "template id to compose",
		Destination: &ctrl.Flags.Template,
	}
	paramFlag := &cli.StringSliceFlag{
		Name:  "param",
		Usage: "slot parameter as key=value, repeatable",
	}
	requestFlag := &cli.StringFlag{
		Name:        "request",
		Usage:       "path to a request file (JSON), instead of --template/--param",
		Destination: &ctrl.Flags.Request,
	}

	app := &cli.Command{
		Name:    "plugsmith",
		Usage:   "Compose automation scripts for a sandboxed host and emit them only when they validate against its declared API surface.",
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error, fatal, panic)",
				Sources: cli.EnvVars("PLUGSMITH_LOG_LEVEL"),
				Value:   "panic",
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			level, err := zerolog.ParseLevel(c.String("log-level"))
			if err != nil {
				return ctx, fmt.Errorf("failed to parse log level: %w", err)
			}

			log.Logger = log.Level(level)

			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "Compose, validate, and emit a script; prints the artifact path",
				Flags: []cli.Flag{
					surfaceFlag, catalogFlag, templateFlag, paramFlag, requestFlag,
					&cli.StringFlag{
						Name:        "out",
						Usage:       "output directory for emitted artifacts",
						Value:       ".",
						Destination: &ctrl.Flags.Out,
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					ctrl.Flags.Params = c.StringSlice("param")
					return ctrl.Generate(ctx)
				},
			},
			{
				Name:  "validate",
				Usage: "Run the full pipeline without emitting anything",
				Flags: []cli.Flag{surfaceFlag, catalogFlag, templateFlag, paramFlag, requestFlag},
				Action: func(ctx context.Context, c *cli.Command) error {
					ctrl.Flags.Params = c.StringSlice("param")
					return ctrl.Validate(ctx)
				},
			},
			{
				Name:  "templates",
				Usage: "List the template catalog",
				Flags: []cli.Flag{catalogFlag},
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Templates(ctx)
				},
			},
			{
				Name:  "surface",
				Usage: "Surface declaration tools",
				Commands: []*cli.Command{
					{
						Name:  "check",
						Usage: "Validate a surface declaration file",
						Flags: []cli.Flag{surfaceFlag},
						Action: func(ctx context.Context, c *cli.Command) error {
							return ctrl.SurfaceCheck(ctx)
						},
					},
				},
			},
			{
				Name:  "init",
				Usage: "Create a new plugsmith project interactively",
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Init(ctx)
				},
			},
			{
				Name:  "dev",
				Usage: "Watch the project and re-run the configured request on change",
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Dev(ctx)
				},
			},
		},
	}

	ctx := context.Background()

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("failed to run plugsmith")
	}
}
