// Package cli implements the syncctl command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/MKhiriev/resource-sync/internal/client"
	"github.com/MKhiriev/resource-sync/internal/config"
	"github.com/MKhiriev/resource-sync/internal/logger"
	"github.com/MKhiriev/resource-sync/internal/service"
)

// ErrSyncFailed is returned by the run command when the job gave up.
var ErrSyncFailed = errors.New("sync failed")

// Run executes the syncctl command line with the given context and arguments.
func Run(ctx context.Context, args []string) error {
	return newCommand(os.Stdout, os.Stderr).Run(ctx, args)
}

func newCommand(out, errOut io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "syncctl",
		Usage:     "Synchronize local resources with a remote REST data source",
		Version:   Version,
		Writer:    out,
		ErrWriter: errOut,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable styled output",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print statuses and state as JSON",
			},
		},
		Commands: []*cli.Command{
			runCommand(),
			serveCommand(),
			statusCommand(),
			versionCommand(),
		},
	}
}

func runCommand() *cli.Command {
	return engineCommand("run", "Run one sync job, retrying failed runs with backoff",
		func(ctx context.Context, app client.Client, p *printer) error {
			outcome, err := app.SyncOnce(ctx, p.status)
			if err != nil {
				return err
			}
			p.outcome(outcome)

			if outcome.Result == service.JobFailure {
				if cause := outcome.Status.Err(); cause != nil {
					return fmt.Errorf("%w: %w", ErrSyncFailed, cause)
				}
				return ErrSyncFailed
			}
			return nil
		})
}

func serveCommand() *cli.Command {
	return engineCommand("serve", "Sync periodically and serve the job status and metrics",
		func(ctx context.Context, app client.Client, p *printer) error {
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.Serve(ctx, p.status)
		})
}

func statusCommand() *cli.Command {
	return engineCommand("status", "Show the persisted state of the sync job",
		func(ctx context.Context, app client.Client, p *printer) error {
			state, err := app.State(ctx)
			if err != nil {
				return fmt.Errorf("read job state: %w", err)
			}
			p.state(state)
			return nil
		})
}

// engineCommand builds a command whose arguments are configuration flags.
// It loads the configuration, opens the runtime and hands it to action.
func engineCommand(name, usage string, action func(context.Context, client.Client, *printer) error) *cli.Command {
	return &cli.Command{
		Name:            name,
		Usage:           usage,
		ArgsUsage:       "[-base-url URL] [-d DSN] [-resource Type[:query]]... [-c config.json]",
		SkipFlagParsing: true,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.GetStructuredConfig(cmd.Args().Slice())
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			base := newLogger(cfg.Log, cmd.Root().ErrWriter)
			log := &logger.Logger{Logger: base.With().Str("command", name).Str("job_id", cfg.Engine.JobID).Logger()}

			app, err := client.NewApp(log.WithContext(ctx), cfg, log)
			if err != nil {
				return err
			}
			defer app.Close()

			return action(log.WithContext(ctx), app, newPrinter(cmd))
		},
	}
}

func newLogger(cfg config.Log, errOut io.Writer) *logger.Logger {
	if cfg.File != "" {
		return logger.NewFileLogger("syncctl", cfg.File)
	}
	return logger.NewWriterLogger(errOut, "syncctl")
}
