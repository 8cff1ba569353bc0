// Package cli implements the topsis command: four positional arguments in,
// one result file and one stdout line out. Run returns the process exit
// code instead of exiting so the whole command can be tested in-process.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/MikeSquared-Agency/Topsis/internal/config"
	"github.com/MikeSquared-Agency/Topsis/internal/hermes"
	"github.com/MikeSquared-Agency/Topsis/internal/metrics"
	"github.com/MikeSquared-Agency/Topsis/internal/runner"
	"github.com/MikeSquared-Agency/Topsis/internal/store"
	"github.com/MikeSquared-Agency/Topsis/internal/table"
	"github.com/MikeSquared-Agency/Topsis/internal/topsis"
)

const (
	ExitOK      = 0
	ExitFailure = 1

	Usage = "Usage: topsis <InputDataFile> <Weights> <Impacts> <OutputResultFileName>"
)

const sideChannelTimeout = 5 * time.Second

// Run executes the command with args (excluding the program name). Contract
// lines go to stdout; logs go to stderr.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("topsis", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configPath := fs.String("config", "", "path to config file")
	if err := fs.Parse(args); err != nil || fs.NArg() != 4 {
		fmt.Fprintln(stdout, "Error: Wrong number of parameters")
		fmt.Fprintln(stdout, Usage)
		return ExitFailure
	}
	inputPath, weights, impacts, outputPath := fs.Arg(0), fs.Arg(1), fs.Arg(2), fs.Arg(3)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stdout, "Error: %v\n", err)
		return ExitFailure
	}
	logger := cfg.Logging.NewLogger(stderr)

	tbl, err := table.Read(inputPath)
	if errors.Is(err, table.ErrNotFound) {
		fmt.Fprintln(stdout, "Error: File not found")
		return ExitFailure
	}
	if err != nil {
		fmt.Fprintf(stdout, "Error: Could not read file. %v\n", err)
		return ExitFailure
	}

	m := metrics.New()
	st, hc := connect(ctx, cfg, logger)
	defer func() {
		if st != nil {
			_ = st.Close()
		}
		if hc != nil {
			hc.Close()
		}
		if cfg.Metrics.PushgatewayURL != "" {
			pushCtx, cancel := context.WithTimeout(context.Background(), sideChannelTimeout)
			defer cancel()
			if err := m.Push(pushCtx, cfg.Metrics.PushgatewayURL); err != nil {
				logger.Warn("failed to push metrics", "error", err)
			}
		}
	}()

	rn := runner.New(st, hc, m, logger)
	_, err = rn.Execute(ctx, runner.Request{
		Source:  "cli",
		Table:   tbl,
		Weights: weights,
		Impacts: impacts,
	})
	if err != nil {
		fmt.Fprintf(stdout, "Error: %s\n", failureMessage(err))
		return ExitFailure
	}

	if err := table.WriteFile(outputPath, tbl); err != nil {
		fmt.Fprintf(stdout, "Error: Could not write file. %v\n", err)
		return ExitFailure
	}
	fmt.Fprintf(stdout, "Result saved to %s\n", outputPath)
	return ExitOK
}

func failureMessage(err error) string {
	if kind, ok := topsis.KindOf(err); ok {
		return topsis.Message(kind)
	}
	return err.Error()
}

// connect opens the optional run store and event bus. Either may be nil;
// connection failures are logged and the run goes ahead without them.
func connect(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Store, hermes.Client) {
	var st store.Store
	var hc hermes.Client

	if cfg.Database.URL != "" {
		dbCtx, cancel := context.WithTimeout(ctx, sideChannelTimeout)
		pg, err := store.NewPostgresStore(dbCtx, cfg.Database.URL)
		if err == nil {
			err = pg.Migrate(dbCtx)
			if err != nil {
				pg.Close()
			}
		}
		cancel()
		if err != nil {
			logger.Warn("run history disabled", "error", err)
		} else {
			st = pg
		}
	}

	if cfg.Hermes.URL != "" {
		nc, err := hermes.NewNATSClient(ctx, cfg.Hermes.URL, logger)
		if err != nil {
			logger.Warn("run events disabled", "error", err)
		} else {
			hc = nc
		}
	}
	return st, hc
}
