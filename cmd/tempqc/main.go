package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skysupport/temp-qc/internal/adapter/csvfile"
	"github.com/skysupport/temp-qc/internal/adapter/history"
	httpadapter "github.com/skysupport/temp-qc/internal/adapter/http"
	"github.com/skysupport/temp-qc/internal/config"
	"github.com/skysupport/temp-qc/internal/observability"
	"github.com/skysupport/temp-qc/internal/pipeline"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	input := flag.String("input", "", "path to the input CSV (timestamp,temperature)")
	output := flag.String("output", "", "path for the cleaned CSV (optional)")
	reportPath := flag.String("report", "", "path for the quality report (default stdout)")
	listen := flag.String("listen", "", "address for the metrics and run history server; keeps the process alive after the run (optional)")
	flag.Parse()

	if *input == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -input")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store *history.Store
	if cfg.HistoryPath != "" {
		store, err = history.Open(cfg.HistoryPath, logger)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	var srv *httpadapter.Server
	if *listen != "" {
		var lister httpadapter.RunLister
		if store != nil {
			lister = store
		}
		srv = httpadapter.NewServer(*listen, lister, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	rs, err := csvfile.NewReader(cfg.Series, logger).ReadFile(*input)
	if err != nil {
		return err
	}

	detector, imputer, normalizer, reporter, err := pipeline.NewStages(cfg)
	if err != nil {
		return err
	}
	p := pipeline.New(detector, imputer, normalizer, reporter, logger, metrics)

	result, err := p.Run(ctx, rs)
	if err != nil {
		return err
	}

	if *output != "" {
		if err := csvfile.NewWriter(logger).WriteFile(*output, result.Records); err != nil {
			return err
		}
	}

	if *reportPath != "" {
		if err := os.WriteFile(*reportPath, []byte(result.Report), 0o600); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	} else {
		fmt.Print(result.Report)
	}

	if store != nil {
		if err := store.Record(ctx, result.Metrics); err != nil {
			return err
		}
	}

	logger.Info("run complete",
		"run_id", result.RunID,
		"records", result.Metrics.TotalCount,
		"anomaly_rate", result.Metrics.AnomalyRate)

	if srv != nil {
		<-ctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
	}
	return nil
}
