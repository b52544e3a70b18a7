package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"option_book/internal/book"
	"option_book/internal/config"
	"option_book/internal/logger"
	"option_book/internal/market/alpaca"
	"option_book/internal/models"
	"option_book/internal/pipeline"
	"option_book/internal/report"
	"option_book/internal/storage"
	"option_book/internal/telegram"

	"github.com/rs/zerolog/log"
)

// app is what every subcommand needs once flags and configuration are merged.
type app struct {
	cfg    *config.Config
	closer io.Closer
}

// newApp loads the configuration, applies the global flags and sets up logging.
func newApp() (*app, error) {
	// Console logging until the configured level and file are known.
	if _, err := logger.Setup(logger.Options{Level: strings.ToLower(*logLevel)}); err != nil {
		return nil, err
	}

	cfg, err := config.Load(*configPath, config.Overrides{
		Source:   *source,
		Snapshot: *snapshot,
		LogLevel: *logLevel,
	})
	if err != nil {
		return nil, err
	}

	closer, err := logger.Setup(logger.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  int64(cfg.Log.MaxSizeMB),
		MaxBackups: cfg.Log.MaxBackups,
	})
	if err != nil {
		return nil, err
	}
	config.LogEnv()
	return &app{cfg: cfg, closer: closer}, nil
}

func (a *app) Close() {
	if err := a.closer.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing log file: %v\n", err)
	}
}

// pipeline wires the configured portfolio source. Prices are only looked up with
// the Alpaca source and when asked for.
func (a *app) pipeline(withPrices bool) (*pipeline.Pipeline, error) {
	p := &pipeline.Pipeline{PriceTimeout: time.Duration(a.cfg.Report.UnderlyingTimeout) * time.Second}
	switch a.cfg.Source {
	case config.SourceFile:
		if a.cfg.Snapshot == "" {
			return nil, fmt.Errorf("the file source needs -snapshot")
		}
		p.Portfolio = storage.SnapshotFile{Path: a.cfg.Snapshot}
		if withPrices {
			log.Warn().Msg("underlying prices need the alpaca source, skipping")
		}
	case config.SourceAlpaca:
		if err := a.cfg.RequireAlpaca(); err != nil {
			return nil, err
		}
		provider := alpaca.NewProvider()
		p.Portfolio = provider
		if withPrices {
			p.Prices = provider
		}
	default:
		return nil, fmt.Errorf("unknown source %q, want alpaca or file", a.cfg.Source)
	}
	log.Debug().Str("source", a.cfg.Source).Msg("portfolio source")
	return p, nil
}

// run executes the pipeline under ctx.
func (a *app) run(ctx context.Context, withPrices bool) (*pipeline.Result, error) {
	p, err := a.pipeline(withPrices)
	if err != nil {
		return nil, err
	}
	return p.Run(ctx)
}

// reportOptions resolves the output format from the flag, then the configuration.
func (a *app) reportOptions(format string) (report.Options, error) {
	if format == "" {
		format = a.cfg.Report.Format
	}
	f, err := report.ParseFormat(format)
	if err != nil {
		return report.Options{}, err
	}
	return report.Options{Format: f, GroupBy: report.ByExpiry, Currency: a.cfg.Report.Currency}, nil
}

// print writes a rendered report to stdout, styling markdown for the terminal when asked.
func (a *app) print(out string, opts report.Options, styled bool) {
	if styled && opts.Format == report.Markdown {
		s, err := report.Style(out, a.cfg.Report.GlamourStyle, a.cfg.Report.WordWrap)
		if err != nil {
			log.Warn().Err(err).Msg("markdown styling failed, printing raw markdown")
		} else {
			out = s
		}
	}
	fmt.Print(out)
}

// notifyHook sends a rendered report to Telegram.
func (a *app) notifyHook(title, out string) report.Hook {
	return func(ctx context.Context, _ *book.Book) error {
		s := telegram.NewSender(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID)
		if err := s.SendReport(ctx, title, out); err != nil {
			return fmt.Errorf("sending report: %w", err)
		}
		log.Info().Str("title", title).Msg("report sent to telegram")
		return nil
	}
}

// warnUnheldExpiry logs the selected tickers holding no option that expires on d.
// Their net lines are zero.
func warnUnheldExpiry(b *book.Book, ticker string, d models.Date) {
	tickers := b.Tickers()
	if ticker != "" {
		t, ok := b.Lookup(ticker)
		if !ok {
			return
		}
		tickers = []string{t.Ticker()}
	}
	for _, tk := range tickers {
		if t, _ := b.Table(tk); !book.HasExpiry(t, d) {
			log.Warn().Str("ticker", tk).Str("expiry", d.String()).Msg("no options expire on the requested date")
		}
	}
}
