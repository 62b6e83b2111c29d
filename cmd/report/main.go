// Command report prints the text analysis of one ticker, or writes it as a PDF.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"FinLens/internal/di"
	"FinLens/internal/domain/models"
	domsvc "FinLens/internal/domain/service"
	"FinLens/internal/render"
	"FinLens/pkg/config"

	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	ticker := flag.String("ticker", "", "ticker symbol, e.g. AAPL")
	pdfPath := flag.String("pdf", "", "write a PDF report to this path instead of printing text")
	flag.Parse()

	if *ticker == "" {
		fmt.Fprintln(os.Stderr, "usage: report -ticker AAPL [-config path] [-pdf out.pdf]")
		os.Exit(2)
	}
	os.Exit(run(*configPath, *ticker, *pdfPath))
}

func run(configPath, ticker, pdfPath string) int {
	_ = godotenv.Load()

	cfg, err := config.LoadWithEnv(configPath)
	if errors.Is(err, os.ErrNotExist) {
		cfg = config.Default()
	} else if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}
	// keep stdout for the report
	cfg.Logger.Output = "stderr"

	analyzer, cleanup, err := di.InitializeAnalyzer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init: %v\n", err)
		return 1
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := analyzer.Analyze(ctx, ticker)
	if errors.Is(err, models.ErrInvalidTicker) {
		fmt.Fprintf(os.Stderr, "%s: invalid ticker or no price history\n", ticker)
		return 1
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
		return 1
	}

	var r domsvc.ReportRenderer = render.Text{}
	out := os.Stdout
	if pdfPath != "" {
		r = render.PDF{}
		f, err := os.Create(pdfPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "create %s: %v\n", pdfPath, err)
			return 1
		}
		defer f.Close()
		out = f
	}

	if err := r.Render(out, a); err != nil {
		fmt.Fprintf(os.Stderr, "render: %v\n", err)
		return 1
	}
	if pdfPath != "" {
		fmt.Fprintf(os.Stderr, "wrote %s\n", pdfPath)
	}
	return 0
}
