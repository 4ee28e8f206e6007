package app

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"score-enricher/internal/collect"
	"score-enricher/internal/common/logging"
	"score-enricher/internal/config"
	"score-enricher/internal/discovery"
)

const shutdownTimeout = 30 * time.Second

// Run is the process entry point: it loads configuration, initializes
// logging and dispatches to the selected mode.
func Run() error {
	// Missing .env is fine; the environment may carry everything.
	godotenv.Load()

	mode := flag.String("mode", "serve", "run mode: serve, discover or collect")
	niche := flag.String("niche", "ecommerce", "discover: niche to generate candidates for")
	region := flag.String("region", "global", "discover: region TLD set")
	limit := flag.Int("limit", 25, "discover: max candidates")
	input := flag.String("input", "", "collect: file with one URL per line")
	output := flag.String("output", "results.csv.gz", "collect: gzip CSV output path")
	flag.Parse()

	logging.InitGlobalLogger()
	cfg := config.Load()

	switch *mode {
	case "serve":
		return runServe(cfg)
	case "discover":
		return runDiscover(cfg, *niche, *region, *limit)
	case "collect":
		return runCollect(cfg, *input, *output)
	default:
		return fmt.Errorf("unknown mode %q", *mode)
	}
}

// runServe starts the HTTP server and blocks until SIGINT/SIGTERM, then
// shuts down gracefully.
func runServe(cfg *config.Config) error {
	a, err := New(cfg)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		a.logger.Error("Server stopped unexpectedly", err)
		shutdown(a)
		return err
	case sig := <-sigCh:
		a.logger.Info("Shutting down", logging.String("signal", sig.String()))
		return shutdown(a)
	}
}

func shutdown(a *App) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return a.Shutdown(ctx)
}

// runDiscover generates candidates for a niche and prints them as JSON.
func runDiscover(cfg *config.Config, niche, region string, limit int) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	store, err := discovery.NewStore(cfg.CacheStorePath)
	if err != nil {
		return err
	}
	defer store.Close()

	discoverer, err := discovery.NewDiscoverer(store, nil)
	if err != nil {
		return err
	}

	candidates, err := discoverer.Discover(context.Background(), niche, region, limit)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(candidates)
}

// runCollect bulk-downloads the URLs listed in input and writes a gzip CSV.
func runCollect(cfg *config.Config, input, output string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if input == "" {
		return fmt.Errorf("collect mode requires -input")
	}

	urls, err := readURLList(input)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return fmt.Errorf("no URLs found in %s", input)
	}

	downloader := collect.NewDownloader(cfg, nil)
	results := downloader.Download(context.Background(), urls)

	if err := collect.ExportFile(output, results); err != nil {
		return err
	}

	logging.Info("Export written",
		logging.String("path", output),
		logging.Int("urls", len(urls)),
	)
	return nil
}

// readURLList reads one URL per line, skipping blanks and # comments.
func readURLList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}
