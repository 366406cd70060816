package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/ternarybob/banner"
)

// PrintBanner displays the application startup banner to stderr.
func PrintBanner(config *Config, logger *Logger) {
	version := GetVersion()
	build := GetBuild()
	commit := GetGitCommit()

	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite
	width := 70
	hr := lineColor + strings.Repeat("═", width) + banner.ColorReset

	art := []string{
		` 8888888b.  8888888888  .d8888b.  888    d8P   .d88888b.  888b    888`,
		` 888   Y88b 888        d88P  Y88b 888   d8P   d88P" "Y88b 8888b   888`,
		` 888    888 888        888    888 888  d8P    888     888 88888b  888`,
		` 888   d88P 8888888    888        888d88K     888     888 888Y88b 888`,
		` 8888888P"  888        888        8888888b    888     888 888 Y88b888`,
		` 888 T88b   888        888    888 888  Y88b   888     888 888  Y88888`,
		` 888  T88b  888        Y88b  d88P 888   Y88b  Y88b. .d88P 888   Y8888`,
		` 888   T88b 8888888888  "Y8888P"  888    Y88b  "Y88888P"  888    Y888`,
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "%s\n", hr)
	fmt.Fprintf(os.Stderr, "\n")
	for _, line := range art {
		fmt.Fprintf(os.Stderr, "%s%s%s\n", textColor, line, banner.ColorReset)
	}
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "%s  FIFO Cost-Basis P&L & Balance Reconciliation%s\n", textColor, banner.ColorReset)
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "%s\n", hr)
	fmt.Fprintf(os.Stderr, "\n")

	kvPad := 16
	kvLines := [][2]string{
		{"Version", version},
		{"Build", build},
		{"Commit", commit},
		{"Environment", config.Environment},
		{"Input", config.Input.Dir},
		{"Quote Currency", config.QuoteCurrency},
	}
	for _, kv := range kvLines {
		fmt.Fprintf(os.Stderr, "%s  %-*s %s%s\n", textColor, kvPad, kv[0], kv[1], banner.ColorReset)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "%s\n", hr)
	fmt.Fprintf(os.Stderr, "\n")

	logger.Info().
		Str("version", version).
		Str("build", build).
		Str("commit", commit).
		Str("environment", config.Environment).
		Str("input_dir", config.Input.Dir).
		Str("quote_currency", config.QuoteCurrency).
		Msg("Application started")
}
