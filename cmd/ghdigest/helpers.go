package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
)

// parseMonth normalizes "YYYY-MM" or "YYYYMM" input to the six digit form.
func parseMonth(input string) (string, error) {
	month := strings.ReplaceAll(input, "-", "")
	if len(month) != 6 {
		return "", fmt.Errorf("invalid month %q: want YYYYMM", input)
	}
	for _, c := range month {
		if c < '0' || c > '9' {
			return "", fmt.Errorf("invalid month %q: want YYYYMM", input)
		}
	}
	return month, nil
}

// monthWindow returns the [start, end) UTC bounds of a six digit month.
func monthWindow(month string) (time.Time, time.Time, error) {
	start, err := time.Parse("200601", month)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid month %q: %w", month, err)
	}
	return start, start.AddDate(0, 1, 0), nil
}

// readTokenFile returns the trimmed token, or "" when the file does not exist.
func readTokenFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Spinners write to stderr; stdout belongs to the report.
func newSpinner(description string) *progressbar.ProgressBar {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(15),
		progressbar.OptionThrottle(100*time.Millisecond),
	)
	_ = bar.RenderBlank()
	return bar
}

func finishBar(bar *progressbar.ProgressBar) {
	if bar != nil {
		_ = bar.Finish()
	}
}
