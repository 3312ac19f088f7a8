// Package loader reads observation tables for the estimator: a two-column
// CSV of (O:C ratio, half-life years), from a local file or an http(s) URL.
// Loading is a one-shot blocking read; the estimator itself never does I/O.
package loader

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/offsetlab/carbonkit/internal/domain"
)

const fetchTimeout = 30 * time.Second

// Load reads observations from source, which is either a filesystem path or
// an http(s) URL.
func Load(ctx context.Context, source string) ([]domain.Observation, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return fetch(ctx, source)
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("loader: open %s: %w", source, err)
	}
	defer f.Close()

	obs, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", source, err)
	}
	return obs, nil
}

func fetch(ctx context.Context, url string) ([]domain.Observation, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("loader: build request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("loader: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("loader: fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	obs, err := Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", url, err)
	}
	return obs, nil
}

// Parse decodes a ratio,half_life CSV. A first row that does not parse as
// numbers is treated as a header. Bad rows fail fast with their line number
// so a malformed table never degrades silently into NaN curves.
func Parse(r io.Reader) ([]domain.Observation, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1 // length checked per row for a better message

	var obs []domain.Observation
	line := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line+1, err)
		}
		line++

		if len(record) < 2 {
			return nil, fmt.Errorf("row %d: want 2 columns (ratio, half_life), got %d", line, len(record))
		}

		ratio, err1 := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
		halfLife, err2 := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err1 != nil || err2 != nil {
			if line == 1 {
				continue // header row
			}
			return nil, fmt.Errorf("row %d: non-numeric values %q, %q", line, record[0], record[1])
		}

		o := domain.Observation{Ratio: ratio, HalfLife: halfLife}
		if err := o.Validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		obs = append(obs, o)
	}

	if len(obs) == 0 {
		return nil, fmt.Errorf("no observations found: %w", domain.ErrInsufficientData)
	}
	return obs, nil
}
