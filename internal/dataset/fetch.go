package dataset

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/nri-explorer/internal/domain"
)

// Fetcher downloads the NRI county table archive and extracts its CSV.
type Fetcher struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewFetcher creates a Fetcher for the dataset archive at url.
func NewFetcher(url string, timeout time.Duration, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Fetch downloads the zip archive, extracts the first CSV member, and parses
// it into county records. The raw CSV bytes are returned alongside the
// records so callers can persist them.
func (f *Fetcher) Fetch(ctx context.Context) ([]domain.CountyRecord, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, nil, fmt.Errorf("dataset download error: status %d: %s", resp.StatusCode, body)
	}

	archive, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read dataset body: %w", err)
	}

	csvBytes, err := extractCSV(archive)
	if err != nil {
		return nil, nil, err
	}

	records, err := ParseCSV(bytes.NewReader(csvBytes))
	if err != nil {
		return nil, nil, err
	}

	f.logger.Info("dataset fetched", "url", f.url, "archive_bytes", len(archive), "rows", len(records))
	return records, csvBytes, nil
}

// extractCSV opens the in-memory zip and returns the contents of its first
// CSV member. The published archive carries exactly one tabular file.
func extractCSV(archive []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, fmt.Errorf("open dataset archive: %w", err)
	}

	for _, member := range zr.File {
		if !strings.HasSuffix(strings.ToLower(member.Name), ".csv") {
			continue
		}
		rc, err := member.Open()
		if err != nil {
			return nil, fmt.Errorf("open archive member %s: %w", member.Name, err)
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read archive member %s: %w", member.Name, err)
		}
		return data, nil
	}

	return nil, fmt.Errorf("dataset archive contains no CSV member")
}
