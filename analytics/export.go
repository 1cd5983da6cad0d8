package analytics

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"habitquest/core"
)

// Exporter pushes rolled-up reports to an external destination.
type Exporter interface {
	Export(ctx context.Context, report *Report) error
	Flush(ctx context.Context) error
	Close() error
}

// HTTPExporter batches reports and POSTs them as a JSON array.
type HTTPExporter struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	buffer     []*Report
	batchSize  int
}

func NewHTTPExporter(endpoint, apiKey string, batchSize int) *HTTPExporter {
	return &HTTPExporter{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		buffer:    make([]*Report, 0, batchSize),
		batchSize: batchSize,
	}
}

func (e *HTTPExporter) Export(ctx context.Context, report *Report) error {
	e.buffer = append(e.buffer, report)
	if len(e.buffer) >= e.batchSize {
		return e.Flush(ctx)
	}
	return nil
}

func (e *HTTPExporter) Flush(ctx context.Context) error {
	if len(e.buffer) == 0 {
		return nil
	}

	payload, err := json.Marshal(e.buffer)
	if err != nil {
		return fmt.Errorf("failed to marshal analytics reports: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", e.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send analytics reports: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("analytics export failed with status %d: %s", resp.StatusCode, string(body))
	}

	e.buffer = e.buffer[:0]
	return nil
}

func (e *HTTPExporter) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Flush(ctx)
}

// WriterExporter appends reports to any io.Writer as JSON lines.
type WriterExporter struct {
	w io.Writer
}

func NewWriterExporter(w io.Writer) *WriterExporter { return &WriterExporter{w: w} }

func (e *WriterExporter) Export(ctx context.Context, report *Report) error {
	enc := json.NewEncoder(e.w)
	return enc.Encode(report)
}

func (e *WriterExporter) Flush(ctx context.Context) error { return nil }
func (e *WriterExporter) Close() error                    { return nil }

// MultiExporter fans a report out to several exporters. Export errors from
// one destination do not block the others.
type MultiExporter struct {
	exporters []Exporter
}

func NewMultiExporter(exporters ...Exporter) *MultiExporter {
	return &MultiExporter{exporters: exporters}
}

func (e *MultiExporter) Export(ctx context.Context, report *Report) error {
	var lastErr error
	for _, exporter := range e.exporters {
		if err := exporter.Export(ctx, report); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func (e *MultiExporter) Flush(ctx context.Context) error {
	for _, exporter := range e.exporters {
		if err := exporter.Flush(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (e *MultiExporter) Close() error {
	var lastErr error
	for _, exporter := range e.exporters {
		if err := exporter.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// WriteLogsCSV dumps a profile's activity history in spreadsheet-friendly
// form, newest first as stored.
func WriteLogsCSV(w io.Writer, logs []core.ActivityLog) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "activity", "date", "duration_min", "xp_earned", "critical"}); err != nil {
		return err
	}
	for _, log := range logs {
		rec := []string{
			log.ID,
			log.ActivityID,
			log.Date,
			strconv.Itoa(log.Duration),
			strconv.Itoa(log.XPEarned),
			strconv.FormatBool(log.Critical),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
