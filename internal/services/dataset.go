package services

import (
	"context"
	"encoding/csv"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"pizza-dashboard/internal/models"
)

const (
	batchSize    = 5000
	maxWorkers   = 8
	cacheVersion = "v2"
)

// ErrDataUnavailable is returned by every read until a load has succeeded.
var ErrDataUnavailable = errors.New("sales data unavailable")

type cachedRecords struct {
	Records  []models.SalesRecord
	LoadedAt time.Time
}

// Dataset holds the normalized sales records. After a successful load the
// record slice is never modified and is shared by every reader.
type Dataset struct {
	mu               sync.RWMutex
	records          []models.SalesRecord
	loadErr          error
	loadedAt         time.Time
	csvPath          string
	cacheDir         string
	recordsProcessed atomic.Int64
	rowsSkipped      atomic.Int64
	logger           *slog.Logger
}

// NewDataset returns an empty, not yet ready dataset. An empty cacheDir
// disables the load cache.
func NewDataset(cacheDir string) *Dataset {
	return &Dataset{
		cacheDir: cacheDir,
		loadErr:  ErrDataUnavailable,
		logger:   slog.Default(),
	}
}

// SetRecords replaces the record set and marks the dataset ready.
func (d *Dataset) SetRecords(records []models.SalesRecord) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.records = records
	d.loadErr = nil
	d.loadedAt = time.Now()
	d.recordsProcessed.Store(int64(len(records)))
}

// MarkUnavailable records a failed load. Reads keep failing with
// ErrDataUnavailable wrapping err.
func (d *Dataset) MarkUnavailable(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.records = nil
	d.loadErr = fmt.Errorf("%w: %v", ErrDataUnavailable, err)
}

func (d *Dataset) Ready() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loadErr == nil
}

// Records returns the shared record slice. Callers must not modify it.
func (d *Dataset) Records() ([]models.SalesRecord, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.loadErr != nil {
		return nil, d.loadErr
	}
	return d.records, nil
}

func (d *Dataset) LoadFromCSV(ctx context.Context, filename string) error {
	d.csvPath = filename

	if cached, err := d.loadFromCache(filename); err == nil {
		fileInfo, err := os.Stat(filename)
		if err == nil && fileInfo.ModTime().Before(cached.LoadedAt) {
			d.SetRecords(cached.Records)
			d.logger.Info("loaded from cache", "records", len(cached.Records))
			return nil
		}
	}

	start := time.Now()
	d.logger.Info("processing CSV file", "filename", filename)

	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	records, err := d.parseCSV(ctx, file)
	if err != nil {
		return fmt.Errorf("process csv: %w", err)
	}
	d.SetRecords(records)

	if err := d.saveToCache(filename); err != nil {
		d.logger.Warn("failed to save cache", "error", err)
	}

	duration := time.Since(start)
	count := d.recordsProcessed.Load()
	d.logger.Info("csv processing complete",
		"records", count,
		"skipped", d.rowsSkipped.Load(),
		"duration", duration,
		"rate", fmt.Sprintf("%.0f records/sec", float64(count)/duration.Seconds()))

	return nil
}

func (d *Dataset) parseCSV(ctx context.Context, r io.Reader) ([]models.SalesRecord, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}
	reader.FieldsPerRecord = len(columns)

	var rows [][]string
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				d.rowsSkipped.Add(1)
				d.logger.Debug("skipping malformed row", "line", parseErr.StartLine, "error", err)
				continue
			}
			return nil, fmt.Errorf("read row: %w", err)
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no valid records found")
	}

	records := make([]models.SalesRecord, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)

	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				records[i] = NormalizeRow(rowMap(columns, rows[i]))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	undated := 0
	for _, rec := range records {
		if !rec.HasDate() {
			undated++
		}
	}
	if undated > 0 {
		d.logger.Warn("records without a parsable order date", "count", undated)
	}

	return records, nil
}

func rowMap(columns, row []string) map[string]string {
	m := make(map[string]string, len(columns))
	for i, col := range columns {
		m[col] = row[i]
	}
	return m
}

func (d *Dataset) getCacheFilename(csvPath string) string {
	name := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(csvPath)
	return filepath.Join(d.cacheDir, fmt.Sprintf("%s_%s.gob", name, cacheVersion))
}

func (d *Dataset) saveToCache(csvPath string) error {
	if d.cacheDir == "" {
		return nil
	}
	if err := os.MkdirAll(d.cacheDir, 0755); err != nil {
		return err
	}

	file, err := os.Create(d.getCacheFilename(csvPath))
	if err != nil {
		return err
	}
	defer file.Close()

	d.mu.RLock()
	defer d.mu.RUnlock()

	return gob.NewEncoder(file).Encode(cachedRecords{Records: d.records, LoadedAt: d.loadedAt})
}

func (d *Dataset) loadFromCache(csvPath string) (*cachedRecords, error) {
	if d.cacheDir == "" {
		return nil, os.ErrNotExist
	}
	file, err := os.Open(d.getCacheFilename(csvPath))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var data cachedRecords
	if err := gob.NewDecoder(file).Decode(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (d *Dataset) Stats() map[string]any {
	d.mu.RLock()
	defer d.mu.RUnlock()

	pizzas := make(map[string]struct{})
	categories := make(map[string]struct{})
	undated := 0
	for _, r := range d.records {
		pizzas[r.PizzaName] = struct{}{}
		categories[r.Category] = struct{}{}
		if !r.HasDate() {
			undated++
		}
	}

	return map[string]any{
		"ready":        d.loadErr == nil,
		"source":       d.csvPath,
		"record_count": len(d.records),
		"rows_skipped": d.rowsSkipped.Load(),
		"undated":      undated,
		"pizzas":       len(pizzas),
		"categories":   len(categories),
		"last_loaded":  d.loadedAt,
	}
}
