package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/hupe1980/recgo"
	"github.com/hupe1980/recgo/blobstore"
	"github.com/hupe1980/recgo/model"
)

// LoadStats summarizes a bulk load.
type LoadStats struct {
	// Rows is the number of data rows read, header excluded.
	Rows int
	// Loaded is the number of records inserted.
	Loaded int
	// Skipped is the number of malformed rows dropped.
	Skipped int
	// Duplicates is the number of rows whose identifier already existed.
	Duplicates int
	// Elapsed is the wall-clock duration of the load.
	Elapsed time.Duration
}

type loadOptions struct {
	workers          int
	logger           *slog.Logger
	progressInterval time.Duration
}

// LoadOption configures a bulk load.
type LoadOption func(*loadOptions)

// WithWorkers sets the number of parallel row parsers.
// Defaults to runtime.GOMAXPROCS(0).
func WithWorkers(n int) LoadOption {
	return func(o *loadOptions) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithLogger sets the logger for progress reporting.
// Defaults to slog.Default().
func WithLogger(logger *slog.Logger) LoadOption {
	return func(o *loadOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithProgressInterval sets the minimum time between progress log lines.
// Defaults to 2 seconds.
func WithProgressInterval(d time.Duration) LoadOption {
	return func(o *loadOptions) {
		if d > 0 {
			o.progressInterval = d
		}
	}
}

// LoadCSV streams the named CSV object from source into dst.
//
// The expected columns are user_id, gender, age, eye_color, education,
// languages, music and friends; order does not matter and unknown columns
// are ignored. Rows without a parseable identifier are skipped. Ages that
// are absent or not positive load as unknown. The friends column is a
// semicolon-separated identifier list; entries written as floats
// ("123.0") are tolerated, anything else is dropped silently.
//
// Parsing is parallel but all inserts happen on one goroutine, so LoadCSV
// holds to the store's single-writer discipline.
func LoadCSV(ctx context.Context, source blobstore.Store, name string, dst *recgo.Store, optFns ...LoadOption) (LoadStats, error) {
	opts := loadOptions{
		workers:          runtime.GOMAXPROCS(0),
		logger:           slog.Default(),
		progressInterval: 2 * time.Second,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	start := time.Now()

	rc, err := source.Open(ctx, name)
	if err != nil {
		return LoadStats{}, fmt.Errorf("open dataset %q: %w", name, err)
	}
	defer rc.Close()

	dr, err := decompress(name, rc)
	if err != nil {
		return LoadStats{}, fmt.Errorf("decompress dataset %q: %w", name, err)
	}
	defer dr.Close()

	cr := csv.NewReader(dr)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = false

	header, err := cr.Read()
	if err != nil {
		return LoadStats{}, fmt.Errorf("read dataset header: %w", err)
	}
	cols := columnIndex(header)

	var (
		rows    atomic.Int64
		skipped atomic.Int64
		loaded  int
		dups    int
	)

	rawCh := make(chan []string, 1024)
	recCh := make(chan model.Record, 1024)

	g, gctx := errgroup.WithContext(ctx)

	// Reader: one goroutine walks the CSV stream.
	g.Go(func() error {
		defer close(rawCh)
		for {
			row, err := cr.Read()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				var parseErr *csv.ParseError
				if errors.As(err, &parseErr) {
					rows.Add(1)
					skipped.Add(1)
					continue
				}
				return fmt.Errorf("read dataset row: %w", err)
			}
			rows.Add(1)

			select {
			case rawCh <- row:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})

	// Parsers: fan out row parsing across the pool.
	var parsers sync.WaitGroup
	for range opts.workers {
		parsers.Add(1)
		g.Go(func() error {
			defer parsers.Done()
			for row := range rawCh {
				record, ok := parseRow(cols, row)
				if !ok {
					skipped.Add(1)
					continue
				}
				select {
				case recCh <- record:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}
	go func() {
		parsers.Wait()
		close(recCh)
	}()

	// Applier: the single writer.
	g.Go(func() error {
		limiter := rate.NewLimiter(rate.Every(opts.progressInterval), 1)
		for record := range recCh {
			if err := dst.Insert(gctx, record); err != nil {
				if errors.Is(err, recgo.ErrDuplicateID) {
					dups++
					continue
				}
				return err
			}
			loaded++
			if limiter.Allow() {
				opts.logger.Info("loading records",
					"dataset", name,
					"loaded", loaded,
					"elapsed", time.Since(start).Round(time.Millisecond),
				)
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return LoadStats{}, err
	}

	stats := LoadStats{
		Rows:       int(rows.Load()),
		Loaded:     loaded,
		Skipped:    int(skipped.Load()),
		Duplicates: dups,
		Elapsed:    time.Since(start),
	}
	opts.logger.Info("load completed",
		"dataset", name,
		"rows", stats.Rows,
		"loaded", stats.Loaded,
		"skipped", stats.Skipped,
		"duplicates", stats.Duplicates,
		"elapsed", stats.Elapsed.Round(time.Millisecond),
	)
	return stats, nil
}

// columnIndex maps lower-cased header names to their positions.
func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

func field(cols map[string]int, row []string, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseRow converts one CSV row into a record. ok is false when the row
// has no usable identifier.
func parseRow(cols map[string]int, row []string) (model.Record, bool) {
	id, ok := parseID(field(cols, row, "user_id"))
	if !ok {
		return model.Record{}, false
	}

	record := model.Record{
		ID:        id,
		Gender:    field(cols, row, "gender"),
		Age:       parseAge(field(cols, row, "age")),
		EyeColor:  field(cols, row, "eye_color"),
		Education: field(cols, row, "education"),
		Languages: field(cols, row, "languages"),
		Music:     field(cols, row, "music"),
		Friends:   parseFriends(field(cols, row, "friends")),
	}
	return record, true
}

// parseID accepts identifiers written as integers or floats ("123.0").
func parseID(raw string) (model.RecordID, bool) {
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 || v > float64(^uint32(0)) {
		return 0, false
	}
	return model.RecordID(v), true
}

// parseAge returns AgeUnknown for absent, unparsable or non-positive
// values.
func parseAge(raw string) int {
	if raw == "" {
		return model.AgeUnknown
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return model.AgeUnknown
	}
	return int(v)
}

// parseFriends splits a semicolon-separated identifier list, dropping
// entries that do not parse.
func parseFriends(raw string) []model.RecordID {
	if raw == "" {
		return nil
	}

	var friends []model.RecordID
	for _, part := range strings.Split(raw, ";") {
		if id, ok := parseID(strings.TrimSpace(part)); ok {
			friends = append(friends, id)
		}
	}
	return friends
}
