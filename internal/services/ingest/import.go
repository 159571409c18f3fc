package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tidwall/gjson"

	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/logger"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/models"
)

// ImportResult counts rows taken from an export.
type ImportResult struct {
	Imported int
	Skipped  int
}

// Inserter stores a payload at a given time.
type Inserter interface {
	InsertSnapshot(ctx context.Context, ts time.Time, payload []byte) (int64, error)
}

// Import reads a JSON array of exported analytics rows, each shaped like
// {"timestamp": "...", "data": {...}}, and inserts them. The data member may
// also be a JSON-encoded string. Rows with an unreadable timestamp or an
// invalid payload are skipped. A store failure aborts the import.
func Import(ctx context.Context, store Inserter, r io.Reader) (ImportResult, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to read export: %w", err)
	}
	if !gjson.ValidBytes(content) {
		return ImportResult{}, fmt.Errorf("export is not valid JSON")
	}

	root := gjson.ParseBytes(content)
	if !root.IsArray() {
		return ImportResult{}, fmt.Errorf("export must be a JSON array, got %s", root.Type)
	}

	var (
		result  ImportResult
		iterErr error
	)
	root.ForEach(func(key, value gjson.Result) bool {
		if err := ctx.Err(); err != nil {
			iterErr = err
			return false
		}

		ts, err := models.ParseTimestamp(value.Get("timestamp").String())
		if err != nil {
			logger.Warn("skipping exported row", "index", key.Int(), "error", err)
			result.Skipped++
			return true
		}

		data := value.Get("data")
		payload := []byte(data.Raw)
		if data.Type == gjson.String {
			payload = []byte(data.String())
		}

		if _, err := store.InsertSnapshot(ctx, ts, payload); err != nil {
			if !errors.Is(err, models.ErrInvalidStats) {
				iterErr = fmt.Errorf("failed to import row %d: %w", key.Int(), err)
				return false
			}
			logger.Warn("skipping exported row", "index", key.Int(), "error", err)
			result.Skipped++
			return true
		}
		result.Imported++
		return true
	})

	if iterErr != nil {
		return result, iterErr
	}
	return result, nil
}
