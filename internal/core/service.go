package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/JonMunkholm/coltype/internal/config"
	"github.com/JonMunkholm/coltype/internal/core/coltype"
	"github.com/JonMunkholm/coltype/internal/history"
	"github.com/JonMunkholm/coltype/internal/ingest"
	"github.com/JonMunkholm/coltype/internal/logging"
	"github.com/google/uuid"
)

// SuccessMessage is returned with every successful classification.
const SuccessMessage = "File successfully processed"

// ErrFileTooLarge is returned when an upload exceeds Options.MaxFileSize.
var ErrFileTooLarge = errors.New("file too large")

// Options configures a Service.
type Options struct {
	MaxFileSize    int64
	MaxConcurrent  int
	MaxWait        time.Duration
	Timeout        time.Duration
	MaxPreviewRows int // 0 echoes every row
	Classify       coltype.Options
}

// OptionsFromConfig maps application config onto service options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		MaxFileSize:    cfg.Upload.MaxFileSize,
		MaxConcurrent:  cfg.Upload.MaxConcurrent,
		MaxWait:        cfg.Upload.MaxWaitTime,
		Timeout:        cfg.Upload.Timeout,
		MaxPreviewRows: cfg.Upload.MaxPreviewRows,
		Classify: coltype.Options{
			SampleSize: cfg.Classify.SampleSize,
			Seed:       cfg.Classify.Seed,
		},
	}
}

// Service classifies uploaded files and keeps a history of runs.
type Service struct {
	classifier *coltype.Classifier
	history    history.Store
	limiter    *UploadLimiter
	opts       Options
}

// NewService creates a Service. A nil store disables history.
func NewService(store history.Store, opts Options) *Service {
	return &Service{
		classifier: coltype.New(opts.Classify),
		history:    store,
		limiter:    NewUploadLimiter(opts.MaxConcurrent, opts.MaxWait),
		opts:       opts,
	}
}

// UploadResponse is the result of one classification. Its JSON form is
// the /upload contract: success, columns, column_types, data, message.
type UploadResponse struct {
	Success     bool                   `json:"success"`
	Columns     []string               `json:"columns"`
	ColumnTypes *coltype.Result        `json:"column_types"`
	Data        []ingest.Record        `json:"data"`
	Message     string                 `json:"message"`
	RunID       string                 `json:"runId,omitempty"`
	FileName    string                 `json:"fileName"`
	Rows        int                    `json:"rows"`
	Truncated   bool                   `json:"truncated,omitempty"`
	Details     []coltype.ColumnResult `json:"details"`

	Table *ingest.Table `json:"-"`
}

// ClassifyUpload parses r as the format implied by fileName and classifies
// every column. size may be -1 when unknown; the byte limit is enforced
// while reading either way.
func (s *Service) ClassifyUpload(ctx context.Context, fileName string, r io.Reader, size int64) (*UploadResponse, error) {
	if strings.TrimSpace(fileName) == "" || r == nil {
		return nil, ingest.ErrNoFile
	}
	if s.opts.MaxFileSize > 0 && size > s.opts.MaxFileSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrFileTooLarge, size, s.opts.MaxFileSize)
	}
	if _, ok := ingest.Lookup(fileName); !ok {
		return nil, fmt.Errorf("%w: %s", ingest.ErrUnsupportedFormat, fileName)
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	log := logging.WithFields(ctx, "file", fileName)
	start := time.Now()

	counter := ingest.NewCountingReader(r)
	var src io.Reader = counter
	if s.opts.MaxFileSize > 0 {
		src = &sizeGuard{r: counter, limit: s.opts.MaxFileSize}
	}

	table, err := ingest.Parse(fileName, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", fileName, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := s.classify(ctx, table)
	took := time.Since(start)

	resp := &UploadResponse{
		Success:     true,
		Columns:     table.Names(),
		ColumnTypes: result,
		Data:        table.Records(s.opts.MaxPreviewRows),
		Message:     SuccessMessage,
		FileName:    fileName,
		Rows:        table.Rows,
		Truncated:   s.opts.MaxPreviewRows > 0 && table.Rows > s.opts.MaxPreviewRows,
		Details:     result.Columns(),
		Table:       table,
	}

	if s.history != nil {
		run := history.NewRun(fileName, table.Rows, result, took)
		if err := s.history.Record(ctx, run); err != nil {
			log.Warn("failed to record classification run", "error", err)
		} else {
			resp.RunID = run.ID.String()
		}
	}

	counts := result.Counts()
	log.Info("upload classified",
		"bytes", counter.BytesRead,
		"rows", table.Rows,
		"columns", result.Len(),
		"numeric", counts[coltype.Numeric],
		"date", counts[coltype.Date],
		"text_numeric", counts[coltype.TextNumeric],
		"text", counts[coltype.Text],
		"duration_ms", took.Milliseconds(),
	)
	return resp, nil
}

func (s *Service) classify(ctx context.Context, table *ingest.Table) *coltype.Result {
	log := logging.FromContext(ctx)
	result := coltype.NewResult(len(table.Columns))
	for _, col := range table.Columns {
		cr := s.classifier.Explain(col)
		log.Debug("column classified",
			"column", cr.Name,
			"category", cr.Category.Code(),
			"date_format", cr.DateFormat,
		)
		result.Set(cr)
	}
	return result
}

// RecentRuns returns up to limit recorded runs, newest first.
func (s *Service) RecentRuns(ctx context.Context, limit int) ([]history.Run, error) {
	if s.history == nil {
		return []history.Run{}, nil
	}
	runs, err := s.history.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	if runs == nil {
		runs = []history.Run{}
	}
	return runs, nil
}

// Run looks up one recorded run by its string ID.
func (s *Service) Run(ctx context.Context, id string) (history.Run, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return history.Run{}, fmt.Errorf("invalid run id %q: %w", id, err)
	}
	if s.history == nil {
		return history.Run{}, history.ErrNotFound
	}
	return s.history.Get(ctx, parsed)
}

// UploadLimiterStatus reports upload slot usage.
func (s *Service) UploadLimiterStatus() UploadLimiterStatus {
	return s.limiter.Status()
}

// WaitForUploads blocks until in-flight uploads finish or ctx ends.
func (s *Service) WaitForUploads(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// MaxFileSize returns the configured byte limit.
func (s *Service) MaxFileSize() int64 {
	return s.opts.MaxFileSize
}

// sizeGuard fails the read once more than limit bytes have passed through.
type sizeGuard struct {
	r     io.Reader
	limit int64
	n     int64
}

func (g *sizeGuard) Read(p []byte) (int, error) {
	n, err := g.r.Read(p)
	g.n += int64(n)
	if g.n > g.limit {
		return n, fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, g.limit)
	}
	return n, err
}
