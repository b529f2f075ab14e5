package core

import (
	"context"
	"time"
)

// DefaultImportTimeout bounds a single preview, confirm or import call.
const DefaultImportTimeout = 10 * time.Minute

// Options tunes the import side of a Service.
type Options struct {
	MaxConcurrent   int           // simultaneous import calls
	MaxWait         time.Duration // wait for a free import slot
	Timeout         time.Duration // per import call
	LookupCacheSize int           // per-request ID lookup cache; 0 disables
}

// Service is the entry point for equipment operations and the CSV import
// pipeline. It is safe for concurrent use.
type Service struct {
	repo    Repository
	schema  *ImportSchema
	limiter *ImportLimiter
	timeout time.Duration
	cache   int

	now func() time.Time
}

// NewService wires a Service over repo. A nil schema means DefaultSchema.
func NewService(repo Repository, schema *ImportSchema, opts Options) *Service {
	if schema == nil {
		schema = DefaultSchema()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultImportTimeout
	}
	return &Service{
		repo:    repo,
		schema:  schema,
		limiter: NewImportLimiter(opts.MaxConcurrent, opts.MaxWait),
		timeout: opts.Timeout,
		cache:   opts.LookupCacheSize,
		now:     time.Now,
	}
}

// Schema returns the import schema the service resolves headers with.
func (s *Service) Schema() *ImportSchema { return s.schema }

// ImportStatus reports import slot usage.
func (s *Service) ImportStatus() ImportLimiterStatus { return s.limiter.Status() }

// WaitForImports blocks until running imports finish or ctx ends.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// beginImport takes an import slot and applies the import timeout. The
// returned func must be called when the import ends.
func (s *Service) beginImport(ctx context.Context) (context.Context, func(), error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	return ctx, func() {
		cancel()
		s.limiter.Release()
	}, nil
}

func (s *Service) newClassifier(cacheSize int) *classifier {
	return &classifier{schema: s.schema, ids: newIDResolver(s.repo, cacheSize)}
}
