package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/therealutkarshpriyadarshi/vidmarks/internal/logging"
	"github.com/therealutkarshpriyadarshi/vidmarks/internal/metrics"
	"github.com/therealutkarshpriyadarshi/vidmarks/internal/tracing"
	"github.com/therealutkarshpriyadarshi/vidmarks/pkg/models"
)

// ErrNoSource is returned by Fetch when every source failed or none was configured
var ErrNoSource = errors.New("catalog unavailable from every source")

// Loader reads the catalog from a primary source and falls back to a
// secondary one. Each source is tried at most once per call.
type Loader struct {
	primary  Source
	fallback Source
	format   string
	logger   *logging.Logger
}

// NewLoader creates a loader. Either source may be nil, in which case it is skipped.
func NewLoader(primary, fallback Source, format string, logger *logging.Logger) *Loader {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Loader{
		primary:  primary,
		fallback: fallback,
		format:   format,
		logger:   logger,
	}
}

// Fetch returns the videos from the first source that succeeds, together
// with that source's name.
func (l *Loader) Fetch(ctx context.Context) ([]models.Video, string, error) {
	span, ctx := tracing.StartSpan(ctx, "catalog.load")
	defer tracing.FinishSpan(span)

	var errs []error
	for _, src := range []Source{l.primary, l.fallback} {
		if src == nil {
			continue
		}

		videos, err := l.attempt(ctx, src)
		if err == nil {
			tracing.SetTag(span, "catalog.source", src.Name())
			tracing.SetTag(span, "catalog.videos", len(videos))
			return videos, src.Name(), nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
	}

	err := ErrNoSource
	if len(errs) > 0 {
		err = fmt.Errorf("%w: %w", ErrNoSource, errors.Join(errs...))
	}
	tracing.LogError(span, err)
	metrics.RecordError("catalog", "no_source")
	return nil, "", err
}

// Load never fails: when no source yields a catalog it logs the cause and
// returns an empty list.
func (l *Loader) Load(ctx context.Context) []models.Video {
	videos, _, err := l.Fetch(ctx)
	if err != nil {
		l.logger.ErrorWithErr("Catalog could not be loaded, serving an empty catalog", err)
		return []models.Video{}
	}
	return videos
}

// Refresh loads the catalog into c, replacing the previous snapshot, and
// returns the number of videos now held.
func (l *Loader) Refresh(ctx context.Context, c *Catalog) int {
	c.Replace(l.Load(ctx))
	n := c.Len()
	metrics.SetCatalogSize(n)
	return n
}

func (l *Loader) attempt(ctx context.Context, src Source) ([]models.Video, error) {
	span, ctx := tracing.StartSpan(ctx, "catalog.fetch")
	defer tracing.FinishSpan(span)
	tracing.SetTag(span, "catalog.source", src.Name())

	start := time.Now()
	data, err := src.Fetch(ctx)

	var videos []models.Video
	if err == nil {
		videos, err = Parse(l.format, data)
	}
	duration := time.Since(start)

	status := "success"
	if err != nil {
		status = "error"
		tracing.LogError(span, err)
	}
	metrics.RecordCatalogFetch(src.Name(), status, duration.Seconds())
	l.logger.LogCatalogFetch(src.Name(), src.Location(), len(videos), duration, err)

	return videos, err
}
