package news

import (
	"context"
	"log/slog"
	"strings"

	"innovalley/internal/middleware"
	"innovalley/internal/models"
	"innovalley/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

// Fetcher retrieves the raw listing page.
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// Feed combines a Fetcher and the extractor behind a call that cannot fail.
type Feed struct {
	source  Fetcher
	baseURL string
}

// NewFeed returns a Feed reading from source and resolving links against baseURL.
func NewFeed(source Fetcher, baseURL string) *Feed {
	return &Feed{source: source, baseURL: baseURL}
}

// Latest returns the current announcements, or an empty slice when the
// source is unreachable or the page cannot be read. It never returns nil.
func (f *Feed) Latest(ctx context.Context) []models.NewsItem {
	ctx, span := observability.StartInternalSpan(ctx, "news.latest")
	defer span.End()

	html, err := f.source.Fetch(ctx)
	if err != nil {
		span.RecordError(err)
		observability.NewsFetchTotal.WithLabelValues(observability.NewsOutcomeFetchError).Inc()
		middleware.Logger.WarnContext(ctx, "news fetch failed",
			slog.String("error", err.Error()))
		return []models.NewsItem{}
	}

	items := Extract(ctx, strings.NewReader(html), f.baseURL)
	if len(items) == 0 {
		observability.NewsFetchTotal.WithLabelValues(observability.NewsOutcomeEmpty).Inc()
		return items
	}

	observability.NewsFetchTotal.WithLabelValues(observability.NewsOutcomeOK).Inc()
	span.SetAttributes(attribute.Int("news.items", len(items)))
	return items
}
