package news

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"innovalley/internal/middleware"
	"innovalley/internal/models"

	"github.com/PuerkitoBio/goquery"
)

// RowSelector locates the announcement rows of the listing table.
const RowSelector = ".board_list tbody tr"

// Cell positions within a data row: number, category, title, date, views.
const (
	minCells  = 4
	titleCell = 2
	dateCell  = 3
)

// Extract parses a listing page into NewsItems in document order. Rows with
// fewer than four cells, without a link in the title cell, or whose link has
// no text are skipped.
// Links are always baseURL followed by the raw href. A document that cannot
// be parsed yields an empty slice; the failure is logged, not returned.
func Extract(ctx context.Context, r io.Reader, baseURL string) (items []models.NewsItem) {
	items = []models.NewsItem{}

	defer func() {
		if rec := recover(); rec != nil {
			middleware.Logger.ErrorContext(ctx, "news extraction panicked",
				slog.String("panic", fmt.Sprint(rec)))
			items = []models.NewsItem{}
		}
	}()

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "news document could not be parsed",
			slog.String("error", err.Error()))
		return items
	}

	doc.Find(RowSelector).Each(func(_ int, row *goquery.Selection) {
		if item, ok := extractRow(row, baseURL); ok {
			items = append(items, item)
		}
	})
	return items
}

// ExtractString is Extract over an in-memory document.
func ExtractString(ctx context.Context, html, baseURL string) []models.NewsItem {
	return Extract(ctx, strings.NewReader(html), baseURL)
}

func extractRow(row *goquery.Selection, baseURL string) (models.NewsItem, bool) {
	cells := row.Find("td")
	if cells.Length() < minCells {
		return models.NewsItem{}, false
	}

	link := cells.Eq(titleCell).Find("a").First()
	if link.Length() == 0 {
		return models.NewsItem{}, false
	}

	title := strings.TrimSpace(link.Text())
	if title == "" {
		return models.NewsItem{}, false
	}

	href, _ := link.Attr("href")
	return models.NewsItem{
		Title: title,
		Link:  baseURL + href,
		Date:  strings.TrimSpace(cells.Eq(dateCell).Text()),
	}, true
}
