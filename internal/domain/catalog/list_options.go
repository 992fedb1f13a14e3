// internal/domain/catalog/list_options.go
package catalog

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/your-org/eventhub-storefront/internal/domain/event"
)

// Sort keys accepted by ListOptions
const (
	SortDate  = "date"
	SortPrice = "price"
	SortTitle = "title"
)

// CategoryAll disables the category filter
const CategoryAll = "all"

// ListOptions narrows and orders the catalog listing. The zero value keeps
// every event in source order.
type ListOptions struct {
	Category string `form:"category"`
	Query    string `form:"q"`
	Sort     string `form:"sort" binding:"omitempty,oneof=date price title"`
}

// Apply filters by exact category, then by query against title,
// description and location, then sorts stably. events is not modified.
func (o ListOptions) Apply(events []event.Event) []event.Event {
	category := strings.TrimSpace(o.Category)
	needle := strings.ToLower(strings.TrimSpace(o.Query))

	out := make([]event.Event, 0, len(events))
	for _, ev := range events {
		if category != "" && category != CategoryAll && ev.Category != category {
			continue
		}
		if needle != "" && !matchesAny(needle, ev.Title, ev.Description, ev.Location) {
			continue
		}
		out = append(out, ev)
	}

	switch o.Sort {
	case SortDate:
		// Dates are YYYY-MM-DD so text order is calendar order
		slices.SortStableFunc(out, func(a, b event.Event) int {
			return cmp.Compare(a.Date, b.Date)
		})
	case SortPrice:
		slices.SortStableFunc(out, func(a, b event.Event) int {
			return cmp.Compare(a.Price, b.Price)
		})
	case SortTitle:
		titles := collate.New(language.Spanish, collate.IgnoreCase)
		slices.SortStableFunc(out, func(a, b event.Event) int {
			return titles.CompareString(a.Title, b.Title)
		})
	}

	return out
}
