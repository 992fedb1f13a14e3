// internal/domain/cart/entity.go
package cart

import (
	"github.com/your-org/eventhub-storefront/internal/domain/event"
)

// Line is one event in the cart. Event fields are copied at add time so the
// line keeps showing what the customer chose even if the catalog changes.
type Line struct {
	event.Event
	Quantity int `json:"quantity"`
}

// Subtotal returns price times quantity
func (l Line) Subtotal() int64 {
	return l.Price * int64(l.Quantity)
}

// View is a consistent read of the cart at one instant
type View struct {
	Items []Line `json:"items"`
	Count int    `json:"count"`
	Total int64  `json:"total"`
	Open  bool   `json:"open"`
}

// Total sums price times quantity over lines
func Total(lines []Line) int64 {
	var total int64
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}

// Count sums quantities over lines
func Count(lines []Line) int {
	count := 0
	for _, l := range lines {
		count += l.Quantity
	}
	return count
}

func cloneLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	for i, l := range lines {
		out[i] = Line{Event: l.Event.Clone(), Quantity: l.Quantity}
	}
	return out
}

func indexOf(lines []Line, id event.ID) int {
	for i := range lines {
		if lines[i].ID.Matches(id) {
			return i
		}
	}
	return -1
}
