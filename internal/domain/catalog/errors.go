// internal/domain/catalog/errors.go
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/your-org/eventhub-storefront/internal/domain/event"
)

// ErrSuperseded is returned when a newer request for the same query key
// was issued before this one completed.
var ErrSuperseded = errors.New("catalog request superseded by a newer one")

// ValidationError reports an event draft rejected before submission
type ValidationError struct {
	Fields []event.FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return fmt.Sprintf("invalid event draft: %s", strings.Join(names, ", "))
}

// TransportError reports a failed call to the remote catalog
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("catalog %s: unexpected status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("catalog %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
