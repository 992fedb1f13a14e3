// internal/domain/checkout/entity.go
package checkout

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/your-org/eventhub-storefront/internal/domain/cart"
)

var (
	// ErrEmptyCart is returned when checking out a cart with no lines
	ErrEmptyCart = errors.New("cart is empty")
	// ErrOrderNotFound is returned when an order was never stashed, has
	// expired or was already consumed
	ErrOrderNotFound = errors.New("order not found")
)

// Form is what the customer submits at checkout
type Form struct {
	// Personal details
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`

	// Payment
	CardNumber string `json:"cardNumber" validate:"required,cardnumber"`
	CardName   string `json:"cardName" validate:"required"`
	ExpiryDate string `json:"expiryDate" validate:"required,expiry"`
	CVV        string `json:"cvv" validate:"required,cvv"`

	// Billing
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
	Region  string `json:"region" validate:"required"`
	ZipCode string `json:"zipCode" validate:"required"`
}

// FieldError describes one rejected form field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FormError reports a checkout form that failed validation
type FormError struct {
	Fields []FieldError
}

func (e *FormError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return fmt.Sprintf("invalid checkout form: %s", strings.Join(names, ", "))
}

// Customer identifies who placed the order
type Customer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// FullName returns first and last name joined
func (c Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Billing is the billing address
type Billing struct {
	Address string `json:"address"`
	City    string `json:"city"`
	Region  string `json:"region"`
	ZipCode string `json:"zipCode"`
}

// PaymentSummary keeps what may be shown back to the customer. The full
// card number and CVV are never stored.
type PaymentSummary struct {
	CardName        string `json:"cardName"`
	CardLast4       string `json:"cardLast4"`
	CardFingerprint string `json:"cardFingerprint"`
	ExpiryDate      string `json:"expiryDate"`
}

// Order is the snapshot taken when a cart is checked out
type Order struct {
	ID         string         `json:"id"`
	Customer   Customer       `json:"customer"`
	Billing    Billing        `json:"billing"`
	Payment    PaymentSummary `json:"payment"`
	Items      []cart.Line    `json:"items"`
	Subtotal   int64          `json:"subtotal"`
	ServiceFee int64          `json:"serviceFee"`
	Total      int64          `json:"total"`
	CreatedAt  time.Time      `json:"createdAt"`
}

// TicketCount returns the number of tickets in the order
func (o *Order) TicketCount() int {
	return cart.Count(o.Items)
}
