// internal/domain/event/entity.go
package event

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar date format used by event dates
const DateLayout = "2006-01-02"

// DefaultImage is used when a draft arrives without an image
const DefaultImage = "https://images.unsplash.com/photo-1540575467063-178a50c2df87?w=800&q=80"

// Event categories offered by the create-event form
const (
	CategoryConference = "Conferencia"
	CategoryConcert    = "Concierto"
	CategoryFestival   = "Festival"
	CategoryWorkshop   = "Taller"
	CategoryExhibition = "Exposición"
	CategorySports     = "Deportivo"
	CategoryNetworking = "Networking"
)

// Categories lists the enumerated event categories in display order
var Categories = []string{
	CategoryConference,
	CategoryConcert,
	CategoryFestival,
	CategoryWorkshop,
	CategoryExhibition,
	CategorySports,
	CategoryNetworking,
}

// IsCategory reports whether name is one of Categories
func IsCategory(name string) bool {
	return slices.Contains(Categories, name)
}

// ID identifies an event. It is always encoded as a JSON string but
// decodes from either a JSON string or a JSON number.
type ID string

// UnmarshalJSON accepts "1" and 1 alike
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("event id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// String returns the id as a plain string
func (id ID) String() string {
	return string(id)
}

// Matches reports whether two ids refer to the same event. Ids match when
// their text is equal or when both are base-10 integers of equal value.
func (id ID) Matches(other ID) bool {
	a := strings.TrimSpace(string(id))
	b := strings.TrimSpace(string(other))
	if a == b {
		return a != ""
	}
	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	return errA == nil && errB == nil && na == nb
}

// ParseID converts a loosely typed identifier (as found in named-query
// variables) into an ID.
func ParseID(v interface{}) (ID, bool) {
	switch t := v.(type) {
	case string:
		return ID(t), t != ""
	case ID:
		return t, t != ""
	case json.Number:
		return ID(t.String()), true
	case float64:
		if t != float64(int64(t)) {
			return "", false
		}
		return ID(strconv.FormatInt(int64(t), 10)), true
	case int:
		return ID(strconv.Itoa(t)), true
	case int64:
		return ID(strconv.FormatInt(t, 10)), true
	default:
		return "", false
	}
}

// Organizer describes who runs an event
type Organizer struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Website string `json:"website,omitempty"`
}

// ScheduleItem is one entry of an event agenda
type ScheduleItem struct {
	Time     string `json:"time"`
	Activity string `json:"activity"`
}

// Event represents one purchasable occasion
type Event struct {
	ID              ID     `gorm:"primaryKey;size:64" json:"id"`
	Seq             int64  `gorm:"not null;index" json:"-"` // Catalog insertion order
	Title           string `gorm:"not null;size:255" json:"title"`
	Description     string `gorm:"type:text" json:"description"`
	FullDescription string `gorm:"type:text" json:"fullDescription,omitempty"`
	Category        string `gorm:"not null;size:100;index" json:"category"`
	Image           string `gorm:"size:500" json:"image"`
	Location        string `gorm:"size:255" json:"location"`
	Date            string `gorm:"size:10;index" json:"date"`
	Time            string `gorm:"size:5" json:"time"`
	Price           int64  `gorm:"not null;default:0" json:"price"`
	AvailableSeats  int    `gorm:"not null;default:0" json:"availableSeats"`

	// Extended fields, present only in the richer named-query shape
	ConfirmedAttendees *int           `json:"confirmedAttendees,omitempty"`
	Rating             *float64       `json:"rating,omitempty"`
	ReviewsCount       *int           `json:"reviewsCount,omitempty"`
	Tags               []string       `gorm:"serializer:json" json:"tags,omitempty"`
	Requirements       string         `gorm:"type:text" json:"requirements,omitempty"`
	Schedule           []ScheduleItem `gorm:"serializer:json" json:"schedule,omitempty"`
	Organizer          *Organizer     `gorm:"serializer:json" json:"organizer,omitempty"`
}

// TableName overrides the table name
func (Event) TableName() string {
	return "events"
}

// StartDate parses the event date as a calendar date in loc
func (e *Event) StartDate(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(e.Date), loc)
}

// Clone returns a deep copy so callers cannot alias catalog state
func (e Event) Clone() Event {
	if e.ConfirmedAttendees != nil {
		v := *e.ConfirmedAttendees
		e.ConfirmedAttendees = &v
	}
	if e.Rating != nil {
		v := *e.Rating
		e.Rating = &v
	}
	if e.ReviewsCount != nil {
		v := *e.ReviewsCount
		e.ReviewsCount = &v
	}
	if e.Tags != nil {
		e.Tags = append([]string(nil), e.Tags...)
	}
	if e.Schedule != nil {
		e.Schedule = append([]ScheduleItem(nil), e.Schedule...)
	}
	if e.Organizer != nil {
		o := *e.Organizer
		e.Organizer = &o
	}
	return e
}

// Draft is a create-event submission: every Event field except the id
type Draft struct {
	Title              string         `json:"title"`
	Description        string         `json:"description"`
	FullDescription    string         `json:"fullDescription,omitempty"`
	Category           string         `json:"category"`
	Image              string         `json:"image"`
	Location           string         `json:"location"`
	Date               string         `json:"date"`
	Time               string         `json:"time"`
	Price              int64          `json:"price"`
	AvailableSeats     int            `json:"availableSeats"`
	ConfirmedAttendees *int           `json:"confirmedAttendees,omitempty"`
	Rating             *float64       `json:"rating,omitempty"`
	ReviewsCount       *int           `json:"reviewsCount,omitempty"`
	Tags               []string       `json:"tags,omitempty"`
	Requirements       string         `json:"requirements,omitempty"`
	Schedule           []ScheduleItem `json:"schedule,omitempty"`
	Organizer          *Organizer     `json:"organizer,omitempty"`
}

// FieldError describes one invalid draft field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validate checks the fields the create-event form requires
func (d *Draft) Validate() []FieldError {
	var errs []FieldError

	if strings.TrimSpace(d.Title) == "" {
		errs = append(errs, FieldError{Field: "title", Message: "title is required"})
	}
	if date := strings.TrimSpace(d.Date); date != "" {
		if _, err := time.Parse(DateLayout, date); err != nil {
			errs = append(errs, FieldError{Field: "date", Message: "date must use the YYYY-MM-DD format"})
		}
	}
	if strings.TrimSpace(d.Location) == "" {
		errs = append(errs, FieldError{Field: "location", Message: "location is required"})
	}
	if d.Category != "" && !IsCategory(d.Category) {
		errs = append(errs, FieldError{
			Field:   "category",
			Message: "category must be one of " + strings.Join(Categories, ", "),
		})
	}
	if d.Price < 0 {
		errs = append(errs, FieldError{Field: "price", Message: "price cannot be negative"})
	}
	if d.AvailableSeats < 0 {
		errs = append(errs, FieldError{Field: "availableSeats", Message: "availableSeats cannot be negative"})
	}

	return errs
}

// ToEvent materializes the draft with the given id, applying creation defaults
func (d Draft) ToEvent(id ID, now time.Time) Event {
	ev := Event{
		ID:                 id,
		Title:              strings.TrimSpace(d.Title),
		Description:        d.Description,
		FullDescription:    d.FullDescription,
		Category:           d.Category,
		Image:              d.Image,
		Location:           strings.TrimSpace(d.Location),
		Date:               strings.TrimSpace(d.Date),
		Time:               d.Time,
		Price:              d.Price,
		AvailableSeats:     d.AvailableSeats,
		ConfirmedAttendees: d.ConfirmedAttendees,
		Rating:             d.Rating,
		ReviewsCount:       d.ReviewsCount,
		Tags:               d.Tags,
		Requirements:       d.Requirements,
		Schedule:           d.Schedule,
		Organizer:          d.Organizer,
	}

	if ev.Date == "" {
		ev.Date = now.Format(DateLayout)
	}
	if strings.TrimSpace(ev.Image) == "" {
		ev.Image = DefaultImage
	}
	if ev.Category == "" {
		ev.Category = CategoryConference
	}

	return ev.Clone()
}
