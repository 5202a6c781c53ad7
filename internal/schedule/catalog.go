// Package schedule defines the fixed universe of bookable dates and time slots.
package schedule

import (
	"fmt"
	"time"
)

// DateLayout is the canonical wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// Slot is an immutable catalog entry for a bookable time window.
type Slot struct {
	Value   string `json:"value"`
	Display string `json:"display"`
}

// Catalog maps calendar dates to their candidate slots. The salon takes
// bookings on weekends only, in three fixed windows per day.
type Catalog struct {
	loc          *time.Location
	slots        []Slot
	bookableDays map[time.Weekday]bool
}

// Options configures a Catalog. Zero values fall back to the salon defaults.
type Options struct {
	Timezone     string
	Slots        []Slot
	BookableDays []time.Weekday
}

// DefaultSlots returns the salon's three fixed time windows.
func DefaultSlots() []Slot {
	return []Slot{
		{Value: "10 am - 12 pm", Display: "10 am - 12 pm"},
		{Value: "2 pm - 4 pm", Display: "2 pm - 4 pm"},
		{Value: "5 pm - 7 pm", Display: "5 pm - 7 pm"},
	}
}

// New creates a catalog from options.
func New(opts Options) (*Catalog, error) {
	tz := opts.Timezone
	if tz == "" {
		tz = "America/Winnipeg"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("schedule: load timezone %q: %w", tz, err)
	}

	slots := opts.Slots
	if len(slots) == 0 {
		slots = DefaultSlots()
	}

	days := opts.BookableDays
	if len(days) == 0 {
		days = []time.Weekday{time.Saturday, time.Sunday}
	}
	bookable := make(map[time.Weekday]bool, len(days))
	for _, d := range days {
		bookable[d] = true
	}

	return &Catalog{loc: loc, slots: slots, bookableDays: bookable}, nil
}

// Default returns the weekend-only Winnipeg catalog.
func Default() *Catalog {
	c, err := New(Options{})
	if err != nil {
		panic("schedule: default catalog: " + err.Error())
	}
	return c
}

// Location returns the catalog's fixed time zone.
func (c *Catalog) Location() *time.Location {
	return c.loc
}

// ParseDate validates a canonical YYYY-MM-DD date string.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("schedule: invalid date %q: %w", date, err)
	}
	return t, nil
}

// IsBookableDate reports whether the catalog defines slots for the date.
func (c *Catalog) IsBookableDate(date string) bool {
	t, err := ParseDate(date)
	if err != nil {
		return false
	}
	return c.bookableDays[t.Weekday()]
}

// SlotsFor returns the catalog slots for a bookable date, in declared order.
// Non-bookable and malformed dates yield nil.
func (c *Catalog) SlotsFor(date string) []Slot {
	if !c.IsBookableDate(date) {
		return nil
	}
	out := make([]Slot, len(c.slots))
	copy(out, c.slots)
	return out
}

// HasSlot reports whether value names a catalog slot for the date.
func (c *Catalog) HasSlot(date, value string) bool {
	for _, s := range c.SlotsFor(date) {
		if s.Value == value {
			return true
		}
	}
	return false
}

// FormatDisplayDate renders a date like "Saturday, January 20, 2024".
// The date is anchored at noon in the catalog zone so DST shifts can never
// move it across midnight.
func (c *Catalog) FormatDisplayDate(date string) string {
	t, err := time.ParseInLocation(DateLayout+" 15:04", date+" 12:00", c.loc)
	if err != nil {
		return date
	}
	return t.Format("Monday, January 2, 2006")
}

// Today returns the canonical date key for now in the catalog zone.
func (c *Catalog) Today(now time.Time) string {
	return now.In(c.loc).Format(DateLayout)
}

// UpcomingDates enumerates bookable dates from the given instant through the
// horizon, ascending. The current date is included.
func (c *Catalog) UpcomingDates(from time.Time, horizonWeeks int) []string {
	if horizonWeeks <= 0 {
		return nil
	}
	start := from.In(c.loc)
	start = time.Date(start.Year(), start.Month(), start.Day(), 12, 0, 0, 0, c.loc)

	var dates []string
	for i := 0; i < horizonWeeks*7; i++ {
		d := start.AddDate(0, 0, i)
		if c.bookableDays[d.Weekday()] {
			dates = append(dates, d.Format(DateLayout))
		}
	}
	return dates
}
