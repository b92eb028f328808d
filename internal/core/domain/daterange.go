package domain

import (
	"fmt"
	"time"
)

// DateLayout is the wire format of stay dates.
const DateLayout = "2006-01-02"

// DateRange is a half-open stay [CheckIn, CheckOut) at day granularity.
// Both bounds are normalised to UTC midnight.
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// NewDateRange normalises both bounds to dates and rejects empty or inverted
// ranges.
func NewDateRange(checkIn, checkOut time.Time) (DateRange, error) {
	r := DateRange{CheckIn: dateOf(checkIn), CheckOut: dateOf(checkOut)}
	if !r.CheckOut.After(r.CheckIn) {
		return DateRange{}, fmt.Errorf("%w: check_out must be after check_in", ErrInvalidInput)
	}
	return r, nil
}

// ParseDateRange parses two YYYY-MM-DD dates.
func ParseDateRange(checkIn, checkOut string) (DateRange, error) {
	in, err := time.Parse(DateLayout, checkIn)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: check_in: %v", ErrInvalidInput, err)
	}
	out, err := time.Parse(DateLayout, checkOut)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: check_out: %v", ErrInvalidInput, err)
	}
	return NewDateRange(in, out)
}

// Overlaps reports whether r and o share at least one night. Back-to-back
// stays (r.CheckOut == o.CheckIn) do not overlap.
func (r DateRange) Overlaps(o DateRange) bool {
	return r.CheckIn.Before(o.CheckOut) && r.CheckOut.After(o.CheckIn)
}

// Nights is the number of nights in the stay.
func (r DateRange) Nights() int {
	return int(r.CheckOut.Sub(r.CheckIn).Hours() / 24)
}

func (r DateRange) Equal(o DateRange) bool {
	return r.CheckIn.Equal(o.CheckIn) && r.CheckOut.Equal(o.CheckOut)
}

func (r DateRange) String() string {
	return r.CheckIn.Format(DateLayout) + ".." + r.CheckOut.Format(DateLayout)
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
