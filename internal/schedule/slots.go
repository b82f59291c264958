// Package schedule provides the list of bookable time slots. The list is
// static: no availability is computed from existing bookings.
package schedule

// defaultTimes mirrors the salon's standard opening hours.
var defaultTimes = []string{
	"09:00", "10:00", "11:00", "12:00", "13:00",
	"14:00", "15:00", "16:00", "17:00", "18:00",
}

// SlotProvider returns the bookable time-of-day labels.
type SlotProvider struct {
	times []string
}

// NewSlotProvider builds a provider with the given labels, falling back to
// the default opening hours when none are configured.
func NewSlotProvider(times []string) *SlotProvider {
	if len(times) == 0 {
		times = defaultTimes
	}
	return &SlotProvider{times: times}
}

// Times always returns the full slot list.
func (p *SlotProvider) Times() []string {
	out := make([]string, len(p.times))
	copy(out, p.times)
	return out
}

// Contains reports whether the label is a bookable slot.
func (p *SlotProvider) Contains(label string) bool {
	for _, t := range p.times {
		if t == label {
			return true
		}
	}
	return false
}
