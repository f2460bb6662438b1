package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"edukaster/internal/domain"
)

var ErrInvalidTemplate = errors.New("invalid availability template")

type DaySlots struct {
	Date  string `json:"date"`
	Day   string `json:"day"`
	Slots []Slot `json:"slots"`
}

type Service struct {
	rules    RuleSource
	bookings BookingSource
	slotLen  time.Duration

	now func() time.Time
}

func NewService(rules RuleSource, bookings BookingSource, slotMinutes int) *Service {
	if slotMinutes <= 0 {
		slotMinutes = 60
	}
	return &Service{
		rules:    rules,
		bookings: bookings,
		slotLen:  time.Duration(slotMinutes) * time.Minute,
		now:      time.Now,
	}
}

// GetAvailability projects the tutor's weekly template onto the next
// horizonDays calendar days and removes slots taken by active
// individual bookings. Days without an active template entry are
// omitted entirely. A tutor with no template yields an empty result.
func (s *Service) GetAvailability(ctx context.Context, tutorID int64, horizonDays int) ([]DaySlots, error) {
	if horizonDays <= 0 {
		horizonDays = 7
	}

	rules, err := s.rules.ListActiveByTutor(ctx, tutorID)
	if err != nil {
		return nil, err
	}
	if len(rules) == 0 {
		return []DaySlots{}, nil
	}

	byDay := make(map[string]domain.AvailabilityRule, len(rules))
	for _, r := range rules {
		byDay[r.Day] = r
	}

	today := s.now()
	horizonEnd := today.AddDate(0, 0, horizonDays)

	active, err := s.bookings.ListActiveByTutorUntil(ctx, tutorID, horizonEnd)
	if err != nil {
		return nil, err
	}
	// Group cohorts span weeks; only individual sessions occupy slots.
	var busy []domain.Booking
	for _, b := range active {
		if b.SessionType == domain.SessionOneOnOne {
			busy = append(busy, b)
		}
	}

	result := []DaySlots{}
	for i := 0; i < horizonDays; i++ {
		day := today.AddDate(0, 0, i)
		rule, ok := byDay[day.Weekday().String()]
		if !ok {
			continue
		}

		fromH, fromM, err := parseClock(rule.From, rule.AmpmFrom)
		if err != nil {
			return nil, err
		}
		toH, toM, err := parseClock(rule.To, rule.AmpmTo)
		if err != nil {
			return nil, err
		}

		candidates := partition(day, fromH, fromM, toH, toM, s.slotLen)
		free := make([]Slot, 0, len(candidates))
		for _, slot := range candidates {
			if !s.taken(slot, busy) {
				free = append(free, slot)
			}
		}

		result = append(result, DaySlots{
			Date:  day.Format("2006-01-02"),
			Day:   day.Weekday().String(),
			Slots: free,
		})
	}
	return result, nil
}

// SetTemplate validates and replaces the tutor's weekly template.
func (s *Service) SetTemplate(ctx context.Context, tutorID int64, rules []domain.AvailabilityRule) error {
	for i := range rules {
		r := &rules[i]
		if !validWeekday(r.Day) {
			return fmt.Errorf("%w: unknown day %q", ErrInvalidTemplate, r.Day)
		}
		fromH, fromM, err := parseClock(r.From, r.AmpmFrom)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
		}
		toH, toM, err := parseClock(r.To, r.AmpmTo)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
		}
		if fromH*60+fromM >= toH*60+toM {
			return fmt.Errorf("%w: %s window %s %s to %s %s is empty", ErrInvalidTemplate,
				r.Day, r.From, r.AmpmFrom, r.To, r.AmpmTo)
		}
	}
	return s.rules.Replace(ctx, tutorID, rules)
}

func validWeekday(day string) bool {
	switch day {
	case "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday":
		return true
	}
	return false
}

func (s *Service) taken(slot Slot, busy []domain.Booking) bool {
	for _, b := range busy {
		if overlaps(slot.Start, slot.End, b.ScheduledDate, b.End()) {
			return true
		}
	}
	return false
}
