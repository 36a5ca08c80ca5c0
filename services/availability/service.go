package availability

import (
	"context"
	"time"

	"go.uber.org/zap"

	bookingRepo "telecare/database/repository/booking"
	overrideRepo "telecare/database/repository/override"
	providerRepo "telecare/database/repository/provider"
	"telecare/models"
	"telecare/utils"
)

// Assignment policies. First-fit walks active providers in creation order;
// least-loaded prefers the available provider with the fewest non-canceled
// bookings on the requested date, breaking ties by creation order.
const (
	PolicyFirstFit    = "first-fit"
	PolicyLeastLoaded = "least-loaded"
)

// AvailabilityService resolves whether a provider can take a booking at a
// given date and time, and picks a provider for automatic assignment.
type AvailabilityService interface {
	IsProviderAvailable(ctx context.Context, providerID, date, hhmm string) (bool, error)
	// FindAvailableProvider returns the chosen provider for (date, hhmm), or
	// (nil, nil) when no active provider is available and free.
	FindAvailableProvider(ctx context.Context, date, hhmm string) (*models.Provider, error)
}

// DefaultAvailabilityService is the production implementation.
type DefaultAvailabilityService struct {
	Providers providerRepo.ProviderRepository
	Overrides overrideRepo.OverrideRepository
	Bookings  bookingRepo.BookingRepository
	Policy    string
	Logger    *zap.Logger
	Location  *time.Location
}

// IsProviderAvailable applies the precedence: a date override for the exact
// date decides alone; otherwise a monthly day entry marked available decides
// alone; otherwise the weekday's weekly window applies. No match means
// unavailable.
func (s *DefaultAvailabilityService) IsProviderAvailable(ctx context.Context, providerID, date, hhmm string) (bool, error) {
	minute, err := utils.TimeToMinutes(hhmm)
	if err != nil {
		return false, err
	}
	day, err := utils.ParseDate(date, s.Location)
	if err != nil {
		return false, err
	}

	override, err := s.Overrides.GetByProviderAndDate(ctx, providerID, date)
	if err != nil && err != overrideRepo.ErrOverrideNotFound {
		return false, err
	}
	if override != nil {
		return withinWindow(minute, override.Start, override.End), nil
	}

	provider, err := s.Providers.GetByID(ctx, providerID)
	if err != nil {
		return false, err
	}
	return s.resolveRules(provider, day, date, minute), nil
}

// resolveRules checks monthly then weekly rules. Callers have already ruled
// out a date override.
func (s *DefaultAvailabilityService) resolveRules(p *models.Provider, day time.Time, date string, minute int) bool {
	for _, month := range p.MonthlyAvailability {
		if month.Year != day.Year() || month.Month != day.Month() {
			continue
		}
		for _, entry := range month.Days {
			if entry.Date == date && entry.Available {
				return withinWindow(minute, entry.Start, entry.End)
			}
		}
	}
	weekday := day.Weekday()
	for _, w := range p.WeeklyAvailability {
		if w.Day == weekday {
			return withinWindow(minute, w.Start, w.End)
		}
	}
	return false
}

func (s *DefaultAvailabilityService) FindAvailableProvider(ctx context.Context, date, hhmm string) (*models.Provider, error) {
	minute, err := utils.TimeToMinutes(hhmm)
	if err != nil {
		return nil, err
	}
	day, err := utils.ParseDate(date, s.Location)
	if err != nil {
		return nil, err
	}

	providers, err := s.Providers.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	var (
		chosen   *models.Provider
		bestLoad int64
	)
	for i := range providers {
		p := &providers[i]

		override, err := s.Overrides.GetByProviderAndDate(ctx, p.ID, date)
		if err != nil && err != overrideRepo.ErrOverrideNotFound {
			return nil, err
		}
		var available bool
		if override != nil {
			available = withinWindow(minute, override.Start, override.End)
		} else {
			available = s.resolveRules(p, day, date, minute)
		}
		if !available {
			continue
		}

		busy, err := s.Bookings.HasActiveBookingAt(ctx, p.ID, date, hhmm)
		if err != nil {
			return nil, err
		}
		if busy {
			continue
		}

		if s.Policy != PolicyLeastLoaded {
			return p, nil
		}
		load, err := s.Bookings.CountActiveOnDate(ctx, p.ID, date)
		if err != nil {
			return nil, err
		}
		if chosen == nil || load < bestLoad {
			chosen, bestLoad = p, load
		}
	}

	if chosen == nil && s.Policy != PolicyLeastLoaded {
		s.Logger.Debug("no available provider",
			zap.String("date", date), zap.String("time", hhmm))
	}
	return chosen, nil
}

// withinWindow reports whether minute falls inside the half-open window
// [start, end). Malformed windows never match.
func withinWindow(minute int, start, end string) bool {
	s, err := utils.TimeToMinutes(start)
	if err != nil {
		return false
	}
	e, err := utils.TimeToMinutes(end)
	if err != nil {
		return false
	}
	return minute >= s && minute < e
}
