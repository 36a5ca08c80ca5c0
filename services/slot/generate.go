package slot

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"telecare/models"
	"telecare/utils"
)

// GenerateTemplateSlots materializes slots across a date range from a weekly
// schedule. Days absent from the schedule are skipped. Existing (date, time)
// pairs are left untouched, so re-running a template is safe.
func (s *DefaultSlotService) GenerateTemplateSlots(ctx context.Context, req models.GenerateTemplateRequest) ([]models.TimeSlot, error) {
	start, err := utils.ParseDate(req.StartDate, s.Location)
	if err != nil {
		return nil, NewValidationError("startDate", "must be formatted as 2006-01-02")
	}
	end, err := utils.ParseDate(req.EndDate, s.Location)
	if err != nil {
		return nil, NewValidationError("endDate", "must be formatted as 2006-01-02")
	}
	if end.Before(start) {
		return nil, NewValidationError("endDate", "must not precede startDate")
	}
	if req.IntervalMinutes < 1 {
		return nil, NewValidationError("interval", "must be at least 1 minute")
	}
	if len(req.Weekly) == 0 {
		return nil, NewValidationError("weeklySchedule", "must cover at least one weekday")
	}

	capacity := req.Capacity
	if capacity <= 0 {
		active, err := s.Providers.CountActive(ctx)
		if err != nil {
			return nil, err
		}
		capacity = int(active)
		if capacity < 1 {
			capacity = 1
		}
	}

	now := time.Now()
	var slots []models.TimeSlot
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		window, ok := req.Weekly[day.Weekday()]
		if !ok {
			continue
		}
		times, err := stepWindow(window.Start, window.End, req.IntervalMinutes)
		if err != nil {
			return nil, err
		}
		date := day.Format(utils.DateLayout)
		for _, hhmm := range times {
			slots = append(slots, models.TimeSlot{
				ID:        uuid.New().String(),
				Date:      date,
				Time:      hhmm,
				Kind:      models.SlotKindNormal,
				Visible:   true,
				Capacity:  capacity,
				Remaining: capacity,
				CreatedAt: now,
				UpdatedAt: now,
			})
		}
	}
	if len(slots) == 0 {
		return nil, nil
	}

	created, err := s.Repo.InsertIgnoreExisting(ctx, slots)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("generated template slots",
		zap.String("startDate", req.StartDate),
		zap.String("endDate", req.EndDate),
		zap.Int("requested", len(slots)),
		zap.Int("created", len(created)))
	if len(created) > 0 {
		s.Events.Publish(ctx, models.EventSlotCreated, map[string]interface{}{
			"kind":  models.SlotKindNormal,
			"count": len(created),
		})
	}
	return created, nil
}

// GenerateSpecialSlots creates one-off slots on a single date. The audit
// record is written whether or not de-duplication inserted anything; the
// administrative action itself is the auditable event.
func (s *DefaultSlotService) GenerateSpecialSlots(ctx context.Context, req models.GenerateSpecialRequest) ([]models.TimeSlot, error) {
	if _, err := utils.ParseDate(req.Date, s.Location); err != nil {
		return nil, NewValidationError("date", "must be formatted as 2006-01-02")
	}
	if req.IntervalMinutes < 1 {
		return nil, NewValidationError("interval", "must be at least 1 minute")
	}
	if req.Capacity < 1 {
		return nil, NewValidationError("capacity", "must be at least 1")
	}
	times, err := stepWindow(req.Start, req.End, req.IntervalMinutes)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	slots := make([]models.TimeSlot, 0, len(times))
	for _, hhmm := range times {
		slots = append(slots, models.TimeSlot{
			ID:             uuid.New().String(),
			Date:           req.Date,
			Time:           hhmm,
			Kind:           models.SlotKindSpecial,
			OverrideReason: req.Reason,
			Visible:        true,
			Capacity:       req.Capacity,
			Remaining:      req.Capacity,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}

	created, err := s.Repo.InsertIgnoreExisting(ctx, slots)
	if err != nil {
		return nil, err
	}

	record := models.SpecialSlotHistory{
		Date:            req.Date,
		Start:           req.Start,
		End:             req.End,
		IntervalMinutes: req.IntervalMinutes,
		Capacity:        req.Capacity,
		Reason:          req.Reason,
		CreatedBy:       req.CreatedBy,
	}
	if err := s.Records.AddSpecialSlotHistory(ctx, record); err != nil {
		s.Logger.Error("failed to record special slot generation", zap.Error(err))
	}

	s.Logger.Info("generated special slots",
		zap.String("date", req.Date),
		zap.Int("requested", len(slots)),
		zap.Int("created", len(created)))
	if len(created) > 0 {
		s.Events.Publish(ctx, models.EventSlotCreated, map[string]interface{}{
			"kind":  models.SlotKindSpecial,
			"date":  req.Date,
			"count": len(created),
		})
	}
	return created, nil
}

// stepWindow expands a half-open [start, end) window into slot start times at
// the given minute interval. A start at or past the end yields no times.
func stepWindow(start, end string, intervalMinutes int) ([]string, error) {
	startMin, err := utils.TimeToMinutes(start)
	if err != nil {
		return nil, NewValidationError("timeStart", "must be formatted as 15:04")
	}
	endMin, err := utils.TimeToMinutes(end)
	if err != nil {
		return nil, NewValidationError("timeEnd", "must be formatted as 15:04")
	}
	var times []string
	for m := startMin; m < endMin; m += intervalMinutes {
		times = append(times, utils.MinutesToTime(m))
	}
	return times, nil
}
