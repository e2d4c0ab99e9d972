package service

import (
	"context"
	"time"

	"github.com/je4550/repair-app/internal/appointments/transport"
	"github.com/je4550/repair-app/platform/apperr"

	"github.com/google/uuid"
)

// CheckAvailability answers the availability endpoint. With a specific time
// and duration it reports whether the slot is free and which bookings block
// it; with only a date it returns the day's schedule for calendar rendering.
func (s *Service) CheckAvailability(ctx context.Context, shopID uuid.UUID, req transport.AvailabilityRequest) (interface{}, error) {
	day, err := time.Parse(dateFormat, req.Date)
	if err != nil {
		return nil, apperr.BadRequest("invalid date, expected YYYY-MM-DD")
	}

	if req.Time == "" {
		return s.daySchedule(ctx, shopID, day, req.Date)
	}

	clock, err := time.Parse(timeFormat, req.Time)
	if err != nil {
		return nil, apperr.BadRequest("invalid time, expected HH:MM")
	}
	if req.DurationMinutes <= 0 {
		return nil, apperr.BadRequest("durationMinutes is required when time is given")
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, time.UTC)
	return s.slotAvailability(ctx, shopID, start, time.Duration(req.DurationMinutes)*time.Minute)
}

func (s *Service) slotAvailability(ctx context.Context, shopID uuid.UUID, start time.Time, duration time.Duration) (*transport.AvailabilityResponse, error) {
	conflicts, err := s.repo.FindConflicts(ctx, shopID, start, start.Add(duration), uuid.Nil)
	if err != nil {
		return nil, err
	}

	return &transport.AvailabilityResponse{
		Available: len(conflicts) == 0,
		Conflicts: toConflictInfos(conflicts),
	}, nil
}

func (s *Service) daySchedule(ctx context.Context, shopID uuid.UUID, day time.Time, date string) (*transport.DayScheduleResponse, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	slots, err := s.repo.ListDay(ctx, shopID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	appointments := make([]transport.DayAppointment, 0, len(slots))
	for _, slot := range slots {
		appointments = append(appointments, transport.DayAppointment{
			ID:        slot.ID,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
			Title:     slot.CustomerName + " - " + slot.VehicleName,
			Status:    slot.Status,
		})
	}

	return &transport.DayScheduleResponse{
		Date:         date,
		Appointments: appointments,
	}, nil
}
