package service

import (
	"context"
	"fmt"

	"meetroom/internal/domains/booking/model/dto"
	"meetroom/shared/constant"
	"meetroom/shared/failure"
	"meetroom/shared/timerange"

	"github.com/rs/zerolog/log"
)

// CheckAvailability probes whether the room is free for the given range. An
// overlapping live booking makes the slot unavailable; a booking touching
// the boundary does not. excludeID skips the booking being rescheduled.
//
// This is the fast path only. The decisive overlap check runs inside the
// store transaction, under the room lock, so a stale answer here can never
// double-book a room.
func (s *serviceImpl) CheckAvailability(ctx context.Context, roomID string, rng timerange.Range, excludeID string) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.CheckAvailability")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !rng.IsValid() {
		return res, failure.BadRequestFromString("time_end must be after time_start") //nolint:wrapcheck
	}

	conflicting, err := s.repo.FindOverlapping(ctx, roomID, rng, excludeID)
	if err != nil {
		log.Error().Err(err).Msg("failed to check room availability")

		return res, fmt.Errorf("failed to check room availability: %w", err)
	}

	if conflicting.ID != constant.Empty {
		scope.SetAttribute("booking.conflicting_id", conflicting.ID)

		return dto.AvailabilityResponse{Available: false, ConflictingID: conflicting.ID}, nil
	}

	return dto.AvailabilityResponse{Available: true}, nil
}
