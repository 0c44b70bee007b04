package service

import (
	"context"
	"fmt"
	"time"

	"meetroom/config"
	"meetroom/infras/otel"
	"meetroom/internal/domains/booking/model"
	"meetroom/internal/domains/booking/model/dto"
	"meetroom/internal/domains/booking/repository"
	roomModel "meetroom/internal/domains/room/model"
	roomRepo "meetroom/internal/domains/room/repository"
	userModel "meetroom/internal/domains/user/model"
	userRepo "meetroom/internal/domains/user/repository"
	"meetroom/internal/notification"
	"meetroom/shared"
	"meetroom/shared/cache"
	"meetroom/shared/constant"
	"meetroom/shared/failure"
	"meetroom/shared/timerange"
	"meetroom/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
)

type Booking interface {
	CheckAvailability(ctx context.Context, roomID string, rng timerange.Range, excludeID string) (dto.AvailabilityResponse, error)
	Create(ctx context.Context, req dto.CreateBookingRequest, selfService bool) error
	Update(ctx context.Context, req dto.UpdateBookingRequest, id string) error
	Delete(ctx context.Context, id string) error
	Accept(ctx context.Context, id string) error
	Reject(ctx context.Context, id string) error
	SetAttendance(ctx context.Context, bookingID, userID, status string) error
	ListInRange(ctx context.Context, startDate, endDate, userID string) (dto.GetBookingsResponse, error)
	SearchByRoom(ctx context.Context, roomID, startDate, endDate string) (dto.GetBookingsResponse, error)
	SearchByAttendees(ctx context.Context, startDate, endDate string, userIDs []string) (dto.GetBookingsResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
}

type serviceImpl struct {
	repo       repository.Booking
	roomRepo   roomRepo.Room
	userRepo   userRepo.User
	dispatcher notification.Dispatcher
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
}

func New(
	repo repository.Booking,
	roomRepo roomRepo.Room,
	userRepo userRepo.User,
	dispatcher notification.Dispatcher,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:       repo,
		roomRepo:   roomRepo,
		userRepo:   userRepo,
		dispatcher: dispatcher,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
	}
}

// Create books a room. Admin bookings land accepted; self-service ones start
// as requests awaiting Accept. Both go through the same validation: a valid
// future range, live unblocked room, at least one existing attendee, and a
// free slot.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest, selfService bool) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, attendees, err := req.ToModel(user, !selfService)
	if err != nil {
		log.Error().Err(err).Msg("failed to parse booking request")

		return failure.BadRequestFromString(fmt.Sprintf("invalid date/time format: %v", err)) //nolint:wrapcheck
	}

	if err = validateRange(booking.Range()); err != nil {
		return err
	}

	if err = s.requireBookableRoom(ctx, booking.RoomID); err != nil {
		return err
	}

	users, err := s.resolveAttendees(ctx, req.Attendees)
	if err != nil {
		return err
	}

	availability, err := s.CheckAvailability(ctx, booking.RoomID, booking.Range(), constant.Empty)
	if err != nil {
		return err
	}

	if !availability.Available {
		return failure.Conflict(fmt.Sprintf("room already booked by %s for this time range", availability.ConflictingID)) //nolint:wrapcheck
	}

	if err = s.repo.CreateWithAttendees(ctx, booking, attendees); err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return err
	}

	s.invalidate(ctx, booking.ID)
	s.dispatchEmails(ctx, notification.KindInvite, booking, users)

	return nil
}

// Update rewrites a booking and replaces its attendee set wholesale; removed
// invitees lose their attendance state, re-added ones start over as pending.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	existing, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return fmt.Errorf("failed to get booking: %w", err)
	}

	if existing.ID == constant.Empty || existing.IsDeleted {
		return failure.NotFound("booking") //nolint:wrapcheck
	}

	booking, attendees, err := req.ToModel(id, user)
	if err != nil {
		log.Error().Err(err).Msg("failed to parse booking request")

		return failure.BadRequestFromString(fmt.Sprintf("invalid date/time format: %v", err)) //nolint:wrapcheck
	}

	if err = validateRange(booking.Range()); err != nil {
		return err
	}

	if err = s.requireBookableRoom(ctx, booking.RoomID); err != nil {
		return err
	}

	if _, err = s.resolveAttendees(ctx, req.Attendees); err != nil {
		return err
	}

	availability, err := s.CheckAvailability(ctx, booking.RoomID, booking.Range(), id)
	if err != nil {
		return err
	}

	if !availability.Available {
		return failure.Conflict(fmt.Sprintf("room already booked by %s for this time range", availability.ConflictingID)) //nolint:wrapcheck
	}

	if err = s.repo.UpdateWithAttendees(ctx, booking, attendees); err != nil {
		log.Error().Err(err).Msg("failed to update booking")

		return err
	}

	s.invalidate(ctx, id)

	return nil
}

// Delete soft-deletes a booking. Deleting twice is a conflict, and a booking
// whose room is blocked is frozen until the room reopens.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return failure.NotFound("booking") //nolint:wrapcheck
	}

	if booking.IsDeleted {
		return failure.Conflict("booking already deleted") //nolint:wrapcheck
	}

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(booking.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return fmt.Errorf("failed to get room: %w", err)
	}

	if room.IsBlocked {
		return failure.BadRequestFromString("room currently in use") //nolint:wrapcheck
	}

	if err = s.repo.SoftDelete(ctx, id, user, timezone.Now()); err != nil {
		log.Error().Err(err).Msg("failed to delete booking")

		return fmt.Errorf("failed to delete booking: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// Accept approves a booking request. It also clears any soft-delete state so
// a previously rejected request can be revived, and notifies the attendees.
func (s *serviceImpl) Accept(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Accept")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return failure.NotFound("booking") //nolint:wrapcheck
	}

	fields := map[string]any{
		model.FieldIsAccepted:    true,
		model.FieldIsDeleted:     false,
		model.FieldDeletedAt:     nil,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to accept booking")

		return fmt.Errorf("failed to accept booking: %w", err)
	}

	s.invalidate(ctx, id)
	s.notifyAttendees(ctx, notification.KindAccepted, booking)

	return nil
}

// Reject declines a booking request by soft-deleting it.
func (s *serviceImpl) Reject(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Reject")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return failure.NotFound("booking") //nolint:wrapcheck
	}

	if err = s.repo.SoftDelete(ctx, id, user, timezone.Now()); err != nil {
		log.Error().Err(err).Msg("failed to reject booking")

		return fmt.Errorf("failed to reject booking: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// SetAttendance flips one attendee's invitation status to confirmed or
// declined. Other attendees are untouched.
func (s *serviceImpl) SetAttendance(ctx context.Context, bookingID, userID, status string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.SetAttendance")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.repo.Get(ctx, shared.FilterByID(bookingID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty || booking.IsDeleted {
		return failure.NotFound("booking") //nolint:wrapcheck
	}

	updated, err := s.repo.SetAttendStatus(ctx, bookingID, userID, status, userID, timezone.Now())
	if err != nil {
		log.Error().Err(err).Msg("failed to update attendance")

		return fmt.Errorf("failed to update attendance: %w", err)
	}

	if !updated {
		return failure.NotFound("attendee") //nolint:wrapcheck
	}

	s.invalidate(ctx, bookingID)

	return nil
}

// ListInRange lists bookings inside a calendar-date window. An empty
// end_date defaults the window to the next 7 days; a non-empty userID scopes
// the listing to bookings the user created or attends.
func (s *serviceImpl) ListInRange(ctx context.Context, startDate, endDate, userID string) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.ListInRange")
	defer scope.End()
	defer scope.TraceIfError(err)

	start, end, err := shared.ParseDateRange(startDate, endDate)
	if err != nil {
		return res, err
	}

	cacheKey := shared.BuildCacheKey(cacheGetAllBooking, "range", startDate, endDate, userID)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	details, err := s.repo.FindInDateRange(ctx, start, end, userID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list bookings")

		return res, fmt.Errorf("failed to list bookings: %w", err)
	}

	res.FromDetails(details)

	if err = s.attachAttendees(ctx, res.Bookings); err != nil {
		return res, err
	}

	s.saveToCache(ctx, cacheKey, res)

	return res, nil
}

// SearchByRoom lists a room's bookings inside a calendar-date window.
func (s *serviceImpl) SearchByRoom(ctx context.Context, roomID, startDate, endDate string) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.SearchByRoom")
	defer scope.End()
	defer scope.TraceIfError(err)

	start, end, err := shared.ParseDateRange(startDate, endDate)
	if err != nil {
		return res, err
	}

	cacheKey := shared.BuildCacheKey(cacheGetAllBooking, "room", roomID, startDate, endDate)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for room bookings")

		return res, nil
	}

	details, err := s.repo.FindByRoomInRange(ctx, roomID, start, end)
	if err != nil {
		log.Error().Err(err).Msg("failed to search bookings by room")

		return res, fmt.Errorf("failed to search bookings by room: %w", err)
	}

	res.FromDetails(details)

	if err = s.attachAttendees(ctx, res.Bookings); err != nil {
		return res, err
	}

	s.saveToCache(ctx, cacheKey, res)

	return res, nil
}

// SearchByAttendees lists bookings any of the given users attends inside a
// calendar-date window.
func (s *serviceImpl) SearchByAttendees(ctx context.Context, startDate, endDate string, userIDs []string) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.SearchByAttendees")
	defer scope.End()
	defer scope.TraceIfError(err)

	start, end, err := shared.ParseDateRange(startDate, endDate)
	if err != nil {
		return res, err
	}

	details, err := s.repo.FindByAttendeesInRange(ctx, start, end, userIDs)
	if err != nil {
		log.Error().Err(err).Msg("failed to search bookings by attendees")

		return res, fmt.Errorf("failed to search bookings by attendees: %w", err)
	}

	res.FromDetails(details)

	if err = s.attachAttendees(ctx, res.Bookings); err != nil {
		return res, err
	}

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	detail, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if detail.ID == constant.Empty {
		return res, failure.NotFound("booking") //nolint:wrapcheck
	}

	res.FromDetail(detail)

	attendees, err := s.repo.ListAttendees(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to list attendees")

		return res, fmt.Errorf("failed to list attendees: %w", err)
	}

	res.WithAttendees(attendees)

	s.saveToCache(ctx, cacheKey, res)

	return res, nil
}

func validateRange(rng timerange.Range) error {
	if !rng.IsValid() {
		return failure.BadRequestFromString("time_end must be after time_start") //nolint:wrapcheck
	}

	if rng.IsInPast(timezone.Now()) {
		return failure.BadRequestFromString("booking time cannot be in the past") //nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) requireBookableRoom(ctx context.Context, roomID string) error {
	room, err := s.roomRepo.Get(ctx, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty || room.DeletedAt != nil && !room.IsBlocked {
		return failure.BadRequestFromString("room does not exist") //nolint:wrapcheck
	}

	if room.IsBlocked {
		return failure.BadRequestFromString("room is blocked") //nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) resolveAttendees(ctx context.Context, userIDs []string) ([]userModel.User, error) {
	users, err := s.userRepo.FindByIDs(ctx, userIDs)
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve attendees")

		return nil, fmt.Errorf("failed to resolve attendees: %w", err)
	}

	if len(users) != len(userIDs) {
		return nil, failure.BadRequestFromString("one or more attendees do not exist") //nolint:wrapcheck
	}

	return users, nil
}

func (s *serviceImpl) attachAttendees(ctx context.Context, bookings []dto.BookingResponse) error {
	for i := range bookings {
		attendees, err := s.repo.ListAttendees(ctx, bookings[i].ID)
		if err != nil {
			log.Error().Err(err).Msg("failed to list attendees")

			return fmt.Errorf("failed to list attendees: %w", err)
		}

		bookings[i].WithAttendees(attendees)
	}

	return nil
}

// notifyAttendees resolves current attendees and emails them. Used for
// lifecycle events raised after creation, where the attendee set lives in
// the store.
func (s *serviceImpl) notifyAttendees(ctx context.Context, kind string, booking model.Booking) {
	go func() {
		c := context.WithoutCancel(ctx)

		attendees, err := s.repo.ListAttendees(c, booking.ID)
		if err != nil {
			log.Error().Err(err).Str("bookingID", booking.ID).Msg("failed to resolve attendees for notification")

			return
		}

		room, err := s.roomRepo.Get(c, shared.FilterByID(booking.RoomID, roomModel.FieldID, roomModel.TableName))
		if err != nil {
			log.Error().Err(err).Str("roomID", booking.RoomID).Msg("failed to resolve room for notification")
		}

		for _, attendee := range attendees {
			payload := notification.EmailPayload{
				Recipient:    attendee.Email,
				Kind:         kind,
				BookingID:    booking.ID,
				BookingTitle: booking.Title,
				RoomName:     room.Name,
				TimeStart:    booking.TimeStart.Format(time.RFC3339),
				TimeEnd:      booking.TimeEnd.Format(time.RFC3339),
			}

			if err := s.dispatcher.SendEmail(c, payload); err != nil {
				log.Error().Err(err).Str("bookingID", booking.ID).Msg("failed to dispatch notification email")
			}
		}
	}()
}

// dispatchEmails emails an already-resolved set of users. Notification
// failures are logged only; the booking mutation has already committed.
func (s *serviceImpl) dispatchEmails(ctx context.Context, kind string, booking model.Booking, users []userModel.User) {
	go func() {
		c := context.WithoutCancel(ctx)

		room, err := s.roomRepo.Get(c, shared.FilterByID(booking.RoomID, roomModel.FieldID, roomModel.TableName))
		if err != nil {
			log.Error().Err(err).Str("roomID", booking.RoomID).Msg("failed to resolve room for notification")
		}

		for _, user := range users {
			payload := notification.EmailPayload{
				Recipient:    user.Email,
				Kind:         kind,
				BookingID:    booking.ID,
				BookingTitle: booking.Title,
				RoomName:     room.Name,
				TimeStart:    booking.TimeStart.Format(time.RFC3339),
				TimeEnd:      booking.TimeEnd.Format(time.RFC3339),
			}

			if err := s.dispatcher.SendEmail(c, payload); err != nil {
				log.Error().Err(err).Str("bookingID", booking.ID).Msg("failed to dispatch notification email")
			}
		}
	}()
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
	}()
}

func (s *serviceImpl) saveToCache(ctx context.Context, cacheKey string, value any) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, value, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Str("cacheKey", cacheKey).Msg("failed to save booking cache")
		}
	}()
}
