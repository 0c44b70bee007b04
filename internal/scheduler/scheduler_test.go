package scheduler_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"meetroom/config"
	"meetroom/infras/otel/mocks"
	bookingMocks "meetroom/internal/domains/booking/mocks"
	"meetroom/internal/domains/booking/model"
	roomMocks "meetroom/internal/domains/room/mocks"
	roomModel "meetroom/internal/domains/room/model"
	notifMocks "meetroom/internal/notification/mocks"
	"meetroom/internal/scheduler"
	cacheMocks "meetroom/shared/cache/mocks"
)

func newReminder(ctrl *gomock.Controller) (
	scheduler.Reminder,
	*bookingMocks.MockBooking,
	*roomMocks.MockRoom,
	*notifMocks.MockDispatcher,
	*cacheMocks.MockRedisCache,
) {
	repo := bookingMocks.NewMockBooking(ctrl)
	roomRepo := roomMocks.NewMockRoom(ctrl)
	dispatcher := notifMocks.NewMockDispatcher(ctrl)
	cache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Scheduler.ReminderLeadMinutes = 10
	cfg.Scheduler.DedupTTLSeconds = 900

	return scheduler.New(repo, roomRepo, dispatcher, cache, cfg, mocks.NewOtel()), repo, roomRepo, dispatcher, cache
}

func TestReminder_Tick(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	now := time.Date(2026, 1, 5, 8, 50, 30, 0, time.UTC)
	target := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	booking := model.Booking{
		ID:        "booking-1",
		RoomID:    "room-1",
		Title:     "Standup",
		TimeStart: target,
		TimeEnd:   target.Add(30 * time.Minute),
	}

	t.Run("notifies attendees of upcoming booking", func(t *testing.T) {
		rem, repo, roomRepo, dispatcher, cache := newReminder(ctrl)

		repo.EXPECT().
			FindStartingAt(gomock.Any(), target).
			Return([]model.Booking{booking}, nil)

		cache.EXPECT().
			AcquireOnce(gomock.Any(), gomock.Any(), 900).
			Return(true, nil)

		roomRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(roomModel.Room{ID: "room-1", Name: "War Room"}, nil)

		repo.EXPECT().
			ListAttendees(gomock.Any(), "booking-1").
			Return([]model.AttendeeDetail{
				{BookingID: "booking-1", UserID: "user-1", Email: "a@b.c", FCMToken: "token-1"},
				{BookingID: "booking-1", UserID: "user-2", Email: "d@e.f"},
			}, nil)

		dispatcher.EXPECT().
			SendEmail(gomock.Any(), gomock.Any()).
			Return(nil).
			Times(2)

		// Only the attendee with a device token gets a push.
		dispatcher.EXPECT().
			SendPush(gomock.Any(), gomock.Any()).
			Return(nil).
			Times(1)

		assert.NoError(t, rem.Tick(context.Background(), now))
	})

	t.Run("no bookings at target instant", func(t *testing.T) {
		rem, repo, _, _, _ := newReminder(ctrl)

		repo.EXPECT().
			FindStartingAt(gomock.Any(), target).
			Return(nil, nil)

		assert.NoError(t, rem.Tick(context.Background(), now))
	})

	t.Run("dedup key already held elsewhere", func(t *testing.T) {
		rem, repo, _, _, cache := newReminder(ctrl)

		repo.EXPECT().
			FindStartingAt(gomock.Any(), target).
			Return([]model.Booking{booking}, nil)

		cache.EXPECT().
			AcquireOnce(gomock.Any(), gomock.Any(), 900).
			Return(false, nil)

		assert.NoError(t, rem.Tick(context.Background(), now))
	})

	t.Run("cache error skips the booking", func(t *testing.T) {
		rem, repo, _, _, cache := newReminder(ctrl)

		repo.EXPECT().
			FindStartingAt(gomock.Any(), target).
			Return([]model.Booking{booking}, nil)

		cache.EXPECT().
			AcquireOnce(gomock.Any(), gomock.Any(), 900).
			Return(false, errors.New("redis down"))

		assert.NoError(t, rem.Tick(context.Background(), now))
	})

	t.Run("repository error", func(t *testing.T) {
		rem, repo, _, _, _ := newReminder(ctrl)

		repo.EXPECT().
			FindStartingAt(gomock.Any(), target).
			Return(nil, errors.New("database error"))

		assert.Error(t, rem.Tick(context.Background(), now))
	})

	t.Run("notification failure does not fail the tick", func(t *testing.T) {
		rem, repo, roomRepo, dispatcher, cache := newReminder(ctrl)

		repo.EXPECT().
			FindStartingAt(gomock.Any(), target).
			Return([]model.Booking{booking}, nil)

		cache.EXPECT().
			AcquireOnce(gomock.Any(), gomock.Any(), 900).
			Return(true, nil)

		roomRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(roomModel.Room{ID: "room-1", Name: "War Room"}, nil)

		repo.EXPECT().
			ListAttendees(gomock.Any(), "booking-1").
			Return([]model.AttendeeDetail{
				{BookingID: "booking-1", UserID: "user-1", Email: "a@b.c"},
			}, nil)

		dispatcher.EXPECT().
			SendEmail(gomock.Any(), gomock.Any()).
			Return(errors.New("broker unavailable"))

		assert.NoError(t, rem.Tick(context.Background(), now))
	})
}

func TestReminder_TargetTruncation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	rem, repo, _, _, _ := newReminder(ctrl)

	// 08:50:59.9 and 08:50:00 must resolve to the same target slot.
	repo.EXPECT().
		FindStartingAt(gomock.Any(), time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)).
		Return(nil, nil).
		Times(2)

	assert.NoError(t, rem.Tick(context.Background(), time.Date(2026, 1, 5, 8, 50, 59, 900, time.UTC)))
	assert.NoError(t, rem.Tick(context.Background(), time.Date(2026, 1, 5, 8, 50, 0, 0, time.UTC)))
}

func TestReminder_Shutdown(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	rem, _, _, _, _ := newReminder(ctrl)

	rem.Start(context.Background())
	rem.Shutdown()
	rem.Shutdown() // idempotent
}
