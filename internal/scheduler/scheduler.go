package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"meetroom/config"
	"meetroom/infras/otel"
	bookingModel "meetroom/internal/domains/booking/model"
	bookingRepo "meetroom/internal/domains/booking/repository"
	roomModel "meetroom/internal/domains/room/model"
	roomRepo "meetroom/internal/domains/room/repository"
	"meetroom/internal/notification"
	"meetroom/shared"
	"meetroom/shared/cache"
	"meetroom/shared/constant"
	"meetroom/shared/timezone"

	"github.com/rs/zerolog/log"
)

const dedupPrefix = "reminder"

// Reminder walks upcoming bookings once a minute and notifies attendees
// shortly before their meeting starts. The dedup key in Redis makes the
// notification at-most-once across replicas.
type Reminder interface {
	Start(ctx context.Context)
	Shutdown()
	Tick(ctx context.Context, now time.Time) error
}

type reminderImpl struct {
	repo       bookingRepo.Booking
	roomRepo   roomRepo.Room
	dispatcher notification.Dispatcher
	cache      cache.RedisCache
	cfg        *config.Config
	otel       otel.Otel

	mu   sync.Mutex
	done chan struct{}
	once sync.Once
}

func New(
	repo bookingRepo.Booking,
	roomRepo roomRepo.Room,
	dispatcher notification.Dispatcher,
	cache cache.RedisCache,
	cfg *config.Config,
	otel otel.Otel,
) Reminder {
	return &reminderImpl{
		repo:       repo,
		roomRepo:   roomRepo,
		dispatcher: dispatcher,
		cache:      cache,
		cfg:        cfg,
		otel:       otel,
		done:       make(chan struct{}),
	}
}

func (s *reminderImpl) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()

		log.Info().
			Int("leadMinutes", s.cfg.Scheduler.ReminderLeadMinutes).
			Msg("reminder scheduler started")

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.done:
				return
			case <-ticker.C:
				if err := s.Tick(ctx, timezone.Now()); err != nil {
					log.Error().Err(err).Msg("reminder tick failed")
				}
			}
		}
	}()
}

func (s *reminderImpl) Shutdown() {
	s.once.Do(func() {
		close(s.done)
	})
}

// Tick notifies attendees of bookings starting exactly leadMinutes after the
// given instant, truncated to the minute so every replica computes the same
// target slot. A tick that overlaps a still-running one is skipped.
func (s *reminderImpl) Tick(ctx context.Context, now time.Time) (err error) {
	if !s.mu.TryLock() {
		log.Warn().Msg("previous reminder tick still running, skipping")

		return nil
	}
	defer s.mu.Unlock()

	ctx, scope := s.otel.NewScope(ctx, constant.OtelSchedulerScopeName, constant.OtelSchedulerScopeName+".reminder.Tick")
	defer scope.End()
	defer scope.TraceIfError(err)

	target := now.Truncate(time.Minute).Add(time.Duration(s.cfg.Scheduler.ReminderLeadMinutes) * time.Minute)

	bookings, err := s.repo.FindStartingAt(ctx, target)
	if err != nil {
		return fmt.Errorf("failed to find upcoming bookings: %w", err)
	}

	for _, booking := range bookings {
		dedupKey := shared.BuildCacheKey(dedupPrefix, booking.ID, target.Format(time.RFC3339))

		acquired, err := s.cache.AcquireOnce(ctx, dedupKey, s.cfg.Scheduler.DedupTTLSeconds)
		if err != nil {
			log.Error().Err(err).Str("bookingID", booking.ID).Msg("failed to acquire reminder dedup key")

			continue
		}

		if !acquired {
			continue
		}

		s.remind(ctx, booking)
	}

	return nil
}

func (s *reminderImpl) remind(ctx context.Context, booking bookingModel.Booking) {
	room, err := s.roomRepo.Get(ctx, shared.FilterByID(booking.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("roomID", booking.RoomID).Msg("failed to resolve room for reminder")
	}

	attendees, err := s.repo.ListAttendees(ctx, booking.ID)
	if err != nil {
		log.Error().Err(err).Str("bookingID", booking.ID).Msg("failed to list attendees for reminder")

		return
	}

	for _, attendee := range attendees {
		email := notification.EmailPayload{
			Recipient:    attendee.Email,
			Kind:         notification.KindReminder,
			BookingID:    booking.ID,
			BookingTitle: booking.Title,
			RoomName:     room.Name,
			TimeStart:    booking.TimeStart.Format(time.RFC3339),
			TimeEnd:      booking.TimeEnd.Format(time.RFC3339),
		}

		if err := s.dispatcher.SendEmail(ctx, email); err != nil {
			log.Error().Err(err).Str("bookingID", booking.ID).Msg("failed to dispatch reminder email")
		}

		if attendee.FCMToken == constant.Empty {
			continue
		}

		push := notification.PushPayload{
			Token: attendee.FCMToken,
			Title: booking.Title,
			Body:  fmt.Sprintf("%s starts at %s in %s", booking.Title, booking.TimeStart.Format("15:04"), room.Name),
		}

		if err := s.dispatcher.SendPush(ctx, push); err != nil {
			log.Error().Err(err).Str("bookingID", booking.ID).Msg("failed to dispatch reminder push")
		}
	}

	log.Info().
		Str("bookingID", booking.ID).
		Int("attendees", len(attendees)).
		Msg("reminder dispatched")
}
