package service_test

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
	"meetroom/internal/domains/booking/model/dto"
	"meetroom/internal/domains/booking/service"
	roomMocks "meetroom/internal/domains/room/mocks"
	roomModel "meetroom/internal/domains/room/model"
	userMocks "meetroom/internal/domains/user/mocks"
	userModel "meetroom/internal/domains/user/model"
	notifMocks "meetroom/internal/notification/mocks"
	cacheMocks "meetroom/shared/cache/mocks"
	"meetroom/shared/constant"
	"meetroom/shared/failure"
	"meetroom/shared/timerange"
	"meetroom/shared/timezone"
)

type serviceFixture struct {
	repo       *bookingMocks.MockBooking
	roomRepo   *roomMocks.MockRoom
	userRepo   *userMocks.MockUser
	dispatcher *notifMocks.MockDispatcher
	cache      *cacheMocks.MockRedisCache
	svc        service.Booking
}

func newFixture(ctrl *gomock.Controller) *serviceFixture {
	f := &serviceFixture{
		repo:       bookingMocks.NewMockBooking(ctrl),
		roomRepo:   roomMocks.NewMockRoom(ctrl),
		userRepo:   userMocks.NewMockUser(ctrl),
		dispatcher: notifMocks.NewMockDispatcher(ctrl),
		cache:      cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f.svc = service.New(f.repo, f.roomRepo, f.userRepo, f.dispatcher, cfg, f.cache, mocks.NewOtel())

	return f
}

// allowAsync tolerates the fire-and-forget goroutines a mutation spawns for
// cache invalidation and notification dispatch.
func (f *serviceFixture) allowAsync() {
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.dispatcher.EXPECT().SendEmail(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(liveRoom(), nil).AnyTimes()
	f.repo.EXPECT().ListAttendees(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
}

func liveRoom() roomModel.Room {
	return roomModel.Room{
		ID:   "room-1",
		Name: "War Room",
	}
}

func futureBookingRequest() dto.CreateBookingRequest {
	start := timezone.Now().Add(2 * time.Hour)

	return dto.CreateBookingRequest{
		RoomID:    "room-1",
		Title:     "Sprint Planning",
		TimeStart: start.Format(time.RFC3339),
		TimeEnd:   start.Add(time.Hour).Format(time.RFC3339),
		Attendees: []string{"user-1"},
	}
}

func TestBookingService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	past := timezone.Now().Add(-2 * time.Hour)

	tests := []struct {
		name      string
		req       func() dto.CreateBookingRequest
		setupMock func(f *serviceFixture)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful creation",
			req:  futureBookingRequest,
			setupMock: func(f *serviceFixture) {
				f.roomRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(liveRoom(), nil)

				f.userRepo.EXPECT().
					FindByIDs(gomock.Any(), []string{"user-1"}).
					Return([]userModel.User{{ID: "user-1", Email: "a@b.c"}}, nil)

				f.repo.EXPECT().
					FindOverlapping(gomock.Any(), "room-1", gomock.Any(), "").
					Return(model.Booking{}, nil)

				f.repo.EXPECT().
					CreateWithAttendees(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				f.allowAsync()
			},
			wantErr: false,
		},
		{
			name: "invalid time format",
			req: func() dto.CreateBookingRequest {
				req := futureBookingRequest()
				req.TimeStart = "not-a-time"

				return req
			},
			setupMock: func(f *serviceFixture) {},
			wantErr:   true,
			wantCode:  400,
		},
		{
			name: "end before start",
			req: func() dto.CreateBookingRequest {
				req := futureBookingRequest()
				req.TimeStart, req.TimeEnd = req.TimeEnd, req.TimeStart

				return req
			},
			setupMock: func(f *serviceFixture) {},
			wantErr:   true,
			wantCode:  400,
		},
		{
			name: "booking in the past",
			req: func() dto.CreateBookingRequest {
				req := futureBookingRequest()
				req.TimeStart = past.Format(time.RFC3339)
				req.TimeEnd = past.Add(time.Hour).Format(time.RFC3339)

				return req
			},
			setupMock: func(f *serviceFixture) {},
			wantErr:   true,
			wantCode:  400,
		},
		{
			name: "room does not exist",
			req:  futureBookingRequest,
			setupMock: func(f *serviceFixture) {
				f.roomRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(roomModel.Room{}, nil)
			},
			wantErr:  true,
			wantCode: 400,
		},
		{
			name: "room is blocked",
			req:  futureBookingRequest,
			setupMock: func(f *serviceFixture) {
				room := liveRoom()
				room.IsBlocked = true

				f.roomRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(room, nil)
			},
			wantErr:  true,
			wantCode: 400,
		},
		{
			name: "attendee does not exist",
			req:  futureBookingRequest,
			setupMock: func(f *serviceFixture) {
				f.roomRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(liveRoom(), nil)

				f.userRepo.EXPECT().
					FindByIDs(gomock.Any(), []string{"user-1"}).
					Return([]userModel.User{}, nil)
			},
			wantErr:  true,
			wantCode: 400,
		},
		{
			name: "conflicting booking",
			req:  futureBookingRequest,
			setupMock: func(f *serviceFixture) {
				f.roomRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(liveRoom(), nil)

				f.userRepo.EXPECT().
					FindByIDs(gomock.Any(), []string{"user-1"}).
					Return([]userModel.User{{ID: "user-1"}}, nil)

				f.repo.EXPECT().
					FindOverlapping(gomock.Any(), "room-1", gomock.Any(), "").
					Return(model.Booking{ID: "existing-id"}, nil)
			},
			wantErr:  true,
			wantCode: 409,
		},
		{
			name: "repository error",
			req:  futureBookingRequest,
			setupMock: func(f *serviceFixture) {
				f.roomRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(liveRoom(), nil)

				f.userRepo.EXPECT().
					FindByIDs(gomock.Any(), []string{"user-1"}).
					Return([]userModel.User{{ID: "user-1"}}, nil)

				f.repo.EXPECT().
					FindOverlapping(gomock.Any(), "room-1", gomock.Any(), "").
					Return(model.Booking{}, nil)

				f.repo.EXPECT().
					CreateWithAttendees(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(ctrl)
			tt.setupMock(f)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
			err := f.svc.Create(ctx, tt.req(), false)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBookingService_CheckAvailability(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	start := timezone.Now().Add(time.Hour)

	tests := []struct {
		name          string
		rng           func() (time.Time, time.Time)
		setupMock     func(f *serviceFixture)
		wantErr       bool
		wantAvailable bool
		wantConflict  string
	}{
		{
			name: "slot is free",
			rng:  func() (time.Time, time.Time) { return start, start.Add(time.Hour) },
			setupMock: func(f *serviceFixture) {
				f.repo.EXPECT().
					FindOverlapping(gomock.Any(), "room-1", gomock.Any(), "").
					Return(model.Booking{}, nil)
			},
			wantAvailable: true,
		},
		{
			name: "slot is taken",
			rng:  func() (time.Time, time.Time) { return start, start.Add(time.Hour) },
			setupMock: func(f *serviceFixture) {
				f.repo.EXPECT().
					FindOverlapping(gomock.Any(), "room-1", gomock.Any(), "").
					Return(model.Booking{ID: "existing-id"}, nil)
			},
			wantAvailable: false,
			wantConflict:  "existing-id",
		},
		{
			name:      "inverted range",
			rng:       func() (time.Time, time.Time) { return start.Add(time.Hour), start },
			setupMock: func(f *serviceFixture) {},
			wantErr:   true,
		},
		{
			name: "repository error",
			rng:  func() (time.Time, time.Time) { return start, start.Add(time.Hour) },
			setupMock: func(f *serviceFixture) {
				f.repo.EXPECT().
					FindOverlapping(gomock.Any(), "room-1", gomock.Any(), "").
					Return(model.Booking{}, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(ctrl)
			tt.setupMock(f)

			rs, re := tt.rng()
			res, err := f.svc.CheckAvailability(context.Background(), "room-1", timerange.Range{Start: rs, End: re}, "")

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantAvailable, res.Available)
				assert.Equal(t, tt.wantConflict, res.ConflictingID)
			}
		})
	}
}

func TestBookingService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	req := dto.UpdateBookingRequest{
		RoomID:    "room-1",
		Title:     "Sprint Planning (moved)",
		TimeStart: timezone.Now().Add(3 * time.Hour).Format(time.RFC3339),
		TimeEnd:   timezone.Now().Add(4 * time.Hour).Format(time.RFC3339),
		Attendees: []string{"user-1"},
	}

	tests := []struct {
		name      string
		setupMock func(f *serviceFixture)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful update",
			setupMock: func(f *serviceFixture) {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{ID: "booking-1", RoomID: "room-1"}, nil)

				f.roomRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(liveRoom(), nil)

				f.userRepo.EXPECT().
					FindByIDs(gomock.Any(), []string{"user-1"}).
					Return([]userModel.User{{ID: "user-1"}}, nil)

				f.repo.EXPECT().
					FindOverlapping(gomock.Any(), "room-1", gomock.Any(), "booking-1").
					Return(model.Booking{}, nil)

				f.repo.EXPECT().
					UpdateWithAttendees(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				f.allowAsync()
			},
			wantErr: false,
		},
		{
			name: "booking not found",
			setupMock: func(f *serviceFixture) {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
		{
			name: "booking soft deleted",
			setupMock: func(f *serviceFixture) {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{ID: "booking-1", IsDeleted: true}, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
		{
			name: "conflicting booking",
			setupMock: func(f *serviceFixture) {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{ID: "booking-1", RoomID: "room-1"}, nil)

				f.roomRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(liveRoom(), nil)

				f.userRepo.EXPECT().
					FindByIDs(gomock.Any(), []string{"user-1"}).
					Return([]userModel.User{{ID: "user-1"}}, nil)

				f.repo.EXPECT().
					FindOverlapping(gomock.Any(), "room-1", gomock.Any(), "booking-1").
					Return(model.Booking{ID: "other-id"}, nil)
			},
			wantErr:  true,
			wantCode: 409,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(ctrl)
			tt.setupMock(f)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
			err := f.svc.Update(ctx, req, "booking-1")

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBookingService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name      string
		setupMock func(f *serviceFixture)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful deletion",
			setupMock: func(f *serviceFixture) {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{ID: "booking-1", RoomID: "room-1"}, nil)

				f.roomRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(liveRoom(), nil)

				f.repo.EXPECT().
					SoftDelete(gomock.Any(), "booking-1", "test-user-id", gomock.Any()).
					Return(nil)

				f.allowAsync()
			},
			wantErr: false,
		},
		{
			name: "booking not found",
			setupMock: func(f *serviceFixture) {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
		{
			name: "booking already deleted",
			setupMock: func(f *serviceFixture) {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{ID: "booking-1", IsDeleted: true}, nil)
			},
			wantErr:  true,
			wantCode: 409,
		},
		{
			name: "room is blocked",
			setupMock: func(f *serviceFixture) {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{ID: "booking-1", RoomID: "room-1"}, nil)

				room := liveRoom()
				room.IsBlocked = true

				f.roomRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(room, nil)
			},
			wantErr:  true,
			wantCode: 400,
		},
		{
			name: "repository error",
			setupMock: func(f *serviceFixture) {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{ID: "booking-1", RoomID: "room-1"}, nil)

				f.roomRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(liveRoom(), nil)

				f.repo.EXPECT().
					SoftDelete(gomock.Any(), "booking-1", "test-user-id", gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(ctrl)
			tt.setupMock(f)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
			err := f.svc.Delete(ctx, "booking-1")

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBookingService_AcceptReject(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("accept clears soft delete state", func(t *testing.T) {
		f := newFixture(ctrl)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{ID: "booking-1", RoomID: "room-1"}, nil)

		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, true, fields[model.FieldIsAccepted])
				assert.Equal(t, false, fields[model.FieldIsDeleted])
				assert.Nil(t, fields[model.FieldDeletedAt])

				return nil
			})

		f.allowAsync()

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-id")
		assert.NoError(t, f.svc.Accept(ctx, "booking-1"))
	})

	t.Run("accept missing booking", func(t *testing.T) {
		f := newFixture(ctrl)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{}, nil)

		err := f.svc.Accept(context.Background(), "nonexistent-id")
		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})

	t.Run("reject soft deletes", func(t *testing.T) {
		f := newFixture(ctrl)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{ID: "booking-1", RoomID: "room-1"}, nil)

		f.repo.EXPECT().
			SoftDelete(gomock.Any(), "booking-1", "admin-id", gomock.Any()).
			Return(nil)

		f.allowAsync()

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-id")
		assert.NoError(t, f.svc.Reject(ctx, "booking-1"))
	})

	t.Run("reject missing booking", func(t *testing.T) {
		f := newFixture(ctrl)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{}, nil)

		err := f.svc.Reject(context.Background(), "nonexistent-id")
		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestBookingService_SetAttendance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name      string
		setupMock func(f *serviceFixture)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful confirmation",
			setupMock: func(f *serviceFixture) {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{ID: "booking-1"}, nil)

				f.repo.EXPECT().
					SetAttendStatus(gomock.Any(), "booking-1", "user-1", model.AttendStatusConfirmed, "user-1", gomock.Any()).
					Return(true, nil)

				f.allowAsync()
			},
			wantErr: false,
		},
		{
			name: "booking not found",
			setupMock: func(f *serviceFixture) {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
		{
			name: "not an attendee",
			setupMock: func(f *serviceFixture) {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{ID: "booking-1"}, nil)

				f.repo.EXPECT().
					SetAttendStatus(gomock.Any(), "booking-1", "user-1", model.AttendStatusConfirmed, "user-1", gomock.Any()).
					Return(false, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(ctrl)
			tt.setupMock(f)

			err := f.svc.SetAttendance(context.Background(), "booking-1", "user-1", model.AttendStatusConfirmed)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBookingService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	detail := model.BookingDetail{
		ID:       "booking-1",
		RoomID:   "room-1",
		RoomName: "War Room",
		Title:    "Sprint Planning",
	}

	tests := []struct {
		name      string
		setupMock func(f *serviceFixture)
		wantErr   bool
		wantID    string
	}{
		{
			name: "cache hit",
			setupMock: func(f *serviceFixture) {
				f.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "cache miss, successful get from db",
			setupMock: func(f *serviceFixture) {
				f.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				f.repo.EXPECT().
					GetDetail(gomock.Any(), "booking-1").
					Return(detail, nil)

				f.repo.EXPECT().
					ListAttendees(gomock.Any(), "booking-1").
					Return([]model.AttendeeDetail{
						{BookingID: "booking-1", UserID: "user-1", UserName: "Alice", AttendStatus: model.AttendStatusPending},
					}, nil)

				f.cache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
			wantID:  "booking-1",
		},
		{
			name: "booking not found",
			setupMock: func(f *serviceFixture) {
				f.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				f.repo.EXPECT().
					GetDetail(gomock.Any(), "booking-1").
					Return(model.BookingDetail{}, nil)
			},
			wantErr: true,
		},
		{
			name: "repository error",
			setupMock: func(f *serviceFixture) {
				f.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				f.repo.EXPECT().
					GetDetail(gomock.Any(), "booking-1").
					Return(model.BookingDetail{}, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(ctrl)
			tt.setupMock(f)

			result, err := f.svc.Get(context.Background(), "booking-1")

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				if tt.wantID != "" {
					assert.Equal(t, tt.wantID, result.ID)
					assert.Len(t, result.Attendees, 1)
				}
			}
		})
	}
}

func TestBookingService_ListInRange(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	details := []model.BookingDetail{
		{ID: "booking-1", RoomID: "room-1", RoomName: "War Room", Title: "Standup"},
		{ID: "booking-2", RoomID: "room-1", RoomName: "War Room", Title: "Retro"},
	}

	tests := []struct {
		name      string
		startDate string
		endDate   string
		userID    string
		setupMock func(f *serviceFixture)
		wantErr   bool
		wantLen   int
	}{
		{
			name:      "cache hit",
			startDate: "2026-01-05",
			endDate:   "2026-01-09",
			setupMock: func(f *serviceFixture) {
				f.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name:      "cache miss, successful listing",
			startDate: "2026-01-05",
			endDate:   "2026-01-09",
			setupMock: func(f *serviceFixture) {
				f.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				f.repo.EXPECT().
					FindInDateRange(gomock.Any(), gomock.Any(), gomock.Any(), "").
					Return(details, nil)

				f.repo.EXPECT().
					ListAttendees(gomock.Any(), gomock.Any()).
					Return(nil, nil).
					Times(2)

				f.cache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
			wantLen: 2,
		},
		{
			name:      "scoped to user",
			startDate: "2026-01-05",
			endDate:   "2026-01-09",
			userID:    "user-1",
			setupMock: func(f *serviceFixture) {
				f.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				f.repo.EXPECT().
					FindInDateRange(gomock.Any(), gomock.Any(), gomock.Any(), "user-1").
					Return(details[:1], nil)

				f.repo.EXPECT().
					ListAttendees(gomock.Any(), "booking-1").
					Return(nil, nil)

				f.cache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
			wantLen: 1,
		},
		{
			name:      "invalid start date",
			startDate: "05-01-2026",
			setupMock: func(f *serviceFixture) {},
			wantErr:   true,
		},
		{
			name:      "repository error",
			startDate: "2026-01-05",
			endDate:   "2026-01-09",
			setupMock: func(f *serviceFixture) {
				f.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				f.repo.EXPECT().
					FindInDateRange(gomock.Any(), gomock.Any(), gomock.Any(), "").
					Return(nil, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(ctrl)
			tt.setupMock(f)

			result, err := f.svc.ListInRange(context.Background(), tt.startDate, tt.endDate, tt.userID)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				if tt.wantLen > 0 {
					assert.Len(t, result.Bookings, tt.wantLen)
				}
			}
		})
	}
}

func TestBookingService_SearchByRoom(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("successful search", func(t *testing.T) {
		f := newFixture(ctrl)

		f.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		f.repo.EXPECT().
			FindByRoomInRange(gomock.Any(), "room-1", gomock.Any(), gomock.Any()).
			Return([]model.BookingDetail{{ID: "booking-1", RoomID: "room-1"}}, nil)

		f.repo.EXPECT().
			ListAttendees(gomock.Any(), "booking-1").
			Return(nil, nil)

		f.cache.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		result, err := f.svc.SearchByRoom(context.Background(), "room-1", "2026-01-05", "2026-01-09")
		assert.NoError(t, err)
		assert.Len(t, result.Bookings, 1)
	})

	t.Run("repository error", func(t *testing.T) {
		f := newFixture(ctrl)

		f.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		f.repo.EXPECT().
			FindByRoomInRange(gomock.Any(), "room-1", gomock.Any(), gomock.Any()).
			Return(nil, errors.New("database error"))

		_, err := f.svc.SearchByRoom(context.Background(), "room-1", "2026-01-05", "2026-01-09")
		assert.Error(t, err)
	})
}

func TestBookingService_SearchByAttendees(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("successful search", func(t *testing.T) {
		f := newFixture(ctrl)

		f.repo.EXPECT().
			FindByAttendeesInRange(gomock.Any(), gomock.Any(), gomock.Any(), []string{"user-1", "user-2"}).
			Return([]model.BookingDetail{{ID: "booking-1"}}, nil)

		f.repo.EXPECT().
			ListAttendees(gomock.Any(), "booking-1").
			Return(nil, nil)

		result, err := f.svc.SearchByAttendees(context.Background(), "2026-01-05", "2026-01-09", []string{"user-1", "user-2"})
		assert.NoError(t, err)
		assert.Len(t, result.Bookings, 1)
	})

	t.Run("repository error", func(t *testing.T) {
		f := newFixture(ctrl)

		f.repo.EXPECT().
			FindByAttendeesInRange(gomock.Any(), gomock.Any(), gomock.Any(), []string{"user-1"}).
			Return(nil, errors.New("database error"))

		_, err := f.svc.SearchByAttendees(context.Background(), "2026-01-05", "2026-01-09", []string{"user-1"})
		assert.Error(t, err)
	})
}
