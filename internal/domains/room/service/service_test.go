package service_test

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"meetroom/config"
	"meetroom/infras/otel/mocks"
	s3Mocks "meetroom/infras/s3/mocks"
	roomMocks "meetroom/internal/domains/room/mocks"
	"meetroom/internal/domains/room/model"
	"meetroom/internal/domains/room/model/dto"
	"meetroom/internal/domains/room/service"
	cacheMocks "meetroom/shared/cache/mocks"
	"meetroom/shared/constant"
	gDto "meetroom/shared/dto"
	"meetroom/shared/failure"
	"meetroom/shared/timezone"
)

type roomFixture struct {
	repo  *roomMocks.MockRoom
	cache *cacheMocks.MockRedisCache
	s3    *s3Mocks.MockS3
	svc   service.Room
}

func newFixture(ctrl *gomock.Controller) *roomFixture {
	f := &roomFixture{
		repo:  roomMocks.NewMockRoom(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
		s3:    s3Mocks.NewMockS3(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.External.S3.BucketName = "meetroom-assets"

	f.svc = service.New(f.repo, cfg, f.cache, mocks.NewOtel(), f.s3)

	return f
}

// allowAsync tolerates the fire-and-forget cache goroutines a call spawns.
func (f *roomFixture) allowAsync() {
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func userContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")
}

func existingRoom() model.Room {
	return model.Room{
		ID:          "room-1",
		Name:        "War Room",
		Description: "4th floor",
	}
}

func TestRoomService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name      string
		req       dto.CreateRoomRequest
		setupMock func(f *roomFixture)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful creation",
			req:  dto.CreateRoomRequest{Name: "War Room"},
			setupMock: func(f *roomFixture) {
				f.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, room model.Room) error {
						assert.Equal(t, "War Room", room.Name)
						assert.Equal(t, "admin-1", room.CreatedBy)
						assert.False(t, room.IsBlocked)

						return nil
					})

				f.allowAsync()
			},
			wantErr: false,
		},
		{
			name: "name already in use",
			req:  dto.CreateRoomRequest{Name: "War Room"},
			setupMock: func(f *roomFixture) {
				f.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
			},
			wantErr:  true,
			wantCode: 409,
		},
		{
			name: "blocked room keeps its name reserved",
			req:  dto.CreateRoomRequest{Name: "War Room"},
			setupMock: func(f *roomFixture) {
				f.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (bool, error) {
						// A blocked room carries a deleted_at stamp, so the
						// uniqueness check must look past it.
						where, _ := filter.GetWhereClause()
						assert.Contains(t, where, "rooms.deleted_at IS NULL OR")
						assert.Contains(t, where, "rooms.is_blocked")

						return true, nil
					})
			},
			wantErr:  true,
			wantCode: 409,
		},
		{
			name: "name check fails",
			req:  dto.CreateRoomRequest{Name: "War Room"},
			setupMock: func(f *roomFixture) {
				f.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, errors.New("db error"))
			},
			wantErr: true,
		},
		{
			name: "image uploaded before insert",
			req: dto.CreateRoomRequest{
				Name:  "War Room",
				Image: &multipart.FileHeader{Filename: "floor.png"},
			},
			setupMock: func(f *roomFixture) {
				f.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				f.s3.EXPECT().
					UploadFile(gomock.Any(), "meetroom-assets", model.EntityName, gomock.Any(), gomock.Any(), gomock.Any()).
					Return("https://cdn.example.com/room/abc.png", nil)

				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, room model.Room) error {
						assert.Equal(t, "https://cdn.example.com/room/abc.png", room.Image)

						return nil
					})

				f.allowAsync()
			},
			wantErr: false,
		},
		{
			name: "upload failure",
			req: dto.CreateRoomRequest{
				Name:  "War Room",
				Image: &multipart.FileHeader{Filename: "floor.png"},
			},
			setupMock: func(f *roomFixture) {
				f.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				f.s3.EXPECT().
					UploadFile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return("", errors.New("s3 unavailable"))
			},
			wantErr: true,
		},
		{
			name: "uploaded image removed when insert fails",
			req: dto.CreateRoomRequest{
				Name:  "War Room",
				Image: &multipart.FileHeader{Filename: "floor.png"},
			},
			setupMock: func(f *roomFixture) {
				f.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				f.s3.EXPECT().
					UploadFile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return("https://cdn.example.com/room/abc.png", nil)

				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))

				f.s3.EXPECT().
					DeleteFile(gomock.Any(), "meetroom-assets", model.EntityName, gomock.Any()).
					Return(nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(ctrl)
			tt.setupMock(f)

			err := f.svc.Create(userContext(), tt.req)

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

func TestRoomService_GetAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	params := gDto.QueryParams{Page: 1, Limit: 10}

	tests := []struct {
		name      string
		setupMock func(f *roomFixture)
		wantErr   bool
		wantTotal int
	}{
		{
			name: "cache hit",
			setupMock: func(f *roomFixture) {
				f.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, value any) error {
						res := value.(*dto.GetRoomsResponse)
						res.TotalData = 2
						res.Rooms = []dto.RoomResponse{{ID: "room-1"}, {ID: "room-2"}}

						return nil
					})
			},
			wantErr:   false,
			wantTotal: 2,
		},
		{
			name: "cache miss loads from repository",
			setupMock: func(f *roomFixture) {
				f.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss")).
					Times(2)

				f.repo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(1, nil)

				f.repo.EXPECT().
					GetAll(gomock.Any(), params, gomock.Any()).
					Return([]model.Room{existingRoom()}, nil)

				f.allowAsync()
			},
			wantErr:   false,
			wantTotal: 1,
		},
		{
			name: "count fails",
			setupMock: func(f *roomFixture) {
				f.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss")).
					Times(2)

				f.repo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(0, errors.New("db error"))
			},
			wantErr: true,
		},
		{
			name: "repository fails",
			setupMock: func(f *roomFixture) {
				f.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss")).
					Times(2)

				f.repo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(1, nil)

				f.repo.EXPECT().
					GetAll(gomock.Any(), params, gomock.Any()).
					Return(nil, errors.New("db error"))

				f.allowAsync()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(ctrl)
			tt.setupMock(f)

			res, err := f.svc.GetAll(context.Background(), params, gDto.FilterGroup{})

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantTotal, res.TotalData)
			}
		})
	}
}

func TestRoomService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name      string
		setupMock func(f *roomFixture)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "cache hit",
			setupMock: func(f *roomFixture) {
				f.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, value any) error {
						res := value.(*dto.RoomResponse)
						res.ID = "room-1"

						return nil
					})
			},
			wantErr: false,
		},
		{
			name: "cache miss loads from repository",
			setupMock: func(f *roomFixture) {
				f.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(existingRoom(), nil)

				f.allowAsync()
			},
			wantErr: false,
		},
		{
			name: "room not found",
			setupMock: func(f *roomFixture) {
				f.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Room{}, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
		{
			name: "repository fails",
			setupMock: func(f *roomFixture) {
				f.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Room{}, errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(ctrl)
			tt.setupMock(f)

			res, err := f.svc.Get(context.Background(), "room-1")

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "room-1", res.ID)
			}
		})
	}
}

func TestRoomService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name      string
		req       dto.UpdateRoomRequest
		setupMock func(f *roomFixture)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful update",
			req:  dto.UpdateRoomRequest{Name: "Focus Room"},
			setupMock: func(f *roomFixture) {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(existingRoom(), nil)

				f.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				f.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				f.allowAsync()
			},
			wantErr: false,
		},
		{
			name: "room not found",
			req:  dto.UpdateRoomRequest{Name: "Focus Room"},
			setupMock: func(f *roomFixture) {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Room{}, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
		{
			name: "new name already in use",
			req:  dto.UpdateRoomRequest{Name: "Focus Room"},
			setupMock: func(f *roomFixture) {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(existingRoom(), nil)

				f.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
			},
			wantErr:  true,
			wantCode: 409,
		},
		{
			name: "same name skips uniqueness check",
			req:  dto.UpdateRoomRequest{Name: "War Room", Description: "5th floor"},
			setupMock: func(f *roomFixture) {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(existingRoom(), nil)

				f.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				f.allowAsync()
			},
			wantErr: false,
		},
		{
			name: "image replaced and old object removed",
			req: dto.UpdateRoomRequest{
				Image: &multipart.FileHeader{Filename: "new.png"},
			},
			setupMock: func(f *roomFixture) {
				room := existingRoom()
				room.Image = "https://cdn.example.com/room/old.png"

				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(room, nil)

				f.s3.EXPECT().
					UploadFile(gomock.Any(), "meetroom-assets", model.EntityName, gomock.Any(), gomock.Any(), gomock.Any()).
					Return("https://cdn.example.com/room/new.png", nil)

				f.s3.EXPECT().
					GetObjectNameFromURL("meetroom-assets", room.Image).
					Return("old.png")

				f.s3.EXPECT().
					DeleteFile(gomock.Any(), "meetroom-assets", model.EntityName, "old.png").
					Return(nil)

				f.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				f.allowAsync()
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(ctrl)
			tt.setupMock(f)

			err := f.svc.Update(userContext(), tt.req, "room-1")

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

func TestRoomService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name      string
		setupMock func(f *roomFixture)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "room is retired in place, never dropped",
			setupMock: func(f *roomFixture) {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(existingRoom(), nil)

				f.repo.EXPECT().
					HasInProgressBooking(gomock.Any(), "room-1", gomock.Any()).
					Return(false, nil)

				f.repo.EXPECT().
					SoftDelete(gomock.Any(), "room-1", "admin-1", gomock.Any()).
					Return(nil)

				f.allowAsync()
			},
			wantErr: false,
		},
		{
			name: "room not found",
			setupMock: func(f *roomFixture) {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Room{}, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
		{
			name: "already retired room",
			setupMock: func(f *roomFixture) {
				room := existingRoom()
				deletedAt := timezone.Now().Add(-time.Hour)
				room.DeletedAt = &deletedAt

				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(room, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
		{
			name: "room currently in use",
			setupMock: func(f *roomFixture) {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(existingRoom(), nil)

				f.repo.EXPECT().
					HasInProgressBooking(gomock.Any(), "room-1", gomock.Any()).
					Return(true, nil)
			},
			wantErr:  true,
			wantCode: 400,
		},
		{
			name: "usage check fails",
			setupMock: func(f *roomFixture) {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(existingRoom(), nil)

				f.repo.EXPECT().
					HasInProgressBooking(gomock.Any(), "room-1", gomock.Any()).
					Return(false, errors.New("db error"))
			},
			wantErr: true,
		},
		{
			name: "image removed alongside room",
			setupMock: func(f *roomFixture) {
				room := existingRoom()
				room.Image = "https://cdn.example.com/room/old.png"

				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(room, nil)

				f.repo.EXPECT().
					HasInProgressBooking(gomock.Any(), "room-1", gomock.Any()).
					Return(false, nil)

				f.repo.EXPECT().
					SoftDelete(gomock.Any(), "room-1", "admin-1", gomock.Any()).
					Return(nil)

				f.s3.EXPECT().
					GetObjectNameFromURL("meetroom-assets", room.Image).
					Return("old.png")

				f.s3.EXPECT().
					DeleteFile(gomock.Any(), "meetroom-assets", model.EntityName, "old.png").
					Return(nil)

				f.allowAsync()
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(ctrl)
			tt.setupMock(f)

			err := f.svc.Delete(userContext(), "room-1")

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

func TestRoomService_BlockOpen(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("block succeeds and keeps description when empty", func(t *testing.T) {
		f := newFixture(ctrl)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(existingRoom(), nil)

		f.repo.EXPECT().
			HasInProgressBooking(gomock.Any(), "room-1", gomock.Any()).
			Return(false, nil)

		f.repo.EXPECT().
			Block(gomock.Any(), "room-1", "4th floor", "admin-1", gomock.Any()).
			Return(nil)

		f.allowAsync()

		err := f.svc.Block(userContext(), "room-1", dto.BlockRoomRequest{})
		assert.NoError(t, err)
	})

	t.Run("block records the given reason", func(t *testing.T) {
		f := newFixture(ctrl)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(existingRoom(), nil)

		f.repo.EXPECT().
			HasInProgressBooking(gomock.Any(), "room-1", gomock.Any()).
			Return(false, nil)

		f.repo.EXPECT().
			Block(gomock.Any(), "room-1", "maintenance until friday", "admin-1", gomock.Any()).
			Return(nil)

		f.allowAsync()

		err := f.svc.Block(userContext(), "room-1", dto.BlockRoomRequest{Description: "maintenance until friday"})
		assert.NoError(t, err)
	})

	t.Run("block rejects an already blocked room", func(t *testing.T) {
		f := newFixture(ctrl)

		room := existingRoom()
		room.IsBlocked = true

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(room, nil)

		err := f.svc.Block(userContext(), "room-1", dto.BlockRoomRequest{})
		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("block rejects a room in use", func(t *testing.T) {
		f := newFixture(ctrl)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(existingRoom(), nil)

		f.repo.EXPECT().
			HasInProgressBooking(gomock.Any(), "room-1", gomock.Any()).
			Return(true, nil)

		err := f.svc.Block(userContext(), "room-1", dto.BlockRoomRequest{})
		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("open restores a blocked room", func(t *testing.T) {
		f := newFixture(ctrl)

		room := existingRoom()
		room.IsBlocked = true

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(room, nil)

		f.repo.EXPECT().
			Open(gomock.Any(), "room-1", "4th floor", "admin-1", gomock.Any()).
			Return(nil)

		f.allowAsync()

		err := f.svc.Open(userContext(), "room-1", dto.BlockRoomRequest{})
		assert.NoError(t, err)
	})

	t.Run("open rejects a room that is not blocked", func(t *testing.T) {
		f := newFixture(ctrl)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(existingRoom(), nil)

		err := f.svc.Open(userContext(), "room-1", dto.BlockRoomRequest{})
		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("open rejects a missing room", func(t *testing.T) {
		f := newFixture(ctrl)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Room{}, nil)

		err := f.svc.Open(userContext(), "room-1", dto.BlockRoomRequest{})
		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestRoomService_Statuses(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("marks busy rooms", func(t *testing.T) {
		f := newFixture(ctrl)

		rooms := []model.Room{
			{ID: "room-1", Name: "Focus Room"},
			{ID: "room-2", Name: "War Room"},
		}

		f.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(rooms, nil)

		f.repo.EXPECT().
			FindBusyRoomIDs(gomock.Any(), gomock.Any()).
			Return([]string{"room-2"}, nil)

		res, err := f.svc.Statuses(context.Background())
		assert.NoError(t, err)
		assert.Len(t, res.Rooms, 2)
		assert.Equal(t, model.StatusFree, res.Rooms[0].Status)
		assert.Equal(t, model.StatusBusy, res.Rooms[1].Status)
	})

	t.Run("repository failure", func(t *testing.T) {
		f := newFixture(ctrl)

		f.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("db error"))

		_, err := f.svc.Statuses(context.Background())
		assert.Error(t, err)
	})
}
