package service

import (
	"context"
	"fmt"
	"strings"

	"meetroom/config"
	"meetroom/infras/otel"
	"meetroom/infras/s3"
	"meetroom/internal/domains/room/model"
	"meetroom/internal/domains/room/model/dto"
	"meetroom/internal/domains/room/repository"
	"meetroom/shared"
	"meetroom/shared/cache"
	"meetroom/shared/constant"
	gDto "meetroom/shared/dto"
	"meetroom/shared/failure"
	"meetroom/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetRoom    = "room:get"
	cacheGetAllRoom = "room:gets"
	cacheCountRoom  = "room:count"
)

type Room interface {
	Create(ctx context.Context, req dto.CreateRoomRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRoomsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.RoomResponse, error)
	Update(ctx context.Context, req dto.UpdateRoomRequest, id string) error
	Delete(ctx context.Context, id string) error
	Block(ctx context.Context, id string, req dto.BlockRoomRequest) error
	Open(ctx context.Context, id string, req dto.BlockRoomRequest) error
	Statuses(ctx context.Context) (dto.GetRoomStatusesResponse, error)
}

type serviceImpl struct {
	repo  repository.Room
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
	s3    s3.S3
}

func New(repo repository.Room, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3) Room {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
		s3:    s3,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateRoomRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	taken, err := s.nameTaken(ctx, req.Name, constant.Empty)
	if err != nil {
		return err
	}

	if taken {
		return failure.Conflict("room name already in use") //nolint:wrapcheck
	}

	imageURL := constant.Empty
	var uploadedObjectName string
	if req.Image != nil {
		bucketName := s.cfg.External.S3.BucketName
		filename := uuid.NewString()

		// Keep the original extension
		parts := strings.Split(req.Image.Filename, ".")
		if len(parts) > 1 {
			filename = fmt.Sprintf("%s.%s", filename, parts[len(parts)-1])
		}

		url, err := s.s3.UploadFile(ctx, bucketName, model.EntityName, req.ImageFile, req.Image, filename)
		if err != nil {
			log.Error().Err(err).Msg("failed to upload image to S3")

			return fmt.Errorf("failed to upload image: %w", err)
		}
		imageURL = url
		uploadedObjectName = filename
	}

	if err = s.repo.Insert(ctx, req.ToModel(user, imageURL)); err != nil {
		if uploadedObjectName != constant.Empty {
			bucketName := s.cfg.External.S3.BucketName
			_ = s.s3.DeleteFile(ctx, bucketName, model.EntityName, uploadedObjectName)
		}

		return err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllRoom)
		shared.InvalidateCaches(c, s.cache, cacheCountRoom)
	}()

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllRoom, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for rooms")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms")

		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms")

		return res, fmt.Errorf("failed to get rooms: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save rooms to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountRoom, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for room count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms")

		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save room count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetRoom, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for room")

		return res, nil
	}

	room, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return res, failure.NotFound("room") //nolint:wrapcheck
	}

	res.FromModel(room)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save room to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateRoomRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	room, err := s.repo.Get(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return failure.NotFound("room") //nolint:wrapcheck
	}

	if req.Name != constant.Empty && req.Name != room.Name {
		taken, err := s.nameTaken(ctx, req.Name, id)
		if err != nil {
			return err
		}

		if taken {
			return failure.Conflict("room name already in use") //nolint:wrapcheck
		}
	}

	fields := shared.TransformFields(req, user)

	if req.Image != nil {
		bucketName := s.cfg.External.S3.BucketName
		filename := uuid.NewString()

		parts := strings.Split(req.Image.Filename, ".")
		if len(parts) > 1 {
			filename = fmt.Sprintf("%s.%s", filename, parts[len(parts)-1])
		}

		url, err := s.s3.UploadFile(ctx, bucketName, model.EntityName, req.ImageFile, req.Image, filename)
		if err != nil {
			log.Error().Err(err).Msg("failed to upload image to S3")

			return fmt.Errorf("failed to upload image: %w", err)
		}

		fields[model.FieldImage] = url

		if room.Image != constant.Empty {
			oldObject := s.s3.GetObjectNameFromURL(bucketName, room.Image)
			if oldObject != constant.Empty {
				_ = s.s3.DeleteFile(ctx, bucketName, model.EntityName, oldObject)
			}
		}
	}

	if err = s.repo.Update(ctx, fields, filter); err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}

	s.invalidateAll(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	room, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		return fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty || (room.DeletedAt != nil && !room.IsBlocked) {
		return failure.NotFound("room") //nolint:wrapcheck
	}

	inProgress, err := s.repo.HasInProgressBooking(ctx, id, timezone.Now())
	if err != nil {
		return fmt.Errorf("failed to check room usage: %w", err)
	}

	if inProgress {
		return failure.BadRequestFromString("room currently in use") //nolint:wrapcheck
	}

	// Rooms are retired, never dropped: booking history keeps its room_id
	// reference.
	if err = s.repo.SoftDelete(ctx, id, user, timezone.Now()); err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}

	if room.Image != constant.Empty {
		bucketName := s.cfg.External.S3.BucketName
		object := s.s3.GetObjectNameFromURL(bucketName, room.Image)
		if object != constant.Empty {
			_ = s.s3.DeleteFile(ctx, bucketName, model.EntityName, object)
		}
	}

	s.invalidateAll(ctx, id)

	return nil
}

// Block takes the room out of service and takes down its live bookings with
// it. A room hosting an in-progress booking cannot be blocked.
func (s *serviceImpl) Block(ctx context.Context, id string, req dto.BlockRoomRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Block")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	room, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		return fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return failure.NotFound("room") //nolint:wrapcheck
	}

	if room.IsBlocked {
		return failure.BadRequestFromString("room is already blocked") //nolint:wrapcheck
	}

	inProgress, err := s.repo.HasInProgressBooking(ctx, id, timezone.Now())
	if err != nil {
		return fmt.Errorf("failed to check room usage: %w", err)
	}

	if inProgress {
		return failure.BadRequestFromString("room currently in use") //nolint:wrapcheck
	}

	description := req.Description
	if description == constant.Empty {
		description = room.Description
	}

	if err = s.repo.Block(ctx, id, description, user, timezone.Now()); err != nil {
		return fmt.Errorf("failed to block room: %w", err)
	}

	s.invalidateAll(ctx, id)

	return nil
}

// Open restores a blocked room and the bookings its block took down.
func (s *serviceImpl) Open(ctx context.Context, id string, req dto.BlockRoomRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Open")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	room, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		return fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return failure.NotFound("room") //nolint:wrapcheck
	}

	if !room.IsBlocked {
		return failure.BadRequestFromString("room is not blocked") //nolint:wrapcheck
	}

	description := req.Description
	if description == constant.Empty {
		description = room.Description
	}

	if err = s.repo.Open(ctx, id, description, user, timezone.Now()); err != nil {
		return fmt.Errorf("failed to open room: %w", err)
	}

	s.invalidateAll(ctx, id)

	return nil
}

// Statuses lists every unblocked room with its live FREE/BUSY state.
func (s *serviceImpl) Statuses(ctx context.Context) (res dto.GetRoomStatusesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Statuses")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldIsBlocked,
				Value:    false,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}

	rooms, err := s.repo.GetAll(ctx, gDto.QueryParams{SortBy: model.FieldName, SortDir: gDto.SortDirAsc}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms")

		return res, fmt.Errorf("failed to get rooms: %w", err)
	}

	busyIDs, err := s.repo.FindBusyRoomIDs(ctx, timezone.Now())
	if err != nil {
		log.Error().Err(err).Msg("failed to find busy rooms")

		return res, fmt.Errorf("failed to find busy rooms: %w", err)
	}

	busy := make(map[string]bool, len(busyIDs))
	for _, id := range busyIDs {
		busy[id] = true
	}

	res.Rooms = make([]dto.RoomStatusResponse, len(rooms))
	for i, room := range rooms {
		status := model.StatusFree
		if busy[room.ID] {
			status = model.StatusBusy
		}

		res.Rooms[i] = dto.RoomStatusResponse{
			ID:     room.ID,
			Name:   room.Name,
			Status: status,
		}
	}

	return res, nil
}

// nameTaken checks the name against live and blocked rooms: a block stamps
// deleted_at but keeps the name reserved for Open. Only retired rooms
// (deleted_at set, not blocked) free theirs.
func (s *serviceImpl) nameTaken(ctx context.Context, name, excludeID string) (bool, error) {
	filters := []any{
		gDto.Filter{
			Field:    model.FieldName,
			Value:    name,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		},
		gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorOr,
			Filters: []any{
				gDto.Filter{
					Field:    model.FieldDeletedAt,
					Operator: gDto.FilterIsNull,
					Table:    model.TableName,
				},
				gDto.Filter{
					Field:    model.FieldIsBlocked,
					Value:    true,
					Operator: gDto.FilterOperatorEq,
					Table:    model.TableName,
				},
			},
		},
	}

	if excludeID != constant.Empty {
		filters = append(filters, gDto.Filter{
			Field:    model.FieldID,
			Value:    excludeID,
			Operator: gDto.FilterOperatorNotEq,
			Table:    model.TableName,
		})
	}

	taken, err := s.repo.Exist(ctx, gDto.FilterGroup{Filters: filters})
	if err != nil {
		log.Error().Err(err).Msg("failed to check room name")

		return false, fmt.Errorf("failed to check room name: %w", err)
	}

	return taken, nil
}

func (s *serviceImpl) invalidateAll(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetRoom, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete room cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllRoom)
		shared.InvalidateCaches(c, s.cache, cacheCountRoom)
	}()
}
