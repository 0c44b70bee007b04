package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"meetroom/infras/otel"
	"meetroom/infras/postgres"
	bookingModel "meetroom/internal/domains/booking/model"
	"meetroom/internal/domains/room/model"
	"meetroom/shared/constant"
	gDto "meetroom/shared/dto"
	"meetroom/shared/logger"
	gRepo "meetroom/shared/repository"
)

type Room interface {
	Insert(ctx context.Context, model model.Room) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Room, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Room, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	SoftDelete(ctx context.Context, id, by string, at time.Time) error
	HasInProgressBooking(ctx context.Context, roomID string, at time.Time) (bool, error)
	FindBusyRoomIDs(ctx context.Context, at time.Time) ([]string, error)
	Block(ctx context.Context, roomID, description, by string, at time.Time) error
	Open(ctx context.Context, roomID, description, by string, at time.Time) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Room]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Room {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Room](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// HasInProgressBooking reports whether a non-deleted booking is running in
// the room at the given instant.
func (repo *repositoryImpl) HasInProgressBooking(ctx context.Context, roomID string, at time.Time) (inProgress bool, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.HasInProgressBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(
		"SELECT EXISTS(SELECT 1 FROM %s WHERE %s = $1 AND %s = FALSE AND %s <= $2 AND %s > $2)",
		bookingModel.TableName,
		bookingModel.FieldRoomID,
		bookingModel.FieldIsDeleted,
		bookingModel.FieldTimeStart,
		bookingModel.FieldTimeEnd,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = repo.db.Read.GetContext(ctx, &inProgress, query, roomID, at)
	if err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to check in-progress booking (%s): %w", model.EntityName, err)
	}

	return inProgress, nil
}

// FindBusyRoomIDs returns the ids of rooms with a booking running at the
// given instant.
func (repo *repositoryImpl) FindBusyRoomIDs(ctx context.Context, at time.Time) (ids []string, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.FindBusyRoomIDs")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(
		"SELECT DISTINCT %s FROM %s WHERE %s = FALSE AND %s <= $1 AND %s > $1",
		bookingModel.FieldRoomID,
		bookingModel.TableName,
		bookingModel.FieldIsDeleted,
		bookingModel.FieldTimeStart,
		bookingModel.FieldTimeEnd,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = repo.db.Read.SelectContext(ctx, &ids, query, at)
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to find busy rooms (%s): %w", model.EntityName, err)
	}

	return ids, nil
}

// SoftDelete retires the room. Booking rows reference rooms, so the row
// itself stays; the deleted_at stamp frees the name and is_blocked is cleared
// so a formerly blocked room reads as retired rather than blocked.
func (repo *repositoryImpl) SoftDelete(ctx context.Context, id, by string, at time.Time) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.SoftDelete")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(
		"UPDATE %s SET %s = :at, %s = FALSE, %s = :at, %s = :by WHERE %s = :id",
		model.TableName,
		model.FieldDeletedAt,
		model.FieldIsBlocked,
		constant.FieldModifiedAt,
		constant.FieldModifiedBy,
		model.FieldID,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	args := map[string]any{
		"id": id,
		"at": at,
		"by": by,
	}

	if _, err = repo.db.Write.NamedExecContext(ctx, query, args); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to delete room (%s): %w", model.EntityName, err)
	}

	return nil
}

// Block soft-deletes the room and marks every live booking in it deleted,
// all in one transaction. Bookings get the same deleted_at stamp as the room
// so Open can restore exactly the set it took down.
func (repo *repositoryImpl) Block(ctx context.Context, roomID, description, by string, at time.Time) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.Block")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to begin transaction (%s): %w", model.EntityName, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = lockRoomRow(ctx, tx, roomID); err != nil {
		return err
	}

	roomQuery := fmt.Sprintf(
		"UPDATE %s SET %s = TRUE, %s = :at, %s = :description, %s = :at, %s = :by WHERE %s = :room_id",
		model.TableName,
		model.FieldIsBlocked,
		model.FieldDeletedAt,
		model.FieldDescription,
		constant.FieldModifiedAt,
		constant.FieldModifiedBy,
		model.FieldID,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, roomQuery)

	args := map[string]any{
		"room_id":     roomID,
		"description": description,
		"at":          at,
		"by":          by,
	}

	if _, err = tx.NamedExecContext(ctx, roomQuery, args); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to block room (%s): %w", model.EntityName, err)
	}

	bookingQuery := fmt.Sprintf(
		"UPDATE %s SET %s = TRUE, %s = :at, %s = :at, %s = :by WHERE %s = :room_id AND %s = FALSE",
		bookingModel.TableName,
		bookingModel.FieldIsDeleted,
		bookingModel.FieldDeletedAt,
		constant.FieldModifiedAt,
		constant.FieldModifiedBy,
		bookingModel.FieldRoomID,
		bookingModel.FieldIsDeleted,
	)

	if _, err = tx.NamedExecContext(ctx, bookingQuery, args); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to cascade room block to bookings (%s): %w", model.EntityName, err)
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit transaction (%s): %w", model.EntityName, err)
	}

	return nil
}

// Open restores a blocked room together with the bookings taken down by the
// matching Block call (deleted_at equality keeps individually deleted and
// rejected bookings down).
func (repo *repositoryImpl) Open(ctx context.Context, roomID, description, by string, at time.Time) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.Open")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to begin transaction (%s): %w", model.EntityName, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = lockRoomRow(ctx, tx, roomID); err != nil {
		return err
	}

	var blockedAt sql.NullTime

	deletedAtQuery := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", model.FieldDeletedAt, model.TableName, model.FieldID)
	if err = tx.GetContext(ctx, &blockedAt, deletedAtQuery, roomID); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to read room block time (%s): %w", model.EntityName, err)
	}

	roomQuery := fmt.Sprintf(
		"UPDATE %s SET %s = FALSE, %s = NULL, %s = :description, %s = :at, %s = :by WHERE %s = :room_id",
		model.TableName,
		model.FieldIsBlocked,
		model.FieldDeletedAt,
		model.FieldDescription,
		constant.FieldModifiedAt,
		constant.FieldModifiedBy,
		model.FieldID,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, roomQuery)

	args := map[string]any{
		"room_id":     roomID,
		"description": description,
		"at":          at,
		"by":          by,
		"blocked_at":  blockedAt.Time,
	}

	if _, err = tx.NamedExecContext(ctx, roomQuery, args); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to open room (%s): %w", model.EntityName, err)
	}

	if blockedAt.Valid {
		bookingQuery := fmt.Sprintf(
			"UPDATE %s SET %s = FALSE, %s = NULL, %s = :at, %s = :by WHERE %s = :room_id AND %s = :blocked_at",
			bookingModel.TableName,
			bookingModel.FieldIsDeleted,
			bookingModel.FieldDeletedAt,
			constant.FieldModifiedAt,
			constant.FieldModifiedBy,
			bookingModel.FieldRoomID,
			bookingModel.FieldDeletedAt,
		)

		if _, err = tx.NamedExecContext(ctx, bookingQuery, args); err != nil {
			logger.ErrorWithStack(err)

			return fmt.Errorf("failed to restore bookings on room open (%s): %w", model.EntityName, err)
		}
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit transaction (%s): %w", model.EntityName, err)
	}

	return nil
}

type rowGetter interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

func lockRoomRow(ctx context.Context, tx rowGetter, roomID string) error {
	var id string

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 FOR UPDATE", model.FieldID, model.TableName, model.FieldID)

	if err := tx.GetContext(ctx, &id, query, roomID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to lock room row: %w", err)
		}

		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to lock room row: %w", err)
	}

	return nil
}
