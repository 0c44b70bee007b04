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
	"meetroom/internal/domains/booking/model"
	roomModel "meetroom/internal/domains/room/model"
	"meetroom/shared/constant"
	gDto "meetroom/shared/dto"
	"meetroom/shared/failure"
	"meetroom/shared/logger"
	gRepo "meetroom/shared/repository"
	"meetroom/shared/timerange"

	"github.com/jmoiron/sqlx"
)

type Booking interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	FindOverlapping(ctx context.Context, roomID string, rng timerange.Range, excludeID string) (model.Booking, error)
	GetDetail(ctx context.Context, id string) (model.BookingDetail, error)
	FindInDateRange(ctx context.Context, start, end time.Time, userID string) ([]model.BookingDetail, error)
	FindByRoomInRange(ctx context.Context, roomID string, start, end time.Time) ([]model.BookingDetail, error)
	FindByAttendeesInRange(ctx context.Context, start, end time.Time, userIDs []string) ([]model.BookingDetail, error)
	FindStartingAt(ctx context.Context, instant time.Time) ([]model.Booking, error)
	ListAttendees(ctx context.Context, bookingID string) ([]model.AttendeeDetail, error)
	CreateWithAttendees(ctx context.Context, booking model.Booking, attendees []model.BookingAttendee) error
	UpdateWithAttendees(ctx context.Context, booking model.Booking, attendees []model.BookingAttendee) error
	SetAttendStatus(ctx context.Context, bookingID, userID, status, by string, at time.Time) (bool, error)
	SoftDelete(ctx context.Context, id, by string, at time.Time) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	details         gRepo.Repository[model.BookingDetail]
	attendees       gRepo.Repository[model.BookingAttendee]
	attendeeDetails gRepo.Repository[model.AttendeeDetail]
	db              *postgres.Connection
	otel            otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository:      gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		details:         gRepo.NewRepository[model.BookingDetail](model.EntityName, model.TableName, model.FieldID, db, otel),
		attendees:       gRepo.NewRepository[model.BookingAttendee](model.AttendeeEntityName, model.AttendeeTableName, model.FieldAttendeeID, db, otel),
		attendeeDetails: gRepo.NewRepository[model.AttendeeDetail](model.AttendeeEntityName, model.AttendeeTableName, model.FieldAttendeeID, db, otel),
		db:              db,
		otel:            otel,
	}
}

// FindOverlapping returns one live booking in the room whose range overlaps
// rng under the half-open rule (boundary touch is not a conflict). Zero-value
// result means the slot is free.
func (repo *repositoryImpl) FindOverlapping(ctx context.Context, roomID string, rng timerange.Range, excludeID string) (model.Booking, error) {
	filters := []any{
		gDto.Filter{
			Field:    model.FieldRoomID,
			Value:    roomID,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		},
		gDto.Filter{
			Field:    model.FieldIsDeleted,
			Value:    false,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		},
		gDto.Filter{
			Field:    model.FieldTimeEnd,
			ArgName:  "overlap_start",
			Value:    rng.Start,
			Operator: gDto.FilterOperatorGreater,
			Table:    model.TableName,
		},
		gDto.Filter{
			Field:    model.FieldTimeStart,
			ArgName:  "overlap_end",
			Value:    rng.End,
			Operator: gDto.FilterOperatorLess,
			Table:    model.TableName,
		},
	}

	if excludeID != constant.Empty {
		filters = append(filters, gDto.Filter{
			Field:    model.FieldID,
			ArgName:  "exclude_id",
			Value:    excludeID,
			Operator: gDto.FilterOperatorNotEq,
			Table:    model.TableName,
		})
	}

	return repo.Get(ctx, gDto.FilterGroup{Filters: filters})
}

// GetDetail fetches one booking joined with its room name. Zero-value when
// the id is unknown.
func (repo *repositoryImpl) GetDetail(ctx context.Context, id string) (model.BookingDetail, error) {
	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldID,
				Value:    id,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}

	return repo.details.Get(ctx, filter)
}

// FindByAttendeesInRange lists live bookings ending inside [start, end) that
// any of the given users attends.
func (repo *repositoryImpl) FindByAttendeesInRange(ctx context.Context, start, end time.Time, userIDs []string) ([]model.BookingDetail, error) {
	if len(userIDs) == 0 {
		return []model.BookingDetail{}, nil
	}

	attendeeFilter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldAttendeeUserID,
				ArgName:  "attendee_users",
				Value:    userIDs,
				Operator: gDto.FilterOperatorIn,
				Table:    model.AttendeeTableName,
			},
		},
	}

	rows, err := repo.attendees.GetAll(ctx, gDto.QueryParams{}, attendeeFilter)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return []model.BookingDetail{}, nil
	}

	seen := map[string]bool{}
	bookingIDs := []string{}
	for _, row := range rows {
		if !seen[row.BookingID] {
			seen[row.BookingID] = true
			bookingIDs = append(bookingIDs, row.BookingID)
		}
	}

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldIsDeleted,
				Value:    false,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldTimeEnd,
				ArgName:  "range_start",
				Value:    start,
				Operator: gDto.FilterOperatorGreaterEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldTimeEnd,
				ArgName:  "range_end",
				Value:    end,
				Operator: gDto.FilterOperatorLess,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldID,
				ArgName:  "attended_ids",
				Value:    bookingIDs,
				Operator: gDto.FilterOperatorIn,
				Table:    model.TableName,
			},
		},
	}

	params := gDto.QueryParams{SortBy: model.TableName + "." + model.FieldTimeStart, SortDir: gDto.SortDirAsc}

	return repo.details.GetAll(ctx, params, filter)
}

// FindInDateRange lists live bookings ending inside [start, end), newest
// window first by start time. A non-empty userID narrows the result to
// bookings the user created or attends.
func (repo *repositoryImpl) FindInDateRange(ctx context.Context, start, end time.Time, userID string) ([]model.BookingDetail, error) {
	filters := []any{
		gDto.Filter{
			Field:    model.FieldIsDeleted,
			Value:    false,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		},
		gDto.Filter{
			Field:    model.FieldTimeEnd,
			ArgName:  "range_start",
			Value:    start,
			Operator: gDto.FilterOperatorGreaterEq,
			Table:    model.TableName,
		},
		gDto.Filter{
			Field:    model.FieldTimeEnd,
			ArgName:  "range_end",
			Value:    end,
			Operator: gDto.FilterOperatorLess,
			Table:    model.TableName,
		},
	}

	if userID != constant.Empty {
		attendingIDs, err := repo.findAttendedBookingIDs(ctx, userID)
		if err != nil {
			return nil, err
		}

		ownership := []any{
			gDto.Filter{
				Field:    constant.FieldCreatedBy,
				ArgName:  "range_user",
				Value:    userID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		}

		if len(attendingIDs) > 0 {
			ownership = append(ownership, gDto.Filter{
				Field:    model.FieldID,
				ArgName:  "attended_ids",
				Value:    attendingIDs,
				Operator: gDto.FilterOperatorIn,
				Table:    model.TableName,
			})
		}

		filters = append(filters, gDto.FilterGroup{
			Filters:  ownership,
			Operator: gDto.FilterGroupOperatorOr,
		})
	}

	params := gDto.QueryParams{SortBy: model.TableName + "." + model.FieldTimeStart, SortDir: gDto.SortDirAsc}

	return repo.details.GetAll(ctx, params, gDto.FilterGroup{Filters: filters})
}

// FindByRoomInRange lists live bookings for a room ending inside [start, end).
func (repo *repositoryImpl) FindByRoomInRange(ctx context.Context, roomID string, start, end time.Time) ([]model.BookingDetail, error) {
	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldRoomID,
				Value:    roomID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldIsDeleted,
				Value:    false,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldTimeEnd,
				ArgName:  "range_start",
				Value:    start,
				Operator: gDto.FilterOperatorGreaterEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldTimeEnd,
				ArgName:  "range_end",
				Value:    end,
				Operator: gDto.FilterOperatorLess,
				Table:    model.TableName,
			},
		},
	}

	params := gDto.QueryParams{SortBy: model.TableName + "." + model.FieldTimeStart, SortDir: gDto.SortDirAsc}

	return repo.details.GetAll(ctx, params, filter)
}

// FindStartingAt returns live bookings starting exactly at the given minute
// instant. The scheduler drives this once per minute.
func (repo *repositoryImpl) FindStartingAt(ctx context.Context, instant time.Time) ([]model.Booking, error) {
	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldIsDeleted,
				Value:    false,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldTimeStart,
				ArgName:  "start_instant",
				Value:    instant,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}

	return repo.GetAll(ctx, gDto.QueryParams{}, filter)
}

func (repo *repositoryImpl) ListAttendees(ctx context.Context, bookingID string) ([]model.AttendeeDetail, error) {
	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldAttendeeBookingID,
				Value:    bookingID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.AttendeeTableName,
			},
		},
	}

	return repo.attendeeDetails.GetAll(ctx, gDto.QueryParams{}, filter)
}

// CreateWithAttendees persists a booking and its attendee rows in one
// transaction. The room row is locked and the overlap check re-run under the
// lock, so two racing bookings for the same slot cannot both land.
func (repo *repositoryImpl) CreateWithAttendees(ctx context.Context, booking model.Booking, attendees []model.BookingAttendee) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.CreateWithAttendees")
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

	if err = repo.lockRoomRow(ctx, tx, booking.RoomID); err != nil {
		return err
	}

	if err = repo.checkOverlapLocked(ctx, tx, booking.RoomID, booking.Range(), booking.ID); err != nil {
		return err
	}

	if err = repo.InsertTx(ctx, tx, booking); err != nil {
		return err
	}

	if err = repo.attendees.InsertBulkTx(ctx, tx, attendees); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit transaction (%s): %w", model.EntityName, err)
	}

	return nil
}

// UpdateWithAttendees rewrites a booking's mutable fields and replaces its
// attendee set wholesale, under the same room lock and overlap re-check as
// creation. The booking itself is excluded from the overlap check.
func (repo *repositoryImpl) UpdateWithAttendees(ctx context.Context, booking model.Booking, attendees []model.BookingAttendee) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.UpdateWithAttendees")
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

	if err = repo.lockRoomRow(ctx, tx, booking.RoomID); err != nil {
		return err
	}

	if err = repo.checkOverlapLocked(ctx, tx, booking.RoomID, booking.Range(), booking.ID); err != nil {
		return err
	}

	fields := map[string]any{
		model.FieldRoomID:        booking.RoomID,
		model.FieldTitle:         booking.Title,
		model.FieldTimeStart:     booking.TimeStart,
		model.FieldTimeEnd:       booking.TimeEnd,
		constant.FieldModifiedAt: booking.ModifiedAt,
		constant.FieldModifiedBy: booking.ModifiedBy,
	}

	idFilter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldID,
				Value:    booking.ID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}

	if err = repo.UpdateTx(ctx, tx, fields, idFilter); err != nil {
		return err
	}

	attendeeFilter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldAttendeeBookingID,
				Value:    booking.ID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.AttendeeTableName,
			},
		},
	}

	if err = repo.attendees.DeleteTx(ctx, tx, attendeeFilter); err != nil {
		return err
	}

	if err = repo.attendees.InsertBulkTx(ctx, tx, attendees); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit transaction (%s): %w", model.EntityName, err)
	}

	return nil
}

// SetAttendStatus flips one attendee's invitation status. Returns false when
// the user is not an attendee of the booking.
func (repo *repositoryImpl) SetAttendStatus(ctx context.Context, bookingID, userID, status, by string, at time.Time) (updated bool, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.SetAttendStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(
		"UPDATE %s SET %s = :status, %s = :at, %s = :by WHERE %s = :booking_id AND %s = :user_id",
		model.AttendeeTableName,
		model.FieldAttendeeAttendStatus,
		constant.FieldModifiedAt,
		constant.FieldModifiedBy,
		model.FieldAttendeeBookingID,
		model.FieldAttendeeUserID,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := repo.db.Write.NamedExecContext(ctx, query, map[string]any{
		"status":     status,
		"at":         at,
		"by":         by,
		"booking_id": bookingID,
		"user_id":    userID,
	})
	if err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to update attend status (%s): %w", model.AttendeeEntityName, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to read affected rows (%s): %w", model.AttendeeEntityName, err)
	}

	return affected > 0, nil
}

func (repo *repositoryImpl) SoftDelete(ctx context.Context, id, by string, at time.Time) error {
	fields := map[string]any{
		model.FieldIsDeleted:     true,
		model.FieldDeletedAt:     at,
		constant.FieldModifiedAt: at,
		constant.FieldModifiedBy: by,
	}

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldID,
				Value:    id,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}

	return repo.Update(ctx, fields, filter)
}

func (repo *repositoryImpl) findAttendedBookingIDs(ctx context.Context, userID string) ([]string, error) {
	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldAttendeeUserID,
				ArgName:  "attendee_user",
				Value:    userID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.AttendeeTableName,
			},
		},
	}

	rows, err := repo.attendees.GetAll(ctx, gDto.QueryParams{}, filter)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.BookingID
	}

	return ids, nil
}

func (repo *repositoryImpl) lockRoomRow(ctx context.Context, tx *sqlx.Tx, roomID string) error {
	var id string

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 FOR UPDATE", roomModel.FieldID, roomModel.TableName, roomModel.FieldID)

	if err := tx.GetContext(ctx, &id, query, roomID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return failure.BadRequestFromString("room does not exist") //nolint:wrapcheck
		}

		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to lock room row: %w", err)
	}

	return nil
}

// checkOverlapLocked re-runs the overlap query inside the transaction, after
// the room lock is held. This is the authoritative write-time guard; the
// service-level availability check is only a fast path.
func (repo *repositoryImpl) checkOverlapLocked(ctx context.Context, tx *sqlx.Tx, roomID string, rng timerange.Range, excludeID string) error {
	var conflictingID string

	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1 AND %s = FALSE AND %s > $2 AND %s < $3 AND %s != $4 LIMIT 1",
		model.FieldID,
		model.TableName,
		model.FieldRoomID,
		model.FieldIsDeleted,
		model.FieldTimeEnd,
		model.FieldTimeStart,
		model.FieldID,
	)

	err := tx.GetContext(ctx, &conflictingID, query, roomID, rng.Start, rng.End, excludeID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}

	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to re-check overlap (%s): %w", model.EntityName, err)
	}

	return failure.Conflict(fmt.Sprintf("room already booked by %s for this time range", conflictingID)) //nolint:wrapcheck
}
