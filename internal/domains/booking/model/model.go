package model

import (
	"fmt"
	"time"

	roomModel "meetroom/internal/domains/room/model"
	userModel "meetroom/internal/domains/user/model"
	"meetroom/shared/model"
	"meetroom/shared/timerange"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID         = "id"
	FieldRoomID     = "room_id"
	FieldTitle      = "title"
	FieldTimeStart  = "time_start"
	FieldTimeEnd    = "time_end"
	FieldIsAccepted = "is_accepted"
	FieldIsDeleted  = "is_deleted"
	FieldDeletedAt  = "deleted_at"
)

const (
	AttendeeTableName  = "booking_attendees"
	AttendeeEntityName = "booking_attendee"

	FieldAttendeeID           = "id"
	FieldAttendeeBookingID    = "booking_id"
	FieldAttendeeUserID       = "user_id"
	FieldAttendeeAttendStatus = "attend_status"
)

// Attendee invitation states.
const (
	AttendStatusPending   = "pending"
	AttendStatusConfirmed = "confirmed"
	AttendStatusDeclined  = "declined"
)

type Booking struct {
	ID         string     `db:"id"`
	RoomID     string     `db:"room_id"`
	Title      string     `db:"title"`
	TimeStart  time.Time  `db:"time_start"`
	TimeEnd    time.Time  `db:"time_end"`
	IsAccepted bool       `db:"is_accepted"`
	IsDeleted  bool       `db:"is_deleted"`
	DeletedAt  *time.Time `db:"deleted_at"`
	model.Metadata
}

func (b *Booking) Range() timerange.Range {
	return timerange.Range{Start: b.TimeStart, End: b.TimeEnd}
}

type BookingAttendee struct {
	ID           string `db:"id"`
	BookingID    string `db:"booking_id"`
	UserID       string `db:"user_id"`
	AttendStatus string `db:"attend_status"`
	model.Metadata
}

// BookingDetail is the denormalized read model: a booking joined with its
// room name and creator name. Attendees are resolved separately.
type BookingDetail struct {
	ID         string     `db:"id"`
	RoomID     string     `db:"room_id"`
	RoomName   string     `db:"room_name"  table:"rooms"    column:"name"`
	Title      string     `db:"title"`
	TimeStart  time.Time  `db:"time_start"`
	TimeEnd    time.Time  `db:"time_end"`
	IsAccepted bool       `db:"is_accepted"`
	IsDeleted  bool       `db:"is_deleted"`
	DeletedAt  *time.Time `db:"deleted_at"`
	model.Metadata
}

func (b BookingDetail) GetJoinQuery() string {
	return fmt.Sprintf("JOIN %s ON %s.%s = %s.%s", roomModel.TableName, roomModel.TableName, roomModel.FieldID, TableName, FieldRoomID)
}

// AttendeeDetail joins an attendee row with the invited user.
type AttendeeDetail struct {
	BookingID    string `db:"booking_id"`
	UserID       string `db:"user_id"`
	UserName     string `db:"user_name" table:"users" column:"name"`
	FCMToken     string `db:"fcm_token" table:"users"`
	Email        string `db:"email"     table:"users"`
	AttendStatus string `db:"attend_status"`
}

func (a AttendeeDetail) GetJoinQuery() string {
	return fmt.Sprintf("JOIN %s ON %s.%s = %s.%s", userModel.TableName, userModel.TableName, userModel.FieldID, AttendeeTableName, FieldAttendeeUserID)
}
