package dto_test

import (
	"testing"
	"time"

	"meetroom/internal/domains/booking/model"
	"meetroom/internal/domains/booking/model/dto"
	gModel "meetroom/shared/model"
	"meetroom/shared/timezone"

	"github.com/stretchr/testify/assert"
)

func TestCreateBookingRequest_ToModel(t *testing.T) {
	start := timezone.Now().Add(time.Hour).Truncate(time.Minute)
	req := dto.CreateBookingRequest{
		RoomID:    "room-1",
		Title:     "Sprint Planning",
		TimeStart: start.Format(time.RFC3339),
		TimeEnd:   start.Add(time.Hour).Format(time.RFC3339),
		Attendees: []string{"user-1", "user-2"},
	}

	userID := "test-user-id"
	booking, attendees, err := req.ToModel(userID, true)

	assert.NoError(t, err)
	assert.NotEmpty(t, booking.ID, "expected ID to be generated")
	assert.Equal(t, req.RoomID, booking.RoomID)
	assert.Equal(t, req.Title, booking.Title)
	assert.True(t, booking.TimeStart.Equal(start))
	assert.True(t, booking.TimeEnd.Equal(start.Add(time.Hour)))
	assert.True(t, booking.IsAccepted)
	assert.Equal(t, userID, booking.CreatedBy)
	assert.Equal(t, userID, booking.ModifiedBy)

	assert.Len(t, attendees, 2)
	for i, attendee := range attendees {
		assert.NotEmpty(t, attendee.ID)
		assert.Equal(t, booking.ID, attendee.BookingID)
		assert.Equal(t, req.Attendees[i], attendee.UserID)
		assert.Equal(t, model.AttendStatusPending, attendee.AttendStatus)
	}
}

func TestCreateBookingRequest_ToModel_SelfService(t *testing.T) {
	start := timezone.Now().Add(time.Hour)
	req := dto.CreateBookingRequest{
		RoomID:    "room-1",
		Title:     "1:1",
		TimeStart: start.Format(time.RFC3339),
		TimeEnd:   start.Add(time.Hour).Format(time.RFC3339),
		Attendees: []string{"user-1"},
	}

	booking, _, err := req.ToModel("test-user-id", false)

	assert.NoError(t, err)
	assert.False(t, booking.IsAccepted, "self-service bookings start as requests")
}

func TestCreateBookingRequest_ToModel_DropsSeconds(t *testing.T) {
	req := dto.CreateBookingRequest{
		RoomID:    "room-1",
		Title:     "Sprint Planning",
		TimeStart: "2026-01-05T09:00:45Z",
		TimeEnd:   "2026-01-05T10:00:30Z",
		Attendees: []string{"user-1"},
	}

	booking, _, err := req.ToModel("test-user-id", true)

	assert.NoError(t, err)
	assert.Zero(t, booking.TimeStart.Second(), "starts must land on a whole minute")
	assert.Zero(t, booking.TimeEnd.Second())
	assert.True(t, booking.TimeStart.Equal(booking.TimeStart.Truncate(time.Minute)))
}

func TestCreateBookingRequest_ToModel_InvalidTime(t *testing.T) {
	req := dto.CreateBookingRequest{
		RoomID:    "room-1",
		Title:     "Sprint Planning",
		TimeStart: "2026-01-05 09:00",
		TimeEnd:   "2026-01-05 10:00",
		Attendees: []string{"user-1"},
	}

	_, _, err := req.ToModel("test-user-id", true)

	assert.Error(t, err)
}

func TestUpdateBookingRequest_ToModel(t *testing.T) {
	start := timezone.Now().Add(time.Hour).Truncate(time.Minute)
	req := dto.UpdateBookingRequest{
		RoomID:    "room-2",
		Title:     "Sprint Planning (moved)",
		TimeStart: start.Format(time.RFC3339),
		TimeEnd:   start.Add(time.Hour).Format(time.RFC3339),
		Attendees: []string{"user-3"},
	}

	booking, attendees, err := req.ToModel("booking-1", "test-user-id")

	assert.NoError(t, err)
	assert.Equal(t, "booking-1", booking.ID)
	assert.Equal(t, req.RoomID, booking.RoomID)
	assert.Equal(t, req.Title, booking.Title)
	assert.Equal(t, "test-user-id", booking.ModifiedBy)

	assert.Len(t, attendees, 1)
	assert.Equal(t, "booking-1", attendees[0].BookingID)
	assert.Equal(t, "user-3", attendees[0].UserID)
	assert.Equal(t, model.AttendStatusPending, attendees[0].AttendStatus)
}

func TestBookingResponse_FromDetail(t *testing.T) {
	now := timezone.Now()
	detail := model.BookingDetail{
		ID:         "booking-1",
		RoomID:     "room-1",
		RoomName:   "War Room",
		Title:      "Sprint Planning",
		TimeStart:  now,
		TimeEnd:    now.Add(time.Hour),
		IsAccepted: true,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  "test-user",
			ModifiedBy: "test-user",
		},
	}

	var response dto.BookingResponse
	response.FromDetail(detail)

	assert.Equal(t, detail.ID, response.ID)
	assert.Equal(t, detail.RoomID, response.RoomID)
	assert.Equal(t, detail.RoomName, response.RoomName)
	assert.Equal(t, detail.Title, response.Title)
	assert.Equal(t, now.Format(time.RFC3339), response.TimeStart)
	assert.Equal(t, now.Add(time.Hour).Format(time.RFC3339), response.TimeEnd)
	assert.True(t, response.IsAccepted)
	assert.Equal(t, detail.CreatedBy, response.CreatedBy)
}

func TestBookingResponse_WithAttendees(t *testing.T) {
	attendees := []model.AttendeeDetail{
		{BookingID: "booking-1", UserID: "user-1", UserName: "Alice", AttendStatus: model.AttendStatusConfirmed},
		{BookingID: "booking-1", UserID: "user-2", UserName: "Bob", AttendStatus: model.AttendStatusPending},
	}

	var response dto.BookingResponse
	response.WithAttendees(attendees)

	assert.Len(t, response.Attendees, 2)
	assert.Equal(t, "user-1", response.Attendees[0].UserID)
	assert.Equal(t, "Alice", response.Attendees[0].Name)
	assert.Equal(t, model.AttendStatusConfirmed, response.Attendees[0].AttendStatus)
	assert.Equal(t, model.AttendStatusPending, response.Attendees[1].AttendStatus)
}

func TestGetBookingsResponse_FromDetails(t *testing.T) {
	now := timezone.Now()
	details := []model.BookingDetail{
		{ID: "booking-1", RoomID: "room-1", RoomName: "War Room", Title: "Standup", TimeStart: now, TimeEnd: now.Add(time.Hour)},
		{ID: "booking-2", RoomID: "room-2", RoomName: "Fishbowl", Title: "Retro", TimeStart: now, TimeEnd: now.Add(2 * time.Hour)},
	}

	var response dto.GetBookingsResponse
	response.FromDetails(details)

	assert.Len(t, response.Bookings, len(details))
	for i, booking := range response.Bookings {
		assert.Equal(t, details[i].ID, booking.ID)
		assert.Equal(t, details[i].RoomName, booking.RoomName)
	}
}

func TestGetBookingsResponse_FromDetails_EmptyList(t *testing.T) {
	var response dto.GetBookingsResponse
	response.FromDetails(nil)

	assert.Len(t, response.Bookings, 0)
}
