package dto

import (
	"time"

	"meetroom/internal/domains/booking/model"
	gDto "meetroom/shared/dto"
	gModel "meetroom/shared/model"
	"meetroom/shared/timerange"
	"meetroom/shared/timezone"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	RoomID    string   `json:"room_id"    validate:"required"`
	Title     string   `json:"title"      validate:"required,notblank,max=255"`
	TimeStart string   `json:"time_start" validate:"required"`
	TimeEnd   string   `json:"time_end"   validate:"required"`
	Attendees []string `json:"attendees"  validate:"required,min=1,dive,required"`
}

// ToModel builds the booking and its attendee rows. Accepted state is the
// caller's call: admin bookings start accepted, self-service ones requested.
func (c *CreateBookingRequest) ToModel(user string, accepted bool) (model.Booking, []model.BookingAttendee, error) {
	rng, err := parseRange(c.TimeStart, c.TimeEnd)
	if err != nil {
		return model.Booking{}, nil, err
	}

	now := timezone.Now()
	booking := model.Booking{
		ID:         uuid.NewString(),
		RoomID:     c.RoomID,
		Title:      c.Title,
		TimeStart:  rng.Start,
		TimeEnd:    rng.End,
		IsAccepted: accepted,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}

	return booking, BuildAttendees(booking.ID, c.Attendees, user, now), nil
}

type UpdateBookingRequest struct {
	RoomID    string   `json:"room_id"    validate:"required"`
	Title     string   `json:"title"      validate:"required,notblank,max=255"`
	TimeStart string   `json:"time_start" validate:"required"`
	TimeEnd   string   `json:"time_end"   validate:"required"`
	Attendees []string `json:"attendees"  validate:"required,min=1,dive,required"`
}

func (c *UpdateBookingRequest) ToModel(id, user string) (model.Booking, []model.BookingAttendee, error) {
	rng, err := parseRange(c.TimeStart, c.TimeEnd)
	if err != nil {
		return model.Booking{}, nil, err
	}

	now := timezone.Now()
	booking := model.Booking{
		ID:        id,
		RoomID:    c.RoomID,
		Title:     c.Title,
		TimeStart: rng.Start,
		TimeEnd:   rng.End,
		Metadata: gModel.Metadata{
			ModifiedAt: now,
			ModifiedBy: user,
		},
	}

	return booking, BuildAttendees(id, c.Attendees, user, now), nil
}

// BuildAttendees expands user ids into pending attendee rows.
func BuildAttendees(bookingID string, userIDs []string, by string, at time.Time) []model.BookingAttendee {
	attendees := make([]model.BookingAttendee, len(userIDs))
	for i, userID := range userIDs {
		attendees[i] = model.BookingAttendee{
			ID:           uuid.NewString(),
			BookingID:    bookingID,
			UserID:       userID,
			AttendStatus: model.AttendStatusPending,
			Metadata: gModel.Metadata{
				CreatedAt:  at,
				ModifiedAt: at,
				CreatedBy:  by,
				ModifiedBy: by,
			},
		}
	}

	return attendees
}

func parseRange(start, end string) (timerange.Range, error) {
	timeStart, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return timerange.Range{}, err
	}

	timeEnd, err := time.Parse(time.RFC3339, end)
	if err != nil {
		return timerange.Range{}, err
	}

	// Sub-minute precision is dropped so starts line up with the
	// minute-exact reminder ticks.
	return timerange.Range{
		Start: timezone.ToAppTime(timeStart).Truncate(time.Minute),
		End:   timezone.ToAppTime(timeEnd).Truncate(time.Minute),
	}, nil
}

type AttendanceRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed declined"`
}

type AttendeeResponse struct {
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	AttendStatus string `json:"attend_status"`
}

type BookingResponse struct {
	ID         string             `json:"id"`
	RoomID     string             `json:"room_id"`
	RoomName   string             `json:"room_name"`
	Title      string             `json:"title"`
	TimeStart  string             `json:"time_start"`
	TimeEnd    string             `json:"time_end"`
	IsAccepted bool               `json:"is_accepted"`
	Attendees  []AttendeeResponse `json:"attendees,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromDetail(detail model.BookingDetail) {
	r.ID = detail.ID
	r.RoomID = detail.RoomID
	r.RoomName = detail.RoomName
	r.Title = detail.Title
	r.TimeStart = detail.TimeStart.Format(time.RFC3339)
	r.TimeEnd = detail.TimeEnd.Format(time.RFC3339)
	r.IsAccepted = detail.IsAccepted
	r.Metadata.FromModel(detail.Metadata)
}

func (r *BookingResponse) WithAttendees(attendees []model.AttendeeDetail) {
	r.Attendees = make([]AttendeeResponse, len(attendees))
	for i, att := range attendees {
		r.Attendees[i] = AttendeeResponse{
			UserID:       att.UserID,
			Name:         att.UserName,
			AttendStatus: att.AttendStatus,
		}
	}
}

type GetBookingsResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

func (r *GetBookingsResponse) FromDetails(details []model.BookingDetail) {
	r.Bookings = make([]BookingResponse, len(details))
	for i, detail := range details {
		r.Bookings[i].FromDetail(detail)
	}
}

// AvailabilityResponse is the outcome of an availability probe.
type AvailabilityResponse struct {
	Available     bool   `json:"available"`
	ConflictingID string `json:"conflicting_id,omitempty"`
}
