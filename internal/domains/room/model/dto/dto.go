package dto

import (
	"mime/multipart"

	"meetroom/internal/domains/room/model"
	"meetroom/shared"
	gDto "meetroom/shared/dto"
	gModel "meetroom/shared/model"
	"meetroom/shared/timezone"

	"github.com/google/uuid"
)

type CreateRoomRequest struct {
	Name        string                `json:"name"        validate:"required,notblank,max=50"`
	Description string                `json:"description" validate:"omitempty,max=255"`
	Image       *multipart.FileHeader `json:"image"       validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile   multipart.File        `json:"-"`
}

func (c *CreateRoomRequest) ToModel(user string, imageURL string) model.Room {
	return model.Room{
		ID:          uuid.NewString(),
		Name:        c.Name,
		Description: c.Description,
		Image:       imageURL,
		IsBlocked:   false,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateRoomRequest struct {
	Name        string                `db:"name"        json:"name"        validate:"omitempty,notblank,max=50"`
	Description string                `db:"description" json:"description" validate:"omitempty,max=255"`
	Image       *multipart.FileHeader `json:"image"      validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile   multipart.File        `json:"-"`
}

// BlockRoomRequest carries the reason attached to a room block or open.
type BlockRoomRequest struct {
	Description string `json:"description" validate:"omitempty,max=255"`
}

type RoomResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	IsBlocked   bool   `json:"is_blocked"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.Name = model.Name
	r.Description = model.Description
	r.Image = model.Image
	r.IsBlocked = model.IsBlocked
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}

// RoomStatusResponse reports live occupancy for a room.
type RoomStatusResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type GetRoomStatusesResponse struct {
	Rooms []RoomStatusResponse `json:"rooms"`
}
