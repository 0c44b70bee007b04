package model

import (
	"time"

	"meetroom/shared/model"
)

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID          = "id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldImage       = "image"
	FieldIsBlocked   = "is_blocked"
	FieldDeletedAt   = "deleted_at"

	StatusFree = "FREE"
	StatusBusy = "BUSY"
)

type Room struct {
	ID          string     `db:"id"`
	Name        string     `db:"name"`
	Description string     `db:"description"`
	Image       string     `db:"image"`
	IsBlocked   bool       `db:"is_blocked"`
	DeletedAt   *time.Time `db:"deleted_at"`
	model.Metadata
}
