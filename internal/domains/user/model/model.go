package model

import "meetroom/shared/model"

const (
	TableName  = "users"
	EntityName = "user"

	FieldID        = "id"
	FieldName      = "name"
	FieldEmail     = "email"
	FieldPassword  = "password"
	FieldRole      = "role"
	FieldFCMToken  = "fcm_token"
	FieldIsDeleted = "is_deleted"
)

type User struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Email     string `db:"email"`
	Password  string `db:"password"`
	Role      string `db:"role"`
	FCMToken  string `db:"fcm_token"`
	IsDeleted bool   `db:"is_deleted"`
	model.Metadata
}
