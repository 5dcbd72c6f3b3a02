package models

import "time"

type AppUser struct {
	ID        int64     `json:"id" bson:"_id" db:"id"`
	Username  string    `json:"username" bson:"username" db:"username" validate:"required,min=3,max=150"`
	Password  string    `json:"password,omitempty" bson:"password_hash" db:"password_hash" validate:"required,min=6"`
	IsAdmin   bool      `json:"is_admin" bson:"is_admin" db:"is_admin"`
	IsActive  bool      `json:"is_active" bson:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" db:"created_at"`
}
