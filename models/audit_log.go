package models

import "time"

// Audit actions recorded by the back office.
const (
	ActionAddEntry      = "ADD ENTRY"
	ActionUpdateEntry   = "UPDATE ENTRY"
	ActionDeleteEntry   = "DELETE ENTRY"
	ActionAddVendor     = "ADD VENDOR"
	ActionUpdateVendor  = "UPDATE VENDOR"
	ActionUpdateRate    = "UPDATE RATE"
	ActionUpdateBalance = "UPDATE BALANCE"
	ActionDeleteVendor  = "DELETE VENDOR"
	ActionAddUser       = "ADD USER"
	ActionSystem        = "SYSTEM"
)

type AuditLog struct {
	ID        int64     `json:"id" bson:"_id" db:"id"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp" db:"timestamp"`
	Username  string    `json:"username" bson:"username" db:"username"`
	Action    string    `json:"action" bson:"action" db:"action"`
	Details   string    `json:"details" bson:"details" db:"details"`
}
