package domain

import (
	"time"
)

// ApplicationStatus 入住申请状态
// pending is the only non-terminal state.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

// Terminal reports whether no further transition is permitted.
func (s ApplicationStatus) Terminal() bool {
	return s == ApplicationApproved || s == ApplicationRejected
}

// Application 入住申请领域模型（对应 applications 表）
type Application struct {
	ID        string            `db:"id" json:"id"`
	UserID    string            `db:"user_id" json:"user_id"`
	RoomID    string            `db:"room_id" json:"room_id"`
	Status    ApplicationStatus `db:"status" json:"status"`
	Comment   *string           `db:"comment" json:"comment,omitempty"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
}
