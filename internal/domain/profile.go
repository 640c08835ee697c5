package domain

import (
	"time"
)

// StudentProfile 学生档案（对应 student_profiles 表）
// Read-only input for eligibility checks; owned by the profile store.
// Habits and personality fields are stored but ignored by allocation.
type StudentProfile struct {
	UserID    string    `db:"user_id" json:"user_id"`
	Faculty   string    `db:"faculty" json:"faculty"`
	Course    int       `db:"course" json:"course"`
	Gender    string    `db:"gender" json:"gender"`
	Age       int       `db:"age" json:"age"`
	WakeHours string    `db:"wake_hours" json:"wake_hours"`
	Hobbies   []string  `db:"hobbies" json:"hobbies"`
	MBTI      *string   `db:"mbti" json:"mbti,omitempty"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
