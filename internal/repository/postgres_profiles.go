package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Central-University-IT-prod/2025-hack-vvo-team-06-dorm-match/internal/domain"
)

type PostgresProfilesRepository struct {
	db *sql.DB
}

func NewPostgresProfilesRepository(db *sql.DB) *PostgresProfilesRepository {
	return &PostgresProfilesRepository{db: db}
}

// GetByUserID: 获取学生档案
// hobbies is a JSONB array of strings.
func (r *PostgresProfilesRepository) GetByUserID(ctx context.Context, userID string) (*domain.StudentProfile, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id is required: %w", domain.ErrInvalidInput)
	}

	q := `
		SELECT
			user_id::text,
			faculty,
			course,
			gender,
			age,
			wake_hours,
			CASE WHEN hobbies IS NULL THEN NULL ELSE hobbies::text END as hobbies,
			mbti,
			updated_at
		FROM student_profiles
		WHERE user_id = $1
	`
	var p domain.StudentProfile
	var age sql.NullInt32
	var wakeHours, hobbies, mbti sql.NullString
	err := r.db.QueryRowContext(ctx, q, userID).Scan(
		&p.UserID,
		&p.Faculty,
		&p.Course,
		&p.Gender,
		&age,
		&wakeHours,
		&hobbies,
		&mbti,
		&p.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("profile for user %s: %w", userID, domain.ErrNotFound)
		}
		return nil, err
	}
	if age.Valid {
		p.Age = int(age.Int32)
	}
	if wakeHours.Valid {
		p.WakeHours = wakeHours.String
	}
	if hobbies.Valid && hobbies.String != "" {
		if err := json.Unmarshal([]byte(hobbies.String), &p.Hobbies); err != nil {
			return nil, fmt.Errorf("failed to decode hobbies for user %s: %w", userID, err)
		}
	}
	if mbti.Valid {
		p.MBTI = &mbti.String
	}
	return &p, nil
}
