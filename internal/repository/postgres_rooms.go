package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/Central-University-IT-prod/2025-hack-vvo-team-06-dorm-match/internal/domain"
)

type PostgresRoomsRepository struct {
	db *sql.DB
}

func NewPostgresRoomsRepository(db *sql.DB) *PostgresRoomsRepository {
	return &PostgresRoomsRepository{db: db}
}

// roomColumns keeps SELECT lists consistent across queries and the ledger.
const roomColumns = `
	id::text,
	number,
	description,
	photo_url,
	capacity,
	current_occupants,
	faculty_restriction,
	course_restriction,
	sex_restriction,
	status`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(row rowScanner) (*domain.Room, error) {
	var room domain.Room
	var photoURL, facultyRestriction sql.NullString
	var courseRestriction sql.NullInt32
	if err := row.Scan(
		&room.ID,
		&room.Number,
		&room.Description,
		&photoURL,
		&room.Capacity,
		&room.CurrentOccupants,
		&facultyRestriction,
		&courseRestriction,
		&room.SexRestriction,
		&room.Status,
	); err != nil {
		return nil, err
	}
	if photoURL.Valid {
		room.PhotoURL = &photoURL.String
	}
	if facultyRestriction.Valid {
		room.FacultyRestriction = &facultyRestriction.String
	}
	if courseRestriction.Valid {
		course := int(courseRestriction.Int32)
		room.CourseRestriction = &course
	}
	return &room, nil
}

// Create: 创建 room（仅插入）
func (r *PostgresRoomsRepository) Create(ctx context.Context, room *domain.Room) (*domain.Room, error) {
	if room == nil {
		return nil, fmt.Errorf("room is required: %w", domain.ErrInvalidInput)
	}

	id := room.ID
	if id == "" {
		id = uuid.NewString()
	}

	q := `
		INSERT INTO rooms (id, number, description, photo_url, capacity, current_occupants, faculty_restriction, course_restriction, sex_restriction, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + roomColumns
	row := r.db.QueryRowContext(ctx, q,
		id,
		room.Number,
		room.Description,
		nullString(room.PhotoURL),
		room.Capacity,
		room.CurrentOccupants,
		nullString(room.FacultyRestriction),
		nullInt(room.CourseRestriction),
		room.SexRestriction,
		room.Status,
	)
	created, err := scanRoom(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}
	return created, nil
}

// Get: 获取单个 room
func (r *PostgresRoomsRepository) Get(ctx context.Context, roomID string) (*domain.Room, error) {
	if roomID == "" {
		return nil, fmt.Errorf("room_id is required: %w", domain.ErrInvalidInput)
	}

	q := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1`
	room, err := scanRoom(r.db.QueryRowContext(ctx, q, roomID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("room %s: %w", roomID, domain.ErrNotFound)
		}
		return nil, err
	}
	return room, nil
}

// FindAvailable: 按档案粗筛可入住房间
// Restriction columns are NULL when unset; NULL admits everyone.
func (r *PostgresRoomsRepository) FindAvailable(ctx context.Context, filters RoomFilters) ([]*domain.Room, error) {
	q := `
		SELECT ` + roomColumns + `
		FROM rooms
		WHERE status = 'available'
		  AND (faculty_restriction IS NULL OR faculty_restriction = $1)
		  AND (course_restriction IS NULL OR course_restriction = $2)
		  AND (sex_restriction = $3 OR sex_restriction = 'any')
		ORDER BY number
	`
	rows, err := r.db.QueryContext(ctx, q, filters.Faculty, filters.Course, filters.Sex)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*domain.Room, 0)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	return out, rows.Err()
}

// List: 查询全部 rooms（导出/报表用）
func (r *PostgresRoomsRepository) List(ctx context.Context) ([]*domain.Room, error) {
	q := `SELECT ` + roomColumns + ` FROM rooms ORDER BY number`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*domain.Room, 0)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	return out, rows.Err()
}

// CountByStatus: 按状态统计房间数
func (r *PostgresRoomsRepository) CountByStatus(ctx context.Context) (map[domain.RoomStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM rooms GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[domain.RoomStatus]int{}
	for rows.Next() {
		var status domain.RoomStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// ============================================
// 辅助函数
// ============================================

func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt(i *int) sql.NullInt32 {
	if i == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(*i), Valid: true}
}
