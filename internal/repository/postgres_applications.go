package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Central-University-IT-prod/2025-hack-vvo-team-06-dorm-match/internal/domain"
)

type PostgresApplicationsRepository struct {
	db *sql.DB
}

func NewPostgresApplicationsRepository(db *sql.DB) *PostgresApplicationsRepository {
	return &PostgresApplicationsRepository{db: db}
}

const applicationColumns = `
	id::text,
	user_id::text,
	room_id::text,
	status,
	comment,
	created_at`

func scanApplication(row rowScanner) (*domain.Application, error) {
	var app domain.Application
	var comment sql.NullString
	if err := row.Scan(
		&app.ID,
		&app.UserID,
		&app.RoomID,
		&app.Status,
		&comment,
		&app.CreatedAt,
	); err != nil {
		return nil, err
	}
	if comment.Valid {
		app.Comment = &comment.String
	}
	return &app, nil
}

// Create: 创建 pending 申请（不占名额，审批时才扣）
func (r *PostgresApplicationsRepository) Create(ctx context.Context, app *domain.Application) (*domain.Application, error) {
	if app == nil {
		return nil, fmt.Errorf("application is required: %w", domain.ErrInvalidInput)
	}

	id := app.ID
	if id == "" {
		id = uuid.NewString()
	}
	createdAt := app.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	q := `
		INSERT INTO applications (id, user_id, room_id, status, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + applicationColumns
	row := r.db.QueryRowContext(ctx, q,
		id,
		app.UserID,
		app.RoomID,
		app.Status,
		nullString(app.Comment),
		createdAt,
	)
	created, err := scanApplication(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return created, nil
}

// Get: 获取单个申请
func (r *PostgresApplicationsRepository) Get(ctx context.Context, id string) (*domain.Application, error) {
	if id == "" {
		return nil, fmt.Errorf("application id is required: %w", domain.ErrInvalidInput)
	}

	q := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`
	app, err := scanApplication(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("application %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return app, nil
}

// ListByUser: 查询某个申请人的全部申请
func (r *PostgresApplicationsRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Application, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id is required: %w", domain.ErrInvalidInput)
	}

	q := `SELECT ` + applicationColumns + ` FROM applications WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*domain.Application, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, app)
	}
	return out, rows.Err()
}

// Approve: pending → approved，并在同一事务里扣减房间名额
//
// Row order: the application row is locked first, then the conditional room
// update runs. If the room lost its last slot in between, the transaction
// rolls back and the application stays pending.
func (r *PostgresApplicationsRepository) Approve(ctx context.Context, id string, comment *string) (*domain.Application, error) {
	if id == "" {
		return nil, fmt.Errorf("application id is required: %w", domain.ErrInvalidInput)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin approve tx: %w", err)
	}
	defer tx.Rollback()

	current, err := scanApplication(tx.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("application %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	if current.Status.Terminal() {
		return nil, fmt.Errorf("application %s is already %s: %w", id, current.Status, domain.ErrInvalidTransition)
	}

	if _, err := reserveSlot(ctx, tx, current.RoomID); err != nil {
		return nil, err
	}

	row := tx.QueryRowContext(ctx, `
		UPDATE applications
		SET status = 'approved', comment = COALESCE($2, comment)
		WHERE id = $1
		RETURNING `+applicationColumns,
		id, nullString(comment),
	)
	updated, err := scanApplication(row)
	if err != nil {
		return nil, fmt.Errorf("failed to approve application: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit approve tx: %w", err)
	}
	return updated, nil
}

// Reject: pending → rejected（不涉及名额）
// Single conditional UPDATE; a terminal application matches no row.
func (r *PostgresApplicationsRepository) Reject(ctx context.Context, id string, comment *string) (*domain.Application, error) {
	if id == "" {
		return nil, fmt.Errorf("application id is required: %w", domain.ErrInvalidInput)
	}

	row := r.db.QueryRowContext(ctx, `
		UPDATE applications
		SET status = 'rejected', comment = COALESCE($2, comment)
		WHERE id = $1 AND status = 'pending'
		RETURNING `+applicationColumns,
		id, nullString(comment),
	)
	updated, err := scanApplication(row)
	if err == sql.ErrNoRows {
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM applications WHERE id = $1)`, id).Scan(&exists); err != nil {
			return nil, fmt.Errorf("failed to check application %s: %w", id, err)
		}
		if !exists {
			return nil, fmt.Errorf("application %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("application %s is already finalized: %w", id, domain.ErrInvalidTransition)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to reject application: %w", err)
	}
	return updated, nil
}

// CreateApproved: 自动分配路径 — 扣名额 + 直接写入 approved，同一事务
func (r *PostgresApplicationsRepository) CreateApproved(ctx context.Context, app *domain.Application) (*domain.Application, error) {
	if app == nil {
		return nil, fmt.Errorf("application is required: %w", domain.ErrInvalidInput)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin auto-assign tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := reserveSlot(ctx, tx, app.RoomID); err != nil {
		return nil, err
	}

	id := app.ID
	if id == "" {
		id = uuid.NewString()
	}
	createdAt := app.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	row := tx.QueryRowContext(ctx, `
		INSERT INTO applications (id, user_id, room_id, status, comment, created_at)
		VALUES ($1, $2, $3, 'approved', $4, $5)
		RETURNING `+applicationColumns,
		id, app.UserID, app.RoomID, nullString(app.Comment), createdAt,
	)
	created, err := scanApplication(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create approved application: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit auto-assign tx: %w", err)
	}
	return created, nil
}

// CountPending: 统计待审批申请数
func (r *PostgresApplicationsRepository) CountPending(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM applications WHERE status = 'pending'`).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}
