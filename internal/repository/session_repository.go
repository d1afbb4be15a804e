package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/edusched/timetable-api/internal/models"
)

// SessionRepository provides persistence for committed timetable sessions.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// List returns session details with optional filtering and pagination.
func (r *SessionRepository) List(ctx context.Context, filter models.SessionFilter) ([]models.SessionDetail, int, error) {
	base := `FROM sessions s
		JOIN class_groups cg ON cg.id = s.class_group_id
		JOIN disciplines d ON d.id = s.discipline_id
		JOIN teachers t ON t.id = s.teacher_id
		JOIN rooms rm ON rm.id = s.room_id
		WHERE s.active = TRUE`
	var conditions []string
	var args []interface{}

	if filter.ClassGroupID != "" {
		conditions = append(conditions, fmt.Sprintf("s.class_group_id = $%d", len(args)+1))
		args = append(args, filter.ClassGroupID)
	}
	if filter.TeacherID != "" {
		conditions = append(conditions, fmt.Sprintf("s.teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	if filter.RoomID != "" {
		conditions = append(conditions, fmt.Sprintf("s.room_id = $%d", len(args)+1))
		args = append(args, filter.RoomID)
	}
	if filter.DisciplineID != "" {
		conditions = append(conditions, fmt.Sprintf("s.discipline_id = $%d", len(args)+1))
		args = append(args, filter.DisciplineID)
	}
	if filter.Weekday >= models.WeekdayMonday && filter.Weekday <= models.WeekdayFriday {
		conditions = append(conditions, fmt.Sprintf("s.weekday = $%d", len(args)+1))
		args = append(args, filter.Weekday)
	}
	if filter.Shift != "" {
		conditions = append(conditions, fmt.Sprintf("s.shift = $%d", len(args)+1))
		args = append(args, filter.Shift)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"weekday":    "s.weekday",
		"start_time": "s.start_time",
		"created_at": "s.created_at",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "s.weekday"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT s.id, s.class_group_id, s.discipline_id, s.teacher_id, s.room_id, s.weekday, s.shift, s.start_time, s.end_time, s.active, s.created_at, s.updated_at,
		cg.code AS class_group_code, d.name AS discipline_name, t.full_name AS teacher_name, rm.name AS room_name
		%s ORDER BY %s %s, s.start_time ASC LIMIT %d OFFSET %d`, base, column, order, size, offset)
	var sessions []models.SessionDetail
	if err := r.db.SelectContext(ctx, &sessions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list sessions: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count sessions: %w", err)
	}

	return sessions, total, nil
}

// ListActive returns every active session, the seed set for cross-run
// conflict checking.
func (r *SessionRepository) ListActive(ctx context.Context) ([]models.Session, error) {
	const query = `SELECT id, class_group_id, discipline_id, teacher_id, room_id, weekday, shift, start_time, end_time, active, created_at, updated_at FROM sessions WHERE active = TRUE ORDER BY weekday ASC, start_time ASC`
	var sessions []models.Session
	if err := r.db.SelectContext(ctx, &sessions, query); err != nil {
		return nil, fmt.Errorf("list active sessions: %w", err)
	}
	return sessions, nil
}

// ListDetailsByClassGroup returns enriched sessions for one class group,
// ordered for timetable rendering.
func (r *SessionRepository) ListDetailsByClassGroup(ctx context.Context, classGroupID string) ([]models.SessionDetail, error) {
	const query = `SELECT s.id, s.class_group_id, s.discipline_id, s.teacher_id, s.room_id, s.weekday, s.shift, s.start_time, s.end_time, s.active, s.created_at, s.updated_at,
		cg.code AS class_group_code, d.name AS discipline_name, t.full_name AS teacher_name, rm.name AS room_name
		FROM sessions s
		JOIN class_groups cg ON cg.id = s.class_group_id
		JOIN disciplines d ON d.id = s.discipline_id
		JOIN teachers t ON t.id = s.teacher_id
		JOIN rooms rm ON rm.id = s.room_id
		WHERE s.class_group_id = $1 AND s.active = TRUE
		ORDER BY s.weekday ASC, s.start_time ASC`
	var sessions []models.SessionDetail
	if err := r.db.SelectContext(ctx, &sessions, query, classGroupID); err != nil {
		return nil, fmt.Errorf("list sessions by class group: %w", err)
	}
	return sessions, nil
}

// BulkCreateWithTx inserts sessions using an existing transaction.
func (r *SessionRepository) BulkCreateWithTx(ctx context.Context, tx *sqlx.Tx, sessions []models.Session) error {
	if tx == nil {
		return fmt.Errorf("nil transaction provided")
	}
	now := time.Now().UTC()
	for i := range sessions {
		payload := sessions[i]
		if payload.ID == "" {
			payload.ID = uuid.NewString()
		}
		if payload.CreatedAt.IsZero() {
			payload.CreatedAt = now
		}
		payload.UpdatedAt = now

		if _, err := sqlx.NamedExecContext(ctx, tx, `INSERT INTO sessions (id, class_group_id, discipline_id, teacher_id, room_id, weekday, shift, start_time, end_time, active, created_at, updated_at) VALUES (:id, :class_group_id, :discipline_id, :teacher_id, :room_id, :weekday, :shift, :start_time, :end_time, :active, :created_at, :updated_at)`, &payload); err != nil {
			return fmt.Errorf("bulk insert session: %w", err)
		}
		sessions[i] = payload
	}
	return nil
}

// DeleteAllWithTx removes every session inside the provided transaction,
// used when a generation run clears the previous timetable.
func (r *SessionRepository) DeleteAllWithTx(ctx context.Context, tx *sqlx.Tx) error {
	if tx == nil {
		return fmt.Errorf("nil transaction provided")
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}
	return nil
}
