package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/edusched/timetable-api/internal/models"
)

// AvailabilityRepository reads teacher availability rules and temporary
// blocks. The engine is the only consumer; rule maintenance belongs to the
// admin surface outside this service.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository constructs an AvailabilityRepository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// ListRulesByTeacher returns every availability rule for a teacher.
func (r *AvailabilityRepository) ListRulesByTeacher(ctx context.Context, teacherID string) ([]models.AvailabilityRule, error) {
	const query = `SELECT id, teacher_id, discipline_id, weekday, shift, available, preferred, priority, notes, created_at, updated_at FROM availability_rules WHERE teacher_id = $1 ORDER BY weekday ASC NULLS FIRST, shift ASC NULLS FIRST`
	var rules []models.AvailabilityRule
	if err := r.db.SelectContext(ctx, &rules, query, teacherID); err != nil {
		return nil, fmt.Errorf("list availability rules: %w", err)
	}
	return rules, nil
}

// ListBlocksByTeacher returns active temporary blocks still relevant on the
// reference date: windows covering it plus recurring blocks already begun.
func (r *AvailabilityRepository) ListBlocksByTeacher(ctx context.Context, teacherID string, reference time.Time) ([]models.TemporaryBlock, error) {
	const query = `SELECT id, teacher_id, start_date, end_date, shift, recurring, reason, active, created_at, updated_at
		FROM temporary_blocks
		WHERE teacher_id = $1 AND active = TRUE
		AND ((recurring = FALSE AND start_date <= $2 AND end_date >= $2) OR (recurring = TRUE AND start_date <= $2))
		ORDER BY start_date ASC`
	var blocks []models.TemporaryBlock
	if err := r.db.SelectContext(ctx, &blocks, query, teacherID, reference); err != nil {
		return nil, fmt.Errorf("list temporary blocks: %w", err)
	}
	return blocks, nil
}
