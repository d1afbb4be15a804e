package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/edusched/timetable-api/internal/models"
)

// ClassGroupRepository manages persistence for class groups.
type ClassGroupRepository struct {
	db *sqlx.DB
}

// NewClassGroupRepository constructs a ClassGroupRepository.
func NewClassGroupRepository(db *sqlx.DB) *ClassGroupRepository {
	return &ClassGroupRepository{db: db}
}

// FindByID fetches a class group by ID with its discipline set loaded.
func (r *ClassGroupRepository) FindByID(ctx context.Context, id string) (*models.ClassGroup, error) {
	const query = `SELECT id, code, grade_level, student_count, shift_policy, active, created_at, updated_at FROM class_groups WHERE id = $1`
	var group models.ClassGroup
	if err := r.db.GetContext(ctx, &group, query, id); err != nil {
		return nil, err
	}

	const joinQuery = `SELECT discipline_id FROM class_group_disciplines WHERE class_group_id = $1`
	if err := r.db.SelectContext(ctx, &group.DisciplineIDs, joinQuery, id); err != nil {
		return nil, fmt.Errorf("list class group disciplines: %w", err)
	}
	return &group, nil
}

// ListActive returns active class groups, optionally narrowed to an explicit
// ID set, with discipline sets loaded.
func (r *ClassGroupRepository) ListActive(ctx context.Context, ids []string) ([]models.ClassGroup, error) {
	query := `SELECT id, code, grade_level, student_count, shift_policy, active, created_at, updated_at FROM class_groups WHERE active = TRUE`
	var args []interface{}
	if len(ids) > 0 {
		placeholders := make([]string, len(ids))
		for i, id := range ids {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
			args = append(args, id)
		}
		query += " AND id IN (" + strings.Join(placeholders, ", ") + ")"
	}
	query += " ORDER BY code ASC"

	var groups []models.ClassGroup
	if err := r.db.SelectContext(ctx, &groups, query, args...); err != nil {
		return nil, fmt.Errorf("list active class groups: %w", err)
	}
	if len(groups) == 0 {
		return groups, nil
	}

	const joinQuery = `SELECT cgd.class_group_id, cgd.discipline_id FROM class_group_disciplines cgd JOIN class_groups cg ON cg.id = cgd.class_group_id WHERE cg.active = TRUE`
	var links []struct {
		ClassGroupID string `db:"class_group_id"`
		DisciplineID string `db:"discipline_id"`
	}
	if err := r.db.SelectContext(ctx, &links, joinQuery); err != nil {
		return nil, fmt.Errorf("list class group disciplines: %w", err)
	}

	byGroup := make(map[string][]string, len(groups))
	for _, link := range links {
		byGroup[link.ClassGroupID] = append(byGroup[link.ClassGroupID], link.DisciplineID)
	}
	for i := range groups {
		groups[i].DisciplineIDs = byGroup[groups[i].ID]
	}
	return groups, nil
}
