package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/lamnguyen-dev/educenter-api/internal/models"
)

// ClassRepository manages persistence for classes and their membership.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a ClassRepository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// FindByID fetches a class by ID.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.Class, error) {
	const query = `SELECT id, name, course_id, created_at, updated_at FROM classes WHERE id = $1`
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, err
	}
	return &class, nil
}

// ListMemberIDs returns the student identifiers enrolled in a class.
func (r *ClassRepository) ListMemberIDs(ctx context.Context, classID string) ([]string, error) {
	const query = `SELECT student_id FROM class_members WHERE class_id = $1 ORDER BY student_id`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, classID); err != nil {
		return nil, fmt.Errorf("list class members: %w", err)
	}
	return ids, nil
}

// AddMembers attaches students to a class. Existing memberships are left
// alone, so adding the same student twice is harmless.
func (r *ClassRepository) AddMembers(ctx context.Context, classID string, studentIDs []string) error {
	if len(studentIDs) == 0 {
		return nil
	}
	const query = `INSERT INTO class_members (class_id, student_id, added_at) VALUES ($1, $2, $3)
        ON CONFLICT (class_id, student_id) DO NOTHING`
	now := time.Now().UTC()
	for _, studentID := range studentIDs {
		if _, err := r.db.ExecContext(ctx, query, classID, studentID, now); err != nil {
			return fmt.Errorf("add class member %s: %w", studentID, err)
		}
	}
	return nil
}
