package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lamnguyen-dev/educenter-api/internal/models"
)

// ConsultationRepository manages persistence for consultation leads.
type ConsultationRepository struct {
	db *sqlx.DB
}

// NewConsultationRepository constructs a ConsultationRepository.
func NewConsultationRepository(db *sqlx.DB) *ConsultationRepository {
	return &ConsultationRepository{db: db}
}

// List returns consultations matching the provided filters together with the
// total row count. An out-of-range page yields no rows but the true total.
func (r *ConsultationRepository) List(ctx context.Context, filter models.ConsultationFilter) ([]models.Consultation, int, error) {
	base := "FROM consultations"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.CourseID != "" {
		conditions = append(conditions, fmt.Sprintf("course_id = $%d", len(args)+1))
		args = append(args, filter.CourseID)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(email) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	allowedSorts := map[string]string{
		"name":       "name",
		"status":     "status",
		"created_at": "created_at",
	}
	column, ok := allowedSorts[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT id, name, phone, email, content, course_id, status, assigned_class_id, notes, created_at, updated_at
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base, column, order, size, offset)

	var consultations []models.Consultation
	if err := r.db.SelectContext(ctx, &consultations, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list consultations: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count consultations: %w", err)
	}
	return consultations, total, nil
}

// FindByID fetches a consultation by ID.
func (r *ConsultationRepository) FindByID(ctx context.Context, id string) (*models.Consultation, error) {
	const query = `SELECT id, name, phone, email, content, course_id, status, assigned_class_id, notes, created_at, updated_at
        FROM consultations WHERE id = $1`
	var consultation models.Consultation
	if err := r.db.GetContext(ctx, &consultation, query, id); err != nil {
		return nil, err
	}
	return &consultation, nil
}

// Create inserts a new consultation record.
func (r *ConsultationRepository) Create(ctx context.Context, consultation *models.Consultation) error {
	if consultation.ID == "" {
		consultation.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if consultation.CreatedAt.IsZero() {
		consultation.CreatedAt = now
	}
	consultation.UpdatedAt = now
	const query = `INSERT INTO consultations (id, name, phone, email, content, course_id, status, assigned_class_id, notes, created_at, updated_at)
        VALUES (:id, :name, :phone, :email, :content, :course_id, :status, :assigned_class_id, :notes, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, consultation); err != nil {
		return fmt.Errorf("create consultation: %w", err)
	}
	return nil
}

// Update modifies the contact and course fields of an existing consultation.
// Status, notes and assigned class only change through UpdateStatus.
func (r *ConsultationRepository) Update(ctx context.Context, consultation *models.Consultation) error {
	consultation.UpdatedAt = time.Now().UTC()
	const query = `UPDATE consultations SET name = :name, phone = :phone, email = :email, content = :content, course_id = :course_id, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, consultation); err != nil {
		return fmt.Errorf("update consultation: %w", err)
	}
	return nil
}

// UpdateStatus replaces status and, when given, notes and assigned class in
// a single statement. Other fields stay untouched.
func (r *ConsultationRepository) UpdateStatus(ctx context.Context, id string, status models.ConsultationStatus, notes *string, assignedClassID *string) error {
	sets := []string{"status = $2", "updated_at = $3"}
	args := []interface{}{id, status, time.Now().UTC()}

	if notes != nil {
		sets = append(sets, fmt.Sprintf("notes = $%d", len(args)+1))
		args = append(args, *notes)
	}
	if assignedClassID != nil {
		sets = append(sets, fmt.Sprintf("assigned_class_id = $%d", len(args)+1))
		args = append(args, *assignedClassID)
	}

	query := fmt.Sprintf("UPDATE consultations SET %s WHERE id = $1", strings.Join(sets, ", "))
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update consultation status: %w", err)
	}
	return nil
}

// Delete removes a consultation permanently.
func (r *ConsultationRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM consultations WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete consultation: %w", err)
	}
	return nil
}
