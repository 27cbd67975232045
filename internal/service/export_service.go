package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lamnguyen-dev/educenter-api/internal/models"
	appErrors "github.com/lamnguyen-dev/educenter-api/pkg/errors"
	"github.com/lamnguyen-dev/educenter-api/pkg/export"
)

// ExportFormat selects the rendered file type.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportFile is a rendered export ready for download.
type ExportFile struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders consultation listings as downloadable files.
type ExportService struct {
	consultations consultationRepository
	maxRows       int
	logger        *zap.Logger
}

// NewExportService constructs the export service.
func NewExportService(consultations consultationRepository, maxRows int, logger *zap.Logger) *ExportService {
	if maxRows <= 0 {
		maxRows = 5000
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{consultations: consultations, maxRows: maxRows, logger: logger}
}

var consultationColumns = []export.Column{
	{Key: "name", Title: "Name"},
	{Key: "phone", Title: "Phone"},
	{Key: "email", Title: "Email"},
	{Key: "course", Title: "Course"},
	{Key: "status", Title: "Status"},
	{Key: "created", Title: "Created"},
}

// Consultations renders the filtered consultation list in the requested
// format. The filter semantics match the list endpoint; only pagination is
// replaced by the export row cap.
func (s *ExportService) Consultations(ctx context.Context, filter models.ConsultationFilter, format ExportFormat) (*ExportFile, error) {
	filter.Page = 1
	filter.PageSize = s.maxRows
	consultations, total, err := s.consultations.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load consultations for export")
	}
	if total > s.maxRows {
		s.logger.Warn("consultation export truncated", zap.Int("total", total), zap.Int("max_rows", s.maxRows))
	}

	table := export.Table{Columns: consultationColumns, Rows: make([]map[string]string, 0, len(consultations))}
	for _, c := range consultations {
		course := ""
		if c.CourseID != nil {
			course = *c.CourseID
		}
		table.Rows = append(table.Rows, map[string]string{
			"name":    c.Name,
			"phone":   c.Phone,
			"email":   c.Email,
			"course":  course,
			"status":  string(c.Status),
			"created": c.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	stamp := time.Now().UTC().Format("20060102-150405")
	switch format {
	case ExportFormatPDF:
		content, err := export.PDF(table, "Consultations")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportFile{Content: content, ContentType: "application/pdf", Filename: "consultations-" + stamp + ".pdf"}, nil
	case ExportFormatCSV:
		content, err := export.CSV(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportFile{Content: content, ContentType: "text/csv", Filename: "consultations-" + stamp + ".csv"}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}
