package repositories

import (
	"errors"

	"github.com/campusnet-app/backend/internal/models"
	"github.com/campusnet-app/backend/pkg/apperrors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReportRepository defines the interface for moderation report operations
type ReportRepository interface {
	CreateReport(report *models.Report) (created bool, err error)
	GetReportByID(id uint) (*models.Report, error)
	ListByStatus(status string, page, limit int) ([]models.Report, int64, error)
	Resolve(id uint, status, action string) (*models.Report, error)
	CountByStatus(status string) (int64, error)
}

// PostgresReportRepository implements ReportRepository for PostgreSQL
type PostgresReportRepository struct {
	db *gorm.DB
}

// NewPostgresReportRepository creates a new PostgresReportRepository
func NewPostgresReportRepository(db *gorm.DB) *PostgresReportRepository {
	return &PostgresReportRepository{db: db}
}

// CreateReport inserts the report; created=false when this reporter already
// reported the post.
func (r *PostgresReportRepository) CreateReport(report *models.Report) (bool, error) {
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(report)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PostgresReportRepository) GetReportByID(id uint) (*models.Report, error) {
	var report models.Report
	if err := r.db.First(&report, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &report, nil
}

func (r *PostgresReportRepository) ListByStatus(status string, page, limit int) ([]models.Report, int64, error) {
	var reports []models.Report
	var total int64

	q := r.db.Model(&models.Report{}).Where("status = ?", status)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&reports).Error
	return reports, total, err
}

// Resolve updates status/action and returns the updated report
func (r *PostgresReportRepository) Resolve(id uint, status, action string) (*models.Report, error) {
	res := r.db.Model(&models.Report{}).Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "action": action})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.ErrNotFound
	}
	return r.GetReportByID(id)
}

func (r *PostgresReportRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Report{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
