package repositories

import (
	"errors"
	"regexp"
	"strings"

	"github.com/campusnet-app/backend/internal/models"
	"github.com/campusnet-app/backend/pkg/apperrors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// FacultyRepository defines the interface for faculty operations
type FacultyRepository interface {
	GetOrCreate(name string) (*models.Faculty, error)
	GetFacultyByID(id uint) (*models.Faculty, error)
	ListFaculties() ([]models.Faculty, error)
}

// PostgresFacultyRepository implements FacultyRepository for PostgreSQL
type PostgresFacultyRepository struct {
	db *gorm.DB
}

// NewPostgresFacultyRepository creates a new PostgresFacultyRepository
func NewPostgresFacultyRepository(db *gorm.DB) *PostgresFacultyRepository {
	return &PostgresFacultyRepository{db: db}
}

// GetOrCreate finds a faculty by name, creating it on first reference
// (faculties appear as free text during signup).
func (r *PostgresFacultyRepository) GetOrCreate(name string) (*models.Faculty, error) {
	slug := strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(name), "-"), "-")
	faculty := models.Faculty{Name: name, Slug: slug}
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&faculty).Error; err != nil {
		return nil, err
	}
	if faculty.ID != 0 {
		return &faculty, nil
	}
	// conflict path: someone else created it, read it back
	if err := r.db.Where("name = ?", name).First(&faculty).Error; err != nil {
		return nil, err
	}
	return &faculty, nil
}

func (r *PostgresFacultyRepository) GetFacultyByID(id uint) (*models.Faculty, error) {
	var faculty models.Faculty
	if err := r.db.First(&faculty, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &faculty, nil
}

func (r *PostgresFacultyRepository) ListFaculties() ([]models.Faculty, error) {
	var faculties []models.Faculty
	err := r.db.Order("name ASC").Find(&faculties).Error
	return faculties, err
}
