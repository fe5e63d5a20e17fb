package repositories

import (
	"github.com/campusnet-app/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MarkRepository defines the interface for engagement mark operations.
// The composite unique index on (user, post, kind) makes Create a
// conflict-free idempotent insert: created=false means the mark was already
// there and nothing changed.
type MarkRepository interface {
	CreateMark(userID uint, postID, kind string) (created bool, err error)
	DeleteMark(userID uint, postID, kind string) (removed bool, err error)
	HasMark(userID uint, postID, kind string) (bool, error)
	CountByPost(postID, kind string) (int64, error)
	ListPostIDsByUser(userID uint, kind string, limit int) ([]string, error)
	FilterMarked(userID uint, kind string, postIDs []string) (map[string]bool, error)
}

// PostgresMarkRepository implements MarkRepository for PostgreSQL
type PostgresMarkRepository struct {
	db *gorm.DB
}

// NewPostgresMarkRepository creates a new PostgresMarkRepository
func NewPostgresMarkRepository(db *gorm.DB) *PostgresMarkRepository {
	return &PostgresMarkRepository{db: db}
}

func (r *PostgresMarkRepository) CreateMark(userID uint, postID, kind string) (bool, error) {
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Mark{UserID: userID, PostID: postID, Kind: kind})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PostgresMarkRepository) DeleteMark(userID uint, postID, kind string) (bool, error) {
	res := r.db.Where("user_id = ? AND post_id = ? AND kind = ?", userID, postID, kind).
		Delete(&models.Mark{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PostgresMarkRepository) HasMark(userID uint, postID, kind string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Mark{}).
		Where("user_id = ? AND post_id = ? AND kind = ?", userID, postID, kind).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByPost counts marks directly; ground truth for the cached post counter.
func (r *PostgresMarkRepository) CountByPost(postID, kind string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Mark{}).Where("post_id = ? AND kind = ?", postID, kind).Count(&count).Error
	return count, err
}

func (r *PostgresMarkRepository) ListPostIDsByUser(userID uint, kind string, limit int) ([]string, error) {
	var ids []string
	err := r.db.Model(&models.Mark{}).Where("user_id = ? AND kind = ?", userID, kind).
		Order("created_at DESC").Limit(limit).Pluck("post_id", &ids).Error
	return ids, err
}

func (r *PostgresMarkRepository) FilterMarked(userID uint, kind string, postIDs []string) (map[string]bool, error) {
	result := make(map[string]bool)
	if len(postIDs) == 0 {
		return result, nil
	}
	var marks []models.Mark
	err := r.db.Where("user_id = ? AND kind = ? AND post_id IN ?", userID, kind, postIDs).Find(&marks).Error
	if err != nil {
		return nil, err
	}
	for _, m := range marks {
		result[m.PostID] = true
	}
	return result, nil
}
