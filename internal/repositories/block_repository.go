package repositories

import (
	"github.com/campusnet-app/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BlockRepository defines the interface for block edge operations
type BlockRepository interface {
	CreateBlock(blockerID, blockedID uint) (created bool, err error)
	DeleteBlock(blockerID, blockedID uint) (removed bool, err error)
	IsBlocked(blockerID, blockedID uint) (bool, error)
	GetBlockedIDs(blockerID uint) ([]uint, error)
}

// PostgresBlockRepository implements BlockRepository for PostgreSQL
type PostgresBlockRepository struct {
	db *gorm.DB
}

// NewPostgresBlockRepository creates a new PostgresBlockRepository
func NewPostgresBlockRepository(db *gorm.DB) *PostgresBlockRepository {
	return &PostgresBlockRepository{db: db}
}

// CreateBlock is an idempotent set insertion; no counters, no side effects.
func (r *PostgresBlockRepository) CreateBlock(blockerID, blockedID uint) (bool, error) {
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Block{BlockerID: blockerID, BlockedID: blockedID})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PostgresBlockRepository) DeleteBlock(blockerID, blockedID uint) (bool, error) {
	res := r.db.Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).Delete(&models.Block{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PostgresBlockRepository) IsBlocked(blockerID, blockedID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Block{}).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresBlockRepository) GetBlockedIDs(blockerID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Block{}).Where("blocker_id = ?", blockerID).Pluck("blocked_id", &ids).Error
	return ids, err
}
