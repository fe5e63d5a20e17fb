package repositories

import (
	"github.com/campusnet-app/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository defines the interface for follow edge operations. Edge
// creation and removal mutate the cached counters on both users inside the
// same transaction, so the counters can never diverge from the edge table
// after a completed call.
type FollowRepository interface {
	CreateFollow(followerID, followingID uint) (created bool, err error)
	DeleteFollow(followerID, followingID uint) (removed bool, err error)
	IsFollowing(followerID, followingID uint) (bool, error)
	GetFollowers(userID uint, page, limit int) ([]models.User, int64, error)
	GetFollowing(userID uint, page, limit int) ([]models.User, int64, error)
	GetFollowingIDs(userID uint) ([]uint, error)
	CountFollowers(userID uint) (int64, error)
	CountFollowing(userID uint) (int64, error)
}

// PostgresFollowRepository implements FollowRepository for PostgreSQL
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

// CreateFollow inserts the edge and increments both cached counters in one
// transaction. Returns created=false without touching the counters when the
// edge already exists.
func (r *PostgresFollowRepository) CreateFollow(followerID, followingID uint) (bool, error) {
	created := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Follow{FollowerID: followerID, FollowingID: followingID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil // edge already present, nothing to do
		}
		created = true

		if err := tx.Model(&models.User{}).Where("id = ?", followerID).
			UpdateColumn("following_count", gorm.Expr("following_count + 1")).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", followingID).
			UpdateColumn("followers_count", gorm.Expr("followers_count + 1")).Error
	})
	return created, err
}

// DeleteFollow removes the edge and decrements both cached counters (floored
// at zero) in one transaction. Returns removed=false when no edge existed.
func (r *PostgresFollowRepository) DeleteFollow(followerID, followingID uint) (bool, error) {
	removed := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).
			Delete(&models.Follow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		removed = true

		if err := tx.Model(&models.User{}).Where("id = ?", followerID).
			UpdateColumn("following_count", gorm.Expr("GREATEST(following_count - 1, 0)")).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", followingID).
			UpdateColumn("followers_count", gorm.Expr("GREATEST(followers_count - 1, 0)")).Error
	})
	return removed, err
}

func (r *PostgresFollowRepository) IsFollowing(followerID, followingID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresFollowRepository) GetFollowers(userID uint, page, limit int) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	sub := r.db.Table("follows").Select("follower_id").Where("following_id = ?", userID)
	q := r.db.Model(&models.User{}).Where("id IN (?)", sub)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Offset((page - 1) * limit).Limit(limit).Find(&users).Error
	return users, total, err
}

func (r *PostgresFollowRepository) GetFollowing(userID uint, page, limit int) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	sub := r.db.Table("follows").Select("following_id").Where("follower_id = ?", userID)
	q := r.db.Model(&models.User{}).Where("id IN (?)", sub)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Offset((page - 1) * limit).Limit(limit).Find(&users).Error
	return users, total, err
}

func (r *PostgresFollowRepository) GetFollowingIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Follow{}).Where("follower_id = ?", userID).Pluck("following_id", &ids).Error
	return ids, err
}

// CountFollowers counts edges directly; ground truth for the cached counter.
func (r *PostgresFollowRepository) CountFollowers(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("following_id = ?", userID).Count(&count).Error
	return count, err
}

// CountFollowing counts edges directly; ground truth for the cached counter.
func (r *PostgresFollowRepository) CountFollowing(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}
