package repositories

import (
	"errors"

	"github.com/campusnet-app/backend/internal/models"
	"github.com/campusnet-app/backend/pkg/apperrors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GroupRepository defines the interface for group and membership operations.
// Membership changes and the cached members_count move in one transaction.
type GroupRepository interface {
	CreateGroup(group *models.Group) error
	GetGroupByID(id uint) (*models.Group, error)
	ListGroups(page, limit int, category string) ([]models.Group, int64, error)
	AddMember(groupID, userID uint) (added bool, err error)
	RemoveMember(groupID, userID uint) (removed bool, err error)
	IsMember(groupID, userID uint) (bool, error)
	ListMembers(groupID uint, page, limit int) ([]models.User, int64, error)
	CountGroups() (int64, error)
}

// PostgresGroupRepository implements GroupRepository for PostgreSQL
type PostgresGroupRepository struct {
	db *gorm.DB
}

// NewPostgresGroupRepository creates a new PostgresGroupRepository
func NewPostgresGroupRepository(db *gorm.DB) *PostgresGroupRepository {
	return &PostgresGroupRepository{db: db}
}

// CreateGroup creates the group with its owner as first member
func (r *PostgresGroupRepository) CreateGroup(group *models.Group) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		group.MembersCount = 1
		if err := tx.Create(group).Error; err != nil {
			return err
		}
		return tx.Create(&models.GroupMember{GroupID: group.ID, UserID: group.OwnerID}).Error
	})
}

func (r *PostgresGroupRepository) GetGroupByID(id uint) (*models.Group, error) {
	var group models.Group
	if err := r.db.First(&group, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &group, nil
}

// ListGroups returns paginated public groups, newest first
func (r *PostgresGroupRepository) ListGroups(page, limit int, category string) ([]models.Group, int64, error) {
	var groups []models.Group
	var total int64

	q := r.db.Model(&models.Group{}).Where("is_private = false")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&groups).Error
	return groups, total, err
}

// AddMember inserts the membership and increments members_count in one
// transaction; added=false when the user was already a member.
func (r *PostgresGroupRepository) AddMember(groupID, userID uint) (bool, error) {
	added := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.GroupMember{GroupID: groupID, UserID: userID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		added = true
		return tx.Model(&models.Group{}).Where("id = ?", groupID).
			UpdateColumn("members_count", gorm.Expr("members_count + 1")).Error
	})
	return added, err
}

// RemoveMember deletes the membership and decrements members_count, floored
// at zero; removed=false when no membership existed.
func (r *PostgresGroupRepository) RemoveMember(groupID, userID uint) (bool, error) {
	removed := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("group_id = ? AND user_id = ?", groupID, userID).
			Delete(&models.GroupMember{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		removed = true
		return tx.Model(&models.Group{}).Where("id = ?", groupID).
			UpdateColumn("members_count", gorm.Expr("GREATEST(members_count - 1, 0)")).Error
	})
	return removed, err
}

func (r *PostgresGroupRepository) IsMember(groupID, userID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresGroupRepository) ListMembers(groupID uint, page, limit int) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	sub := r.db.Table("group_members").Select("user_id").Where("group_id = ?", groupID)
	q := r.db.Model(&models.User{}).Where("id IN (?)", sub)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Offset((page - 1) * limit).Limit(limit).Find(&users).Error
	return users, total, err
}

func (r *PostgresGroupRepository) CountGroups() (int64, error) {
	var count int64
	err := r.db.Model(&models.Group{}).Count(&count).Error
	return count, err
}
