package repositories

import (
	"errors"
	"time"

	"github.com/campusnet-app/backend/internal/models"
	"github.com/campusnet-app/backend/pkg/apperrors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EventRepository defines the interface for event and RSVP operations.
// Capacity is enforced inside the counter UPDATE itself, so two concurrent
// RSVPs can never both claim the last seat.
type EventRepository interface {
	CreateEvent(event *models.Event) error
	GetEventByID(id uint) (*models.Event, error)
	ListUpcoming(page, limit int, category string) ([]models.Event, int64, error)
	AddRSVP(eventID, userID uint) (joined bool, err error)
	RemoveRSVP(eventID, userID uint) (removed bool, err error)
	HasRSVP(eventID, userID uint) (bool, error)
	CountEvents() (int64, error)
}

// PostgresEventRepository implements EventRepository for PostgreSQL
type PostgresEventRepository struct {
	db *gorm.DB
}

// NewPostgresEventRepository creates a new PostgresEventRepository
func NewPostgresEventRepository(db *gorm.DB) *PostgresEventRepository {
	return &PostgresEventRepository{db: db}
}

// CreateEvent creates the event with the organizer attending
func (r *PostgresEventRepository) CreateEvent(event *models.Event) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		event.AttendeesCount = 1
		if err := tx.Create(event).Error; err != nil {
			return err
		}
		return tx.Create(&models.EventRSVP{EventID: event.ID, UserID: event.OrganizerID}).Error
	})
}

func (r *PostgresEventRepository) GetEventByID(id uint) (*models.Event, error) {
	var event models.Event
	if err := r.db.First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

// ListUpcoming returns paginated future events, soonest first
func (r *PostgresEventRepository) ListUpcoming(page, limit int, category string) ([]models.Event, int64, error) {
	var events []models.Event
	var total int64

	q := r.db.Model(&models.Event{}).Where("starts_at >= ?", time.Now())
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := q.Order("starts_at ASC").Offset(offset).Limit(limit).Find(&events).Error
	return events, total, err
}

// AddRSVP inserts the RSVP and increments attendees_count, both guarded by
// one transaction. The counter UPDATE carries the capacity predicate: when
// the event is full the update matches no row, the transaction rolls back
// and ErrConflict is returned.
func (r *PostgresEventRepository) AddRSVP(eventID, userID uint) (bool, error) {
	joined := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.EventRSVP{EventID: eventID, UserID: userID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil // already attending
		}

		upd := tx.Model(&models.Event{}).
			Where("id = ? AND (max_attendees = 0 OR attendees_count < max_attendees)", eventID).
			UpdateColumn("attendees_count", gorm.Expr("attendees_count + 1"))
		if upd.Error != nil {
			return upd.Error
		}
		if upd.RowsAffected == 0 {
			return apperrors.ErrConflict // event full
		}
		joined = true
		return nil
	})
	return joined, err
}

// RemoveRSVP deletes the RSVP and decrements attendees_count, floored at zero
func (r *PostgresEventRepository) RemoveRSVP(eventID, userID uint) (bool, error) {
	removed := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("event_id = ? AND user_id = ?", eventID, userID).
			Delete(&models.EventRSVP{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		removed = true
		return tx.Model(&models.Event{}).Where("id = ?", eventID).
			UpdateColumn("attendees_count", gorm.Expr("GREATEST(attendees_count - 1, 0)")).Error
	})
	return removed, err
}

func (r *PostgresEventRepository) HasRSVP(eventID, userID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.EventRSVP{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresEventRepository) CountEvents() (int64, error) {
	var count int64
	err := r.db.Model(&models.Event{}).Count(&count).Error
	return count, err
}
