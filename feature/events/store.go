package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var updatableColumns = []string{
	"source", "event_title", "event_url", "location", "event_date", "reservation_date",
	"event_time", "event_money", "image_path", "updated_at",
}

// Store persists events with gorm.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// NewStore creates a Store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Migrate creates or updates the pet_event table.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&PetEvent{}); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", PetEvent{}.TableName(), err)
	}
	return nil
}

// FindByKey loads one event by hash.
func (s *Store) FindByKey(ctx context.Context, hash string) (*PetEvent, bool, error) {
	var e PetEvent
	err := s.db.WithContext(ctx).Where("hash = ?", hash).Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &e, true, nil
}

// Upsert updates a loaded event by id, or inserts e and overwrites any row with the same hash.
func (s *Store) Upsert(ctx context.Context, e *PetEvent) error {
	now := s.now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now

	if e.ID != 0 {
		return s.db.WithContext(ctx).Model(&PetEvent{}).Where("id = ?", e.ID).
			Select(updatableColumns).Updates(e).Error
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "hash"}},
		DoUpdates: clause.AssignmentColumns(updatableColumns),
	}).Create(e).Error
}

// Delete removes e. The sync never calls it; it completes the store contract.
func (s *Store) Delete(ctx context.Context, e *PetEvent) error {
	return s.db.WithContext(ctx).Where("hash = ?", e.Hash).Delete(&PetEvent{}).Error
}

// ScanAll loads every stored event.
func (s *Store) ScanAll(ctx context.Context) ([]*PetEvent, error) {
	var rows []PetEvent
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*PetEvent, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out, nil
}

// Recent returns the most recently updated events.
func (s *Store) Recent(ctx context.Context, limit int) ([]PetEvent, error) {
	var rows []PetEvent
	err := s.db.WithContext(ctx).Order("updated_at DESC").Order("id DESC").Limit(limit).Find(&rows).Error
	return rows, err
}
