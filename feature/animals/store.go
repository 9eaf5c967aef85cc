package animals

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const scanBatchSize = 1000

// updatableColumns are overwritten on upsert; desertion_no and created_at never are.
var updatableColumns = []string{
	"rfid_cd", "happen_dt", "happen_place", "up_kind_nm", "kind_nm", "color_cd", "age", "weight",
	"notice_sdt", "notice_edt", "popfile1", "popfile2", "process_state", "sex_cd", "neuter_yn",
	"special_mark", "care_nm", "care_tel", "care_addr", "care_owner_nm", "org_nm", "etc_bigo",
	"updated_at",
}

// Store persists animals with gorm.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// NewStore creates a Store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Migrate creates or updates the abandoned_animals table.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&Animal{}); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", Animal{}.TableName(), err)
	}
	return nil
}

// FindByKey loads one animal by desertion number.
func (s *Store) FindByKey(ctx context.Context, key string) (*Animal, bool, error) {
	var a Animal
	err := s.db.WithContext(ctx).Where("desertion_no = ?", key).Take(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &a, true, nil
}

// Upsert inserts a or overwrites the row with the same desertion number.
// created_at is set once; updated_at is refreshed on every write.
func (s *Store) Upsert(ctx context.Context, a *Animal) error {
	now := s.now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "desertion_no"}},
		DoUpdates: clause.AssignmentColumns(updatableColumns),
	}).Create(a).Error
}

// Delete removes a.
func (s *Store) Delete(ctx context.Context, a *Animal) error {
	return s.db.WithContext(ctx).Where("desertion_no = ?", a.DesertionNo).Delete(&Animal{}).Error
}

// ScanAll loads every stored animal in primary key batches.
func (s *Store) ScanAll(ctx context.Context) ([]*Animal, error) {
	var (
		out   []*Animal
		batch []Animal
	)
	err := s.db.WithContext(ctx).FindInBatches(&batch, scanBatchSize, func(tx *gorm.DB, _ int) error {
		for i := range batch {
			a := batch[i]
			out = append(out, &a)
		}
		return nil
	}).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListFilter narrows List.
type ListFilter struct {
	State  string
	Limit  int
	Offset int
}

// List returns a page of animals ordered by desertion number, plus the total matching count.
func (s *Store) List(ctx context.Context, f ListFilter) ([]Animal, int64, error) {
	q := s.db.WithContext(ctx).Model(&Animal{})
	if f.State != "" {
		q = q.Where("process_state = ?", f.State)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []Animal
	if err := q.Order("desertion_no").Limit(f.Limit).Offset(f.Offset).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
