package archive

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrNotFound is returned by Get for unknown record IDs.
var ErrNotFound = errors.New("record not found")

// Record is a signed typed data message.
type Record struct {
	ID          uuid.UUID      `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	PrimaryType string         `gorm:"column:primary_type;type:varchar(255);not null;index" json:"primary_type"`
	Digest      string         `gorm:"column:digest;type:char(66);not null;index" json:"digest"`
	Signer      string         `gorm:"column:signer;type:char(42);not null;index" json:"signer"`
	Signature   string         `gorm:"column:signature;type:text;not null" json:"signature"`
	Payload     datatypes.JSON `gorm:"column:payload" json:"payload,omitempty"`
	CreatedAt   time.Time      `gorm:"column:created_at" json:"created_at"`
}

// TableName specifies the table name for the Record model.
func (Record) TableName() string {
	return "signed_typed_data"
}

// Store persists signed typed data records.
type Store interface {
	Store(ctx context.Context, record *Record) error
	Get(ctx context.Context, id uuid.UUID) (*Record, error)
	List(ctx context.Context, options *ListOptions) ([]Record, error)
	Count(ctx context.Context, primaryType string) (int64, error)
}

var _ Store = (*GormStore)(nil)

// GormStore is the gorm backed Store.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a store on an already migrated database.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Store inserts record, assigning a random ID when it has none.
func (s *GormStore) Store(ctx context.Context, record *Record) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to store record: %w", err)
	}
	return nil
}

// Get returns the record with the given ID.
func (s *GormStore) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	var record Record
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// List returns records newest first unless options ask otherwise.
func (s *GormStore) List(ctx context.Context, options *ListOptions) ([]Record, error) {
	var records []Record
	err := options.apply(s.db.WithContext(ctx)).Find(&records).Error
	return records, err
}

// Count returns the number of records, optionally only of one primary type.
func (s *GormStore) Count(ctx context.Context, primaryType string) (int64, error) {
	query := s.db.WithContext(ctx).Model(&Record{})
	if primaryType != "" {
		query = query.Where("primary_type = ?", primaryType)
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}
