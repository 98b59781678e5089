package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormStore keeps every collection as a table of the same name.
type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// OpenPostgres connects with a bounded pool.
func OpenPostgres(dsn string, maxOpen, maxIdle int) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

func (s *GormStore) ListDocuments(ctx context.Context, collection string, filters Filters) ([]Document, error) {
	var rows []map[string]interface{}
	q := s.db.WithContext(ctx).Table(collection)
	if len(filters) > 0 {
		q = q.Where(map[string]interface{}(filters))
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, storeErr("list", collection, err)
	}

	docs := make([]Document, len(rows))
	for i, row := range rows {
		docs[i] = Document(row)
	}
	return docs, nil
}

// CreateDocument inserts unconditionally; created_at/updated_at are stamped
// unless the caller supplied them.
func (s *GormStore) CreateDocument(ctx context.Context, collection, id string, fields map[string]interface{}) (Document, error) {
	now := s.now()
	row := make(map[string]interface{}, len(fields)+3)
	for k, v := range fields {
		row[k] = v
	}
	row["id"] = id
	if _, ok := row["created_at"]; !ok {
		row["created_at"] = now
	}
	if _, ok := row["updated_at"]; !ok {
		row["updated_at"] = now
	}

	if err := s.db.WithContext(ctx).Table(collection).Create(row).Error; err != nil {
		return nil, storeErr("create", collection, err)
	}
	return Document(row), nil
}

func (s *GormStore) UpdateDocument(ctx context.Context, collection, id string, fields map[string]interface{}) (Document, error) {
	changes := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		changes[k] = v
	}
	changes["updated_at"] = s.now()

	res := s.db.WithContext(ctx).Table(collection).Where("id = ?", id).Updates(changes)
	if res.Error != nil {
		return nil, storeErr("update", collection, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, storeErr("update", collection, fmt.Errorf("%w: %s", ErrNotFound, id))
	}

	doc, err := First(ctx, s, collection, Filters{"id": id})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, storeErr("update", collection, fmt.Errorf("%w: %s", ErrNotFound, id))
	}
	return doc, nil
}

func (s *GormStore) Transaction(ctx context.Context, fn func(tx DocumentStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx, now: s.now})
	})
}

// IsNotFound reports whether err means the addressed document does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
