package database

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type widget struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)"`
	OwnerID   string    `gorm:"column:owner_id;index"`
	Kind      string    `gorm:"column:kind"`
	Count     int64     `gorm:"column:count"`
	Active    bool      `gorm:"column:active"`
	Score     float64   `gorm:"column:score"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (widget) TableName() string { return "widgets" }

func newSQLiteStore(t *testing.T) *GormStore {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&widget{}))
	return NewGormStore(db)
}

func TestGormStoreCreateAndList(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	created, err := s.CreateDocument(ctx, "widgets", "w1", map[string]interface{}{
		"owner_id": "u1", "kind": "a", "count": 3, "active": true, "score": 4.5,
	})
	require.NoError(t, err)
	assert.Equal(t, "w1", created.ID())
	assert.False(t, created.Time("created_at").IsZero())

	_, err = s.CreateDocument(ctx, "widgets", "w2", map[string]interface{}{"owner_id": "u1", "kind": "b"})
	require.NoError(t, err)
	_, err = s.CreateDocument(ctx, "widgets", "w3", map[string]interface{}{"owner_id": "u2", "kind": "a"})
	require.NoError(t, err)

	docs, err := s.ListDocuments(ctx, "widgets", Filters{"owner_id": "u1"})
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	docs, err = s.ListDocuments(ctx, "widgets", Filters{"owner_id": "u1", "kind": "a"})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, int64(3), docs[0].Int("count"))
	assert.True(t, docs[0].Bool("active"))
	assert.Equal(t, 4.5, docs[0].Float("score"))

	all, err := s.ListDocuments(ctx, "widgets", nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := First(ctx, s, "widgets", Filters{"owner_id": "nobody"})
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestGormStoreUpdate(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	_, err := s.CreateDocument(ctx, "widgets", "w1", map[string]interface{}{"owner_id": "u1", "count": 1})
	require.NoError(t, err)

	updated, err := s.UpdateDocument(ctx, "widgets", "w1", map[string]interface{}{"count": 2})
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Int("count"))
	assert.Equal(t, "u1", updated.String("owner_id"))

	_, err = s.UpdateDocument(ctx, "widgets", "missing", map[string]interface{}{"count": 2})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.True(t, IsStoreError(err))
}

func TestGormStoreTransactionRollsBack(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Transaction(ctx, func(tx DocumentStore) error {
		if _, err := tx.CreateDocument(ctx, "widgets", "w1", map[string]interface{}{"owner_id": "u1"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	docs, err := s.ListDocuments(ctx, "widgets", nil)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestGormStoreErrorsAreTyped(t *testing.T) {
	s := newSQLiteStore(t)

	_, err := s.ListDocuments(context.Background(), "no_such_table", nil)

	require.Error(t, err)
	var se *StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "list", se.Op)
	assert.Equal(t, "no_such_table", se.Collection)
}
