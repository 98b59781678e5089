package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"freelance-marketplace/apperrors"
	"freelance-marketplace/database"
	"freelance-marketplace/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestStore opens a private in-memory SQLite database with every
// collection migrated. One connection keeps SQLite from reporting
// "database is locked" while the aggregator fans out.
func newTestStore(t *testing.T) *database.GormStore {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return database.NewGormStore(db)
}

type fixture struct {
	store        *database.GormStore
	progression  *ProgressionService
	achievements *AchievementService
	marketplace  *MarketplaceService
}

func newFixture(t *testing.T, autoCreate bool) *fixture {
	t.Helper()
	store := newTestStore(t)
	progression := NewProgressionService(store, NewLocalLocker(), autoCreate)
	achievements := NewAchievementService(store, progression)
	return &fixture{
		store:        store,
		progression:  progression,
		achievements: achievements,
		marketplace:  NewMarketplaceService(store, progression, achievements),
	}
}

func (f *fixture) seedProfile(t *testing.T, userID string, fields map[string]interface{}) {
	t.Helper()
	row := map[string]interface{}{
		"user_id":              userID,
		"onboarding_completed": false,
		"profile_completed":    false,
		"completed_jobs":       0,
		"average_rating":       0.0,
	}
	for k, v := range fields {
		row[k] = v
	}
	_, err := f.store.CreateDocument(context.Background(), database.CollectionUserProfiles, uuid.NewString(), row)
	require.NoError(t, err)
}

func (f *fixture) seedUnlock(t *testing.T, userID, achievementID string) {
	t.Helper()
	now := time.Now().UTC()
	rec := models.UnlockedAchievement{
		ID:               uuid.NewString(),
		UserID:           userID,
		AchievementID:    achievementID,
		AchievementName:  achievementID,
		ProgressCurrent:  1,
		ProgressRequired: 1,
		UnlockedAt:       now,
	}
	rec.CreatedAt, rec.UpdatedAt = now, now
	_, err := f.store.CreateDocument(context.Background(), database.CollectionAchievements, rec.ID, unlockedFields(&rec))
	require.NoError(t, err)
}

// failingStore fails every call; used to check the fail-open paths.
type failingStore struct{}

var errStoreDown = fmt.Errorf("connection refused")

func (failingStore) ListDocuments(_ context.Context, collection string, _ database.Filters) ([]database.Document, error) {
	return nil, &database.StoreError{Op: "list", Collection: collection, Err: errStoreDown}
}

func (failingStore) CreateDocument(_ context.Context, collection, _ string, _ map[string]interface{}) (database.Document, error) {
	return nil, &database.StoreError{Op: "create", Collection: collection, Err: errStoreDown}
}

func (failingStore) UpdateDocument(_ context.Context, collection, _ string, _ map[string]interface{}) (database.Document, error) {
	return nil, &database.StoreError{Op: "update", Collection: collection, Err: errStoreDown}
}

func (s failingStore) Transaction(_ context.Context, fn func(database.DocumentStore) error) error {
	return fn(s)
}

func unlockIDs(list []models.UnlockedAchievement) []string {
	ids := make([]string, len(list))
	for i, u := range list {
		ids[i] = u.AchievementID
	}
	return ids
}

// statusOf is the HTTP status the error handler would answer with for err.
func statusOf(err error) int {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
