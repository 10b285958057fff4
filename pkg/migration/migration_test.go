package migration_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/nepkart/pkg/database"
	"github.com/shashiranjanraj/nepkart/pkg/migration"
)

type shelf struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

type createShelves struct{}

func (createShelves) Up(db *gorm.DB) error   { return db.Migrator().CreateTable(&shelf{}) }
func (createShelves) Down(db *gorm.DB) error { return db.Migrator().DropTable(&shelf{}) }

func init() {
	migration.Register("20990101000000_create_shelves_table", createShelves{})
}

func newDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestRunRecordsBatchAndIsIdempotent(t *testing.T) {
	db := newDB(t)
	r := migration.New(db)

	applied, err := r.Run()
	require.NoError(t, err)
	assert.Equal(t, []string{"20990101000000_create_shelves_table"}, applied)
	assert.True(t, db.Migrator().HasTable(&shelf{}))

	applied, err = r.Run()
	require.NoError(t, err)
	assert.Empty(t, applied)

	status, err := r.Status()
	require.NoError(t, err)
	require.Len(t, status, 1)
	assert.True(t, status[0].Ran)
	assert.Equal(t, 1, status[0].Batch)
}

func TestRollbackRevertsLastBatch(t *testing.T) {
	db := newDB(t)
	r := migration.New(db)

	_, err := r.Run()
	require.NoError(t, err)

	reverted, err := r.Rollback()
	require.NoError(t, err)
	assert.Equal(t, []string{"20990101000000_create_shelves_table"}, reverted)
	assert.False(t, db.Migrator().HasTable(&shelf{}))

	status, err := r.Status()
	require.NoError(t, err)
	assert.False(t, status[0].Ran)

	reverted, err = r.Rollback()
	require.NoError(t, err)
	assert.Empty(t, reverted)
}
