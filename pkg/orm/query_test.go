package orm_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/nepkart/pkg/database"
	"github.com/shashiranjanraj/nepkart/pkg/orm"
)

type row struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func newDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, orm.Instrument(db))
	require.NoError(t, db.AutoMigrate(&row{}))
	return db
}

func TestNormalize(t *testing.T) {
	page, limit := orm.Normalize(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, orm.DefaultLimit, limit)

	_, limit = orm.Normalize(3, 5000)
	assert.Equal(t, orm.MaxLimit, limit)
}

func TestPaginate(t *testing.T) {
	db := newDB(t)
	for i := 0; i < 7; i++ {
		require.NoError(t, db.Create(&row{Name: fmt.Sprintf("r%d", i)}).Error)
	}

	var rows []row
	p, err := orm.Paginate(db.Model(&row{}).Order("id"), 2, 3, &rows)
	require.NoError(t, err)

	assert.Equal(t, int64(7), p.Total)
	assert.Equal(t, 3, p.LastPage)
	require.Len(t, rows, 3)
	assert.Equal(t, "r3", rows[0].Name)
}

func TestRememberWithoutRedisAlwaysLoads(t *testing.T) {
	calls := 0
	var out string
	load := func() error { calls++; out = "fresh"; return nil }

	require.NoError(t, orm.Remember("k", 0, &out, load))
	require.NoError(t, orm.Remember("k", 0, &out, load))
	assert.Equal(t, 2, calls)
	assert.Equal(t, "fresh", out)

	boom := errors.New("boom")
	err := orm.Remember("k", 0, &out, func() error { return boom })
	assert.ErrorIs(t, err, boom)
}
