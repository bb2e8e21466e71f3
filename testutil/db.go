// Package testutil holds helpers shared by package tests.
package testutil

import (
	"fmt"
	"io"
	"log"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cppla/blogapi/config"
	"github.com/cppla/blogapi/models"
)

var dbSeq atomic.Int64

// SQLiteConfig returns a config pointing at a private in-memory sqlite
// database for t.
func SQLiteConfig(t testing.TB) config.AppConfig {
	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	return config.AppConfig{
		DBDriver: config.DriverSQLite,
		DBPath:   fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1)),
		LogLevel: "silent",
		GinMode:  "test",
	}
}

// NewSQLite opens and migrates a fresh in-memory store that is closed when
// the test ends.
func NewSQLite(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := config.InitDatabase(SQLiteConfig(t), log.New(io.Discard, "", 0), models.All()...)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
