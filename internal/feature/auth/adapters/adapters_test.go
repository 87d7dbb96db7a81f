package adapters

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"stock_dashboard/internal/feature/auth/domain/entity"
)

// setupTestDB はテスト用のインメモリSQLiteデータベースを準備します。
// TranslateErrorを有効にして一意制約違反をgorm.ErrDuplicatedKeyに変換します。
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to initialize test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&entity.User{}, &SessionModel{}), "failed to migrate tables")
	return db
}
