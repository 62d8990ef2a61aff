package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/trade"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDatabase creates a Database instance with a mocked postgres connection
func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return &Database{DB: gormDB, driver: config.DriverPostgres}, mock, mockDB
}

func TestNewDatabase_SQLiteInMemory(t *testing.T) {
	db, err := NewDatabase(&config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.AutoMigrate())
	assert.Equal(t, config.DriverSQLite, db.Driver())
	assert.True(t, db.DB.Migrator().HasTable("products"))
	assert.True(t, db.DB.Migrator().HasTable("order_items"))

	stats, err := db.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MaxOpenConnections)
}

func TestNewDatabase_UnknownDriver(t *testing.T) {
	_, err := NewDatabase(&config.DatabaseConfig{Driver: "oracle"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle")
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, ":memory:?_foreign_keys=on", sqliteDSN(":memory:"))
	assert.Equal(t, "store.db?cache=shared&_foreign_keys=on", sqliteDSN("store.db?cache=shared"))
	assert.Equal(t, "store.db?_fk=1", sqliteDSN("store.db?_fk=1"))
}

func TestDatabase_Ping(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	mock.ExpectPing()
	assert.NoError(t, db.Ping())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_Close(t *testing.T) {
	db, mock, _ := newMockDatabase(t)

	mock.ExpectClose()
	assert.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_Stats(t *testing.T) {
	db, _, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	stats, err := db.Stats()
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, stats.OpenConnections, 0)
	assert.GreaterOrEqual(t, stats.WaitDuration, time.Duration(0))
}

// Row locks are no-ops on sqlite, so the postgres SQL is checked here.
func TestPricingLocks_PostgresSQL(t *testing.T) {
	ctx := context.Background()

	t.Run("product lookup takes a row lock", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		id := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1 .*FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "base_price", "sell_price"}).
				AddRow(id.String(), "Whey", "500", "625"))

		p, err := NewGormProductRepository(db.DB).FindByIDForUpdate(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Whey", p.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("repricing set is locked and filtered", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE base_price > \$1 AND .*price_override IS NULL AND markup_override IS NULL.* ORDER BY id ASC FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		products, err := NewGormProductRepository(db.DB).FindPricedForUpdate(ctx, true)
		require.NoError(t, err)
		assert.Empty(t, products)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("markup setting is share locked", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "settings" WHERE key = \$1 .*FOR SHARE`).
			WillReturnRows(sqlmock.NewRows([]string{"key", "value"}).AddRow("global_markup_percentage", "30"))

		st, err := NewGormSettingRepository(db.DB).GetForShare(ctx, "global_markup_percentage")
		require.NoError(t, err)
		assert.Equal(t, "30", st.Value)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOrderRepository_UpdateSupplierSyncTouchesOnlySyncColumns(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	id := uuid.New()
	mock.ExpectExec(`UPDATE "orders" SET "supplier_sync_error"=\$1,"supplier_sync_status"=\$2,"supplier_synced_at"=\$3,"updated_at"=\$4 WHERE id = \$5`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	now := time.Now()
	err := NewGormOrderRepository(db.DB).UpdateSupplierSync(context.Background(), id, trade.SupplierSyncSynced, &now, "")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
