//go:build integration

package persistence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	appcatalog "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/trade"
	"github.com/storefront/backend/internal/infrastructure/migration"
	"github.com/storefront/backend/migrations"
)

func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("storefront_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{SkipDefaultTransaction: true, TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(10)

	m, err := migration.NewFromFS(sqlDB, migrations.FS, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())
	return db
}

// Concurrent markup and override writes must leave every row consistent
// with whichever write committed last for it.
func TestPricing_ConcurrentWritesOnPostgres(t *testing.T) {
	ctx := context.Background()
	db := newPostgresDB(t)
	products := NewGormProductRepository(db)
	settings := NewGormSettingRepository(db)
	svc := appcatalog.NewPricingService(NewGormTransactionScope(db), products, settings, nil)

	a := seedProduct(t, products, "Whey", "Protein", 100)
	b := seedProduct(t, products, "Casein", "Protein", 200)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, err := svc.SetGlobalMarkup(ctx, decimal.NewFromInt(int64(10+i)))
			assert.NoError(t, err)
		}(i)
		go func(i int) {
			defer wg.Done()
			price := decimal.NewFromInt(int64(150 + i))
			_, err := svc.SetProductPriceOverride(ctx, b.ID, &price)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	markup, err := svc.GetGlobalMarkup(ctx)
	require.NoError(t, err)

	gotA, err := products.FindByID(ctx, a.ID)
	require.NoError(t, err)
	want := decimal.NewFromInt(100).Mul(decimal.NewFromInt(100).Add(markup)).Div(decimal.NewFromInt(100)).Round(2)
	assert.True(t, want.Equal(gotA.SellPrice), "want %s got %s", want, gotA.SellPrice)

	gotB, err := products.FindByID(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, gotB.PriceOverride)
	assert.True(t, gotB.PriceOverride.Equal(gotB.SellPrice))
}

func TestOrderRepository_ConcurrentRefsOnPostgres(t *testing.T) {
	ctx := context.Background()
	repo := NewGormOrderRepository(newPostgresDB(t))

	const n = 6
	orders := make([]*trade.Order, n)
	for i := range orders {
		orders[i] = newOrder(t, uuid.New())
	}

	var wg sync.WaitGroup
	refs := make(chan string, n)
	for _, o := range orders {
		wg.Add(1)
		go func(o *trade.Order) {
			defer wg.Done()
			for attempt := 0; attempt < 10; attempt++ {
				err := repo.Create(ctx, o)
				if err == nil {
					refs <- o.Ref
					return
				}
				if !assert.ErrorIs(t, err, trade.ErrOrderRefConflict) {
					return
				}
			}
		}(o)
	}
	wg.Wait()
	close(refs)

	seen := map[string]bool{}
	for r := range refs {
		assert.False(t, seen[r], "duplicate ref %s", r)
		seen[r] = true
	}
	assert.Len(t, seen, n)
}
