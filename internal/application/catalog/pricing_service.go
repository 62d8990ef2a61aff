package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/setting"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Repricing triggers, reported to the RepricingRecorder
const (
	TriggerGlobalMarkup   = "global_markup"
	TriggerPriceOverride  = "price_override"
	TriggerMarkupOverride = "markup_override"
	TriggerRecalcAll      = "recalc_all"
)

// RepricingRecorder observes sell price recomputations
type RepricingRecorder interface {
	RecordRepricing(ctx context.Context, trigger string, touched, changed int)
}

type noopRepricingRecorder struct{}

func (noopRepricingRecorder) RecordRepricing(context.Context, string, int, int) {}

// PricingService owns the global markup and per-product overrides and keeps
// every product's cached sell price consistent with them.
type PricingService struct {
	txScope     TransactionScope
	productRepo catalog.ProductRepository
	settingRepo setting.Repository
	recorder    RepricingRecorder
	logger      *zap.Logger
}

// PricingOption configures a PricingService
type PricingOption func(*PricingService)

// WithRepricingRecorder reports recomputations to r
func WithRepricingRecorder(r RepricingRecorder) PricingOption {
	return func(s *PricingService) {
		if r != nil {
			s.recorder = r
		}
	}
}

// NewPricingService creates a new PricingService
func NewPricingService(
	txScope TransactionScope,
	productRepo catalog.ProductRepository,
	settingRepo setting.Repository,
	logger *zap.Logger,
	opts ...PricingOption,
) *PricingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &PricingService{
		txScope:     txScope,
		productRepo: productRepo,
		settingRepo: settingRepo,
		recorder:    noopRepricingRecorder{},
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureGlobalMarkup stores the default markup if none has been set yet
func (s *PricingService) EnsureGlobalMarkup(ctx context.Context) error {
	_, err := s.settingRepo.Get(ctx, setting.KeyGlobalMarkup)
	if err == nil {
		return nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	s.logger.Info("initializing global markup", zap.String("value", catalog.DefaultGlobalMarkup.String()))
	return s.settingRepo.Upsert(ctx, setting.KeyGlobalMarkup, catalog.DefaultGlobalMarkup.String())
}

// GetGlobalMarkup returns the current global markup percentage
func (s *PricingService) GetGlobalMarkup(ctx context.Context) (decimal.Decimal, error) {
	return loadGlobalMarkup(ctx, s.settingRepo, false)
}

// GetPricingTable returns the global markup and every product's pricing fields
func (s *PricingService) GetPricingTable(ctx context.Context) (*PricingTable, error) {
	markup, err := s.GetGlobalMarkup(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.FindAll(ctx, catalog.ProductFilter{Unpaged: true})
	if err != nil {
		return nil, err
	}
	rows := make([]PricingRow, len(products))
	for i := range products {
		rows[i] = ToPricingRow(&products[i])
	}
	return &PricingTable{GlobalMarkup: markup, Products: rows}, nil
}

// SetGlobalMarkup stores a new global markup and reprices every priced product
// without overrides, all in one transaction.
func (s *PricingService) SetGlobalMarkup(ctx context.Context, percent decimal.Decimal) (*GlobalMarkupResult, error) {
	if err := catalog.ValidateMarkup(percent); err != nil {
		return nil, err
	}

	var touched, changed int
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.SettingRepo().Upsert(ctx, setting.KeyGlobalMarkup, percent.String()); err != nil {
			return err
		}
		products, err := repos.ProductRepo().FindPricedForUpdate(ctx, true)
		if err != nil {
			return err
		}
		touched = len(products)
		changed, err = repriceAll(ctx, repos.ProductRepo(), products, percent)
		return err
	})
	if err != nil {
		s.logger.Error("failed to apply global markup", zap.String("markup", percent.String()), zap.Error(err))
		return nil, err
	}

	s.logger.Info("global markup applied",
		zap.String("markup", percent.String()),
		zap.Int("repriced", touched),
		zap.Int("changed", changed),
	)
	s.recorder.RecordRepricing(ctx, TriggerGlobalMarkup, touched, changed)
	return &GlobalMarkupResult{GlobalMarkup: percent, Updated: touched, Changed: changed}, nil
}

// SetProductPriceOverride pins a product's sell price, or clears the pin with nil,
// and immediately re-derives the stored sell price.
func (s *PricingService) SetProductPriceOverride(ctx context.Context, productID uuid.UUID, price *decimal.Decimal) (*PricingRow, error) {
	if err := catalog.ValidatePriceOverride(price); err != nil {
		return nil, err
	}
	return s.updateProductPricing(ctx, productID, TriggerPriceOverride, func(p *catalog.Product, global decimal.Decimal) error {
		return p.SetPriceOverride(price, global)
	})
}

// SetProductMarkupOverride sets a product's own markup, or clears it with nil,
// and immediately re-derives the stored sell price.
func (s *PricingService) SetProductMarkupOverride(ctx context.Context, productID uuid.UUID, percent *decimal.Decimal) (*PricingRow, error) {
	if percent != nil {
		if err := catalog.ValidateMarkup(*percent); err != nil {
			return nil, err
		}
	}
	return s.updateProductPricing(ctx, productID, TriggerMarkupOverride, func(p *catalog.Product, global decimal.Decimal) error {
		return p.SetMarkupOverride(percent, global)
	})
}

// RecalcAllPrices re-derives the sell price of every priced product. Updated
// counts the rows recomputed, Changed the rows whose stored value moved.
// Repeating the call with no intervening writes changes nothing.
func (s *PricingService) RecalcAllPrices(ctx context.Context) (*RecalcResult, error) {
	var touched, changed int
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		global, err := loadGlobalMarkup(ctx, repos.SettingRepo(), true)
		if err != nil {
			return err
		}
		products, err := repos.ProductRepo().FindPricedForUpdate(ctx, false)
		if err != nil {
			return err
		}
		touched = len(products)
		changed, err = repriceAll(ctx, repos.ProductRepo(), products, global)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("prices recalculated", zap.Int("repriced", touched), zap.Int("changed", changed))
	s.recorder.RecordRepricing(ctx, TriggerRecalcAll, touched, changed)
	return &RecalcResult{Updated: touched, Changed: changed}, nil
}

func (s *PricingService) updateProductPricing(
	ctx context.Context,
	productID uuid.UUID,
	trigger string,
	apply func(p *catalog.Product, global decimal.Decimal) error,
) (*PricingRow, error) {
	var row PricingRow
	changed := 0
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		// Lock order is settings then products, same as SetGlobalMarkup.
		global, err := loadGlobalMarkup(ctx, repos.SettingRepo(), true)
		if err != nil {
			return err
		}
		p, err := repos.ProductRepo().FindByIDForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		before := p.SellPrice
		if err := apply(p, global); err != nil {
			return err
		}
		if !before.Equal(p.SellPrice) {
			changed = 1
		}
		if err := repos.ProductRepo().SavePricing(ctx, p); err != nil {
			return err
		}
		row = ToPricingRow(p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("product pricing updated",
		zap.String("product_id", productID.String()),
		zap.String("trigger", trigger),
		zap.String("sell_price", row.SellPrice.String()),
	)
	s.recorder.RecordRepricing(ctx, trigger, 1, changed)
	return &row, nil
}

func repriceAll(ctx context.Context, repo catalog.ProductRepository, products []catalog.Product, global decimal.Decimal) (int, error) {
	changed := 0
	for i := range products {
		p := &products[i]
		if !p.Reprice(global) {
			continue
		}
		if err := repo.UpdateSellPrice(ctx, p.ID, p.SellPrice); err != nil {
			return changed, fmt.Errorf("update sell price of %s: %w", p.ID, err)
		}
		changed++
	}
	return changed, nil
}

// loadGlobalMarkup reads the stored markup, falling back to the default when unset.
// With share set, the settings row stays share-locked until the transaction ends.
func loadGlobalMarkup(ctx context.Context, repo setting.Repository, share bool) (decimal.Decimal, error) {
	var (
		st  *setting.Setting
		err error
	)
	if share {
		st, err = repo.GetForShare(ctx, setting.KeyGlobalMarkup)
	} else {
		st, err = repo.Get(ctx, setting.KeyGlobalMarkup)
	}
	if errors.Is(err, shared.ErrNotFound) {
		return catalog.DefaultGlobalMarkup, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	markup, err := decimal.NewFromString(strings.TrimSpace(st.Value))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse stored global markup %q: %w", st.Value, err)
	}
	return markup, nil
}
