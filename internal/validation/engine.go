package validation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rogerio-castellano/product-catalog/internal/logging"
	"github.com/rogerio-castellano/product-catalog/internal/models"
	"github.com/rogerio-castellano/product-catalog/internal/rules"
)

// DefaultDailyLimit caps how many products may be created per UTC day.
const DefaultDailyLimit = 500

var (
	// ErrCheckerMissing indicates the engine was built without a uniqueness checker.
	ErrCheckerMissing = errors.New("validation: uniqueness checker is not configured")

	electronicsMinPrice = decimal.NewFromInt(50)
	homeMaxPrice        = decimal.NewFromInt(200)
	premiumPrice        = decimal.NewFromInt(100)
)

const premiumMaxStock = 20

// businessRule is a named predicate over a request; it passes when check returns true.
type businessRule struct {
	name    string
	message string
	check   func(req models.CreateProductRequest, now time.Time) bool
}

func (r businessRule) violation() *BusinessRuleViolation {
	return &BusinessRuleViolation{Rule: r.name, Message: r.message}
}

// categoryRules holds the extra rules per category. Categories without an
// entry have none.
var categoryRules = map[models.Category][]businessRule{
	models.CategoryElectronics: {
		{
			name:    "electronics_min_price",
			message: "Electronics products must cost at least $50.",
			check: func(req models.CreateProductRequest, _ time.Time) bool {
				return req.Price.GreaterThanOrEqual(electronicsMinPrice)
			},
		},
		{
			name:    "electronics_tech_keyword",
			message: "Electronics product names must contain a technology keyword.",
			check: func(req models.CreateProductRequest, _ time.Time) bool {
				return rules.ContainsTechKeyword(req.Name)
			},
		},
		{
			name:    "electronics_recent_release",
			message: "Electronics products must be released within the last 5 years.",
			check: func(req models.CreateProductRequest, now time.Time) bool {
				return !req.ReleaseDate.UTC().Before(now.AddDate(-5, 0, 0))
			},
		},
	},
	models.CategoryHome: {
		{
			name:    "home_max_price",
			message: "Home products cannot exceed $200.",
			check: func(req models.CreateProductRequest, _ time.Time) bool {
				return req.Price.LessThanOrEqual(homeMaxPrice)
			},
		},
		{
			name:    "home_appropriate_name",
			message: "Home product name contains restricted words.",
			check: func(req models.CreateProductRequest, _ time.Time) bool {
				return rules.IsHomeAppropriate(req.Name)
			},
		},
	},
	models.CategoryClothing: {
		{
			name:    "clothing_brand_length",
			message: "Clothing brand must be at least 3 characters.",
			check: func(req models.CreateProductRequest, _ time.Time) bool {
				return len([]rune(req.Brand)) >= 3
			},
		},
	},
}

var premiumStockRule = businessRule{
	name:    "premium_stock_cap",
	message: "Products priced above $100 cannot have more than 20 units in stock.",
	check: func(req models.CreateProductRequest, _ time.Time) bool {
		return !req.Price.GreaterThan(premiumPrice) || req.StockQuantity <= premiumMaxStock
	},
}

// EngineDeps bundles constructor inputs for the rule engine.
type EngineDeps struct {
	Checker    Checker
	Clock      func() time.Time
	DailyLimit int
}

// Engine evaluates the intake rules in order and stops at the first failing
// stage.
type Engine struct {
	checker    Checker
	validate   *validator.Validate
	clock      func() time.Time
	dailyLimit int
}

func NewEngine(deps EngineDeps) (*Engine, error) {
	if deps.Checker == nil {
		return nil, ErrCheckerMissing
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	limit := deps.DailyLimit
	if limit <= 0 {
		limit = DefaultDailyLimit
	}
	utc := func() time.Time { return clock().UTC() }
	return &Engine{
		checker:    deps.Checker,
		validate:   newStructValidator(utc),
		clock:      utc,
		dailyLimit: limit,
	}, nil
}

// Validate runs structural, uniqueness, volume, category and cross-field
// rules. It returns a *StructuralValidationError, a *BusinessRuleViolation,
// or the collaborator error that prevented evaluation.
func (e *Engine) Validate(ctx context.Context, req models.CreateProductRequest) error {
	logger := logging.FromContext(ctx)

	if err := e.ValidateStructure(req); err != nil {
		logger.Warn("structural validation failed", logging.Event(logging.EventProductValidationFailed), zap.Error(err))
		return err
	}
	logger.Debug("stock validation passed", logging.Event(logging.EventStockValidationPerformed),
		zap.Int("stock_quantity", req.StockQuantity))

	if err := e.checkUniqueness(ctx, req); err != nil {
		return err
	}

	now := e.clock()
	if err := e.checkDailyLimit(ctx, now); err != nil {
		return err
	}

	for _, rule := range categoryRules[req.Category] {
		if !rule.check(req, now) {
			return e.fail(ctx, rule.violation())
		}
	}
	if !premiumStockRule.check(req, now) {
		return e.fail(ctx, premiumStockRule.violation())
	}
	return nil
}

// ValidateStructure applies the field-shape rules only. It performs no I/O.
func (e *Engine) ValidateStructure(req models.CreateProductRequest) error {
	return structuralErrors(e.validate.Struct(req), req.Unparsed)
}

func (e *Engine) checkUniqueness(ctx context.Context, req models.CreateProductRequest) error {
	exists, err := e.checker.SKUExists(ctx, req.SKU)
	if err != nil {
		return fmt.Errorf("check sku uniqueness: %w", err)
	}
	if exists {
		return e.fail(ctx, &BusinessRuleViolation{Rule: "sku_unique", Message: "SKU already exists in the system."})
	}
	logging.FromContext(ctx).Debug("sku uniqueness check passed", logging.Event(logging.EventSKUValidationPerformed))

	exists, err = e.checker.NameBrandExists(ctx, req.Name, req.Brand)
	if err != nil {
		return fmt.Errorf("check name uniqueness: %w", err)
	}
	if exists {
		return e.fail(ctx, &BusinessRuleViolation{Rule: "name_brand_unique", Message: "Product name must be unique for this brand."})
	}
	return nil
}

func (e *Engine) checkDailyLimit(ctx context.Context, now time.Time) error {
	dayStart := StartOfDay(now)
	count, err := e.checker.CountCreatedSince(ctx, dayStart)
	if err != nil {
		return fmt.Errorf("count products created today: %w", err)
	}
	if count >= e.dailyLimit {
		return e.fail(ctx, &BusinessRuleViolation{
			Rule:    "daily_limit",
			Message: fmt.Sprintf("Daily product creation limit (%d) reached.", e.dailyLimit),
		})
	}
	return nil
}

func (e *Engine) fail(ctx context.Context, v *BusinessRuleViolation) error {
	logging.FromContext(ctx).Warn("business rule failed",
		logging.Event(logging.EventProductValidationFailed),
		zap.String("rule", v.Rule),
		zap.String("reason", v.Message))
	return v
}

// StartOfDay truncates t to midnight UTC.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
