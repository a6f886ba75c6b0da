// Package products sequences product creation: validation, persistence,
// enrichment and metrics.
package products

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/rogerio-castellano/product-catalog/internal/logging"
	"github.com/rogerio-castellano/product-catalog/internal/metrics"
	"github.com/rogerio-castellano/product-catalog/internal/models"
	"github.com/rogerio-castellano/product-catalog/internal/repo"
	"github.com/rogerio-castellano/product-catalog/internal/validation"
)

// AllProductsCacheKey is the cached list view invalidated on every create.
const AllProductsCacheKey = "all_products"

// Phase is a step of a create operation.
type Phase string

const (
	PhaseStarted    Phase = "Started"
	PhaseValidating Phase = "Validating"
	PhasePersisting Phase = "Persisting"
	PhaseEnriching  Phase = "Enriching"
	PhaseCompleted  Phase = "Completed"
	PhaseFailed     Phase = "Failed"
)

// Validator checks a request before anything is written.
type Validator interface {
	Validate(ctx context.Context, req models.CreateProductRequest) error
}

// Projector turns a stored product into its profile.
type Projector interface {
	Project(p models.Product) models.ProductProfile
}

// CacheInvalidator drops a cached view. Failures are logged, never returned
// to the caller of CreateProduct.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, key string) error
}

// ServiceDeps bundles the collaborators of Service.
type ServiceDeps struct {
	Repo        repo.ProductRepository
	Validator   Validator
	Projector   Projector
	Cache       CacheInvalidator
	Sink        metrics.Sink
	Clock       func() time.Time
	IDGenerator func() string
	OpIDGen     func() string
}

// Service creates products.
type Service struct {
	repo      repo.ProductRepository
	validator Validator
	projector Projector
	cache     CacheInvalidator
	sink      metrics.Sink
	clock     func() time.Time
	newID     func() string
	newOpID   func() string
}

func NewService(deps ServiceDeps) (*Service, error) {
	if deps.Repo == nil {
		return nil, errors.New("products service: repository is required")
	}
	if deps.Validator == nil {
		return nil, errors.New("products service: validator is required")
	}
	if deps.Projector == nil {
		return nil, errors.New("products service: projector is required")
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = func() string { return ulid.Make().String() }
	}
	opIDGen := deps.OpIDGen
	if opIDGen == nil {
		opIDGen = NewOperationID
	}
	sink := deps.Sink
	if sink == nil {
		sink = metrics.Nop
	}

	return &Service{
		repo:      deps.Repo,
		validator: deps.Validator,
		projector: deps.Projector,
		cache:     deps.Cache,
		sink:      sink,
		clock:     func() time.Time { return clock().UTC() },
		newID:     idGen,
		newOpID:   opIDGen,
	}, nil
}

// NewOperationID returns an 8 character hex token.
func NewOperationID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// operation tracks one CreateProduct call.
type operation struct {
	phase   Phase
	start   time.Time
	metrics models.OperationMetrics
}

func (o *operation) fail(err error) error {
	o.failWith(err.Error())
	return err
}

func (o *operation) failWith(reason string) {
	o.metrics.Success = false
	o.metrics.ErrorReason = reason
	o.metrics.FailedPhase = string(o.phase)
	o.phase = PhaseFailed
}

// CreateProduct validates req, stores the new product and returns its
// profile. Exactly one metrics record is emitted per call.
func (s *Service) CreateProduct(ctx context.Context, req models.CreateProductRequest) (profile models.ProductProfile, err error) {
	op := &operation{
		phase: PhaseStarted,
		start: time.Now(),
		metrics: models.OperationMetrics{
			OperationID: s.newOpID(),
			ProductName: req.Name,
			SKU:         req.SKU,
			Category:    req.Category,
		},
	}
	ctx = logging.With(ctx,
		zap.String("operation_id", op.metrics.OperationID),
		zap.String("product_name", req.Name),
		zap.String("product_brand", req.Brand),
		zap.String("product_sku", req.SKU),
		zap.String("product_category", req.Category.String()),
	)
	logger := logging.FromContext(ctx)
	logger.Info("product creation started", logging.Event(logging.EventProductCreationStarted))

	// A panicking collaborator is recorded as a failure of the phase it
	// interrupted, then re-raised.
	defer func() {
		r := recover()
		op.metrics.TotalDuration = time.Since(op.start)
		switch {
		case r != nil:
			op.failWith(fmt.Sprintf("panic: %v", r))
		case err != nil:
		case op.phase == PhaseCompleted:
			op.metrics.Success = true
		default:
			op.failWith("operation ended before completion")
		}
		s.record(ctx, op.metrics)
		if r != nil {
			panic(r)
		}
	}()

	op.phase = PhaseValidating
	validationStart := time.Now()
	verr := s.validator.Validate(ctx, req)
	op.metrics.ValidationDuration = time.Since(validationStart)
	if verr != nil {
		return models.ProductProfile{}, op.fail(classifyValidation(verr))
	}

	op.phase = PhasePersisting
	product := s.newProduct(req)
	persistStart := time.Now()
	logger.Debug("persisting product", logging.Event(logging.EventDatabaseOperationStarted))
	saved, perr := s.persist(ctx, product)
	op.metrics.PersistenceDuration = time.Since(persistStart)
	if perr != nil {
		return models.ProductProfile{}, op.fail(perr)
	}
	logger.Debug("product persisted", logging.Event(logging.EventDatabaseOperationComplete),
		zap.String("product_id", saved.ID),
		zap.Duration("duration", op.metrics.PersistenceDuration))

	s.invalidate(ctx)

	op.phase = PhaseEnriching
	profile = s.projector.Project(saved)

	op.phase = PhaseCompleted
	logger.Info("product created", logging.Event(logging.EventProductCreationCompleted),
		zap.String("product_id", saved.ID))
	return profile, nil
}

// GetProduct reads a stored product and recomputes its profile.
func (s *Service) GetProduct(ctx context.Context, id string) (models.ProductProfile, error) {
	p, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repo.ErrProductNotFound) {
		return models.ProductProfile{}, ErrProductNotFound
	}
	if err != nil {
		return models.ProductProfile{}, &UnexpectedError{Op: "get product", Err: err}
	}
	return s.projector.Project(p), nil
}

func (s *Service) newProduct(req models.CreateProductRequest) models.Product {
	return models.Product{
		ID:            s.newID(),
		Name:          req.Name,
		Brand:         req.Brand,
		SKU:           req.SKU,
		Category:      req.Category,
		Price:         req.Price,
		ReleaseDate:   req.ReleaseDate.UTC(),
		ImageURL:      req.ImageURL,
		StockQuantity: req.StockQuantity,
		IsAvailable:   req.StockQuantity > 0,
		CreatedAt:     s.clock(),
	}
}

func (s *Service) persist(ctx context.Context, p models.Product) (models.Product, error) {
	if err := ctx.Err(); err != nil {
		return models.Product{}, &UnexpectedError{Op: "persist product", Err: err}
	}
	saved, err := s.repo.Add(ctx, p)
	if err == nil {
		return saved, nil
	}
	if errors.Is(err, repo.ErrDuplicatedValueUnique) {
		conflict := &ConflictError{Err: err}
		var dup *repo.DuplicateKeyError
		if errors.As(err, &dup) {
			conflict.Field = dup.Field
		}
		logging.FromContext(ctx).Warn("uniqueness conflict at write time",
			logging.Event(logging.EventProductValidationFailed),
			zap.String("field", conflict.Field))
		return models.Product{}, conflict
	}
	return models.Product{}, &UnexpectedError{Op: "persist product", Err: err}
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	logger := logging.FromContext(ctx)
	if err := s.cache.Invalidate(ctx, AllProductsCacheKey); err != nil {
		logger.Warn("cache invalidation failed", logging.Event(logging.EventCacheOperationPerformed),
			zap.String("cache_key", AllProductsCacheKey), zap.Error(err))
		return
	}
	logger.Debug("cache invalidated", logging.Event(logging.EventCacheOperationPerformed),
		zap.String("cache_key", AllProductsCacheKey))
}

// record publishes m. A panicking sink is logged and swallowed.
func (s *Service) record(ctx context.Context, m models.OperationMetrics) {
	defer func() {
		if r := recover(); r != nil {
			logging.FromContext(ctx).Error("metrics sink panicked",
				zap.String("operation_id", m.OperationID), zap.Any("panic", r))
		}
	}()
	s.sink.Record(ctx, m)
}

func classifyValidation(err error) error {
	var (
		structural *validation.StructuralValidationError
		violation  *validation.BusinessRuleViolation
	)
	if errors.As(err, &structural) || errors.As(err, &violation) {
		return err
	}
	return &UnexpectedError{Op: "validate product", Err: err}
}

func (p Phase) String() string { return string(p) }
