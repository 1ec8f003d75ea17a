package consultdesk

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/consultdesk/internal/domain/consultation"
	"github.com/kailas-cloud/consultdesk/internal/domain/search/query"
	"github.com/kailas-cloud/consultdesk/internal/domain/search/response"
	"github.com/kailas-cloud/consultdesk/internal/transport/rest"
	healthuc "github.com/kailas-cloud/consultdesk/internal/usecase/health"
	"github.com/kailas-cloud/consultdesk/internal/usecase/records"
	searchuc "github.com/kailas-cloud/consultdesk/internal/usecase/search"
	viewuc "github.com/kailas-cloud/consultdesk/internal/usecase/view"
)

// Internal interfaces so tests can substitute the use cases.
type recordsUseCase interface {
	Load(ctx context.Context) error
	Invalidate(ctx context.Context) error
	List() []consultation.Consultation
	Get(ctx context.Context, id int64) (consultation.Consultation, error)
	Create(ctx context.Context, text string) (consultation.Consultation, error)
	Update(ctx context.Context, id int64, text string) (consultation.Consultation, error)
	Delete(ctx context.Context, id int64) error
	Snapshot() records.State
}

type searchUseCase interface {
	Search(ctx context.Context, q query.Query) (response.Response, error)
	Clear()
	Snapshot() searchuc.State
}

type viewUseCase interface {
	Display() viewuc.Display
	Load(ctx context.Context) error
	Refresh(ctx context.Context) error
	StartCreate(ctx context.Context) error
	StartEdit(ctx context.Context, id int64) error
	Submit(ctx context.Context, text string) error
	Cancel(ctx context.Context) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, text string, threshold float64) error
	Paginate(ctx context.Context, page int) error
	ClearSearch(ctx context.Context) error
}

// Client is the consultdesk SDK entry point.
// The record cache, search session and view it exposes share one remote connection
// and are owned by this client alone.
type Client struct {
	recSvc    recordsUseCase
	searchSvc searchUseCase
	viewSvc   viewUseCase
	healthSvc healthUseCase
	obs       *observer

	pageSize  int
	threshold float64
}

// New creates a Client. No remote call is made until the first operation.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		listLimit: records.DefaultListLimit,
		strategy:  StrategyPrepend,
		pageSize:  query.DefaultPageSize,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.baseURL == "" {
		return nil, errors.New("consultdesk: base url required (use WithBaseURL)")
	}
	if !records.Strategy(cfg.strategy).IsValid() {
		return nil, fmt.Errorf("consultdesk: unknown cache strategy %q", cfg.strategy)
	}
	if cfg.pageSize <= 0 {
		return nil, fmt.Errorf("consultdesk: page size must be > 0, got %d", cfg.pageSize)
	}

	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	api, err := rest.New(rest.Config{
		BaseURL:    cfg.baseURL,
		Timeout:    cfg.timeout,
		HTTPClient: cfg.httpClient,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("consultdesk: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}
	return wireClient(api, cfg, logger, obs), nil
}

func wireClient(api *rest.Client, cfg *clientConfig, logger *zap.Logger, obs *observer) *Client {
	threshold := query.DefaultThreshold
	if cfg.threshold != nil {
		threshold = query.ClampThreshold(*cfg.threshold)
	}

	recSvc := records.New(api, logger).
		WithListLimit(cfg.listLimit).
		WithStrategy(records.Strategy(cfg.strategy))
	searchSvc := searchuc.New(api, logger).
		WithOrderedResponses(cfg.ordered)
	viewSvc := viewuc.New(recSvc, searchSvc, logger).
		WithSearchDefaults(cfg.pageSize, threshold)

	return &Client{
		recSvc:    recSvc,
		searchSvc: searchSvc,
		viewSvc:   viewSvc,
		healthSvc: healthuc.New(api, recSvc),
		obs:       obs,
		pageSize:  cfg.pageSize,
		threshold: threshold,
	}
}
