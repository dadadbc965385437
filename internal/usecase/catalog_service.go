package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/BigChungus31/Credit-Card-Recommendation-System/internal/domain"
	"github.com/BigChungus31/Credit-Card-Recommendation-System/internal/infrastructure/catalog"
	"github.com/BigChungus31/Credit-Card-Recommendation-System/internal/infrastructure/metrics"
	"go.uber.org/zap"
)

// CatalogService owns the normalized catalog. Readers get an immutable
// snapshot; a load publishes a complete new snapshot in one atomic store.
type CatalogService struct {
	source     domain.CatalogSource
	normalizer *catalog.Normalizer
	logger     *zap.Logger

	current atomic.Pointer[domain.Catalog]
	version atomic.Uint64
	loadMu  sync.Mutex
}

// NewCatalogService creates an empty service; call Load before serving
func NewCatalogService(source domain.CatalogSource, normalizer *catalog.Normalizer, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if normalizer == nil {
		normalizer = catalog.NewNormalizer(logger)
	}
	return &CatalogService{
		source:     source,
		normalizer: normalizer,
		logger:     logger.Named("catalog"),
	}
}

// Snapshot returns the active catalog or ErrCatalogNotLoaded
func (s *CatalogService) Snapshot() (*domain.Catalog, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, domain.ErrCatalogNotLoaded
	}
	return snap, nil
}

// Load fetches and normalizes the catalog, then swaps it in.
// On failure the previous snapshot stays active.
func (s *CatalogService) Load(ctx context.Context) (*domain.Catalog, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	start := time.Now()
	name := s.source.Describe()

	payload, err := s.source.Fetch(ctx)
	if err != nil {
		metrics.CatalogReloads.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}

	cards, err := s.normalizer.Normalize(name, payload)
	if err != nil {
		metrics.CatalogReloads.WithLabelValues("error").Inc()
		return nil, err
	}

	snap := &domain.Catalog{
		Cards:    cards,
		Version:  s.version.Add(1),
		Source:   name,
		LoadedAt: time.Now(),
	}
	s.current.Store(snap)

	metrics.CatalogReloads.WithLabelValues("success").Inc()
	metrics.CatalogCards.Set(float64(len(cards)))

	s.logger.Info("catalog loaded",
		zap.String("source", name),
		zap.Int("cards", len(cards)),
		zap.Uint64("version", snap.Version),
		zap.Duration("took", time.Since(start)),
	)

	return snap, nil
}

// Watch reloads the catalog every interval until ctx is done.
// Failed reloads are logged and the old snapshot is kept.
func (s *CatalogService) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Load(ctx); err != nil {
				s.logger.Warn("catalog reload failed, keeping previous snapshot", zap.Error(err))
			}
		}
	}
}
