package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/BigChungus31/Credit-Card-Recommendation-System/internal/domain"
	"github.com/BigChungus31/Credit-Card-Recommendation-System/internal/infrastructure/metrics"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

// Response origins reported in RecommendationResponse.Source
const (
	SourceEngine = "engine"
	SourceCache  = "cache"
)

// keyFeatureCount is how many perks are surfaced per recommendation
const keyFeatureCount = 3

// RecommendationServiceConfig holds configuration for the recommendation service
type RecommendationServiceConfig struct {
	TopN     int
	CacheTTL time.Duration
}

// RecommendationService ranks the current catalog for a profile, with result caching
type RecommendationService struct {
	catalog  domain.CatalogProvider
	engine   *ScoringEngine
	cache    domain.CacheRepository
	topN     int
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewRecommendationService creates a new recommendation service with dependencies.
// cache may be nil to disable result caching.
func NewRecommendationService(
	catalog domain.CatalogProvider,
	engine *ScoringEngine,
	cache domain.CacheRepository,
	config RecommendationServiceConfig,
	logger *zap.Logger,
) *RecommendationService {
	if logger == nil {
		logger = zap.NewNop()
	}

	topN := config.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}

	cacheTTL := config.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}

	return &RecommendationService{
		catalog:  catalog,
		engine:   engine,
		cache:    cache,
		topN:     topN,
		cacheTTL: cacheTTL,
		logger:   logger.Named("recommendations"),
	}
}

// Recommend returns the top-ranked cards for profile.
// Flow: snapshot catalog -> check cache -> rank -> cache -> return
func (s *RecommendationService) Recommend(
	ctx context.Context,
	profile *domain.UserProfile,
	topN int,
) (*domain.RecommendationResponse, error) {
	if profile == nil || profile.MonthlyIncome < 0 {
		return nil, domain.ErrInvalidRequest
	}
	if topN <= 0 {
		topN = s.topN
	}

	snap, err := s.catalog.Snapshot()
	if err != nil {
		return nil, err
	}

	cacheKey := s.generateCacheKey(snap.Version, profile, topN)

	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		cached.Source = SourceCache
		metrics.RecommendationsServed.WithLabelValues(SourceCache).Inc()
		return cached, nil
	}

	start := time.Now()
	ranked, err := s.engine.Rank(ctx, snap.Cards, profile, topN)
	if err != nil {
		return nil, err
	}
	metrics.RankingDuration.Observe(time.Since(start).Seconds())

	response := &domain.RecommendationResponse{
		Recommendations:     make([]domain.Recommendation, 0, len(ranked.Results)),
		TotalCardsEvaluated: ranked.TotalEvaluated,
		CatalogVersion:      snap.Version,
		Source:              SourceEngine,
	}
	for _, r := range ranked.Results {
		response.Recommendations = append(response.Recommendations, ToRecommendation(r))
	}

	s.logger.Debug("catalog ranked",
		zap.Int("evaluated", ranked.TotalEvaluated),
		zap.Int("returned", len(response.Recommendations)),
		zap.Uint64("catalogVersion", snap.Version),
		zap.Duration("took", time.Since(start)),
	)

	if err := s.setInCache(ctx, cacheKey, response); err != nil {
		s.logger.Warn("failed to cache recommendations", zap.Error(err))
	}

	metrics.RecommendationsServed.WithLabelValues(SourceEngine).Inc()
	return response, nil
}

// ToRecommendation converts a scored card into its API form
func ToRecommendation(r domain.MatchResult) domain.Recommendation {
	features := r.Card.Features
	if len(features) > keyFeatureCount {
		features = features[:keyFeatureCount]
	}

	return domain.Recommendation{
		CardName:          r.Card.Name,
		Bank:              r.Card.Issuer,
		MatchScore:        r.Score,
		EligibilityMet:    r.EligibilityMet,
		MatchedCategories: r.MatchedCategories,
		MatchedBenefits:   r.MatchedBenefits,
		AnnualFee:         FormatRupees(r.Card.AnnualFee),
		AnnualFeeAmount:   r.Card.AnnualFee,
		KeyFeatures:       append([]string{}, features...),
		Justification:     r.Justification,
	}
}

// generateCacheKey creates a cache key scoped to the catalog version.
// Format: "recommendations:v{version}:n{topN}:{profile digest}"
func (s *RecommendationService) generateCacheKey(version uint64, profile *domain.UserProfile, topN int) string {
	// Token order is significant: matched lists follow it.
	encoded, _ := json.Marshal(profile)
	sum := sha256.Sum256(encoded)
	return fmt.Sprintf("recommendations:v%d:n%d:%s", version, topN, hex.EncodeToString(sum[:12]))
}

func (s *RecommendationService) getFromCache(ctx context.Context, key string) (*domain.RecommendationResponse, error) {
	if s.cache == nil {
		return nil, domain.ErrCacheMiss
	}

	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if response, ok := value.(*domain.RecommendationResponse); ok {
		copied := *response
		return &copied, nil
	}

	var response domain.RecommendationResponse
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &response,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(value); err != nil {
		s.logger.Warn("discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		if err := s.cache.Delete(ctx, key); err != nil {
			s.logger.Warn("failed to evict cache entry", zap.String("key", key), zap.Error(err))
		}
		return nil, domain.ErrCacheMiss
	}

	return &response, nil
}

func (s *RecommendationService) setInCache(ctx context.Context, key string, response *domain.RecommendationResponse) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Set(ctx, key, response, s.cacheTTL)
}
