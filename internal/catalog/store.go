// Package catalog serves the static marketing catalogs behind a Redis
// cache-aside layer and an Elasticsearch backed card search.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"fiscal-forum/internal/common/config"
	apperrors "fiscal-forum/internal/common/errors"
	"fiscal-forum/internal/common/logger"
	"fiscal-forum/internal/common/metrics"
	"fiscal-forum/internal/models"
)

// Cache is the JSON cache the store reads through. *database.RedisClient
// satisfies it.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Sort orders accepted by CreditCards.
const (
	SortRating = "rating"
	SortFee    = "fee"
	SortName   = "name"
)

type Store struct {
	cache  Cache
	ttl    time.Duration
	prefix string
	logger logger.Logger

	cards []models.CreditCard
	byID  map[string]int
}

// NewStore builds a store over the built-in catalogs. cache may be nil.
func NewStore(cache Cache, cfg config.CatalogConfig, log logger.Logger) *Store {
	return newStore(cache, cfg, log, creditCards)
}

func newStore(cache Cache, cfg config.CatalogConfig, log logger.Logger, cards []models.CreditCard) *Store {
	s := &Store{
		cache:  cache,
		ttl:    time.Duration(cfg.CacheTTL) * time.Second,
		prefix: cfg.CachePrefix,
		logger: log.WithFields(map[string]interface{}{"component": "catalog"}),
		cards:  cards,
		byID:   make(map[string]int, len(cards)),
	}
	for i, c := range cards {
		s.byID[c.ID] = i
	}
	return s
}

// CreditCards returns the grid projection of the cards matching filter.
func (s *Store) CreditCards(ctx context.Context, filter models.CardFilter) []models.CreditCardSummary {
	return cached(ctx, s, "cards:"+filterKey(filter), func() []models.CreditCardSummary {
		return filterCards(s.cards, filter)
	})
}

// CreditCard returns the full record shown in the details view.
func (s *Store) CreditCard(ctx context.Context, id string) (*models.CreditCard, error) {
	idx, ok := s.byID[id]
	if !ok {
		return nil, apperrors.NewCatalogItemNotFoundError("credit card", id)
	}
	card := s.cards[idx]
	return &card, nil
}

// News returns the newest items first; limit <= 0 returns all.
func (s *Store) News(ctx context.Context, limit int) []models.NewsItem {
	if limit <= 0 || limit > len(newsItems) {
		limit = len(newsItems)
	}
	return cached(ctx, s, fmt.Sprintf("news:%d", limit), func() []models.NewsItem {
		return latestNews(limit)
	})
}

func (s *Store) Investments(ctx context.Context) []models.InvestmentService {
	return cached(ctx, s, "investments", func() []models.InvestmentService {
		return append([]models.InvestmentService(nil), investmentServices...)
	})
}

func (s *Store) Home(ctx context.Context) *models.HomePage {
	home := cached(ctx, s, "home", func() models.HomePage {
		featured := make([]models.CreditCardSummary, 0, len(featuredCardIDs))
		for _, id := range featuredCardIDs {
			if idx, ok := s.byID[id]; ok {
				featured = append(featured, s.cards[idx].Summary())
			}
		}
		return models.HomePage{
			Services:      serviceTiles,
			FeaturedCards: featured,
			News:          latestNews(4),
			Testimonials:  testimonials,
			Partners:      partners,
		}
	})
	return &home
}

// Cards returns every card record, for indexing and search fallback.
func (s *Store) Cards() []models.CreditCard {
	return append([]models.CreditCard(nil), s.cards...)
}

// cached reads key through the cache, calling load on a miss. Cache
// failures are logged and never surface to the caller.
func cached[T any](ctx context.Context, s *Store, key string, load func() T) T {
	var out T
	if s.cache != nil {
		found, err := s.cache.GetJSON(ctx, s.prefix+key, &out)
		switch {
		case err != nil:
			metrics.CatalogCacheLookups.WithLabelValues("error").Inc()
			stdErr := apperrors.NewCacheUnavailableError(err)
			s.logger.Warn("catalog cache read failed", map[string]interface{}{
				"key":       key,
				"errorCode": string(stdErr.Code),
				"details":   stdErr.Details,
			})
		case found:
			metrics.CatalogCacheLookups.WithLabelValues("hit").Inc()
			return out
		default:
			metrics.CatalogCacheLookups.WithLabelValues("miss").Inc()
		}
	}

	out = load()
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, s.prefix+key, out, s.ttl); err != nil {
			stdErr := apperrors.NewCacheUnavailableError(err)
			s.logger.Warn("catalog cache write failed", map[string]interface{}{
				"key":       key,
				"errorCode": string(stdErr.Code),
				"details":   stdErr.Details,
			})
		}
	}
	return out
}

func filterKey(f models.CardFilter) string {
	fee := "any"
	if f.MaxAnnualFee != nil {
		fee = fmt.Sprint(*f.MaxAnnualFee)
	}
	return strings.ToLower(strings.Join([]string{f.Category, f.Network, fee, f.Sort}, ":"))
}

func filterCards(cards []models.CreditCard, f models.CardFilter) []models.CreditCardSummary {
	matched := make([]models.CreditCard, 0, len(cards))
	for _, c := range cards {
		if f.Category != "" && !strings.EqualFold(c.Category, f.Category) {
			continue
		}
		if f.Network != "" && !strings.EqualFold(c.Network, f.Network) {
			continue
		}
		if f.MaxAnnualFee != nil && c.AnnualFee > *f.MaxAnnualFee {
			continue
		}
		matched = append(matched, c)
	}

	switch strings.ToLower(f.Sort) {
	case SortRating:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Rating > matched[j].Rating })
	case SortFee:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].AnnualFee < matched[j].AnnualFee })
	case SortName:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	}

	out := make([]models.CreditCardSummary, len(matched))
	for i, c := range matched {
		out[i] = c.Summary()
	}
	return out
}

func latestNews(limit int) []models.NewsItem {
	items := append([]models.NewsItem(nil), newsItems...)
	// ISO dates sort lexically.
	sort.SliceStable(items, func(i, j int) bool { return items[i].PublishedAt > items[j].PublishedAt })
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
