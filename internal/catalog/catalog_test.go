package catalog

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"fiscal-forum/internal/common/config"
	"fiscal-forum/internal/common/database"
	apperrors "fiscal-forum/internal/common/errors"
	"fiscal-forum/internal/common/logger"
	"fiscal-forum/internal/models"
)

var testCatalogConfig = config.CatalogConfig{
	Index:       "credit_cards",
	CacheTTL:    600,
	CachePrefix: "catalog:",
	SearchLimit: 20,
}

func newCachedStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rc := database.NewRedisFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	return NewStore(rc, testCatalogConfig, logger.NewTestLogger(t)), mr
}

func intPtr(i int) *int { return &i }

func TestStore_CreditCardsFilterAndSort(t *testing.T) {
	store := NewStore(nil, testCatalogConfig, logger.NewNoOpLogger())
	ctx := context.Background()

	tests := []struct {
		name   string
		filter models.CardFilter
		want   []string
	}{
		{
			name:   "category",
			filter: models.CardFilter{Category: "Travel"},
			want:   []string{"hdfc-regalia-gold", "axis-atlas"},
		},
		{
			name:   "lifetime free by fee cap",
			filter: models.CardFilter{MaxAnnualFee: intPtr(0), Sort: SortName},
			want:   []string{"icici-amazon-pay", "idfc-first-wealth"},
		},
		{
			name:   "network sorted by rating",
			filter: models.CardFilter{Network: "visa", Sort: SortRating},
			want:   []string{"icici-amazon-pay", "axis-ace", "sbi-simplyclick", "axis-atlas", "idfc-first-wealth"},
		},
		{
			name:   "no match",
			filter: models.CardFilter{Category: "students"},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := store.CreditCards(ctx, tt.filter)
			ids := make([]string, 0, len(got))
			for _, c := range got {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestStore_CreditCardsSortByFee(t *testing.T) {
	store := NewStore(nil, testCatalogConfig, logger.NewNoOpLogger())
	got := store.CreditCards(context.Background(), models.CardFilter{Sort: SortFee})
	require.Len(t, got, len(creditCards))
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].AnnualFee, got[i].AnnualFee)
	}
}

func TestStore_CreditCardDetails(t *testing.T) {
	store := NewStore(nil, testCatalogConfig, logger.NewNoOpLogger())

	card, err := store.CreditCard(context.Background(), "axis-ace")
	require.NoError(t, err)
	assert.Equal(t, "Axis Bank", card.Issuer)
	assert.NotEmpty(t, card.Features)

	_, err = store.CreditCard(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeCatalogItemNotFound, apperrors.AsStandardError(err).Code)
}

func TestStore_NewsNewestFirst(t *testing.T) {
	store := NewStore(nil, testCatalogConfig, logger.NewNoOpLogger())

	news := store.News(context.Background(), 3)
	require.Len(t, news, 3)
	assert.Equal(t, "card-forex-markup", news[0].ID)
	assert.GreaterOrEqual(t, news[0].PublishedAt, news[1].PublishedAt)
	assert.GreaterOrEqual(t, news[1].PublishedAt, news[2].PublishedAt)

	assert.Len(t, store.News(context.Background(), 0), len(newsItems))
}

func TestStore_NewsCacheKeyBounded(t *testing.T) {
	store, mr := newCachedStore(t)
	ctx := context.Background()

	for _, limit := range []int{0, -1, len(newsItems), len(newsItems) + 1, 1000000} {
		assert.Len(t, store.News(ctx, limit), len(newsItems))
	}
	store.News(ctx, 2)

	keys := mr.Keys()
	assert.ElementsMatch(t, []string{
		fmt.Sprintf("catalog:news:%d", len(newsItems)),
		"catalog:news:2",
	}, keys)
}

func TestStore_HomeFeaturedCards(t *testing.T) {
	store := NewStore(nil, testCatalogConfig, logger.NewNoOpLogger())

	home := store.Home(context.Background())
	require.Len(t, home.FeaturedCards, len(featuredCardIDs))
	assert.Equal(t, "icici-amazon-pay", home.FeaturedCards[0].ID)
	assert.Len(t, home.News, 4)
	assert.NotEmpty(t, home.Services)
	assert.NotEmpty(t, home.Testimonials)
	assert.NotEmpty(t, home.Partners)
}

func TestStore_CacheAside(t *testing.T) {
	store, mr := newCachedStore(t)
	ctx := context.Background()

	first := store.Investments(ctx)
	require.NotEmpty(t, first)
	assert.True(t, mr.Exists("catalog:investments"))
	assert.Greater(t, mr.TTL("catalog:investments").Seconds(), 0.0)

	// A value planted in the cache is served as-is.
	require.NoError(t, mr.Set("catalog:investments", `[{"id":"cached","name":"From cache"}]`))
	second := store.Investments(ctx)
	require.Len(t, second, 1)
	assert.Equal(t, "cached", second[0].ID)
}

func TestStore_CacheUnavailableDegrades(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rc := database.NewRedisFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	core, logs := observer.New(zap.WarnLevel)
	store := NewStore(rc, testCatalogConfig, logger.NewZapAdapter(zap.New(core)))
	mr.Close()

	cards := store.CreditCards(context.Background(), models.CardFilter{Category: "fuel"})
	require.Len(t, cards, 1)
	assert.Equal(t, "bpcl-sbi-octane", cards[0].ID)

	reads := logs.FilterMessage("catalog cache read failed").All()
	require.Len(t, reads, 1)
	assert.Equal(t, string(apperrors.ErrCodeCacheUnavailable), reads[0].ContextMap()["errorCode"])
	assert.NotEmpty(t, reads[0].ContextMap()["details"])
	assert.Len(t, logs.FilterMessage("catalog cache write failed").All(), 1)
}

// ==========================
// Search
// ==========================

func newESClient(t *testing.T, handler http.HandlerFunc) *elasticsearch.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return es
}

func TestSearcher_UsesElasticsearch(t *testing.T) {
	var gotBody map[string]interface{}
	es := newESClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/credit_cards/_search", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":1},"hits":[{"_source":{"id":"axis-atlas","name":"Atlas Credit Card","issuer":"Axis Bank","annualFee":5000}}]}}`)
	})

	store := NewStore(nil, testCatalogConfig, logger.NewNoOpLogger())
	searcher := NewSearcher(es, "credit_cards", 10, store, logger.NewTestLogger(t))

	got, err := searcher.Search(context.Background(), "miles")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "axis-atlas", got[0].ID)
	assert.Equal(t, 5000, got[0].AnnualFee)

	mm := gotBody["query"].(map[string]interface{})["multi_match"].(map[string]interface{})
	assert.Equal(t, "miles", mm["query"])
	assert.Equal(t, []interface{}{"name^3", "issuer^2", "features", "category"}, mm["fields"])
}

func TestSearcher_FallsBackToMemory(t *testing.T) {
	es := newESClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"boom"}`)
	})

	store := NewStore(nil, testCatalogConfig, logger.NewNoOpLogger())
	searcher := NewSearcher(es, "credit_cards", 10, store, logger.NewTestLogger(t))

	got, err := searcher.Search(context.Background(), "HDFC bank")
	require.NoError(t, err)
	ids := make([]string, 0, len(got))
	for _, c := range got {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"hdfc-millennia", "hdfc-regalia-gold"}, ids)
}

func TestSearcher_WithoutClient(t *testing.T) {
	store := NewStore(nil, testCatalogConfig, logger.NewNoOpLogger())
	searcher := NewSearcher(nil, "credit_cards", 0, store, logger.NewNoOpLogger())

	got, err := searcher.Search(context.Background(), "lounge fuel")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = searcher.Search(context.Background(), "fuel surcharge")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	all, err := searcher.Search(context.Background(), "  ")
	require.NoError(t, err)
	assert.Len(t, all, len(creditCards))
}

func TestSearcher_MemoryRanksNameOverFeatures(t *testing.T) {
	store := NewStore(nil, testCatalogConfig, logger.NewNoOpLogger())

	tests := []struct {
		name  string
		limit int
		query string
		want  []string
	}{
		{name: "name match first", limit: 10, query: "amazon", want: []string{"icici-amazon-pay", "hdfc-millennia"}},
		{name: "truncated after ranking", limit: 1, query: "amazon", want: []string{"icici-amazon-pay"}},
		{name: "equal scores keep catalog order", limit: 10, query: "hdfc", want: []string{"hdfc-millennia", "hdfc-regalia-gold"}},
		{name: "no match", limit: 10, query: "zzz-no-such-card", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searcher := NewSearcher(nil, "credit_cards", tt.limit, store, logger.NewNoOpLogger())
			got, err := searcher.Search(context.Background(), tt.query)
			require.NoError(t, err)
			require.NotNil(t, got)

			ids := make([]string, 0, len(got))
			for _, c := range got {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

// ==========================
// Indexer
// ==========================

func TestIndexer_Reindex(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []string
		docs  int
	)
	es := newESClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls = append(calls, r.Method+" "+r.URL.Path)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"error":{"type":"index_not_found_exception"},"status":404}`)
		case r.Method == http.MethodPut:
			_, _ = io.WriteString(w, `{"acknowledged":true}`)
		case strings.HasSuffix(r.URL.Path, "/_bulk"):
			assert.Equal(t, "true", r.URL.Query().Get("refresh"))
			sc := bufio.NewScanner(r.Body)
			lines := 0
			for sc.Scan() {
				lines++
			}
			mu.Lock()
			docs = lines / 2
			mu.Unlock()
			_, _ = io.WriteString(w, `{"took":3,"errors":false,"items":[]}`)
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	})

	store := NewStore(nil, testCatalogConfig, logger.NewNoOpLogger())
	n, err := NewIndexer(es, "credit_cards", store, logger.NewTestLogger(t)).Reindex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(creditCards), n)
	assert.Equal(t, len(creditCards), docs)
	assert.Equal(t, []string{"DELETE /credit_cards", "PUT /credit_cards", "POST /_bulk"}, calls)
}

func TestIndexer_BulkItemErrors(t *testing.T) {
	es := newESClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/_bulk") {
			_, _ = io.WriteString(w, `{"errors":true,"items":[]}`)
			return
		}
		_, _ = io.WriteString(w, `{"acknowledged":true}`)
	})

	store := NewStore(nil, testCatalogConfig, logger.NewNoOpLogger())
	_, err := NewIndexer(es, "credit_cards", store, logger.NewNoOpLogger()).Reindex(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeSearchQueryFailed, apperrors.AsStandardError(err).Code)
}
