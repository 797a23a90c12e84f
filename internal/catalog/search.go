package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	apperrors "fiscal-forum/internal/common/errors"
	"fiscal-forum/internal/common/logger"
	"fiscal-forum/internal/models"
)

var searchFields = []string{"name^3", "issuer^2", "features", "category"}

// Searcher runs free-text card search against Elasticsearch and falls back
// to an in-memory match when the cluster is unavailable.
type Searcher struct {
	client *elasticsearch.Client
	index  string
	limit  int
	store  *Store
	logger logger.Logger
}

// NewSearcher returns a searcher; a nil client searches in memory only.
func NewSearcher(client *elasticsearch.Client, index string, limit int, store *Store, log logger.Logger) *Searcher {
	if limit <= 0 {
		limit = 20
	}
	return &Searcher{
		client: client,
		index:  index,
		limit:  limit,
		store:  store,
		logger: log.WithFields(map[string]interface{}{"component": "catalog-search"}),
	}
}

func (s *Searcher) Search(ctx context.Context, query string) ([]models.CreditCardSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.store.CreditCards(ctx, models.CardFilter{}), nil
	}

	if s.client != nil {
		results, err := s.searchIndex(ctx, query)
		if err == nil {
			return results, nil
		}
		s.logger.Warn("elasticsearch search failed, using in-memory match", map[string]interface{}{
			"index": s.index,
			"query": query,
			"error": err.Error(),
		})
	}
	return s.searchMemory(query), nil
}

func (s *Searcher) searchIndex(ctx context.Context, query string) ([]models.CreditCardSummary, error) {
	body, err := json.Marshal(map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    searchFields,
				"type":      "best_fields",
				"fuzziness": "AUTO",
			},
		},
	})
	if err != nil {
		return nil, err
	}

	size := s.limit
	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(body),
		Size:  &size,
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, apperrors.NewElasticsearchConnectionFailedError(err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, apperrors.NewIndexNotFoundError(s.index)
	}
	if res.IsError() {
		return nil, apperrors.NewSearchQueryFailedError(s.index, fmt.Errorf("%s", res.String()))
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source models.CreditCard `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, apperrors.NewSearchQueryFailedError(s.index, err)
	}

	out := make([]models.CreditCardSummary, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		out = append(out, hit.Source.Summary())
	}
	return out, nil
}

// searchMemory keeps cards matching every query term, case-insensitively,
// and ranks them with the same field weights the index query uses.
func (s *Searcher) searchMemory(query string) []models.CreditCardSummary {
	terms := strings.Fields(strings.ToLower(query))

	type hit struct {
		card  models.CreditCard
		score int
	}
	var hits []hit
	for _, c := range s.store.Cards() {
		if score := memoryScore(c, terms); score > 0 {
			hits = append(hits, hit{card: c, score: score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	if len(hits) > s.limit {
		hits = hits[:s.limit]
	}
	out := make([]models.CreditCardSummary, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.card.Summary())
	}
	return out
}

// memoryScore sums, per term, the weight of the best field it appears in
// (name 3, issuer 2, features or category 1). A term found nowhere scores 0.
func memoryScore(c models.CreditCard, terms []string) int {
	name := strings.ToLower(c.Name)
	issuer := strings.ToLower(c.Issuer)
	rest := strings.ToLower(strings.Join(append([]string{c.Category}, c.Features...), " "))

	total := 0
	for _, term := range terms {
		switch {
		case strings.Contains(name, term):
			total += 3
		case strings.Contains(issuer, term):
			total += 2
		case strings.Contains(rest, term):
			total++
		default:
			return 0
		}
	}
	return total
}
