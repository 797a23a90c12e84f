package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	apperrors "fiscal-forum/internal/common/errors"
	"fiscal-forum/internal/common/logger"
)

var cardMapping = map[string]interface{}{
	"mappings": map[string]interface{}{
		"properties": map[string]interface{}{
			"id":        map[string]interface{}{"type": "keyword"},
			"name":      map[string]interface{}{"type": "text"},
			"issuer":    map[string]interface{}{"type": "text", "fields": map[string]interface{}{"raw": map[string]interface{}{"type": "keyword"}}},
			"network":   map[string]interface{}{"type": "keyword"},
			"category":  map[string]interface{}{"type": "keyword"},
			"features":  map[string]interface{}{"type": "text"},
			"annualFee": map[string]interface{}{"type": "integer"},
			"rating":    map[string]interface{}{"type": "float"},
		},
	},
}

// Indexer rebuilds the card search index from the store.
type Indexer struct {
	client *elasticsearch.Client
	index  string
	store  *Store
	logger logger.Logger
}

func NewIndexer(client *elasticsearch.Client, index string, store *Store, log logger.Logger) *Indexer {
	return &Indexer{client: client, index: index, store: store, logger: log}
}

// Reindex drops and recreates the index, then bulk loads every card. It
// returns the number of documents indexed.
func (i *Indexer) Reindex(ctx context.Context) (int, error) {
	del, err := esapi.IndicesDeleteRequest{Index: []string{i.index}}.Do(ctx, i.client)
	if err != nil {
		return 0, apperrors.NewElasticsearchConnectionFailedError(err)
	}
	del.Body.Close()
	if del.IsError() && del.StatusCode != http.StatusNotFound {
		return 0, apperrors.NewSearchQueryFailedError(i.index, fmt.Errorf("delete index: %s", del.Status()))
	}

	mapping, _ := json.Marshal(cardMapping)
	created, err := esapi.IndicesCreateRequest{Index: i.index, Body: bytes.NewReader(mapping)}.Do(ctx, i.client)
	if err != nil {
		return 0, apperrors.NewElasticsearchConnectionFailedError(err)
	}
	created.Body.Close()
	if created.IsError() {
		return 0, apperrors.NewSearchQueryFailedError(i.index, fmt.Errorf("create index: %s", created.Status()))
	}

	cards := i.store.Cards()
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, c := range cards {
		meta := map[string]interface{}{"index": map[string]interface{}{"_index": i.index, "_id": c.ID}}
		if err := enc.Encode(meta); err != nil {
			return 0, err
		}
		if err := enc.Encode(c); err != nil {
			return 0, err
		}
	}

	res, err := esapi.BulkRequest{Body: &buf, Refresh: "true"}.Do(ctx, i.client)
	if err != nil {
		return 0, apperrors.NewElasticsearchConnectionFailedError(err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, apperrors.NewSearchQueryFailedError(i.index, fmt.Errorf("bulk: %s", res.Status()))
	}

	var summary struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&summary); err != nil {
		return 0, apperrors.NewSearchQueryFailedError(i.index, err)
	}
	if summary.Errors {
		return 0, apperrors.NewSearchQueryFailedError(i.index, fmt.Errorf("bulk reported item errors"))
	}

	i.logger.Info("catalog reindexed", map[string]interface{}{"index": i.index, "documents": len(cards)})
	return len(cards), nil
}
