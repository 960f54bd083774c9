package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	elasticsearch7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/mitchellh/mapstructure"

	"github.com/nearbyhq/nearby-core/internal/core/domain"
	"github.com/nearbyhq/nearby-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.TextIndex = (*TextIndex)(nil)

// TextIndex implements driven.TextIndex using Elasticsearch
type TextIndex struct {
	client *elasticsearch7.Client
	index  string
}

// Config holds Elasticsearch connection configuration
type Config struct {
	// Addresses are the Elasticsearch endpoints
	Addresses []string

	// Index is the provider search index name
	Index string
}

// DefaultConfig returns sensible defaults
func DefaultConfig(address string) Config {
	return Config{
		Addresses: []string{address},
		Index:     "service_providers_v2",
	}
}

// NewTextIndex creates a new Elasticsearch-backed TextIndex
func NewTextIndex(cfg Config) (*TextIndex, error) {
	client, err := elasticsearch7.NewClient(elasticsearch7.Config{
		Addresses: cfg.Addresses,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return &TextIndex{client: client, index: cfg.Index}, nil
}

// providerHit is the projected _source of an index hit
type providerHit struct {
	ID string `mapstructure:"id"`
}

// SearchProviders returns candidate provider ids, most-relevant first
func (t *TextIndex) SearchProviders(ctx context.Context, query string, category domain.Category, subcategories []domain.Subcategory, size int) ([]string, error) {
	body := buildProviderQuery(query, category, subcategories, size)
	if body == nil {
		// No clauses to match on; an empty query is not a wildcard.
		return []string{}, nil
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("failed to encode search query: %w", err)
	}

	res, err := t.client.Search(
		t.client.Search.WithContext(ctx),
		t.client.Search.WithIndex(t.index),
		t.client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch search failed: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source map[string]interface{} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		var doc providerHit
		if err := mapstructure.Decode(hit.Source, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode hit source: %w", err)
		}
		if doc.ID != "" {
			ids = append(ids, doc.ID)
		}
	}
	return ids, nil
}

// buildProviderQuery assembles the bool query over the weighted index fields.
// It returns nil when neither a free-text query nor a category is present.
func buildProviderQuery(query string, category domain.Category, subcategories []domain.Subcategory, size int) map[string]interface{} {
	var must []interface{}

	if query != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query": query,
				"fields": []string{
					"name^4",
					"description^3",
					"category_text^3",
					"service_titles^2",
					"service_descriptions",
					"category_titles^2",
					"category_descriptions",
				},
				"fuzziness": "AUTO",
			},
		})
	}

	if category != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query": string(category),
				"fields": []string{
					"category_titles^3",
					"category_text^2",
					"category_descriptions",
				},
			},
		})
	}

	if must == nil {
		return nil
	}

	boolQuery := map[string]interface{}{
		"must": must,
	}

	if len(subcategories) > 0 {
		terms := make([]string, len(subcategories))
		for i, s := range subcategories {
			terms[i] = string(s)
		}
		boolQuery["filter"] = []interface{}{
			map[string]interface{}{
				"terms": map[string]interface{}{
					"subcategories": terms,
				},
			},
		}
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": boolQuery,
		},
		"size":    size,
		"_source": []string{"id"},
	}
}
