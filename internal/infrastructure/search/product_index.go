// Package search mirrors products into Elasticsearch and runs keyword
// queries against the mirror.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/tidwall/gjson"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	"github.com/oksasatya/storefront-api/internal/domain/repository"
)

const requestTimeout = 3 * time.Second

const productMapping = `{
  "mappings": {
    "properties": {
      "id":          {"type": "long"},
      "name":        {"type": "text"},
      "slug":        {"type": "keyword"},
      "description": {"type": "text"},
      "sku":         {"type": "keyword"},
      "category_id": {"type": "long"},
      "price":       {"type": "scaled_float", "scaling_factor": 100},
      "active":      {"type": "boolean"},
      "featured":    {"type": "boolean"},
      "created_at":  {"type": "date"}
    }
  }
}`

type ProductIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewProductIndex(es *elasticsearch.Client, index string) *ProductIndex {
	return &ProductIndex{es: es, index: index}
}

// EnsureIndex creates the index with its mapping when it does not exist yet.
func (x *ProductIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := esapi.IndicesExistsRequest{Index: []string{x.index}}.Do(c, x.es)
	if err != nil {
		return err
	}
	_ = res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}

	res, err = esapi.IndicesCreateRequest{Index: x.index, Body: bytes.NewReader([]byte(productMapping))}.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		// a concurrent creator wins the race
		if gjson.GetBytes(body, "error.type").String() == "resource_already_exists_exception" {
			return nil
		}
		return fmt.Errorf("create index %s: %s", x.index, res.Status())
	}
	return nil
}

func (x *ProductIndex) Index(ctx context.Context, p *entity.Product) error {
	doc := map[string]any{
		"id":          p.ID,
		"name":        p.Name,
		"slug":        p.Slug,
		"description": p.Description,
		"sku":         p.SKU,
		"category_id": p.CategoryID,
		"price":       p.EffectivePrice().InexactFloat64(),
		"active":      p.Active,
		"featured":    p.Featured,
		"created_at":  p.CreatedAt.Format(time.RFC3339Nano),
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req := esapi.IndexRequest{
		Index:      x.index,
		DocumentID: strconv.FormatInt(p.ID, 10),
		Body:       bytes.NewReader(b),
		Refresh:    "false",
	}
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index product %d: %s", p.ID, res.Status())
	}
	return nil
}

func (x *ProductIndex) Delete(ctx context.Context, id int64) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := esapi.DeleteRequest{Index: x.index, DocumentID: strconv.FormatInt(id, 10)}.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete product %d: %s", id, res.Status())
	}
	return nil
}

// Search returns the ids of matching products in relevance order and the total hit count.
func (x *ProductIndex) Search(ctx context.Context, keyword string, page repository.PageRequest) ([]int64, int64, error) {
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     keyword,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from":             page.Offset(),
		"size":             page.Size,
		"_source":          false,
		"track_total_hits": true,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, 0, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.es.Search(
		x.es.Search.WithContext(c),
		x.es.Search.WithIndex(x.index),
		x.es.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = res.Body.Close() }()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, 0, err
	}
	if res.IsError() {
		return nil, 0, fmt.Errorf("search products: %s: %s", res.Status(), gjson.GetBytes(body, "error.reason").String())
	}

	hits := gjson.GetBytes(body, "hits.hits.#._id").Array()
	ids := make([]int64, 0, len(hits))
	for _, h := range hits {
		id, err := strconv.ParseInt(h.String(), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, gjson.GetBytes(body, "hits.total.value").Int(), nil
}
