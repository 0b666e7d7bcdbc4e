package search

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/oksasatya/storefront-api/internal/domain/repository"
)

func newTestIndex(t *testing.T, handler http.HandlerFunc) *ProductIndex {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewProductIndex(es, "products")
}

func TestSearch_ParsesHitIDs(t *testing.T) {
	var sent []byte
	x := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		sent, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"hits":{"total":{"value":12},"hits":[{"_id":"7"},{"_id":"3"},{"_id":"bogus"}]}}`))
	})

	ids, total, err := x.Search(context.Background(), "mug", repository.PageRequest{Page: 1, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 3}, ids)
	assert.Equal(t, int64(12), total)
	assert.Equal(t, int64(2), gjson.GetBytes(sent, "from").Int())
	assert.Equal(t, "mug", gjson.GetBytes(sent, "query.multi_match.query").String())
}

func TestSearch_ErrorStatus(t *testing.T) {
	x := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"reason":"bad query"}}`))
	})
	_, _, err := x.Search(context.Background(), "x", repository.PageRequest{Size: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad query")
}

func TestDelete_IgnoresMissingDocument(t *testing.T) {
	x := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"result":"not_found"}`))
	})
	assert.NoError(t, x.Delete(context.Background(), 99))
}

func TestEnsureIndex_SkipsExisting(t *testing.T) {
	var methods []string
	x := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		w.WriteHeader(http.StatusOK)
	})
	require.NoError(t, x.EnsureIndex(context.Background()))
	assert.Equal(t, []string{http.MethodHead}, methods)
}
