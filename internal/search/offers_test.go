package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stageconnect/internal/common/logger"
	"stageconnect/internal/models"
)

// mockTransport serves canned Elasticsearch responses and records the
// requests it saw.
type mockTransport struct {
	status   int
	body     string
	requests []*http.Request
	bodies   []string
}

func (t *mockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.requests = append(t.requests, req)
	if req.Body != nil {
		raw, _ := io.ReadAll(req.Body)
		t.bodies = append(t.bodies, string(raw))
	}
	return &http.Response{
		StatusCode: t.status,
		Body:       io.NopCloser(strings.NewReader(t.body)),
		Header: http.Header{
			"Content-Type":      []string{"application/json"},
			"X-Elastic-Product": []string{"Elasticsearch"},
		},
	}, nil
}

func newIndexForTest(t *testing.T, transport *mockTransport) *OfferIndex {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://elasticsearch.test:9200"},
		Transport: transport,
	})
	require.NoError(t, err)
	return NewOfferIndex(client, "offers", logger.NewTestLogger(t))
}

func TestIndexOffer_SendsDocument(t *testing.T) {
	transport := &mockTransport{status: 201, body: `{"result":"created"}`}
	idx := newIndexForTest(t, transport)

	o := &models.Offer{ID: "offer-1", Title: "Stage développement", State: models.OfferValidated}
	err := idx.IndexOffer(context.Background(), o)
	require.NoError(t, err)

	require.Len(t, transport.requests, 1)
	req := transport.requests[0]
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Contains(t, req.URL.Path, "/offers/_doc/offer-1")
	assert.Contains(t, transport.bodies[0], "Stage développement")
}

func TestRemoveOffer_MissingDocumentIsFine(t *testing.T) {
	transport := &mockTransport{status: 404, body: `{"result":"not_found"}`}
	idx := newIndexForTest(t, transport)

	err := idx.RemoveOffer(context.Background(), "offer-1")
	assert.NoError(t, err)
}

func TestSearch_BuildsFilteredQuery(t *testing.T) {
	response := `{"hits":{"hits":[
		{"_source":{"id":"offer-1","title":"Stage développement","state":"Validée"}},
		{"_source":{"id":"offer-2","title":"Stage data","state":"Validée"}}
	]}}`
	transport := &mockTransport{status: 200, body: response}
	idx := newIndexForTest(t, transport)

	remote := true
	offers, err := idx.Search(context.Background(), models.OfferFilter{
		Search: "développement",
		City:   "Lyon",
		Remote: &remote,
		States: []models.OfferState{models.OfferValidated},
	})
	require.NoError(t, err)
	require.Len(t, offers, 2)
	assert.Equal(t, "offer-1", offers[0].ID)

	require.Len(t, transport.bodies, 1)
	var q map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(transport.bodies[0]), &q))

	boolq := q["query"].(map[string]interface{})["bool"].(map[string]interface{})
	must := boolq["must"].([]interface{})
	require.Len(t, must, 1)
	mm := must[0].(map[string]interface{})["multi_match"].(map[string]interface{})
	assert.Equal(t, "développement", mm["query"])

	filters := boolq["filter"].([]interface{})
	assert.Len(t, filters, 3, "city, remote and state filters")
}

func TestSearch_ErrorStatus(t *testing.T) {
	transport := &mockTransport{status: 500, body: `{"error":"boom"}`}
	idx := newIndexForTest(t, transport)

	_, err := idx.Search(context.Background(), models.OfferFilter{Search: "x"})
	assert.Error(t, err)
}
