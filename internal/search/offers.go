// internal/search/offers.go

// Package search maintains the Elasticsearch offer index and serves
// full-text listings. The index only ever contains validated offers; the
// offer engine removes entries as offers leave that state.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"stageconnect/internal/common/logger"
	"stageconnect/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

type OfferIndex struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewOfferIndex(client *elasticsearch.Client, index string, log logger.Logger) *OfferIndex {
	return &OfferIndex{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "offer-index"}),
	}
}

// IndexOffer upserts one offer document.
func (i *OfferIndex) IndexOffer(ctx context.Context, o *models.Offer) error {
	payload, err := json.Marshal(o)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      i.index,
		DocumentID: o.ID,
		Body:       bytes.NewReader(payload),
		Refresh:    "false",
	}
	res, err := req.Do(ctx, i.client)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index offer %s: %s", o.ID, res.Status())
	}
	return nil
}

// RemoveOffer deletes one document; a missing document is not an error.
func (i *OfferIndex) RemoveOffer(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{
		Index:      i.index,
		DocumentID: id,
	}
	res, err := req.Do(ctx, i.client)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("remove offer %s: %s", id, res.Status())
	}
	return nil
}

// Search runs a full-text query over title, description and organisme,
// narrowed by the filter's classification attributes and states.
func (i *OfferIndex) Search(ctx context.Context, filter models.OfferFilter) ([]models.Offer, error) {
	must := []map[string]interface{}{
		{
			"multi_match": map[string]interface{}{
				"query":  filter.Search,
				"fields": []string{"title^2", "description", "organisme"},
			},
		},
	}
	var filters []map[string]interface{}
	if filter.City != "" {
		filters = append(filters, map[string]interface{}{
			"match": map[string]interface{}{"city": filter.City},
		})
	}
	if filter.Duration != "" {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{"duration.keyword": filter.Duration},
		})
	}
	if filter.Domain != "" {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{"domain.keyword": filter.Domain},
		})
	}
	if filter.Remote != nil {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{"remote": *filter.Remote},
		})
	}
	if len(filter.States) > 0 {
		var states []string
		for _, st := range filter.States {
			states = append(states, string(st))
		}
		filters = append(filters, map[string]interface{}{
			"terms": map[string]interface{}{"state.keyword": states},
		})
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   must,
				"filter": filters,
			},
		},
		"size": 100,
	}

	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(query); err != nil {
		return nil, err
	}

	res, err := i.client.Search(
		i.client.Search.WithContext(ctx),
		i.client.Search.WithIndex(i.index),
		i.client.Search.WithBody(&body),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search query failed: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source models.Offer `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, err
	}

	offers := make([]models.Offer, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		offers = append(offers, hit.Source)
	}
	i.logger.Debug("search executed", map[string]interface{}{
		"query": strings.TrimSpace(filter.Search),
		"hits":  len(offers),
	})
	return offers, nil
}
