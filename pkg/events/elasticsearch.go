package events

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/fadedpez/tucotable/internal/logging"
	"github.com/fadedpez/tucotable/internal/types"
)

// ElasticsearchConfig holds configuration options for the Elasticsearch sink
type ElasticsearchConfig struct {
	URL         string
	Username    string
	Password    string
	IndexPrefix string
	BatchSize   int // events sent per bulk request
}

// DefaultElasticsearchConfig returns a default configuration for Elasticsearch
func DefaultElasticsearchConfig() *ElasticsearchConfig {
	return &ElasticsearchConfig{
		URL:         "http://localhost:9200",
		IndexPrefix: "tucotable",
		BatchSize:   500,
	}
}

const eventMapping = `{
	"mappings": {
		"properties": {
			"id":        {"type": "keyword"},
			"type":      {"type": "keyword"},
			"round":     {"type": "integer"},
			"timestamp": {"type": "date"},
			"player_id": {"type": "keyword"},
			"hand_id":   {"type": "keyword"},
			"card":      {"type": "keyword"},
			"dealer":    {"type": "boolean"},
			"action":    {"type": "keyword"},
			"amount":    {"type": "long"},
			"payout":    {"type": "long"},
			"outcome":   {"type": "keyword"},
			"value":     {"type": "integer"},
			"from":      {"type": "keyword"},
			"to":        {"type": "keyword"}
		}
	}
}`

// Elasticsearch buffers events in memory and bulk indexes them on Flush
type Elasticsearch struct {
	client *elasticsearch.Client
	config *ElasticsearchConfig
	index  string
	logger *logging.Logger

	mu      sync.Mutex
	pending []Event
}

// NewElasticsearch creates a sink writing to <prefix>_events
func NewElasticsearch(config *ElasticsearchConfig, logger *logging.Logger) (*Elasticsearch, error) {
	if config == nil {
		config = DefaultElasticsearchConfig()
	}
	if config.IndexPrefix == "" {
		config.IndexPrefix = "tucotable"
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 500
	}
	if logger == nil {
		logger = logging.Default
	}

	cfg := elasticsearch.Config{
		Addresses: []string{config.URL},
	}
	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, types.WrapError(types.ErrNetworkError, "error creating Elasticsearch client", err)
	}

	return &Elasticsearch{
		client: client,
		config: config,
		index:  config.IndexPrefix + "_events",
		logger: logger,
	}, nil
}

// Index returns the index events are written to
func (e *Elasticsearch) Index() string {
	return e.index
}

// EnsureIndex creates the event index if it does not exist yet
func (e *Elasticsearch) EnsureIndex(ctx context.Context) error {
	res, err := e.client.Indices.Exists([]string{e.index}, e.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return types.WrapError(types.ErrNetworkError, "error checking event index", err)
	}
	res.Body.Close()
	if res.StatusCode != 404 {
		return nil
	}

	req := esapi.IndicesCreateRequest{
		Index: e.index,
		Body:  strings.NewReader(eventMapping),
	}
	res, err = req.Do(ctx, e.client)
	if err != nil {
		return types.WrapError(types.ErrNetworkError, "error creating event index", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return types.NewGameError(types.ErrNetworkError, fmt.Sprintf("error creating event index: %s", res.String()))
	}
	e.logger.Info("Created Elasticsearch index %s", e.index)
	return nil
}

// Emit implements Sink
func (e *Elasticsearch) Emit(event Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = append(e.pending, event)
}

// Pending returns the number of buffered events
func (e *Elasticsearch) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending)
}

// Flush bulk indexes buffered events in batches. Events from a failed batch
// go back to the front of the buffer for the next flush.
func (e *Elasticsearch) Flush(ctx context.Context) error {
	e.mu.Lock()
	batch := e.pending
	e.pending = nil
	e.mu.Unlock()

	for len(batch) > 0 {
		n := e.config.BatchSize
		if n > len(batch) {
			n = len(batch)
		}
		if err := e.bulk(ctx, batch[:n]); err != nil {
			e.requeue(batch)
			return err
		}
		batch = batch[n:]
	}
	return nil
}

func (e *Elasticsearch) requeue(events []Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = append(append([]Event(nil), events...), e.pending...)
}

func (e *Elasticsearch) bulk(ctx context.Context, events []Event) error {
	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	for _, event := range events {
		meta := map[string]map[string]string{"index": {"_index": e.index, "_id": event.ID}}
		if err := enc.Encode(meta); err != nil {
			return types.WrapError(types.ErrInternalError, "error encoding bulk metadata", err)
		}
		if err := enc.Encode(event); err != nil {
			return types.WrapError(types.ErrInternalError, "error encoding event", err)
		}
	}

	req := esapi.BulkRequest{
		Body: &body,
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return types.WrapError(types.ErrNetworkError, "error sending bulk request", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return types.NewGameError(types.ErrNetworkError, fmt.Sprintf("bulk request failed: %s", res.String()))
	}

	var result struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return types.WrapError(types.ErrNetworkError, "error decoding bulk response", err)
	}
	if result.Errors {
		return types.NewGameError(types.ErrNetworkError, "bulk request reported item errors")
	}

	e.logger.Debug("Indexed %d events into %s", len(events), e.index)
	return nil
}
