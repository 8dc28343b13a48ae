package v1

import (
	"context"
	"encoding/json"
)

// GraphClient is a typed, read-only facade over the Microsoft Graph endpoints
// this service consumes. Directory operations live in directoryendpoint.go,
// schedule operations in scheduleendpoint.go.
type GraphClient struct {
	Transport *Transport
}

// NewGraphClient initializes the API client
func NewGraphClient(baseURL string, tokens TokenProvider) *GraphClient {
	return &GraphClient{Transport: NewTransport(baseURL, tokens)}
}

// Graph list responses are shaped as `{ "value": [...] }`.
type listWrapper[T any] struct {
	Value []T `json:"value"`
}

func getList[T any](ctx context.Context, t *Transport, path string, query map[string]string) ([]T, error) {
	resp, err := t.Get(ctx, path, query)
	if err != nil {
		return nil, err
	}

	var wrapper listWrapper[T]
	if err := json.Unmarshal(resp.Data, &wrapper); err != nil {
		return nil, err
	}

	return wrapper.Value, nil
}
