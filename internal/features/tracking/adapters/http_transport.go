package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"shipment-tracker/internal/core/logger"
	"shipment-tracker/internal/features/tracking/domain"

	"go.uber.org/zap"
)

// HTTPTransport fetches shipment data from the configured backend API and
// opens streaming channels against the configured live-update endpoint.
type HTTPTransport struct {
	baseURL string
	wsURL   string
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTPTransport creates an HTTPTransport. Trailing slashes on baseURL are
// trimmed. wsURL may be empty, in which case OpenLiveChannel reports
// domain.ErrNoLiveEndpoint.
func NewHTTPTransport(baseURL, wsURL string, client *http.Client) *HTTPTransport {
	return &HTTPTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		wsURL:   wsURL,
		client:  client,
		logger:  logger.Get(),
	}
}

// FetchShipments issues GET {base}/shipments/{trackingNumber}. Non-success
// responses become a *domain.TransportError carrying the body text.
func (t *HTTPTransport) FetchShipments(ctx context.Context, trackingNumber string) ([]domain.Shipment, error) {
	endpoint := fmt.Sprintf("%s/shipments/%s", t.baseURL, url.PathEscape(trackingNumber))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build shipment request: %w", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shipment: %w", err)
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		transportErr := &domain.TransportError{StatusCode: resp.StatusCode}
		if readErr == nil {
			transportErr.Body = strings.TrimSpace(string(body))
		}
		return nil, transportErr
	}

	if readErr != nil {
		return nil, fmt.Errorf("failed to read shipment response: %w", readErr)
	}

	return decodeShipments(body)
}

// decodeShipments accepts either a single shipment object or an array of
// shipments; both backend shapes are valid.
func decodeShipments(body []byte) ([]domain.Shipment, error) {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var shipments []domain.Shipment
		if err := json.Unmarshal(trimmed, &shipments); err != nil {
			return nil, fmt.Errorf("failed to parse shipment response: %w", err)
		}
		return shipments, nil
	}

	var shipment domain.Shipment
	if err := json.Unmarshal(trimmed, &shipment); err != nil {
		return nil, fmt.Errorf("failed to parse shipment response: %w", err)
	}
	return []domain.Shipment{shipment}, nil
}
