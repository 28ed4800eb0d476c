package adapters

import (
	"context"
	"encoding/json"
	"time"

	"shipment-tracker/internal/core/cache"
	"shipment-tracker/internal/core/logger"
	"shipment-tracker/internal/features/tracking/domain"
	"shipment-tracker/internal/features/tracking/ports"

	"go.uber.org/zap"
)

// CachedTransport decorates a TransportClient with a short-TTL response cache
// so that tight poll loops do not hammer the backend. Cache failures fall
// through to the inner client.
type CachedTransport struct {
	inner  ports.TransportClient
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedTransport wraps inner with the given cache and TTL.
func NewCachedTransport(inner ports.TransportClient, c cache.Cache, ttl time.Duration) *CachedTransport {
	return &CachedTransport{
		inner:  inner,
		cache:  c,
		ttl:    ttl,
		logger: logger.Get(),
	}
}

func cacheKey(trackingNumber string) string {
	return "shipments:" + trackingNumber
}

// FetchShipments serves from the cache when a fresh entry exists, otherwise
// fetches from the inner client and stores the result. Failed fetches are
// never cached.
func (t *CachedTransport) FetchShipments(ctx context.Context, trackingNumber string) ([]domain.Shipment, error) {
	key := cacheKey(trackingNumber)

	if data, err := t.cache.Get(ctx, key); err == nil {
		var cached []domain.Shipment
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
		t.logger.Warn("Discarding corrupt cache entry", zap.String("key", key))
	}

	shipments, err := t.inner.FetchShipments(ctx, trackingNumber)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(shipments); err == nil {
		if err := t.cache.Set(ctx, key, data, t.ttl); err != nil {
			t.logger.Debug("Failed to cache shipment response", zap.String("key", key), zap.Error(err))
		}
	}

	return shipments, nil
}

// OpenLiveChannel passes through; push updates are never cached.
func (t *CachedTransport) OpenLiveChannel(ctx context.Context, trackingNumber string) (ports.LiveChannel, error) {
	return t.inner.OpenLiveChannel(ctx, trackingNumber)
}
