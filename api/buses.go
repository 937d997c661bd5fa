package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/akinalp/durak/models"
)

// ListBuses, bilinen tüm araçları döner.
// Yanıt kısa süreli cache'lenir — canlı harita yeniden açıldığında
// art arda aynı listeyi çekmemek için.
func (c *Client) ListBuses(ctx context.Context) ([]models.Bus, error) {
	const cacheKey = "buses"

	if data, ok := c.busCache.Get(cacheKey); ok {
		return DecodeList[models.Bus](data)
	}

	data, err := c.doRequest(ctx, http.MethodGet, "/buses", nil)
	if err != nil {
		return nil, err
	}

	buses, err := DecodeList[models.Bus](data)
	if err != nil {
		return nil, err
	}

	c.busCache.Set(cacheKey, data)
	return buses, nil
}

// BusLocation, tek bir aracın güncel konumunu döner.
// Cache'lenmez — konum her an değişir.
func (c *Client) BusLocation(ctx context.Context, busID int64) (*models.BusLocation, error) {
	data, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/buses/%d/location", busID), nil)
	if err != nil {
		return nil, err
	}

	loc := &models.BusLocation{}
	if err := decodeObject(data, loc); err != nil {
		return nil, err
	}
	return loc, nil
}

// LocationHistory, bir aracın son `hours` saatlik konum geçmişini döner.
func (c *Client) LocationHistory(ctx context.Context, busID int64, hours int) ([]models.BusLocation, error) {
	path := fmt.Sprintf("/locations/bus/%d?hours=%d", busID, hours)
	data, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return DecodeList[models.BusLocation](data)
}

// ActiveAlerts, aktif uyarıları döner.
func (c *Client) ActiveAlerts(ctx context.Context) ([]models.Alert, error) {
	data, err := c.doRequest(ctx, http.MethodGet, "/alerts/active", nil)
	if err != nil {
		return nil, err
	}
	return DecodeList[models.Alert](data)
}
