package api

import (
	"context"
	"net/http"

	"github.com/akinalp/durak/models"
)

// ListRoutes, tüm hatları döner. Hat tanımları nadiren değiştiği için
// yanıt birkaç dakika cache'lenir.
func (c *Client) ListRoutes(ctx context.Context) ([]models.Route, error) {
	const cacheKey = "routes"

	if data, ok := c.routeCache.Get(cacheKey); ok {
		return DecodeList[models.Route](data)
	}

	data, err := c.doRequest(ctx, http.MethodGet, "/routes", nil)
	if err != nil {
		return nil, err
	}

	routes, err := DecodeList[models.Route](data)
	if err != nil {
		return nil, err
	}

	c.routeCache.Set(cacheKey, data)
	return routes, nil
}
