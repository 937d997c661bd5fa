// Package api, REST backend'ine (API gateway) erişen HTTP client'ını
// barındırır.
//
// Tasarım notları:
//   - Auth header'ı global bir default olarak MUTATE EDİLMEZ; her istek
//     anında TokenSource'tan güncel token okunur ve o isteğe yazılır.
//     Böylece "gizli global state" yerine açık bağımlılık kullanılır.
//   - Tüm istekler tek bir sabit timeout taşır (config'den gelir).
//   - 401 yanıtları OnUnauthorized hook'una iletilir — oturumun tek
//     otoritesi SessionService olduğu için karar orada verilir.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/akinalp/durak/pkg"
	"github.com/akinalp/durak/pkg/cache"
)

// Liste cache süreleri — hat listesi nadiren, araç listesi daha sık değişir.
const (
	routeCacheTTL = 5 * time.Minute
	busCacheTTL   = 30 * time.Second
	cacheCleanup  = 10 * time.Minute
)

// TokenSource, istek anında güncel bearer token'ı sağlayan interface.
// SessionService bunu implement eder; token yoksa boş string döner.
type TokenSource interface {
	Token() string
}

// Client, REST backend client'ı.
type Client struct {
	baseURL    string
	httpClient *http.Client

	tokens         TokenSource
	onUnauthorized func()

	routeCache *cache.TTLCache[string, []byte]
	busCache   *cache.TTLCache[string, []byte]
}

// NewClient, connection pooling ile yeni bir API client'ı oluşturur.
func NewClient(baseURL string, timeout time.Duration) *Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		routeCache: cache.New[string, []byte](routeCacheTTL, cacheCleanup),
		busCache:   cache.New[string, []byte](busCacheTTL, cacheCleanup),
	}
}

// SetTokenSource, token sağlayıcısını bağlar.
// Client ile SessionService arasında döngüsel constructor bağımlılığı
// olduğu için (client token'a, servis client'a ihtiyaç duyar) wire-up
// sırasında sonradan set edilir.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

// OnUnauthorized, herhangi bir çağrı 401 döndüğünde tetiklenecek
// hook'u kaydeder.
func (c *Client) OnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}

// Close, cache temizleme goroutine'lerini durdurur.
func (c *Client) Close() {
	c.routeCache.Close()
	c.busCache.Close()
}

// Error, backend'den dönen başarısız bir HTTP yanıtını temsil eder.
// Message, backend'in {"message": "..."} gövdesinden alınır —
// kullanıcıya gösterilecek metin budur (varsa).
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

// Unwrap, status code'u domain sentinel error'a map'ler —
// errors.Is(err, pkg.ErrUnauthorized) gibi kontroller çalışır.
func (e *Error) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return pkg.ErrUnauthorized
	case http.StatusForbidden:
		return pkg.ErrForbidden
	case http.StatusNotFound:
		return pkg.ErrNotFound
	case http.StatusBadRequest:
		return pkg.ErrBadRequest
	default:
		return pkg.ErrInternal
	}
}

// UserMessage, bir hatadan kullanıcıya gösterilecek mesajı çıkarır.
// Backend mesaj vermemişse fallback döner.
func UserMessage(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// doRequest, tek bir HTTP isteğini çalıştırır ve 2xx gövdesini döner.
//
// Hata map'lemesi:
//   - ağ hatası / timeout → pkg.ErrTimeout veya pkg.ErrUnavailable
//   - 4xx/5xx → *Error (sentinel'lere unwrap olur); 401 ayrıca
//     onUnauthorized hook'unu tetikler
func (c *Client) doRequest(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	// İstek anında güncel token'ı oku ve SADECE bu isteğe yaz.
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			return nil, fmt.Errorf("%w: %s %s", pkg.ErrTimeout, method, path)
		}
		return nil, fmt.Errorf("%w: %v", pkg.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return nil, &Error{
			Status:  resp.StatusCode,
			Message: extractMessage(data),
		}
	}

	return data, nil
}

// extractMessage, hata gövdesinden kullanıcıya gösterilebilir mesajı
// çıkarır. Backend servisleri {"message": "..."} veya
// {"error": "..."} şekillerinden birini kullanır.
func extractMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}
