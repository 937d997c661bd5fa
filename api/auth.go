package api

import (
	"context"
	"log"
	"net/http"

	"github.com/akinalp/durak/models"
)

// Login, kullanıcı girişini backend'e iletir.
// Başarıda token + düz kimlik alanları döner; oturumu kurmak
// SessionService'in işidir.
func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	req := &models.LoginRequest{Email: email, Password: password}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	data, err := c.doRequest(ctx, http.MethodPost, "/auth/login", req)
	if err != nil {
		return nil, err
	}

	resp := &models.LoginResponse{}
	if err := decodeObject(data, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Register, kayıt isteğini backend'e iletir. Oturum KURMAZ —
// kayıt sonrası kullanıcı login akışına yönlendirilir.
func (c *Client) Register(ctx context.Context, req *models.RegisterRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	_, err := c.doRequest(ctx, http.MethodPost, "/auth/register", req)
	return err
}

// LogoutServer, sunucu tarafındaki oturumu best-effort sonlandırır.
// Hata dönebilir; çağıran taraf (SessionService) hatayı loglar ama
// yerel logout her koşulda devam eder.
func (c *Client) LogoutServer(ctx context.Context) error {
	_, err := c.doRequest(ctx, http.MethodPost, "/auth/logout", nil)
	return err
}

// Me, backend'in gördüğü güncel kimliği döner.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	data, err := c.doRequest(ctx, http.MethodGet, "/auth/me", nil)
	if err != nil {
		return nil, err
	}

	user := &models.User{}
	if err := decodeObject(data, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfile, kimlik alanlarını backend'de günceller ve güncellenmiş
// kimliği döner. Token'a dokunmaz.
func (c *Client) UpdateProfile(ctx context.Context, req *models.UpdateProfileRequest) (*models.User, error) {
	data, err := c.doRequest(ctx, http.MethodPut, "/auth/profile", req)
	if err != nil {
		return nil, err
	}

	user := &models.User{}
	if err := decodeObject(data, user); err != nil {
		// Bazı gateway sürümleri güncellenmiş kimliği dönmez; bu durumda
		// çağıran taraf yerel merge ile devam eder.
		log.Printf("[api] profile update returned no identity payload: %v", err)
		return nil, nil
	}
	return user, nil
}
