package api

import (
	"errors"
	"testing"

	"github.com/akinalp/durak/models"
	"github.com/akinalp/durak/pkg"
)

func TestDecodeList(t *testing.T) {
	t.Run("decodes bare array", func(t *testing.T) {
		routes, err := DecodeList[models.Route]([]byte(`[{"id":1,"name":"Kadıköy Hattı"}]`))
		if err != nil {
			t.Fatalf("DecodeList returned error: %v", err)
		}
		if len(routes) != 1 || routes[0].Name != "Kadıköy Hattı" {
			t.Fatalf("unexpected result: %+v", routes)
		}
	})

	t.Run("decodes paged envelope", func(t *testing.T) {
		data := []byte(`{"content":[{"id":1},{"id":2}],"totalPages":3,"totalElements":40}`)
		routes, err := DecodeList[models.Route](data)
		if err != nil {
			t.Fatalf("DecodeList returned error: %v", err)
		}
		if len(routes) != 2 {
			t.Fatalf("expected 2 items, got %d", len(routes))
		}
	})

	t.Run("decodes empty array", func(t *testing.T) {
		routes, err := DecodeList[models.Route]([]byte(`[]`))
		if err != nil {
			t.Fatalf("DecodeList returned error: %v", err)
		}
		if len(routes) != 0 {
			t.Fatalf("expected empty list, got %d items", len(routes))
		}
	})

	t.Run("tolerates surrounding whitespace", func(t *testing.T) {
		if _, err := DecodeList[models.Route]([]byte("  \n[]\n")); err != nil {
			t.Fatalf("DecodeList returned error: %v", err)
		}
	})

	t.Run("object without content field fails loudly", func(t *testing.T) {
		_, err := DecodeList[models.Route]([]byte(`{"items":[]}`))
		if !errors.Is(err, pkg.ErrBadResponse) {
			t.Fatalf("expected ErrBadResponse, got %v", err)
		}
	})

	t.Run("non-list content fails loudly", func(t *testing.T) {
		_, err := DecodeList[models.Route]([]byte(`{"content":{"id":1}}`))
		if !errors.Is(err, pkg.ErrBadResponse) {
			t.Fatalf("expected ErrBadResponse, got %v", err)
		}
	})

	t.Run("scalar body fails loudly", func(t *testing.T) {
		_, err := DecodeList[models.Route]([]byte(`42`))
		if !errors.Is(err, pkg.ErrBadResponse) {
			t.Fatalf("expected ErrBadResponse, got %v", err)
		}
	})

	t.Run("empty body fails loudly", func(t *testing.T) {
		_, err := DecodeList[models.Route](nil)
		if !errors.Is(err, pkg.ErrBadResponse) {
			t.Fatalf("expected ErrBadResponse, got %v", err)
		}
	})
}
