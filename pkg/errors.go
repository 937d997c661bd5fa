// Package pkg, projede paylaşılan utility'leri barındırır.
// Bu dosya domain-level error tanımlarını içerir.
//
// Go'da error'lar basit değerlerdir. errors.New() ile sabit error
// değişkenleri tanımlarız; karşılaştırma string yerine referans ile yapılır:
//
//	if errors.Is(err, pkg.ErrUnauthorized) { ... }
package pkg

import "errors"

// Domain-level error'lar.
// API client'ı HTTP status code'larını bunlara map'ler; servis katmanı
// errors.Is ile dallanır (ör: 401 → oturumu temizle).
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
	ErrBadResponse  = errors.New("unrecognized response shape")
	ErrTimeout      = errors.New("request timed out")
	ErrUnavailable  = errors.New("service unavailable")
	ErrNotConnected = errors.New("not connected")
	ErrInternal     = errors.New("internal error")
)
