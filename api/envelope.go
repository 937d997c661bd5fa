package api

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/akinalp/durak/pkg"
)

// DecodeList, backend'lerin iki farklı liste şeklini tek bir slice'a
// normalize eder:
//
//	{"content": [...], "totalPages": N, ...}  (sayfalı yanıt)
//	[...]                                     (düz dizi)
//
// Tanınmayan şekiller sessizce boş listeye DÜŞMEZ — pkg.ErrBadResponse
// ile yüksek sesle başarısız olur. Sessiz default, backend'deki şema
// değişikliklerini görünmez kılar.
func DecodeList[T any](data []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty body", pkg.ErrBadResponse)
	}

	switch trimmed[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("%w: %v", pkg.ErrBadResponse, err)
		}
		return items, nil

	case '{':
		var page struct {
			Content json.RawMessage `json:"content"`
		}
		if err := json.Unmarshal(trimmed, &page); err != nil {
			return nil, fmt.Errorf("%w: %v", pkg.ErrBadResponse, err)
		}
		if page.Content == nil {
			return nil, fmt.Errorf("%w: object without content field", pkg.ErrBadResponse)
		}
		var items []T
		if err := json.Unmarshal(page.Content, &items); err != nil {
			return nil, fmt.Errorf("%w: content is not a list: %v", pkg.ErrBadResponse, err)
		}
		return items, nil

	default:
		return nil, fmt.Errorf("%w: neither object nor array", pkg.ErrBadResponse)
	}
}

// decodeObject, tek bir JSON nesnesini verilen hedefe çözer.
func decodeObject(data []byte, target any) error {
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%w: %v", pkg.ErrBadResponse, err)
	}
	return nil
}
