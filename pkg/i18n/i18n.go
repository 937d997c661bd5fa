// Package i18n, kullanıcıya gösterilen bildirim mesajları için çoklu dil
// desteği sağlar.
//
// Dil, config'deki LANGUAGE değerinden belirlenir (varsayılan: en).
//
// Kullanım:
//
//	localizer := i18n.NewLocalizer("tr")
//	msg := localizer.T("auth.loginSuccess")
//	// → "Giriş başarılı!"
package i18n

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"sync"
)

// SupportedLanguages — desteklenen dil kodları.
var SupportedLanguages = []string{"en", "tr"}

// DefaultLanguage — varsayılan dil.
const DefaultLanguage = "en"

// translations, tüm dil çevirilerini bellekte tutan harita.
// map[lang]map[key]value formatında. Uygulama başlangıcında yüklenir,
// sonra sadece okunur — bu yüzden lock gerekmez.
var (
	translations map[string]map[string]string
	loadOnce     sync.Once
)

// Load, çeviri dosyalarını fs.FS'ten yükler.
// Her dil için bir JSON dosyası beklenir: en.json, tr.json.
// sync.Once ile korunur — birden fazla çağrıda sadece ilki çalışır.
func Load(localesFS fs.FS) error {
	var loadErr error

	loadOnce.Do(func() {
		translations = make(map[string]map[string]string)

		for _, lang := range SupportedLanguages {
			fileName := lang + ".json"

			data, err := fs.ReadFile(localesFS, fileName)
			if err != nil {
				loadErr = fmt.Errorf("failed to read translation file %s: %w", fileName, err)
				return
			}

			// Nested JSON'u flat key'lere dönüştür:
			// {"auth": {"loginSuccess": "..."}} → "auth.loginSuccess"
			var nested map[string]any
			if err := json.Unmarshal(data, &nested); err != nil {
				loadErr = fmt.Errorf("failed to parse translation file %s: %w", fileName, err)
				return
			}

			flat := make(map[string]string)
			flattenMap("", nested, flat)
			translations[lang] = flat

			log.Printf("[i18n] loaded %d keys for language: %s", len(flat), lang)
		}
	})

	return loadErr
}

// Localizer, belirli bir dil için çeviri yapan struct.
type Localizer struct {
	lang string
}

// NewLocalizer, verilen dil için bir Localizer oluşturur.
// Desteklenmeyen diller DefaultLanguage'e düşer.
func NewLocalizer(lang string) *Localizer {
	supported := false
	for _, l := range SupportedLanguages {
		if l == lang {
			supported = true
			break
		}
	}
	if !supported {
		lang = DefaultLanguage
	}
	return &Localizer{lang: lang}
}

// T, verilen key'in çevirisini döner.
// Key seçilen dilde yoksa varsayılan dile, orada da yoksa key'in
// kendisine düşer — eksik çeviri asla boş string üretmez.
func (l *Localizer) T(key string) string {
	if msg, ok := translations[l.lang][key]; ok {
		return msg
	}
	if msg, ok := translations[DefaultLanguage][key]; ok {
		return msg
	}
	return key
}

// flattenMap, nested map'i "a.b.c" formatındaki flat key'lere çevirir.
func flattenMap(prefix string, nested map[string]any, flat map[string]string) {
	for key, value := range nested {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			flat[fullKey] = v
		case map[string]any:
			flattenMap(fullKey, v, flat)
		default:
			// Sayı/bool gibi tipler çeviri dosyasında beklenmez — atla.
			flat[fullKey] = fmt.Sprintf("%v", v)
		}
	}
}
