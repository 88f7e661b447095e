package scraper

import (
	"net/url"
	"strings"
)

// CanonicalURL normaliza uma URL de produto para uso como chave do registro:
// mantém scheme, host e path e remove query string e fragmento. Parâmetros de
// rastreamento e de localização não devem gerar entradas duplicadas.
// A função é idempotente.
func CanonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		// URL malformada: truncar no primeiro '?' ou '#' como aproximação
		if idx := strings.IndexAny(raw, "?#"); idx >= 0 {
			return raw[:idx]
		}
		return raw
	}

	u.RawQuery = ""
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}
