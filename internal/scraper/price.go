package scraper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var nonPriceChars = regexp.MustCompile(`[^0-9.,]`)

// ParsePrice converte o texto bruto de preço extraído da página em um valor
// numérico. Páginas misturam símbolos de moeda, separadores de milhar e
// pontuação regional ("R$ 1.234,56", "$1,234.56", "1234.56"); aqui é o único
// ponto onde texto promocional malformado ("Desde...", faixas de preço) é
// rejeitado em vez de ser interpretado errado.
func ParsePrice(raw string) (float64, error) {
	cleaned := nonPriceChars.ReplaceAllString(strings.TrimSpace(raw), "")
	if cleaned == "" {
		return 0, fmt.Errorf("%w: texto de preço vazio", ErrPriceNotFound)
	}

	cleaned = normalizeSeparators(cleaned)

	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: não foi possível parsear '%s'", ErrPriceNotFound, raw)
	}
	if price <= 0 {
		return 0, fmt.Errorf("%w: preço não positivo (%s)", ErrPriceNotFound, raw)
	}
	return price, nil
}

// normalizeSeparators resolve a ambiguidade entre separador decimal e de
// milhar: quando ponto e vírgula aparecem juntos, o que vem por último é o
// decimal; sozinhos, três dígitos exatos após o separador indicam milhar.
func normalizeSeparators(s string) string {
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			// Formato "1.234,56"
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			// Formato "1,234.56"
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") == 1 && len(s)-lastComma-1 != 3 {
			// Decimal no estilo "1234,5" ou "1234,56"
			s = strings.Replace(s, ",", ".", 1)
		} else {
			// Separador de milhar: "1,234" ou "1,234,567"
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastDot >= 0:
		if strings.Count(s, ".") > 1 || len(s)-lastDot-1 == 3 {
			// Separador de milhar: "1.234" ou "1.234.567"
			s = strings.ReplaceAll(s, ".", "")
		}
	}
	return s
}
