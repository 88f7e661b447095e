package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePrice(t *testing.T) {
	t.Run("formatos válidos", func(t *testing.T) {
		cases := []struct {
			raw  string
			want float64
		}{
			{"$1,234.56", 1234.56},
			{"R$ 1.234,56", 1234.56},
			{"R$ 99,90", 99.90},
			{"1234.56", 1234.56},
			{"1234", 1234},
			{"1.234", 1234},
			{"2.549.990", 2549990},
			{"19.99", 19.99},
			{"  R$ 3.000  ", 3000},
			{"US$ 1,234,567.89", 1234567.89},
		}

		for _, c := range cases {
			got, err := ParsePrice(c.raw)
			assert.NoError(t, err, "'%s' deveria ser parseado", c.raw)
			assert.InDelta(t, c.want, got, 0.001, "'%s'", c.raw)
		}
	})

	t.Run("entradas inválidas são rejeitadas", func(t *testing.T) {
		cases := []string{
			"",
			"   ",
			"free",
			"Grátis",
			"Desde",
			"0",
			"R$ 0,00",
			"...",
			",,",
		}

		for _, raw := range cases {
			_, err := ParsePrice(raw)
			assert.Error(t, err, "'%s' deveria ser rejeitado", raw)
			assert.ErrorIs(t, err, ErrPriceNotFound, "'%s'", raw)
		}
	})
}
