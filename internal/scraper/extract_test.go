package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtract(t *testing.T) {
	t.Run("extrai título, preço e imagem dos seletores principais", func(t *testing.T) {
		doc := docFromHTML(t, `
			<html><body>
				<h1 class="ui-pdp-title">Fone de Ouvido Bluetooth</h1>
				<div class="ui-pdp-price__second-line">
					<span class="andes-money-amount__fraction">1.299</span>
				</div>
				<figure class="ui-pdp-gallery__figure">
					<img src="https://http2.mlstatic.com/fone.jpg">
				</figure>
			</body></html>`)

		fields := Extract(doc)
		assert.Equal(t, "Fone de Ouvido Bluetooth", fields.Title)
		assert.Equal(t, "1.299", fields.RawPrice)
		assert.Equal(t, "https://http2.mlstatic.com/fone.jpg", fields.ImageURL)
	})

	t.Run("primeiro localizador não vazio vence", func(t *testing.T) {
		// O preço promocional da segunda linha tem prioridade sobre o
		// preço genérico que aparece em outros blocos da página
		doc := docFromHTML(t, `
			<html><body>
				<div class="ui-pdp-price__second-line">
					<span class="andes-money-amount__fraction">80</span>
				</div>
				<span class="andes-money-amount__fraction">100</span>
			</body></html>`)

		fields := Extract(doc)
		assert.Equal(t, "80", fields.RawPrice)
	})

	t.Run("localizador com resultado vazio cai para o próximo", func(t *testing.T) {
		doc := docFromHTML(t, `
			<html><body>
				<h1 class="ui-pdp-title">   </h1>
				<h1 data-testid="title">Notebook Gamer</h1>
			</body></html>`)

		fields := Extract(doc)
		assert.Equal(t, "Notebook Gamer", fields.Title)
	})

	t.Run("meta tags servem de fallback", func(t *testing.T) {
		doc := docFromHTML(t, `
			<html><head>
				<meta property="og:title" content="Cadeira de Escritório">
				<meta property="product:price:amount" content="549.90">
				<meta property="og:image" content="https://site.com/cadeira.png">
			</head><body></body></html>`)

		fields := Extract(doc)
		assert.Equal(t, "Cadeira de Escritório", fields.Title)
		assert.Equal(t, "549.90", fields.RawPrice)
		assert.Equal(t, "https://site.com/cadeira.png", fields.ImageURL)
	})

	t.Run("JSON-LD é o último recurso", func(t *testing.T) {
		doc := docFromHTML(t, `
			<html><body>
				<script type="application/ld+json">
				{
					"@type": "Product",
					"name": "Smart TV 55",
					"image": ["https://site.com/tv.jpg"],
					"offers": {"price": "2799.00", "priceCurrency": "BRL"}
				}
				</script>
			</body></html>`)

		fields := Extract(doc)
		assert.Equal(t, "Smart TV 55", fields.Title)
		assert.Equal(t, "2799.00", fields.RawPrice)
		assert.Equal(t, "https://site.com/tv.jpg", fields.ImageURL)
	})

	t.Run("JSON-LD com lista de ofertas", func(t *testing.T) {
		doc := docFromHTML(t, `
			<html><body>
				<script type="application/ld+json">
				{"name": "Teclado", "offers": [{"price": 199.9}]}
				</script>
			</body></html>`)

		fields := Extract(doc)
		assert.Equal(t, "Teclado", fields.Title)
		assert.Equal(t, "199.9", fields.RawPrice)
	})

	t.Run("campo ausente fica vazio sem erro", func(t *testing.T) {
		doc := docFromHTML(t, `<html><body><p>página sem produto</p></body></html>`)

		fields := Extract(doc)
		assert.Empty(t, fields.Title)
		assert.Empty(t, fields.RawPrice)
		assert.Empty(t, fields.ImageURL)
	})

	t.Run("JSON-LD inválido é ignorado", func(t *testing.T) {
		doc := docFromHTML(t, `
			<html><body>
				<script type="application/ld+json">{isso não é json</script>
				<script type="application/ld+json">{"name": "Mouse"}</script>
			</body></html>`)

		fields := Extract(doc)
		assert.Equal(t, "Mouse", fields.Title)
	})
}
