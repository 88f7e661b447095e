package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
)

// Fields é o resultado da extração de uma página renderizada. Campo vazio
// significa "não encontrado"; a extração nunca falha por campo ausente.
type Fields struct {
	Title    string
	RawPrice string
	ImageURL string
}

// locator descreve uma estratégia de localização de um campo na página:
// um seletor CSS e, opcionalmente, o atributo de onde ler o valor
// (atributo vazio significa o texto do elemento).
type locator struct {
	selector string
	attr     string
}

// Listas de localizadores em ordem de prioridade: atributos estruturais
// estáveis primeiro, heurísticas genéricas de classe por último.
var (
	titleLocators = []locator{
		{selector: "h1.ui-pdp-title"},
		{selector: "h1[data-testid='title']"},
		{selector: ".ui-pdp-title"},
		{selector: "meta[property='og:title']", attr: "content"},
		{selector: "h1"},
	}

	priceLocators = []locator{
		// O preço promocional do Mercado Livre fica na segunda linha
		{selector: ".ui-pdp-price__second-line .andes-money-amount__fraction"},
		{selector: "[data-testid='price'] .andes-money-amount__fraction"},
		{selector: ".ui-pdp-price__first-line .andes-money-amount__fraction"},
		{selector: ".andes-money-amount__fraction"},
		{selector: ".price-tag-fraction"},
		{selector: "[data-testid='price']", attr: "content"},
		{selector: "[data-testid='price']"},
		{selector: "meta[property='product:price:amount']", attr: "content"},
		{selector: "meta[itemprop='price']", attr: "content"},
	}

	imageLocators = []locator{
		{selector: ".ui-pdp-gallery__figure img", attr: "data-zoom"},
		{selector: ".ui-pdp-gallery__figure img", attr: "src"},
		{selector: "img.ui-pdp-image", attr: "src"},
		{selector: "meta[property='og:image']", attr: "content"},
	}
)

// Extract aplica os localizadores de cada campo em ordem e retorna o
// primeiro resultado não vazio; os dados estruturados JSON-LD da página são
// o último recurso para os campos que ficaram sem valor.
func Extract(doc *goquery.Document) Fields {
	fields := Fields{
		Title:    firstMatch(doc, titleLocators),
		RawPrice: firstMatch(doc, priceLocators),
		ImageURL: firstMatch(doc, imageLocators),
	}

	if fields.Title == "" || fields.RawPrice == "" || fields.ImageURL == "" {
		fillFromJSONLD(doc, &fields)
	}

	return fields
}

// firstMatch avalia os localizadores em ordem e retorna o primeiro valor
// não vazio após trim
func firstMatch(doc *goquery.Document, locators []locator) string {
	for _, loc := range locators {
		var value string
		doc.Find(loc.selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
			if loc.attr != "" {
				value = strings.TrimSpace(s.AttrOr(loc.attr, ""))
			} else {
				value = strings.TrimSpace(s.Text())
			}
			return value == ""
		})
		if value != "" {
			return value
		}
	}
	return ""
}

// fillFromJSONLD completa campos ausentes a partir dos blocos
// script[type='application/ld+json'] da página
func fillFromJSONLD(doc *goquery.Document, fields *Fields) {
	doc.Find("script[type='application/ld+json']").EachWithBreak(func(i int, s *goquery.Selection) bool {
		data := s.Text()
		if !gjson.Valid(data) {
			return true
		}

		if fields.Title == "" {
			fields.Title = strings.TrimSpace(gjson.Get(data, "name").String())
		}
		if fields.RawPrice == "" {
			// "offers" pode ser um objeto ou uma lista de ofertas
			for _, path := range []string{"offers.price", "offers.0.price", "offers.lowPrice"} {
				if v := gjson.Get(data, path); v.Exists() {
					fields.RawPrice = v.String()
					break
				}
			}
		}
		if fields.ImageURL == "" {
			img := gjson.Get(data, "image")
			if img.IsArray() {
				img = gjson.Get(data, "image.0")
			}
			fields.ImageURL = strings.TrimSpace(img.String())
		}

		return fields.Title == "" || fields.RawPrice == "" || fields.ImageURL == ""
	})
}
