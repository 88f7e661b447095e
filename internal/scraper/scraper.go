package scraper

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"bot-ofertas/internal/models"

	"github.com/PuerkitoBio/goquery"
)

// Erros de scraping. Todos são capturados no limite de item do ciclo de
// monitoramento; nenhum é fatal para o processo.
var (
	// ErrNavigation indica que a página não pôde ser carregada (rede,
	// timeout ou status HTTP de erro)
	ErrNavigation = errors.New("não foi possível carregar a página")

	// ErrTitleNotFound indica que o título, campo obrigatório, não foi
	// encontrado na página
	ErrTitleNotFound = errors.New("título não encontrado na página")

	// ErrPriceNotFound indica preço ausente ou inválido na página
	ErrPriceNotFound = errors.New("preço não encontrado na página")
)

// Scraper extrai os dados de um produto a partir da sua URL
type Scraper interface {
	Scrape(url string) (*models.Snapshot, error)
}

// HTTPScraper busca a página por HTTP e extrai título, preço e imagem
type HTTPScraper struct {
	client      *http.Client
	settleDelay time.Duration
}

// NewHTTPScraper cria um scraper HTTP com o timeout de navegação informado.
// O settleDelay é uma espera fixa opcional após cada busca, para sites que
// limitam leituras consecutivas.
func NewHTTPScraper(timeout, settleDelay time.Duration) *HTTPScraper {
	return &HTTPScraper{
		client:      &http.Client{Timeout: timeout},
		settleDelay: settleDelay,
	}
}

// Scrape busca a página do produto e retorna um snapshot com os campos
// extraídos. Título ausente ou preço inválido resultam em erro; imagem
// ausente é tolerada.
func (h *HTTPScraper) Scrape(url string) (*models.Snapshot, error) {
	doc, err := h.fetch(url)

	// A pausa espaça leituras consecutivas no mesmo site; ela não espera
	// conteúdo aparecer, já que o documento chega completo na resposta
	if h.settleDelay > 0 {
		time.Sleep(h.settleDelay)
	}

	if err != nil {
		return nil, err
	}

	fields := Extract(doc)

	if fields.Title == "" {
		return nil, ErrTitleNotFound
	}

	price, err := ParsePrice(fields.RawPrice)
	if err != nil {
		return nil, err
	}

	return &models.Snapshot{
		Title:    fields.Title,
		Price:    price,
		ImageURL: fields.ImageURL,
	}, nil
}

// fetch carrega a página e a converte em um documento consultável.
// O corpo da resposta é sempre fechado, inclusive nos caminhos de erro.
func (h *HTTPScraper) fetch(url string) (*goquery.Document, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNavigation, err)
	}

	// Cabeçalhos de navegador para evitar bloqueio de robôs
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9,en-US;q=0.8,en;q=0.7")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNavigation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status code %d", ErrNavigation, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNavigation, err)
	}

	return doc, nil
}
