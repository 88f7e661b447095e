package monitor

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"bot-ofertas/internal/models"
	"bot-ofertas/internal/notifier"
	"bot-ofertas/internal/scraper"
	"bot-ofertas/internal/store"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrCycleRunning indica que um ciclo de monitoramento já está em
	// andamento; gatilhos sobrepostos são rejeitados, nunca intercalados
	ErrCycleRunning = errors.New("um ciclo de monitoramento já está em andamento")

	// ErrAlreadyTracked indica que a URL já está sendo monitorada
	ErrAlreadyTracked = errors.New("produto já está sendo monitorado")

	// ErrNotTracked indica que a URL não está no registro
	ErrNotTracked = errors.New("produto não encontrado no monitoramento")
)

// Monitor executa o ciclo periódico de verificação de preços: para cada
// produto do registro, busca a página, extrai os dados, atualiza o registro
// e classifica o resultado como queda, sem mudança ou erro
type Monitor struct {
	store        *store.Store
	scraper      scraper.Scraper
	notifier     *notifier.Notifier
	itemDelay    time.Duration
	historyLimit int

	// Garante no máximo um ciclo ativo por vez
	running sync.Mutex

	cron *cron.Cron
}

// New cria uma nova instância do monitor
func New(st *store.Store, sc scraper.Scraper, nt *notifier.Notifier, itemDelay time.Duration, historyLimit int) *Monitor {
	if historyLimit <= 0 {
		historyLimit = models.HistoryLimit
	}
	return &Monitor{
		store:        st,
		scraper:      sc,
		notifier:     nt,
		itemDelay:    itemDelay,
		historyLimit: historyLimit,
	}
}

// Start agenda o ciclo de monitoramento com a expressão cron informada
// (por exemplo "@every 30m") e executa uma primeira verificação imediata
func (m *Monitor) Start(cronSpec string) error {
	m.cron = cron.New()
	if _, err := m.cron.AddFunc(cronSpec, m.runScheduled); err != nil {
		return fmt.Errorf("expressão de agendamento inválida '%s': %w", cronSpec, err)
	}
	m.cron.Start()

	log.Infof("Monitor iniciado. Agendamento: %s", cronSpec)

	// Verificar imediatamente na primeira execução
	go m.runScheduled()

	return nil
}

// Stop interrompe o agendamento. Um ciclo em andamento termina normalmente.
func (m *Monitor) Stop() {
	if m.cron != nil {
		<-m.cron.Stop().Done()
	}
}

func (m *Monitor) runScheduled() {
	if _, err := m.RunNow(); errors.Is(err, ErrCycleRunning) {
		log.Warn("Ciclo agendado ignorado: o ciclo anterior ainda está em execução")
	}
}

// RunNow executa um ciclo completo imediatamente. Se um ciclo já estiver em
// andamento, retorna ErrCycleRunning sem executar.
func (m *Monitor) RunNow() (models.CycleResult, error) {
	if !m.running.TryLock() {
		return models.CycleResult{}, ErrCycleRunning
	}
	defer m.running.Unlock()

	return m.runCycle(), nil
}

// runCycle percorre todos os produtos sequencialmente, com uma pausa entre
// requisições para não sobrecarregar o site. O registro é persistido uma
// única vez ao final, e só então as quedas são entregues ao notificador.
func (m *Monitor) runCycle() models.CycleResult {
	products := m.store.Products()
	log.Infof("Iniciando ciclo de monitoramento: %d produtos", len(products))

	var result models.CycleResult

	for i := range products {
		if i > 0 && m.itemDelay > 0 {
			time.Sleep(m.itemDelay)
		}

		if drop, errMsg := m.checkProduct(&products[i]); errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
		} else if drop != nil {
			result.Drops = append(result.Drops, *drop)
		}
	}

	if err := m.store.Save(); err != nil {
		log.Errorf("Erro ao persistir o registro: %v", err)
	}

	log.Infof("Ciclo concluído: %d quedas de preço, %d erros", len(result.Drops), len(result.Errors))

	m.notifier.Notify(result.Drops, m.store.Chats())

	return result
}

// checkProduct verifica um único produto. Erros de scraping atualizam apenas
// o lastChecked e nunca removem o produto do registro.
func (m *Monitor) checkProduct(p *models.Product) (*models.DropEvent, string) {
	// Reescrever a chave do registro se a forma canônica da URL mudou;
	// a antiga é apagada na mesma operação para não duplicar o produto
	if canonical := scraper.CanonicalURL(p.URL); canonical != p.URL {
		m.store.Rename(p.URL, canonical)
		p.URL = canonical
	}

	snapshot, err := m.scraper.Scrape(p.URL)
	now := time.Now()

	if err != nil {
		log.Warnf("Erro ao verificar %s: %v", p.URL, err)
		p.LastChecked = now
		if !m.store.Replace(p) {
			log.Infof("Produto removido durante o ciclo, ignorando: %s", p.URL)
			return nil, ""
		}
		return nil, fmt.Sprintf("%s: %v", p.URL, err)
	}

	previousPrice := p.Price

	if snapshot.Price < p.LowestPrice {
		p.LowestPrice = snapshot.Price
	}
	p.AppendHistory(models.PriceSample{Timestamp: now, Price: snapshot.Price}, m.historyLimit)

	// Sempre atualizar o registro, mesmo sem queda: o preço armazenado é a
	// base de comparação do próximo ciclo. Título e imagem nunca são
	// apagados por uma extração que não os encontrou.
	p.Price = snapshot.Price
	if snapshot.Title != "" {
		p.Title = snapshot.Title
	}
	if snapshot.ImageURL != "" {
		p.ImageURL = snapshot.ImageURL
	}
	p.LastChecked = now
	if !m.store.Replace(p) {
		// Removido por um comando enquanto o ciclo rodava; a escrita a
		// partir do snapshot antigo ressuscitaria o produto
		log.Infof("Produto removido durante o ciclo, ignorando: %s", p.URL)
		return nil, ""
	}

	// Queda exige preço estritamente menor; igual ou maior não notifica
	if snapshot.Price < previousPrice {
		return &models.DropEvent{
			ProductURL:    p.URL,
			Title:         p.Title,
			PreviousPrice: previousPrice,
			NewPrice:      snapshot.Price,
			LowestPrice:   p.LowestPrice,
			ImageURL:      p.ImageURL,
		}, ""
	}
	return nil, ""
}

// AddProduct passa a monitorar uma nova URL. A página é verificada antes de
// persistir: só entra no registro um produto com título e preço válidos.
func (m *Monitor) AddProduct(rawURL, addedBy string) (*models.Product, error) {
	url := scraper.CanonicalURL(rawURL)

	if m.store.Get(url) != nil {
		return nil, ErrAlreadyTracked
	}

	snapshot, err := m.scraper.Scrape(url)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	p := &models.Product{
		URL:         url,
		Title:       snapshot.Title,
		Price:       snapshot.Price,
		LowestPrice: snapshot.Price,
		ImageURL:    snapshot.ImageURL,
		History:     []models.PriceSample{{Timestamp: now, Price: snapshot.Price}},
		AddedDate:   now,
		AddedBy:     addedBy,
		LastChecked: now,
	}

	m.store.Upsert(p)
	if err := m.store.Save(); err != nil {
		log.Errorf("Erro ao persistir o registro: %v", err)
	}

	log.Infof("Produto adicionado: %s (R$ %.2f)", p.URL, p.Price)
	return p, nil
}

// RemoveProduct deixa de monitorar uma URL e indica se ela estava registrada
func (m *Monitor) RemoveProduct(rawURL string) bool {
	url := scraper.CanonicalURL(rawURL)

	if !m.store.Remove(url) {
		return false
	}
	if err := m.store.Save(); err != nil {
		log.Errorf("Erro ao persistir o registro: %v", err)
	}

	log.Infof("Produto removido: %s", url)
	return true
}

// EditProduct substitui a URL de um produto monitorado. A nova página é
// verificada antes da troca; em caso de falha o produto original permanece
// intacto. A linha do tempo recomeça com o preço da nova página.
func (m *Monitor) EditProduct(oldRawURL, newRawURL string) (*models.Product, error) {
	oldURL := scraper.CanonicalURL(oldRawURL)
	newURL := scraper.CanonicalURL(newRawURL)

	existing := m.store.Get(oldURL)
	if existing == nil {
		return nil, ErrNotTracked
	}

	snapshot, err := m.scraper.Scrape(newURL)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	p := &models.Product{
		URL:         newURL,
		Title:       snapshot.Title,
		Price:       snapshot.Price,
		LowestPrice: snapshot.Price,
		ImageURL:    snapshot.ImageURL,
		History:     []models.PriceSample{{Timestamp: now, Price: snapshot.Price}},
		AddedDate:   existing.AddedDate,
		AddedBy:     existing.AddedBy,
		LastChecked: now,
	}

	m.store.Remove(oldURL)
	m.store.Upsert(p)
	if err := m.store.Save(); err != nil {
		log.Errorf("Erro ao persistir o registro: %v", err)
	}

	log.Infof("Produto editado: %s -> %s", oldURL, newURL)
	return p, nil
}

// ListProducts retorna todos os produtos monitorados
func (m *Monitor) ListProducts() []models.Product {
	return m.store.Products()
}

// RegisterRecipient registra um chat como destinatário de notificações.
// Chats já conhecidos não provocam nova escrita em disco.
func (m *Monitor) RegisterRecipient(chatID int64) {
	if m.store.RegisterChat(chatID) {
		if err := m.store.Save(); err != nil {
			log.Errorf("Erro ao persistir o registro: %v", err)
		}
	}
}
