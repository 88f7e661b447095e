package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"bot-ofertas/internal/models"

	log "github.com/sirupsen/logrus"
)

// snapshot é o formato do arquivo de persistência: um único documento com
// os produtos monitorados e os chats conhecidos, sempre gravado por inteiro
type snapshot struct {
	Products map[string]*models.Product `json:"products"`
	Chats    []int64                    `json:"chats"`
}

// Store é o registro persistido de produtos e destinatários. Todo o estado
// mutável do processo vive aqui, protegido por um único mutex; a persistência
// é um snapshot atômico do documento completo.
type Store struct {
	mu       sync.Mutex
	path     string
	products map[string]*models.Product
	chats    map[int64]bool
}

// New cria um store vazio associado ao arquivo informado
func New(path string) *Store {
	return &Store{
		path:     path,
		products: make(map[string]*models.Product),
		chats:    make(map[int64]bool),
	}
}

// Load carrega o snapshot do disco. Arquivo ausente ou corrompido não é
// erro: o monitoramento recomeça de um estado vazio.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warnf("Erro ao ler o arquivo de dados %s: %v. Iniciando com estado vazio", s.path, err)
		}
		return
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		log.Warnf("Arquivo de dados %s corrompido: %v. Iniciando com estado vazio", s.path, err)
		return
	}

	if snap.Products != nil {
		// Um JSON válido ainda pode trazer entradas nulas; elas são
		// descartadas aqui para nunca entrarem no registro
		for url, p := range snap.Products {
			if p == nil {
				log.Warnf("Entrada nula ignorada no arquivo de dados: %s", url)
				delete(snap.Products, url)
			}
		}
		s.products = snap.Products
	}
	for _, chat := range snap.Chats {
		s.chats[chat] = true
	}

	log.Infof("Dados carregados: %d produtos, %d chats", len(s.products), len(s.chats))
}

// Save grava o snapshot completo no disco. A escrita é feita em um arquivo
// temporário seguida de rename, para nunca deixar um snapshot parcial.
// Em caso de falha o estado em memória continua sendo a fonte de verdade
// até o próximo save bem sucedido.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := snapshot{
		Products: s.products,
		Chats:    s.chatList(),
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("erro ao serializar dados: %w", err)
	}

	tmp := s.path + ".tmp"
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("erro ao criar diretório de dados: %w", err)
		}
	}
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("erro ao gravar arquivo de dados: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("erro ao substituir arquivo de dados: %w", err)
	}

	return nil
}

// Get retorna o produto sob a chave informada, ou nil
func (s *Store) Get(url string) *models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.products[url]; ok {
		return cloneProduct(p)
	}
	return nil
}

// Upsert insere ou substitui o produto sob sua URL canônica
func (s *Store) Upsert(p *models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products[p.URL] = cloneProduct(p)
}

// cloneProduct copia o produto incluindo o histórico, para que chamadores
// não compartilhem o slice interno do registro
func cloneProduct(p *models.Product) *models.Product {
	clone := *p
	if p.History != nil {
		clone.History = make([]models.PriceSample, len(p.History))
		copy(clone.History, p.History)
	}
	return &clone
}

// Replace substitui o produto apenas se a chave ainda existir, e indica se
// a escrita aconteceu. Um ciclo em andamento usa isso para não ressuscitar
// um produto removido depois que o ciclo tirou seu snapshot.
func (s *Store) Replace(p *models.Product) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[p.URL]; !ok {
		return false
	}
	s.products[p.URL] = cloneProduct(p)
	return true
}

// Remove apaga o produto sob a chave informada e indica se ele existia
func (s *Store) Remove(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[url]; !ok {
		return false
	}
	delete(s.products, url)
	return true
}

// Rename move um produto para uma nova chave canônica, apagando a antiga.
// Histórico e menor preço são preservados; a operação é atômica em memória
// e só chega ao disco no próximo Save.
func (s *Store) Rename(oldURL, newURL string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[oldURL]
	if !ok || oldURL == newURL {
		return
	}
	delete(s.products, oldURL)
	p.URL = newURL
	s.products[newURL] = p
}

// Products retorna uma cópia de todos os produtos monitorados, ordenados
// por URL para saída estável
func (s *Store) Products() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	products := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, *cloneProduct(p))
	}
	sort.Slice(products, func(i, j int) bool { return products[i].URL < products[j].URL })
	return products
}

// Len retorna o número de produtos monitorados
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.products)
}

// RegisterChat adiciona um chat ao conjunto de destinatários e indica se
// ele ainda não era conhecido. A associação nunca é removida automaticamente.
func (s *Store) RegisterChat(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.chats[chatID] {
		return false
	}
	s.chats[chatID] = true
	return true
}

// Chats retorna os destinatários conhecidos em ordem estável
func (s *Store) Chats() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chatList()
}

func (s *Store) chatList() []int64 {
	chats := make([]int64, 0, len(s.chats))
	for chat := range s.chats {
		chats = append(chats, chat)
	}
	sort.Slice(chats, func(i, j int) bool { return chats[i] < chats[j] })
	return chats
}
