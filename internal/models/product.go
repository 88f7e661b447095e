package models

import "time"

// HistoryLimit é o número máximo de amostras de preço mantidas por produto.
// Amostras mais antigas são descartadas em ordem FIFO.
const HistoryLimit = 120

// PriceSample representa uma observação de preço em um instante
type PriceSample struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
}

// Product representa um produto sendo monitorado, indexado pela URL canônica
type Product struct {
	URL         string        `json:"url"`
	Title       string        `json:"title"`
	Price       float64       `json:"price"`
	LowestPrice float64       `json:"lowestPrice"`
	ImageURL    string        `json:"imageUrl,omitempty"`
	History     []PriceSample `json:"history,omitempty"`
	AddedDate   time.Time     `json:"addedDate"`
	AddedBy     string        `json:"addedBy,omitempty"`
	LastChecked time.Time     `json:"lastChecked"`
}

// AppendHistory adiciona uma amostra ao histórico, descartando as mais
// antigas quando o limite é ultrapassado
func (p *Product) AppendHistory(sample PriceSample, limit int) {
	p.History = append(p.History, sample)
	if limit > 0 && len(p.History) > limit {
		p.History = p.History[len(p.History)-limit:]
	}
}

// Snapshot é o resultado de uma extração bem sucedida de uma página
type Snapshot struct {
	Title    string
	Price    float64
	ImageURL string
}

// DropEvent representa uma queda de preço detectada em um ciclo.
// É transitório: consumido pelo notificador e descartado em seguida.
type DropEvent struct {
	ProductURL    string
	Title         string
	PreviousPrice float64
	NewPrice      float64
	LowestPrice   float64
	ImageURL      string
}

// Savings retorna a economia absoluta em relação ao preço anterior
func (d DropEvent) Savings() float64 {
	return d.PreviousPrice - d.NewPrice
}

// Percentage retorna a economia percentual em relação ao preço anterior
func (d DropEvent) Percentage() float64 {
	if d.PreviousPrice <= 0 {
		return 0
	}
	return d.Savings() / d.PreviousPrice * 100
}

// CycleResult resume um ciclo de monitoramento completo
type CycleResult struct {
	Drops  []DropEvent
	Errors []string
}
