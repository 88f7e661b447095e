package notifier

import (
	"fmt"
	"strings"
	"time"

	"bot-ofertas/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// Sender é o que o notificador precisa do canal de mensagens.
// *tgbotapi.BotAPI satisfaz a interface.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier distribui quedas de preço para todos os chats conhecidos
type Notifier struct {
	sender Sender
	delay  time.Duration
}

// New cria um notificador com o intervalo entre envios informado.
// O intervalo respeita o rate limit do Telegram.
func New(sender Sender, delay time.Duration) *Notifier {
	return &Notifier{sender: sender, delay: delay}
}

// Notify envia cada queda de preço para cada destinatário, sequencialmente.
// Falha em um envio é registrada e não interrompe os demais.
func (n *Notifier) Notify(drops []models.DropEvent, chats []int64) {
	if len(drops) == 0 || len(chats) == 0 {
		return
	}

	first := true
	for _, drop := range drops {
		text := formatDrop(drop)

		for _, chatID := range chats {
			if !first && n.delay > 0 {
				time.Sleep(n.delay)
			}
			first = false

			if err := n.send(chatID, drop, text); err != nil {
				log.Errorf("Erro ao notificar chat %d sobre %s: %v", chatID, drop.ProductURL, err)
				continue
			}
		}
	}
}

// send envia a notificação como foto com legenda quando o produto tem
// imagem, ou como mensagem de texto caso contrário
func (n *Notifier) send(chatID int64, drop models.DropEvent, text string) error {
	if drop.ImageURL != "" {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(drop.ImageURL))
		photo.Caption = text
		photo.ParseMode = tgbotapi.ModeHTML
		if _, err := n.sender.Send(photo); err == nil {
			return nil
		}
		// Se a foto falhar (imagem indisponível, por exemplo), tentar
		// como mensagem de texto antes de desistir deste destinatário
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := n.sender.Send(msg)
	return err
}

// formatDrop monta a mensagem de queda de preço. Todos os valores vêm do
// evento; nada é rebuscado na página.
func formatDrop(drop models.DropEvent) string {
	var b strings.Builder

	b.WriteString("📉 <b>QUEDA DE PREÇO!</b>\n\n")
	fmt.Fprintf(&b, "<b>%s</b>\n\n", escapeHTML(drop.Title))
	fmt.Fprintf(&b, "Preço anterior: R$ %.2f\n", drop.PreviousPrice)
	fmt.Fprintf(&b, "Preço atual: <b>R$ %.2f</b>\n", drop.NewPrice)
	fmt.Fprintf(&b, "Economia: R$ %.2f (%.1f%%)\n", drop.Savings(), drop.Percentage())
	fmt.Fprintf(&b, "Menor preço histórico: R$ %.2f\n", drop.LowestPrice)
	fmt.Fprintf(&b, "\n%s", drop.ProductURL)

	return b.String()
}

// escapeHTML escapa caracteres especiais do HTML
func escapeHTML(text string) string {
	text = strings.ReplaceAll(text, "&", "&amp;")
	text = strings.ReplaceAll(text, "<", "&lt;")
	text = strings.ReplaceAll(text, ">", "&gt;")
	return text
}
