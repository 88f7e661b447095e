package notifier

import (
	"errors"
	"testing"

	"bot-ofertas/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSender grava o que foi enviado e pode falhar para chats escolhidos
type fakeSender struct {
	sent     []tgbotapi.Chattable
	failFor  map[int64]bool
	failAll  bool
	attempts int
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.attempts++
	if f.failAll || f.failFor[chatIDOf(c)] {
		return tgbotapi.Message{}, errors.New("falha simulada de envio")
	}
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func chatIDOf(c tgbotapi.Chattable) int64 {
	switch m := c.(type) {
	case tgbotapi.MessageConfig:
		return m.ChatID
	case tgbotapi.PhotoConfig:
		return m.ChatID
	}
	return 0
}

func sampleDrop() models.DropEvent {
	return models.DropEvent{
		ProductURL:    "https://x.com/dp/ABC",
		Title:         "Produto de Teste",
		PreviousPrice: 100,
		NewPrice:      80,
		LowestPrice:   75,
	}
}

func TestNotify(t *testing.T) {
	t.Run("envia um par (queda, destinatário) por mensagem", func(t *testing.T) {
		sender := &fakeSender{}
		n := New(sender, 0)

		drops := []models.DropEvent{sampleDrop(), sampleDrop()}
		n.Notify(drops, []int64{1, 2, 3})

		assert.Len(t, sender.sent, 6, "2 quedas x 3 chats")
	})

	t.Run("mensagem traz os valores calculados", func(t *testing.T) {
		sender := &fakeSender{}
		n := New(sender, 0)

		n.Notify([]models.DropEvent{sampleDrop()}, []int64{1})

		require.Len(t, sender.sent, 1)
		msg, ok := sender.sent[0].(tgbotapi.MessageConfig)
		require.True(t, ok, "queda sem imagem vira mensagem de texto")

		assert.Contains(t, msg.Text, "Produto de Teste")
		assert.Contains(t, msg.Text, "R$ 100.00", "preço anterior")
		assert.Contains(t, msg.Text, "R$ 80.00", "preço atual")
		assert.Contains(t, msg.Text, "R$ 20.00", "economia absoluta")
		assert.Contains(t, msg.Text, "20.0%", "economia percentual")
		assert.Contains(t, msg.Text, "R$ 75.00", "menor preço histórico")
		assert.Contains(t, msg.Text, "https://x.com/dp/ABC")
	})

	t.Run("queda com imagem vira foto com legenda", func(t *testing.T) {
		sender := &fakeSender{}
		n := New(sender, 0)

		drop := sampleDrop()
		drop.ImageURL = "https://x.com/img.jpg"
		n.Notify([]models.DropEvent{drop}, []int64{1})

		require.Len(t, sender.sent, 1)
		photo, ok := sender.sent[0].(tgbotapi.PhotoConfig)
		require.True(t, ok)
		assert.Contains(t, photo.Caption, "R$ 80.00")
	})

	t.Run("falha em um destinatário não interrompe os demais", func(t *testing.T) {
		sender := &fakeSender{failFor: map[int64]bool{2: true}}
		n := New(sender, 0)

		n.Notify([]models.DropEvent{sampleDrop()}, []int64{1, 2, 3})

		require.Len(t, sender.sent, 2)
		assert.Equal(t, int64(1), chatIDOf(sender.sent[0]))
		assert.Equal(t, int64(3), chatIDOf(sender.sent[1]))
	})

	t.Run("título com HTML é escapado", func(t *testing.T) {
		sender := &fakeSender{}
		n := New(sender, 0)

		drop := sampleDrop()
		drop.Title = "Cabo <USB> & Adaptador"
		n.Notify([]models.DropEvent{drop}, []int64{1})

		require.Len(t, sender.sent, 1)
		msg := sender.sent[0].(tgbotapi.MessageConfig)
		assert.Contains(t, msg.Text, "Cabo &lt;USB&gt; &amp; Adaptador")
	})

	t.Run("sem quedas ou sem destinatários não envia nada", func(t *testing.T) {
		sender := &fakeSender{}
		n := New(sender, 0)

		n.Notify(nil, []int64{1})
		n.Notify([]models.DropEvent{sampleDrop()}, nil)

		assert.Zero(t, sender.attempts)
	})
}
