package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"bot-ofertas/internal/monitor"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// escapeHTML escapa caracteres especiais do HTML
func escapeHTML(text string) string {
	text = strings.ReplaceAll(text, "&", "&amp;")
	text = strings.ReplaceAll(text, "<", "&lt;")
	text = strings.ReplaceAll(text, ">", "&gt;")
	return text
}

// SetupCommands processa os comandos do bot em loop. Todo chat que interage
// é registrado como destinatário das notificações de queda de preço.
func SetupCommands(bot *tgbotapi.BotAPI, mon *monitor.Monitor, authorizedChatID int64) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}

		text := update.Message.Text
		if text == "" {
			continue
		}

		// Extrair comando (remover @botname se presente e pegar apenas o comando)
		parts := strings.Fields(text)
		if len(parts) == 0 {
			continue
		}

		command := strings.ToLower(parts[0])
		if idx := strings.Index(command, "@"); idx > 0 {
			command = command[:idx]
		}

		// Comandos públicos (não precisam de autorização)
		isPublicCommand := command == "/start" || command == "/help"

		// Verificar autorização se configurado (exceto para comandos públicos)
		if !isPublicCommand && authorizedChatID != 0 && update.Message.Chat.ID != authorizedChatID {
			msg := tgbotapi.NewMessage(update.Message.Chat.ID, "Você não está autorizado a usar este bot.")
			bot.Send(msg)
			continue
		}

		// Todo chat que interage passa a receber as notificações
		mon.RegisterRecipient(update.Message.Chat.ID)

		switch command {
		case "/start", "/help":
			handleHelp(bot, update.Message.Chat.ID)
		case "/add":
			handleAddProduct(bot, update.Message, mon)
		case "/list":
			handleListProducts(bot, update.Message.Chat.ID, mon)
		case "/remove":
			handleRemoveProduct(bot, update.Message, mon)
		case "/edit":
			handleEditProduct(bot, update.Message, mon)
		case "/check":
			handleRunCycle(bot, update.Message.Chat.ID, mon)
		default:
			msg := tgbotapi.NewMessage(update.Message.Chat.ID, "Comando não reconhecido. Use /help para ver os comandos disponíveis.")
			bot.Send(msg)
		}
	}
}

func handleHelp(bot *tgbotapi.BotAPI, chatID int64) {
	helpText := `🤖 <b>Bot de Monitoramento de Ofertas</b>

Acompanho os preços dos produtos que você adicionar e aviso quando um deles cair.

<b>Comandos disponíveis:</b>

<b>/add &lt;URL&gt;</b> - Adicionar produto para monitorar
Exemplo: /add https://mercadolivre.com.br/produto

<b>/list</b> - Listar os produtos monitorados

<b>/remove &lt;URL&gt;</b> - Remover produto do monitoramento

<b>/edit &lt;URL antiga&gt; &lt;URL nova&gt;</b> - Trocar a URL de um produto

<b>/check</b> - Verificar todos os produtos agora

<b>/help</b> - Mostrar esta mensagem de ajuda
`

	msg := tgbotapi.NewMessage(chatID, helpText)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := bot.Send(msg); err != nil {
		log.Errorf("Erro ao enviar mensagem de ajuda: %v", err)
		// Tentar sem formatação se houver erro
		msg.ParseMode = ""
		bot.Send(msg)
	}
}

func handleAddProduct(bot *tgbotapi.BotAPI, message *tgbotapi.Message, mon *monitor.Monitor) {
	parts := strings.Fields(message.Text)
	if len(parts) < 2 {
		msg := tgbotapi.NewMessage(message.Chat.ID, "❌ Formato incorreto.\n\nUso: /add <URL>\n\nExemplo: /add https://mercadolivre.com.br/produto")
		bot.Send(msg)
		return
	}

	addedBy := strconv.FormatInt(message.Chat.ID, 10)
	product, err := mon.AddProduct(parts[1], addedBy)
	if err != nil {
		if errors.Is(err, monitor.ErrAlreadyTracked) {
			msg := tgbotapi.NewMessage(message.Chat.ID, "❌ Este produto já está sendo monitorado.")
			bot.Send(msg)
			return
		}
		// Não expor detalhes internos do erro ao usuário
		log.Warnf("Erro ao adicionar produto %s: %v", parts[1], err)
		msg := tgbotapi.NewMessage(message.Chat.ID, "❌ Não foi possível obter as informações do produto. Verifique a URL e tente novamente.")
		bot.Send(msg)
		return
	}

	response := fmt.Sprintf(
		"✅ Produto adicionado com sucesso!\n\n"+
			"📦 %s\n"+
			"💰 Preço atual: R$ %.2f\n"+
			"🔗 %s",
		escapeHTML(product.Title), product.Price, product.URL,
	)

	msg := tgbotapi.NewMessage(message.Chat.ID, response)
	msg.ParseMode = tgbotapi.ModeHTML
	bot.Send(msg)
}

func handleListProducts(bot *tgbotapi.BotAPI, chatID int64, mon *monitor.Monitor) {
	products := mon.ListProducts()

	if len(products) == 0 {
		msg := tgbotapi.NewMessage(chatID, "📋 Nenhum produto sendo monitorado no momento.")
		bot.Send(msg)
		return
	}

	var response strings.Builder
	response.WriteString("📋 <b>Produtos em Monitoramento:</b>\n\n")

	for _, p := range products {
		response.WriteString(fmt.Sprintf("📦 %s\n", escapeHTML(p.Title)))
		response.WriteString(fmt.Sprintf("💰 <b>Preço atual: R$ %.2f</b>\n", p.Price))
		response.WriteString(fmt.Sprintf("📉 Menor preço histórico: R$ %.2f\n", p.LowestPrice))

		if !p.LastChecked.IsZero() {
			response.WriteString(fmt.Sprintf("🕐 Última verificação: %s\n", p.LastChecked.Format("02/01/2006 15:04")))
		} else {
			response.WriteString("🕐 Última verificação: Nunca\n")
		}

		response.WriteString(fmt.Sprintf("🔗 %s\n\n", p.URL))
	}

	msg := tgbotapi.NewMessage(chatID, response.String())
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := bot.Send(msg); err != nil {
		log.Errorf("Erro ao enviar lista de produtos: %v", err)
		msg.ParseMode = ""
		bot.Send(msg)
	}
}

func handleRemoveProduct(bot *tgbotapi.BotAPI, message *tgbotapi.Message, mon *monitor.Monitor) {
	parts := strings.Fields(message.Text)
	if len(parts) < 2 {
		msg := tgbotapi.NewMessage(message.Chat.ID, "❌ Formato incorreto.\n\nUso: /remove <URL>")
		bot.Send(msg)
		return
	}

	if !mon.RemoveProduct(parts[1]) {
		msg := tgbotapi.NewMessage(message.Chat.ID, "❌ Produto não encontrado no monitoramento. Use /list para ver os produtos.")
		bot.Send(msg)
		return
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, "✅ Produto removido do monitoramento.")
	bot.Send(msg)
}

func handleEditProduct(bot *tgbotapi.BotAPI, message *tgbotapi.Message, mon *monitor.Monitor) {
	parts := strings.Fields(message.Text)
	if len(parts) < 3 {
		msg := tgbotapi.NewMessage(message.Chat.ID, "❌ Formato incorreto.\n\nUso: /edit <URL antiga> <URL nova>")
		bot.Send(msg)
		return
	}

	product, err := mon.EditProduct(parts[1], parts[2])
	if err != nil {
		if errors.Is(err, monitor.ErrNotTracked) {
			msg := tgbotapi.NewMessage(message.Chat.ID, "❌ Produto não encontrado no monitoramento. Use /list para ver os produtos.")
			bot.Send(msg)
			return
		}
		log.Warnf("Erro ao editar produto %s: %v", parts[1], err)
		msg := tgbotapi.NewMessage(message.Chat.ID, "❌ Não foi possível obter as informações do produto na nova URL. O produto original foi mantido.")
		bot.Send(msg)
		return
	}

	response := fmt.Sprintf(
		"✅ Produto atualizado!\n\n"+
			"📦 %s\n"+
			"💰 Preço atual: R$ %.2f\n"+
			"🔗 %s",
		escapeHTML(product.Title), product.Price, product.URL,
	)

	msg := tgbotapi.NewMessage(message.Chat.ID, response)
	msg.ParseMode = tgbotapi.ModeHTML
	bot.Send(msg)
}

func handleRunCycle(bot *tgbotapi.BotAPI, chatID int64, mon *monitor.Monitor) {
	msg := tgbotapi.NewMessage(chatID, "🔍 Verificando todos os produtos...")
	bot.Send(msg)

	result, err := mon.RunNow()
	if err != nil {
		if errors.Is(err, monitor.ErrCycleRunning) {
			msg := tgbotapi.NewMessage(chatID, "⏳ Uma verificação já está em andamento. Aguarde ela terminar.")
			bot.Send(msg)
			return
		}
		log.Errorf("Erro ao executar ciclo manual: %v", err)
		msg := tgbotapi.NewMessage(chatID, "❌ Erro ao verificar os produtos.")
		bot.Send(msg)
		return
	}

	summary := fmt.Sprintf("✅ Verificação concluída: %d queda(s) de preço detectada(s)", len(result.Drops))
	if len(result.Errors) > 0 {
		summary += fmt.Sprintf(", %d produto(s) não puderam ser verificados", len(result.Errors))
	}

	bot.Send(tgbotapi.NewMessage(chatID, summary))
}
