package main

import (
	"os"
	"os/signal"
	"syscall"

	"bot-ofertas/config"
	"bot-ofertas/internal/bot"
	"bot-ofertas/internal/logging"
	"bot-ofertas/internal/monitor"
	"bot-ofertas/internal/notifier"
	"bot-ofertas/internal/scraper"
	"bot-ofertas/internal/store"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	// Carregar variáveis de ambiente
	if err := godotenv.Load(); err != nil {
		log.Info("Arquivo .env não encontrado, usando variáveis de ambiente do sistema")
	}

	// Carregar configurações
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Erro ao carregar configurações: %v", err)
	}

	// Configurar logging
	logCloser := logging.Setup(cfg.Debug, cfg.LogDir)
	defer logCloser.Close()

	// Carregar o registro de produtos e destinatários
	st := store.New(cfg.StorePath)
	st.Load()

	// Inicializar bot do Telegram
	telegramBot, err := bot.Init(cfg.TelegramBotToken)
	if err != nil {
		log.Fatalf("Erro ao inicializar bot do Telegram: %v", err)
	}

	// Montar o pipeline de monitoramento
	sc := scraper.NewHTTPScraper(cfg.RequestTimeout, cfg.SettleDelay)
	nt := notifier.New(telegramBot, cfg.NotifyDelay)
	mon := monitor.New(st, sc, nt, cfg.ItemDelay, cfg.HistoryLimit)

	// Iniciar o monitoramento agendado
	if err := mon.Start(cfg.MonitorCron); err != nil {
		log.Fatalf("Erro ao iniciar o monitoramento: %v", err)
	}
	defer mon.Stop()

	// Processar comandos do bot em background
	go bot.SetupCommands(telegramBot, mon, cfg.TelegramChatID)

	// Aguardar sinal de interrupção
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("Encerrando bot...")
}
