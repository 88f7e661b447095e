package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logFileName = "bot-ofertas.log"

	// Política de rotação dos arquivos de log
	maxSizeMB  = 20
	maxBackups = 5
	maxAgeDays = 30
)

// Setup configura o logger global. Em modo debug os logs vão para o console
// com nível debug; caso contrário são gravados em arquivo com rotação.
// O Closer retornado deve ser fechado no encerramento do processo.
func Setup(debug bool, logDir string) io.Closer {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	if debug {
		log.SetLevel(log.DebugLevel)
		log.SetOutput(os.Stdout)
		return nopCloser{}
	}

	log.SetLevel(log.InfoLevel)

	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Warnf("Erro ao criar diretório de logs %s: %v. Usando somente o console", logDir, err)
		log.SetOutput(os.Stdout)
		return nopCloser{}
	}

	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, logFileName),
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		LocalTime:  true,
	}

	log.SetOutput(io.MultiWriter(os.Stdout, rotator))
	return rotator
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
