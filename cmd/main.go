package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"agendamed/config"
	"agendamed/internal/app"
	"agendamed/internal/pkg/logger"
)

func main() {
	// 1. Configuração e Inicialização
	log.Println("⚡ Inicializando serviço AgendaMed...")
	// O godotenv.Load() procura por um arquivo .env na raiz; sem ele, vale o ambiente do sistema.
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Configurações carregadas.", map[string]interface{}{"storage": cfg.StorageDriver, "env": cfg.Environment})

	// 2. Montagem: armazenamento, semeadura, cache, serviços e roteador
	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	application, err := app.Build(startCtx, cfg, log)
	cancelStart()
	if err != nil {
		log.Fatal("Falha ao montar a aplicação.", err)
	}
	defer application.Close()

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      application.Handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 3. Execução e Graceful Shutdown
	go func() {
		log.Info("Servidor AgendaMed ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Desligamento do servidor forçado.", err)
	}

	log.Info("Servidor encerrado com sucesso.", nil)
}
