package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/yourusername/whatsapp-order-bot/config"
	"github.com/yourusername/whatsapp-order-bot/internal/delivery/httpapi"
	"github.com/yourusername/whatsapp-order-bot/internal/delivery/telegram"
	"github.com/yourusername/whatsapp-order-bot/internal/infrastructure/storage"
	"github.com/yourusername/whatsapp-order-bot/internal/usecase"
	"github.com/yourusername/whatsapp-order-bot/pkg/logger"
)

func main() {
	logger.Init()
	logger.InfoLogger.Println("🚀 Iniciando o bot de pedidos...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Configuração não carregada: %v", err)
	}

	// Repositório: Postgres quando configurado, memória caso contrário
	repo := storage.NewOrderRepositoryFromEnv()
	logger.InfoLogger.Println("✅ Repositório de pedidos pronto")

	registry := usecase.NewSessionRegistry(usecase.SessionConfig{
		Catalog:           cfg.CatalogProducts,
		InactivityTimeout: cfg.InactivityTimeout,
		ReminderInterval:  cfg.ReminderInterval,
		Repo:              repo,
	})
	orderUseCase := usecase.NewOrderUseCase(registry, repo)
	logger.InfoLogger.Println("✅ Use cases prontos")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server := httpapi.NewServer(cfg.HTTPAddr, httpapi.NewHandler(orderUseCase))
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.ErrorLogger.Printf("❌ Servidor HTTP: %v", err)
		}
	}()

	if token := strings.TrimSpace(cfg.TelegramToken); token != "" {
		botHandler, err := telegram.NewBotHandler(token, orderUseCase)
		if err != nil {
			log.Fatalf("❌ Bot do Telegram não inicializado: %v", err)
		}
		logger.InfoLogger.Printf("✅ Bot do Telegram pronto: @%s", botHandler.BotUsername())
		go func() {
			if err := botHandler.Start(ctx); err != nil && err != context.Canceled {
				logger.ErrorLogger.Printf("❌ Bot do Telegram: %v", err)
			}
		}()
		go botHandler.StartOutgoingPoller(ctx, registry)
	} else {
		logger.InfoLogger.Println("TELEGRAM_BOT_TOKEN ausente, seguindo apenas com a API HTTP")
	}

	logger.InfoLogger.Println("🤖 Bot rodando. Ctrl+C para encerrar.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	logger.InfoLogger.Println("⏳ Sinal de parada recebido...")

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.ErrorLogger.Printf("❌ Encerramento do servidor HTTP: %v", err)
	}
	logger.InfoLogger.Println("✅ Bot encerrado.")
}
