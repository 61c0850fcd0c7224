package telegram

import (
	"context"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/yourusername/whatsapp-order-bot/internal/usecase"
	"github.com/yourusername/whatsapp-order-bot/pkg/logger"
)

const outgoingPollInterval = time.Second

// BotHandler liga o bot de pedidos ao Telegram. Cada chat privado vira
// um usuário do registro de sessões; as mensagens assíncronas da fila
// (resumo, lembretes) são entregues por um poller.
type BotHandler struct {
	bot          *tgbotapi.BotAPI
	orderUseCase usecase.OrderUseCase
}

// NewBotHandler autentica no Telegram e devolve o handler
func NewBotHandler(token string, orderUseCase usecase.OrderUseCase) (*BotHandler, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &BotHandler{bot: bot, orderUseCase: orderUseCase}, nil
}

// BotUsername devolve o username autenticado
func (h *BotHandler) BotUsername() string {
	return h.bot.Self.UserName
}

// Start consome as atualizações até o contexto ser cancelado
func (h *BotHandler) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			h.bot.StopReceivingUpdates()
			return ctx.Err()
		case update := <-updates:
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			go h.handleMessage(ctx, update.Message)
		}
	}
}

func (h *BotHandler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	userID := strconv.FormatInt(message.Chat.ID, 10)

	result := h.orderUseCase.ProcessMessage(ctx, userID, message.Text)
	if result.Message != "" {
		h.sendMessage(message.Chat.ID, result.Message)
	}
}

// StartOutgoingPoller drena as filas das sessões conhecidas e repassa
// as mensagens aos chats correspondentes
func (h *BotHandler) StartOutgoingPoller(ctx context.Context, registry *usecase.SessionRegistry) {
	ticker := time.NewTicker(outgoingPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			registry.Range(func(userID string, session *usecase.OrderSession) {
				chatID, err := strconv.ParseInt(userID, 10, 64)
				if err != nil {
					return
				}
				for {
					msg, ok := session.FetchPendingMessage()
					if !ok {
						break
					}
					h.sendMessage(chatID, msg)
				}
			})
		}
	}
}

func (h *BotHandler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := h.bot.Send(msg); err != nil {
		logger.ErrorLogger.Printf("telegram: falha ao enviar para %d: %v", chatID, err)
	}
}
