package usecase

import (
	"context"

	"github.com/yourusername/whatsapp-order-bot/internal/domain/constants"
	"github.com/yourusername/whatsapp-order-bot/internal/domain/entity"
	"github.com/yourusername/whatsapp-order-bot/internal/domain/repository"
)

// OrderUseCase expõe as operações do bot para as camadas de entrega
type OrderUseCase interface {
	ProcessMessage(ctx context.Context, userID, text string) Result
	FetchPendingMessage(userID string) (string, bool)
	GetCurrentOrders(userID string) map[string]int
	GetConfirmedOrders(userID string) []map[string]int
	GetPendingOrders(userID string) []map[string]int
	GetGlobalOrders(ctx context.Context, userID string) (entity.GlobalOrders, error)
	ConfirmAutoOrder(ctx context.Context, userID, orderGroup string) error
	DeleteAutoOrder(ctx context.Context, userID, orderGroup string) error
	ResetSession(userID string)
	SessionState(userID string) string
	SessionReminderCount(userID string) int
}

type orderUseCase struct {
	registry *SessionRegistry
	repo     repository.OrderRepository
}

// NewOrderUseCase cria o caso de uso sobre o registro de sessões e o
// repositório de pedidos
func NewOrderUseCase(registry *SessionRegistry, repo repository.OrderRepository) OrderUseCase {
	return &orderUseCase{registry: registry, repo: repo}
}

func (u *orderUseCase) ProcessMessage(ctx context.Context, userID, text string) Result {
	return u.registry.GetOrCreate(userID).ProcessMessage(ctx, text)
}

func (u *orderUseCase) FetchPendingMessage(userID string) (string, bool) {
	s, ok := u.registry.Get(userID)
	if !ok {
		return "", false
	}
	return s.FetchPendingMessage()
}

func (u *orderUseCase) GetCurrentOrders(userID string) map[string]int {
	return u.registry.GetOrCreate(userID).CurrentOrders()
}

func (u *orderUseCase) GetConfirmedOrders(userID string) []map[string]int {
	return u.registry.GetOrCreate(userID).ConfirmedOrders()
}

func (u *orderUseCase) GetPendingOrders(userID string) []map[string]int {
	return u.registry.GetOrCreate(userID).PendingOrders()
}

// GetGlobalOrders junta o agregado do grupo principal com os grupos
// auto-confirmados pendentes de revisão
func (u *orderUseCase) GetGlobalOrders(ctx context.Context, userID string) (entity.GlobalOrders, error) {
	main, err := u.repo.QueryAggregated(ctx, userID, entity.StatusConfirmed, constants.MainOrderGroup)
	if err != nil {
		return entity.GlobalOrders{}, err
	}
	auto, err := u.repo.ListGroups(ctx, userID, entity.StatusAutoConfirmed)
	if err != nil {
		return entity.GlobalOrders{}, err
	}
	return entity.GlobalOrders{MainOrders: main, AutoOrders: auto}, nil
}

func (u *orderUseCase) ConfirmAutoOrder(ctx context.Context, userID, orderGroup string) error {
	return u.repo.PromoteGroup(ctx, userID, orderGroup)
}

func (u *orderUseCase) DeleteAutoOrder(ctx context.Context, userID, orderGroup string) error {
	return u.repo.DeleteGroup(ctx, userID, orderGroup)
}

func (u *orderUseCase) ResetSession(userID string) {
	u.registry.GetOrCreate(userID).StartNewConversation()
}

func (u *orderUseCase) SessionState(userID string) string {
	return u.registry.GetOrCreate(userID).CurrentState()
}

func (u *orderUseCase) SessionReminderCount(userID string) int {
	return u.registry.GetOrCreate(userID).ReminderCount()
}
