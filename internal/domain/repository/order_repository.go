package repository

import (
	"context"

	"github.com/yourusername/whatsapp-order-bot/internal/domain/entity"
)

// OrderRepository contrato de persistência de pedidos. O núcleo grava em
// toda confirmação (normal ou automática) e nunca lê no meio do algoritmo;
// as consultas agregadas servem a camada de API.
type OrderRepository interface {
	// Save persiste as linhas de um pedido com o status e grupo dados
	Save(ctx context.Context, userID, sessionID string, items map[string]int, status entity.OrderStatus, orderGroup string) error

	// QueryAggregated soma as quantidades por produto de um usuário,
	// filtrando por status e grupo
	QueryAggregated(ctx context.Context, userID string, status entity.OrderStatus, orderGroup string) (map[string]int, error)

	// ListGroups devolve os grupos com o status dado, exceto o grupo
	// principal, cada um com seus produtos e quantidades
	ListGroups(ctx context.Context, userID string, status entity.OrderStatus) (map[string]map[string]int, error)

	// PromoteGroup move um grupo auto-confirmado para os pedidos
	// confirmados do grupo principal
	PromoteGroup(ctx context.Context, userID, orderGroup string) error

	// DeleteGroup descarta um grupo auto-confirmado
	DeleteGroup(ctx context.Context, userID, orderGroup string) error
}
