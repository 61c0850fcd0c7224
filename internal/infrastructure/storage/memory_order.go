package storage

import (
	"context"
	"sync"
	"time"

	"github.com/yourusername/whatsapp-order-bot/internal/domain/constants"
	"github.com/yourusername/whatsapp-order-bot/internal/domain/entity"
	"github.com/yourusername/whatsapp-order-bot/internal/domain/repository"
)

type orderRow struct {
	userID     string
	sessionID  string
	product    string
	quantity   int
	status     entity.OrderStatus
	orderGroup string
	createdAt  time.Time
}

// MemoryOrderRepository guarda os pedidos em memória. Serve de reserva
// quando não há banco configurado e é usado nos testes.
type MemoryOrderRepository struct {
	mu   sync.RWMutex
	rows []orderRow
}

// NewMemoryOrderRepository cria o repositório em memória vazio
func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{}
}

func (r *MemoryOrderRepository) Save(ctx context.Context, userID, sessionID string, items map[string]int, status entity.OrderStatus, orderGroup string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for product, qty := range items {
		if qty <= 0 {
			continue
		}
		r.rows = append(r.rows, orderRow{
			userID:     userID,
			sessionID:  sessionID,
			product:    product,
			quantity:   qty,
			status:     status,
			orderGroup: orderGroup,
			createdAt:  now,
		})
	}
	return nil
}

func (r *MemoryOrderRepository) QueryAggregated(ctx context.Context, userID string, status entity.OrderStatus, orderGroup string) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	totals := make(map[string]int)
	for _, row := range r.rows {
		if row.userID == userID && row.status == status && row.orderGroup == orderGroup {
			totals[row.product] += row.quantity
		}
	}
	return totals, nil
}

func (r *MemoryOrderRepository) ListGroups(ctx context.Context, userID string, status entity.OrderStatus) (map[string]map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	groups := make(map[string]map[string]int)
	for _, row := range r.rows {
		if row.userID != userID || row.status != status || row.orderGroup == constants.MainOrderGroup {
			continue
		}
		if groups[row.orderGroup] == nil {
			groups[row.orderGroup] = make(map[string]int)
		}
		groups[row.orderGroup][row.product] += row.quantity
	}
	return groups, nil
}

func (r *MemoryOrderRepository) PromoteGroup(ctx context.Context, userID, orderGroup string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].userID == userID && r.rows[i].orderGroup == orderGroup {
			r.rows[i].status = entity.StatusConfirmed
			r.rows[i].orderGroup = constants.MainOrderGroup
		}
	}
	return nil
}

func (r *MemoryOrderRepository) DeleteGroup(ctx context.Context, userID, orderGroup string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.userID == userID && row.orderGroup == orderGroup {
			continue
		}
		kept = append(kept, row)
	}
	r.rows = kept
	return nil
}

var _ repository.OrderRepository = (*MemoryOrderRepository)(nil)
