package entity

// CatalogEntry um item do catálogo com a quantidade acumulada na conversa atual
type CatalogEntry struct {
	Name     string
	Quantity int
}

// ParsedOrderLine uma associação produto/quantidade extraída de uma mensagem
type ParsedOrderLine struct {
	Product  string
	Quantity int
	Score    float64
}

// OrderStatus status de persistência de um pedido
type OrderStatus string

const (
	// StatusConfirmed pedido confirmado pelo usuário
	StatusConfirmed OrderStatus = "confirmed"

	// StatusAutoConfirmed pedido confirmado automaticamente após os lembretes
	StatusAutoConfirmed OrderStatus = "auto_confirmed"

	// StatusPending pedido aguardando confirmação
	StatusPending OrderStatus = "pending"
)

// GlobalOrders visão agregada dos pedidos de um usuário: os confirmados do
// grupo principal e os grupos auto-confirmados pendentes de revisão
type GlobalOrders struct {
	MainOrders map[string]int            `json:"main_orders"`
	AutoOrders map[string]map[string]int `json:"auto_orders"`
}
