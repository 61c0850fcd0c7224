package usecase

import (
	"sync"

	"github.com/google/uuid"
)

// SessionRegistry mapeia usuários para suas sessões de conversa. O
// acesso ao mapa é serializado; cada sessão cuida do próprio estado.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*OrderSession
	cfg      SessionConfig
}

// NewSessionRegistry cria o registro com a configuração aplicada a
// todas as sessões criadas por ele
func NewSessionRegistry(cfg SessionConfig) *SessionRegistry {
	cfg.fillDefaults()
	return &SessionRegistry{
		sessions: make(map[string]*OrderSession),
		cfg:      cfg,
	}
}

// GetOrCreate devolve a sessão do usuário, criando uma nova com id
// próprio quando ainda não existe
func (r *SessionRegistry) GetOrCreate(userID string) *OrderSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[userID]; ok {
		return s
	}
	s := NewOrderSession(uuid.New().String(), userID, r.cfg)
	r.sessions[userID] = s
	return s
}

// Get devolve a sessão do usuário, se existir
func (r *SessionRegistry) Get(userID string) (*OrderSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[userID]
	return s, ok
}

// Range visita as sessões ativas com uma cópia do mapa, para que o
// visitante possa bloquear sem segurar o lock do registro
func (r *SessionRegistry) Range(visit func(userID string, s *OrderSession)) {
	r.mu.Lock()
	snapshot := make(map[string]*OrderSession, len(r.sessions))
	for id, s := range r.sessions {
		snapshot[id] = s
	}
	r.mu.Unlock()

	for id, s := range snapshot {
		visit(id, s)
	}
}

// Len devolve o número de sessões ativas
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
