package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/yourusername/whatsapp-order-bot/internal/domain/constants"
	"github.com/yourusername/whatsapp-order-bot/internal/domain/entity"
	"github.com/yourusername/whatsapp-order-bot/internal/domain/repository"
	"github.com/yourusername/whatsapp-order-bot/internal/extractor"
	"github.com/yourusername/whatsapp-order-bot/pkg/logger"
)

// Estados da conversa
const (
	StateWaitingForNext      = "waiting_for_next"
	StateOption              = "option"
	StateCollecting          = "collecting"
	StateConfirming          = "confirming"
	StatePendingConfirmation = "pending_confirmation"
)

// Mensagens enviadas ao cliente
const (
	msgMenu              = "🔄 **Conversa reiniciada!**\n\nVocê quer pedir(1) ou falar com o gerente(2)?"
	msgRestarted         = "🔄 **Conversa reiniciada!**"
	msgStartOrdering     = "Ótimo! Digite seus pedidos. Ex: '2 mangas e 3 queijos'"
	msgOkThen            = "Ok então."
	msgChooseOption      = "Por favor, escolha uma opção: 1 para pedir ou 2 para falar com o gerente."
	msgPreparingSummary  = "📋 Preparando seu resumo..."
	msgEmptyList         = "❌ Lista vazia. Adicione itens primeiro."
	msgNothingRecognized = "❌ Nenhum item reconhecido. Tente usar termos como '2 mangas', 'cinco queijos', etc."
	msgConfirmHint       = "❌ Item não reconhecido. Digite 'confirmar' para confirmar ou 'nao' para cancelar."
	msgListCleared       = "🔄 **Lista limpa!** Digite novos itens."
	msgAutoConfirmed     = "🟡 **PEDIDO CONFIRMADO AUTOMATICAMENTE** - O pedido foi salvo e aguarda sua confirmação final na barra lateral."
	msgPendingHint       = "❌ Por favor, confirme ou cancele o pedido pendente. Digite 'confirmar' para confirmar ou 'cancelar' para cancelar."
	msgPendingCanceled   = "🔄 Pedidos pendentes cancelados. Continue adicionando itens."
	msgUnknownState      = "Estado não reconhecido. Digite 'cancelar' para reiniciar."
)

var cancelPhrases = []string{"cancelar", "hoje não", "hoje nao"}

// Result é a resposta síncrona de ProcessMessage. Message vazia indica
// que nenhum texto deve ser enviado de imediato.
type Result struct {
	Accepted bool
	Message  string
}

// SessionConfig agrupa as dependências injetadas em cada sessão
type SessionConfig struct {
	Catalog           []string
	InactivityTimeout time.Duration
	ReminderInterval  time.Duration
	Scheduler         Scheduler
	Repo              repository.OrderRepository
}

func (c *SessionConfig) fillDefaults() {
	if len(c.Catalog) == 0 {
		c.Catalog = constants.DefaultCatalog
	}
	if c.InactivityTimeout <= 0 {
		c.InactivityTimeout = constants.DefaultInactivityTimeout
	}
	if c.ReminderInterval <= 0 {
		c.ReminderInterval = constants.DefaultReminderInterval
	}
	if c.Scheduler == nil {
		c.Scheduler = NewScheduler()
	}
}

// OrderSession conduz a conversa de um cliente: coleta itens, pede
// confirmação com lembretes e persiste o pedido. Todo o estado é
// protegido por um único mutex; os callbacks agendados revalidam o
// estado e a geração do timer antes de mexer em qualquer coisa.
type OrderSession struct {
	ID     string
	UserID string

	mu            sync.Mutex
	state         string
	catalogNames  []string
	working       entity.WorkingCatalog
	confirmed     []map[string]int
	pending       []map[string]int
	reminderCount int
	lastActivity  time.Time

	outgoing chan string

	scheduler         Scheduler
	repo              repository.OrderRepository
	inactivityTimeout time.Duration
	reminderInterval  time.Duration

	timer    TimerHandle
	timerSeq uint64
}

// NewOrderSession cria uma sessão no estado inicial waiting_for_next
func NewOrderSession(id, userID string, cfg SessionConfig) *OrderSession {
	cfg.fillDefaults()
	return &OrderSession{
		ID:                id,
		UserID:            userID,
		state:             StateWaitingForNext,
		catalogNames:      cfg.Catalog,
		working:           entity.NewWorkingCatalog(cfg.Catalog),
		outgoing:          make(chan string, constants.OutgoingQueueSize),
		scheduler:         cfg.Scheduler,
		repo:              cfg.Repo,
		inactivityTimeout: cfg.InactivityTimeout,
		reminderInterval:  cfg.ReminderInterval,
		lastActivity:      time.Now(),
	}
}

// ProcessMessage trata uma mensagem do cliente e devolve a resposta
// síncrona. Mensagens assíncronas (resumo, lembretes) vão para a fila
// consumida por FetchPendingMessage.
func (s *OrderSession) ProcessMessage(ctx context.Context, text string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := strings.ToLower(strings.TrimSpace(text))
	s.lastActivity = time.Now()

	if containsCancelPhrase(msg) {
		s.resetConversationLocked()
		return Result{Accepted: true}
	}

	switch s.state {
	case StateWaitingForNext:
		s.state = StateOption
		return Result{Accepted: true, Message: msgMenu}

	case StateOption:
		return s.handleOptionLocked(msg)

	case StateCollecting:
		return s.handleCollectingLocked(ctx, text, msg)

	case StateConfirming:
		return s.handleConfirmingLocked(ctx, text, msg)

	case StatePendingConfirmation:
		return s.handlePendingLocked(ctx, text, msg)
	}

	return Result{Accepted: false, Message: msgUnknownState}
}

func (s *OrderSession) handleOptionLocked(msg string) Result {
	switch msg {
	case "1":
		s.state = StateCollecting
		s.armInactivityLocked()
		return Result{Accepted: true, Message: msgStartOrdering}
	case "2":
		s.state = StateWaitingForNext
		return Result{Accepted: true, Message: msgOkThen}
	default:
		return Result{Accepted: false, Message: msgChooseOption}
	}
}

func (s *OrderSession) handleCollectingLocked(ctx context.Context, text, msg string) Result {
	if msg == "pronto" || msg == "confirmar" {
		if !s.working.HasItems() {
			return Result{Accepted: false, Message: msgEmptyList}
		}
		s.sendSummaryLocked()
		return Result{Accepted: true, Message: msgPreparingSummary}
	}

	lines, updated := extractor.Extract(text, s.working)
	s.working = updated
	s.armInactivityLocked()
	if len(lines) > 0 {
		return Result{Accepted: true}
	}
	return Result{Accepted: false, Message: msgNothingRecognized}
}

func (s *OrderSession) handleConfirmingLocked(ctx context.Context, text, msg string) Result {
	words := strings.Fields(msg)

	if containsAny(words, "confirmar", "sim", "s") {
		s.cancelTimerLocked()
		confirmed := s.working.Items()
		s.confirmed = append(s.confirmed, confirmed)
		if err := s.persist(ctx, confirmed, entity.StatusConfirmed, constants.MainOrderGroup); err != nil {
			logger.ErrorLogger.Printf("sessão %s: falha ao salvar pedido confirmado: %v", s.ID, err)
		}
		response := buildConfirmedResponse(s.working)
		s.resetWorkingLocked()
		return Result{Accepted: true, Message: response}
	}

	if containsAny(words, "nao", "não", "n") {
		s.cancelTimerLocked()
		s.resetWorkingLocked()
		s.armInactivityLocked()
		return Result{Accepted: true, Message: msgListCleared}
	}

	lines, updated := extractor.Extract(text, s.working)
	if len(lines) > 0 {
		s.working = updated
		s.state = StateCollecting
		s.reminderCount = 0
		s.armInactivityLocked()
		return Result{Accepted: true}
	}
	return Result{Accepted: false, Message: msgConfirmHint}
}

func (s *OrderSession) handlePendingLocked(ctx context.Context, text, msg string) Result {
	words := strings.Fields(msg)

	if containsAny(words, "confirmar", "sim", "s") {
		if len(s.pending) == 0 {
			return Result{Accepted: false, Message: msgPendingHint}
		}
		count := len(s.pending)
		for _, order := range s.pending {
			s.confirmed = append(s.confirmed, order)
			if err := s.persist(ctx, order, entity.StatusConfirmed, constants.MainOrderGroup); err != nil {
				logger.ErrorLogger.Printf("sessão %s: falha ao salvar pedido pendente: %v", s.ID, err)
			}
		}
		s.pending = nil
		s.state = StateCollecting
		s.armInactivityLocked()
		return Result{
			Accepted: true,
			Message:  fmt.Sprintf("✅ **PEDIDO PENDENTE CONFIRMADO!** %d pedido(s) adicionado(s) à lista.", count),
		}
	}

	if containsAny(words, "nao", "não", "n") {
		s.pending = nil
		s.state = StateCollecting
		s.armInactivityLocked()
		return Result{Accepted: true, Message: msgPendingCanceled}
	}

	s.state = StateCollecting
	lines, updated := extractor.Extract(text, s.working)
	s.working = updated
	s.armInactivityLocked()
	if len(lines) > 0 {
		return Result{Accepted: true}
	}
	return Result{Accepted: true, Message: msgNothingRecognized}
}

// StartNewConversation reinicia a conversa e avisa o cliente pela fila
func (s *OrderSession) StartNewConversation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetConversationLocked()
	s.queueMessage(msgRestarted)
}

// FetchPendingMessage drena a mensagem assíncrona mais antiga, se houver
func (s *OrderSession) FetchPendingMessage() (string, bool) {
	select {
	case msg := <-s.outgoing:
		return msg, true
	default:
		return "", false
	}
}

// CurrentOrders devolve os itens com quantidade positiva do pedido atual
func (s *OrderSession) CurrentOrders() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.working.Items()
}

// ConfirmedOrders devolve o histórico de pedidos confirmados na sessão
func (s *OrderSession) ConfirmedOrders() []map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]map[string]int, len(s.confirmed))
	copy(out, s.confirmed)
	return out
}

// PendingOrders devolve os pedidos aguardando confirmação manual
func (s *OrderSession) PendingOrders() []map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]map[string]int, len(s.pending))
	copy(out, s.pending)
	return out
}

// CurrentState devolve o estado da conversa
func (s *OrderSession) CurrentState() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ReminderCount devolve o índice do lembrete corrente
func (s *OrderSession) ReminderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reminderCount
}

// ---- internos, sempre chamados com s.mu em posse ----

func (s *OrderSession) resetConversationLocked() {
	s.working = entity.NewWorkingCatalog(s.catalogNames)
	s.state = StateWaitingForNext
	s.reminderCount = 0
	s.cancelTimerLocked()
}

func (s *OrderSession) resetWorkingLocked() {
	s.working = entity.NewWorkingCatalog(s.catalogNames)
	s.state = StateCollecting
	s.reminderCount = 0
	s.cancelTimerLocked()
}

// cancelTimerLocked avança a geração para invalidar callbacks que já
// estavam prestes a rodar quando o Stop chegou tarde demais
func (s *OrderSession) cancelTimerLocked() {
	s.timerSeq++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *OrderSession) armInactivityLocked() {
	s.cancelTimerLocked()
	seq := s.timerSeq
	s.timer = s.scheduler.After(s.inactivityTimeout, func() { s.onInactivityTimeout(seq) })
}

func (s *OrderSession) armReminderLocked() {
	s.cancelTimerLocked()
	seq := s.timerSeq
	s.timer = s.scheduler.After(s.reminderInterval, func() { s.onReminderTimeout(seq) })
}

func (s *OrderSession) onInactivityTimeout(seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.timerSeq || s.state != StateCollecting {
		return
	}
	s.sendSummaryLocked()
}

func (s *OrderSession) sendSummaryLocked() {
	if !s.working.HasItems() {
		s.armInactivityLocked()
		return
	}
	s.state = StateConfirming
	s.reminderCount = 1
	s.queueMessage(s.buildSummaryLocked())
	s.armReminderLocked()
}

func (s *OrderSession) onReminderTimeout(seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.timerSeq || s.state != StateConfirming || s.reminderCount > constants.MaxReminders {
		return
	}

	s.queueMessage(fmt.Sprintf("🔔 **LEMBRETE (%d/%d):**\n%s", s.reminderCount, constants.MaxReminders, s.buildSummaryLocked()))

	if s.reminderCount == constants.MaxReminders {
		s.autoConfirmLocked()
		return
	}
	s.reminderCount++
	s.armReminderLocked()
}

// autoConfirmLocked grava o pedido como auto-confirmado num grupo
// próprio e devolve a sessão ao estado inicial. Se a gravação falhar,
// o pedido fica retido em pending para confirmação manual no chat.
func (s *OrderSession) autoConfirmLocked() {
	if !s.working.HasItems() {
		return
	}
	items := s.working.Items()
	group := newAutoOrderGroup()
	if err := s.persist(context.Background(), items, entity.StatusAutoConfirmed, group); err != nil {
		logger.ErrorLogger.Printf("sessão %s: falha ao salvar pedido automático (grupo %s): %v", s.ID, group, err)
		s.pending = append(s.pending, items)
		s.working = entity.NewWorkingCatalog(s.catalogNames)
		s.state = StatePendingConfirmation
		s.cancelTimerLocked()
		return
	}
	s.queueMessage(msgAutoConfirmed)
	s.resetWorkingLocked()
	s.state = StateWaitingForNext
}

func (s *OrderSession) persist(ctx context.Context, items map[string]int, status entity.OrderStatus, group string) error {
	if s.repo == nil {
		return nil
	}
	return s.repo.Save(ctx, s.UserID, s.ID, items, status, group)
}

func (s *OrderSession) buildSummaryLocked() string {
	var b strings.Builder
	b.WriteString("📋 **RESUMO DO SEU PEDIDO:**\n")
	for _, entry := range s.working {
		if entry.Quantity > 0 {
			fmt.Fprintf(&b, "• %s: %d\n", entry.Name, entry.Quantity)
		}
	}
	b.WriteString("\n⚠️ **Confirma o pedido?** (responda com 'confirmar' ou 'nao')")
	return b.String()
}

func (s *OrderSession) queueMessage(text string) {
	select {
	case s.outgoing <- text:
	default:
		logger.ErrorLogger.Printf("sessão %s: fila de mensagens cheia, mensagem descartada", s.ID)
	}
}

func buildConfirmedResponse(working entity.WorkingCatalog) string {
	var b strings.Builder
	b.WriteString("✅ **PEDIDO CONFIRMADO COM SUCESSO!**\n\n**Itens confirmados:**\n")
	for _, entry := range working {
		if entry.Quantity > 0 {
			fmt.Fprintf(&b, "• %dx %s\n", entry.Quantity, entry.Name)
		}
	}
	b.WriteString("\nObrigado pelo pedido! 🎉")
	return b.String()
}

func containsCancelPhrase(msg string) bool {
	for _, phrase := range cancelPhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}

func containsAny(words []string, wanted ...string) bool {
	for _, w := range words {
		for _, target := range wanted {
			if w == target {
				return true
			}
		}
	}
	return false
}

func newAutoOrderGroup() string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	if len(ts) > 6 {
		ts = ts[len(ts)-6:]
	}
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return "auto_" + ts + "_" + string(suffix)
}
