package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yourusername/whatsapp-order-bot/internal/domain/constants"
	"github.com/yourusername/whatsapp-order-bot/internal/domain/entity"
	"github.com/yourusername/whatsapp-order-bot/internal/infrastructure/storage"
)

// fakeScheduler registra os callbacks em vez de esperar o relógio. Os
// testes disparam os timers manualmente, inclusive os cancelados, para
// simular a corrida de um callback que já estava prestes a rodar.
type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

type fakeTimer struct {
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	if t.stopped {
		return false
	}
	t.stopped = true
	return true
}

func (t *fakeTimer) fire() {
	t.fn()
}

func (f *fakeScheduler) After(_ time.Duration, fn func()) TimerHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTimer{fn: fn}
	f.timers = append(f.timers, t)
	return t
}

// latest devolve o timer armado mais recentemente
func (f *fakeScheduler) latest() *fakeTimer {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.timers) == 0 {
		return nil
	}
	return f.timers[len(f.timers)-1]
}

func newTestSession(t *testing.T) (*OrderSession, *fakeScheduler, *storage.MemoryOrderRepository) {
	t.Helper()
	sched := &fakeScheduler{}
	repo := storage.NewMemoryOrderRepository()
	s := NewOrderSession("sess-1", "user-1", SessionConfig{
		Scheduler: sched,
		Repo:      repo,
	})
	return s, sched, repo
}

// leva a sessão até collecting
func startCollecting(t *testing.T, s *OrderSession) {
	t.Helper()
	ctx := context.Background()
	if res := s.ProcessMessage(ctx, "oi"); res.Message != msgMenu {
		t.Fatalf("menu = %q, want %q", res.Message, msgMenu)
	}
	if res := s.ProcessMessage(ctx, "1"); res.Message != msgStartOrdering {
		t.Fatalf("prompt = %q, want %q", res.Message, msgStartOrdering)
	}
	if got := s.CurrentState(); got != StateCollecting {
		t.Fatalf("state = %q, want %q", got, StateCollecting)
	}
}

// leva a sessão até confirming com itens e drena o resumo da fila
func startConfirming(t *testing.T, s *OrderSession, sched *fakeScheduler) {
	t.Helper()
	startCollecting(t, s)
	if res := s.ProcessMessage(context.Background(), "2 mangas e 3 queijos"); !res.Accepted {
		t.Fatalf("order message rejected: %+v", res)
	}
	sched.latest().fire()
	if got := s.CurrentState(); got != StateConfirming {
		t.Fatalf("state = %q, want %q", got, StateConfirming)
	}
	summary, ok := s.FetchPendingMessage()
	if !ok || !strings.Contains(summary, "RESUMO DO SEU PEDIDO") {
		t.Fatalf("summary = %q, %v", summary, ok)
	}
}

func TestMenuFlow(t *testing.T) {
	s, _, _ := newTestSession(t)
	ctx := context.Background()

	res := s.ProcessMessage(ctx, "qualquer coisa")
	if !res.Accepted || res.Message != msgMenu {
		t.Fatalf("first message: %+v", res)
	}
	if got := s.CurrentState(); got != StateOption {
		t.Fatalf("state = %q, want %q", got, StateOption)
	}

	res = s.ProcessMessage(ctx, "7")
	if res.Accepted || res.Message != msgChooseOption {
		t.Fatalf("invalid option: %+v", res)
	}
	if got := s.CurrentState(); got != StateOption {
		t.Fatalf("state after invalid option = %q, want %q", got, StateOption)
	}

	res = s.ProcessMessage(ctx, "2")
	if !res.Accepted || res.Message != msgOkThen {
		t.Fatalf("option 2: %+v", res)
	}
	if got := s.CurrentState(); got != StateWaitingForNext {
		t.Fatalf("state after option 2 = %q, want %q", got, StateWaitingForNext)
	}
}

func TestCollectingAddsItems(t *testing.T) {
	s, _, _ := newTestSession(t)
	startCollecting(t, s)
	ctx := context.Background()

	if res := s.ProcessMessage(ctx, "2 mangas e 3 queijos"); !res.Accepted || res.Message != "" {
		t.Fatalf("order message: %+v", res)
	}
	orders := s.CurrentOrders()
	if orders["manga"] != 2 || orders["queijo"] != 3 {
		t.Fatalf("orders = %v, want manga:2 queijo:3", orders)
	}

	res := s.ProcessMessage(ctx, "blablabla xyz")
	if res.Accepted || res.Message != msgNothingRecognized {
		t.Fatalf("unrecognized message: %+v", res)
	}
}

func TestInactivityTimeoutEmitsSingleSummary(t *testing.T) {
	s, sched, _ := newTestSession(t)
	startCollecting(t, s)
	if res := s.ProcessMessage(context.Background(), "5 goiabas"); !res.Accepted {
		t.Fatalf("order message rejected: %+v", res)
	}

	sched.latest().fire()
	if got := s.CurrentState(); got != StateConfirming {
		t.Fatalf("state = %q, want %q", got, StateConfirming)
	}
	summary, ok := s.FetchPendingMessage()
	if !ok || !strings.Contains(summary, "goiaba: 5") {
		t.Fatalf("summary = %q, %v", summary, ok)
	}
	if _, ok := s.FetchPendingMessage(); ok {
		t.Fatal("expected exactly one queued summary")
	}
}

func TestInactivityTimeoutWithoutItemsRearms(t *testing.T) {
	s, sched, _ := newTestSession(t)
	startCollecting(t, s)
	if res := s.ProcessMessage(context.Background(), "xpto wxyz"); res.Accepted {
		t.Fatalf("expected rejection: %+v", res)
	}

	sched.latest().fire()
	if got := s.CurrentState(); got != StateCollecting {
		t.Fatalf("state = %q, want %q", got, StateCollecting)
	}
	if _, ok := s.FetchPendingMessage(); ok {
		t.Fatal("no summary expected without items")
	}
}

func TestImmediateSummaryOnPronto(t *testing.T) {
	s, _, _ := newTestSession(t)
	startCollecting(t, s)
	ctx := context.Background()

	if res := s.ProcessMessage(ctx, "pronto"); res.Accepted || res.Message != msgEmptyList {
		t.Fatalf("pronto with empty list: %+v", res)
	}

	s.ProcessMessage(ctx, "2 mangas")
	res := s.ProcessMessage(ctx, "pronto")
	if !res.Accepted || res.Message != msgPreparingSummary {
		t.Fatalf("pronto with items: %+v", res)
	}
	if got := s.CurrentState(); got != StateConfirming {
		t.Fatalf("state = %q, want %q", got, StateConfirming)
	}
	if summary, ok := s.FetchPendingMessage(); !ok || !strings.Contains(summary, "manga: 2") {
		t.Fatalf("summary = %q, %v", summary, ok)
	}
}

func TestConfirmPersistsAndClears(t *testing.T) {
	s, sched, repo := newTestSession(t)
	startConfirming(t, s, sched)
	ctx := context.Background()

	res := s.ProcessMessage(ctx, "confirmar")
	if !res.Accepted {
		t.Fatalf("confirm rejected: %+v", res)
	}
	if !strings.Contains(res.Message, "PEDIDO CONFIRMADO COM SUCESSO") || !strings.Contains(res.Message, "2x manga") {
		t.Fatalf("confirm message = %q", res.Message)
	}
	if got := s.CurrentState(); got != StateCollecting {
		t.Fatalf("state = %q, want %q", got, StateCollecting)
	}
	if orders := s.CurrentOrders(); len(orders) != 0 {
		t.Fatalf("orders = %v, want empty after confirm", orders)
	}

	confirmed := s.ConfirmedOrders()
	if len(confirmed) != 1 || confirmed[0]["manga"] != 2 || confirmed[0]["queijo"] != 3 {
		t.Fatalf("confirmed history = %v", confirmed)
	}

	totals, err := repo.QueryAggregated(ctx, "user-1", entity.StatusConfirmed, "main")
	if err != nil {
		t.Fatalf("QueryAggregated: %v", err)
	}
	if totals["manga"] != 2 || totals["queijo"] != 3 {
		t.Fatalf("persisted totals = %v", totals)
	}
}

func TestRejectClearsList(t *testing.T) {
	s, sched, _ := newTestSession(t)
	startConfirming(t, s, sched)

	res := s.ProcessMessage(context.Background(), "nao")
	if !res.Accepted || res.Message != msgListCleared {
		t.Fatalf("reject: %+v", res)
	}
	if orders := s.CurrentOrders(); len(orders) != 0 {
		t.Fatalf("orders = %v, want empty after reject", orders)
	}
	if got := s.CurrentState(); got != StateCollecting {
		t.Fatalf("state = %q, want %q", got, StateCollecting)
	}
}

func TestNewItemsDuringConfirmationResumeCollecting(t *testing.T) {
	s, sched, _ := newTestSession(t)
	startConfirming(t, s, sched)
	ctx := context.Background()

	res := s.ProcessMessage(ctx, "mais 4 ovos")
	if !res.Accepted {
		t.Fatalf("new items during confirmation: %+v", res)
	}
	if got := s.CurrentState(); got != StateCollecting {
		t.Fatalf("state = %q, want %q", got, StateCollecting)
	}
	if orders := s.CurrentOrders(); orders["ovo"] != 4 || orders["manga"] != 2 {
		t.Fatalf("orders = %v, want previous items kept plus ovo:4", orders)
	}

	res = s.ProcessMessage(ctx, "pronto")
	if !res.Accepted {
		t.Fatalf("pronto after resuming: %+v", res)
	}
}

func TestUnrecognizedDuringConfirmationKeepsState(t *testing.T) {
	s, sched, _ := newTestSession(t)
	startConfirming(t, s, sched)

	res := s.ProcessMessage(context.Background(), "hmmmm talvez")
	if res.Accepted || res.Message != msgConfirmHint {
		t.Fatalf("unrecognized during confirmation: %+v", res)
	}
	if got := s.CurrentState(); got != StateConfirming {
		t.Fatalf("state = %q, want %q", got, StateConfirming)
	}
}

func TestRemindersEscalateAndAutoConfirm(t *testing.T) {
	s, sched, repo := newTestSession(t)
	startConfirming(t, s, sched)
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		sched.latest().fire()
		reminder, ok := s.FetchPendingMessage()
		if !ok || !strings.Contains(reminder, fmt.Sprintf("LEMBRETE (%d/5)", i)) {
			t.Fatalf("reminder %d = %q, %v", i, reminder, ok)
		}
		if got := s.ReminderCount(); got != i+1 {
			t.Fatalf("reminder count after %d = %d, want %d", i, got, i+1)
		}
	}

	sched.latest().fire()
	reminder, ok := s.FetchPendingMessage()
	if !ok || !strings.Contains(reminder, "LEMBRETE (5/5)") {
		t.Fatalf("final reminder = %q, %v", reminder, ok)
	}
	notice, ok := s.FetchPendingMessage()
	if !ok || !strings.Contains(notice, "PEDIDO CONFIRMADO AUTOMATICAMENTE") {
		t.Fatalf("auto notice = %q, %v", notice, ok)
	}
	if got := s.CurrentState(); got != StateWaitingForNext {
		t.Fatalf("state = %q, want %q", got, StateWaitingForNext)
	}
	if orders := s.CurrentOrders(); len(orders) != 0 {
		t.Fatalf("orders = %v, want empty after auto-confirm", orders)
	}

	groups, err := repo.ListGroups(ctx, "user-1", entity.StatusAutoConfirmed)
	if err != nil {
		t.Fatalf("ListGroups: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("groups = %v, want one auto-confirmed group", groups)
	}
	for group, items := range groups {
		if !strings.HasPrefix(group, "auto_") || group == "main" {
			t.Fatalf("group id = %q, want auto_ prefix distinct from main", group)
		}
		if items["manga"] != 2 || items["queijo"] != 3 {
			t.Fatalf("group items = %v", items)
		}
	}
}

func TestCancelPhraseFromAnyState(t *testing.T) {
	phrases := []string{"cancelar", "hoje não", "hoje nao", "acho que hoje nao vou querer"}
	for _, phrase := range phrases {
		s, sched, _ := newTestSession(t)
		startConfirming(t, s, sched)

		res := s.ProcessMessage(context.Background(), phrase)
		if !res.Accepted || res.Message != "" {
			t.Errorf("cancel %q: %+v", phrase, res)
		}
		if got := s.CurrentState(); got != StateWaitingForNext {
			t.Errorf("cancel %q: state = %q, want %q", phrase, got, StateWaitingForNext)
		}
		if orders := s.CurrentOrders(); len(orders) != 0 {
			t.Errorf("cancel %q: orders = %v, want empty", phrase, orders)
		}
	}
}

func TestStaleTimerCallbackIsNoOp(t *testing.T) {
	s, sched, _ := newTestSession(t)
	startCollecting(t, s)
	ctx := context.Background()

	s.ProcessMessage(ctx, "2 mangas")
	stale := sched.latest()

	// nova mensagem rearma o timer; o antigo ainda pode disparar
	s.ProcessMessage(ctx, "3 queijos")
	stale.fire()

	if got := s.CurrentState(); got != StateCollecting {
		t.Fatalf("state = %q, stale callback must not promote to confirming", got)
	}
	if _, ok := s.FetchPendingMessage(); ok {
		t.Fatal("stale callback must not queue a summary")
	}

	sched.latest().fire()
	if got := s.CurrentState(); got != StateConfirming {
		t.Fatalf("state = %q, want %q after live timer", got, StateConfirming)
	}
}

func TestConfirmedHistorySurvivesEmptyConfirm(t *testing.T) {
	s, sched, _ := newTestSession(t)
	startConfirming(t, s, sched)
	ctx := context.Background()

	s.ProcessMessage(ctx, "confirmar")
	if len(s.ConfirmedOrders()) != 1 {
		t.Fatalf("confirmed = %v, want one order", s.ConfirmedOrders())
	}

	// sem itens, "pronto"/"confirmar" é rejeitado e não mexe no histórico
	res := s.ProcessMessage(ctx, "pronto")
	if res.Accepted || res.Message != msgEmptyList {
		t.Fatalf("empty confirm: %+v", res)
	}
	if len(s.ConfirmedOrders()) != 1 {
		t.Fatalf("confirmed history changed: %v", s.ConfirmedOrders())
	}
}

func TestStartNewConversationQueuesNotice(t *testing.T) {
	s, sched, _ := newTestSession(t)
	startConfirming(t, s, sched)

	s.StartNewConversation()
	if got := s.CurrentState(); got != StateWaitingForNext {
		t.Fatalf("state = %q, want %q", got, StateWaitingForNext)
	}
	if msg, ok := s.FetchPendingMessage(); !ok || msg != msgRestarted {
		t.Fatalf("notice = %q, %v", msg, ok)
	}
}

func TestOutgoingQueueNeverBlocks(t *testing.T) {
	s, _, _ := newTestSession(t)

	for i := 0; i < constants.OutgoingQueueSize+8; i++ {
		s.StartNewConversation()
	}

	drained := 0
	for {
		if _, ok := s.FetchPendingMessage(); !ok {
			break
		}
		drained++
	}
	if drained != constants.OutgoingQueueSize {
		t.Fatalf("drained = %d, want %d", drained, constants.OutgoingQueueSize)
	}
}
