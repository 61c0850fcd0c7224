package usecase

import "time"

// TimerHandle permite cancelar um callback agendado. Stop devolve false
// quando o callback já disparou ou já foi cancelado.
type TimerHandle interface {
	Stop() bool
}

// Scheduler agenda callbacks de inatividade e de lembrete. A abstração
// existe para que os testes usem tempo virtual em vez de dormir.
type Scheduler interface {
	After(d time.Duration, fn func()) TimerHandle
}

type realScheduler struct{}

// NewScheduler devolve o agendador padrão baseado em time.AfterFunc
func NewScheduler() Scheduler {
	return realScheduler{}
}

func (realScheduler) After(d time.Duration, fn func()) TimerHandle {
	return time.AfterFunc(d, fn)
}
