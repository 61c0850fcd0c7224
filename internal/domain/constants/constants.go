package constants

import "time"

// Constantes do extrator de pedidos
const (
	// MatchThreshold score mínimo (%) para aceitar uma frase como produto
	MatchThreshold = 80.0

	// FallbackThreshold score mínimo (%) para aceitar um token isolado
	// como palpite de baixa confiança
	FallbackThreshold = 50.0

	// MaxPhraseWindow tamanho máximo da janela de tokens, independente
	// do catálogo
	MaxPhraseWindow = 4
)

// Constantes da máquina de estados da conversa
const (
	// MaxReminders lembretes enviados antes da confirmação automática
	MaxReminders = 5

	// DefaultInactivityTimeout espera por novas mensagens em "collecting"
	DefaultInactivityTimeout = 30 * time.Second

	// DefaultReminderInterval intervalo entre lembretes em "confirming"
	DefaultReminderInterval = 30 * time.Second

	// OutgoingQueueSize capacidade da fila de mensagens assíncronas por
	// sessão. Um ciclo completo de confirmação enfileira no máximo
	// MaxReminders+2 mensagens (resumo, lembretes e aviso automático);
	// acima da capacidade a mensagem mais nova é descartada com log.
	OutgoingQueueSize = 64
)

// MainOrderGroup grupo dos pedidos confirmados normalmente
const MainOrderGroup = "main"

// DefaultCatalog catálogo padrão de produtos
var DefaultCatalog = []string{
	"limão",
	"abacaxi",
	"abacaxi com hortelã",
	"açaí",
	"acerola",
	"ameixa",
	"cajá",
	"cajú",
	"goiaba",
	"graviola",
	"manga",
	"maracujá",
	"morango",
	"seriguela",
	"tamarindo",
	"caixa de ovos",
	"ovo",
	"queijo",
}
