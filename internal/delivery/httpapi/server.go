package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/yourusername/whatsapp-order-bot/pkg/logger"
)

// Server embrulha o http.Server com as rotas da API registradas
type Server struct {
	srv *http.Server
}

// NewServer monta o mux com as rotas do handler e devolve o servidor
// pronto para escutar em addr
func NewServer(addr string, handler *Handler) *Server {
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// ListenAndServe bloqueia servindo requisições até Shutdown
func (s *Server) ListenAndServe() error {
	logger.InfoLogger.Printf("API HTTP escutando em %s", s.srv.Addr)
	return s.srv.ListenAndServe()
}

// Shutdown encerra o servidor drenando as conexões ativas
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
