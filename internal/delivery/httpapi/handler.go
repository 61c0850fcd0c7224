package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/yourusername/whatsapp-order-bot/internal/infrastructure/export"
	"github.com/yourusername/whatsapp-order-bot/internal/usecase"
	"github.com/yourusername/whatsapp-order-bot/pkg/logger"
)

const defaultUserID = "default"

// Handler expõe o bot de pedidos por HTTP/JSON para o painel web
type Handler struct {
	orderUseCase usecase.OrderUseCase
}

// NewHandler cria o handler sobre o caso de uso de pedidos
func NewHandler(orderUseCase usecase.OrderUseCase) *Handler {
	return &Handler{orderUseCase: orderUseCase}
}

// RegisterRoutes registra as rotas da API no mux
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/send_message", h.handleSendMessage)
	mux.HandleFunc("/get_updates", h.handleGetUpdates)
	mux.HandleFunc("/get_orders", h.handleGetOrders)
	mux.HandleFunc("/global_orders", h.handleGlobalOrders)
	mux.HandleFunc("/confirm_auto_order", h.handleConfirmAutoOrder)
	mux.HandleFunc("/delete_auto_order", h.handleDeleteAutoOrder)
	mux.HandleFunc("/download_excel", h.handleDownloadExcel)
	mux.HandleFunc("/reset_session", h.handleResetSession)
	mux.HandleFunc("/health", h.handleHealth)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "método não permitido")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok"})
}

type sendMessageRequest struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

type userRequest struct {
	UserID     string `json:"user_id"`
	OrderGroup string `json:"order_group"`
}

func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "método não permitido")
		return
	}
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "Mensagem vazia")
		return
	}
	userID := orDefault(req.UserID)

	result := h.orderUseCase.ProcessMessage(r.Context(), userID, req.Message)

	response := map[string]interface{}{
		"status":           h.orderUseCase.SessionState(userID),
		"current_orders":   h.orderUseCase.GetCurrentOrders(userID),
		"confirmed_orders": h.orderUseCase.GetConfirmedOrders(userID),
		"pending_orders":   h.orderUseCase.GetPendingOrders(userID),
	}
	if result.Message != "" {
		response["bot_message"] = result.Message
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) handleGetUpdates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "método não permitido")
		return
	}
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	userID := orDefault(req.UserID)

	pending, hasMessage := h.orderUseCase.FetchPendingMessage(userID)
	response := map[string]interface{}{
		"state":            h.orderUseCase.SessionState(userID),
		"current_orders":   h.orderUseCase.GetCurrentOrders(userID),
		"confirmed_orders": h.orderUseCase.GetConfirmedOrders(userID),
		"pending_orders":   h.orderUseCase.GetPendingOrders(userID),
		"reminders_sent":   h.orderUseCase.SessionReminderCount(userID),
		"has_message":      hasMessage,
	}
	if hasMessage {
		response["bot_message"] = pending
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) handleGetOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "método não permitido")
		return
	}
	userID := orDefault(r.URL.Query().Get("user_id"))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"current_orders":   h.orderUseCase.GetCurrentOrders(userID),
		"confirmed_orders": h.orderUseCase.GetConfirmedOrders(userID),
		"pending_orders":   h.orderUseCase.GetPendingOrders(userID),
	})
}

func (h *Handler) handleGlobalOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "método não permitido")
		return
	}
	userID := orDefault(r.URL.Query().Get("user_id"))
	global, err := h.orderUseCase.GetGlobalOrders(r.Context(), userID)
	if err != nil {
		logger.ErrorLogger.Printf("global_orders: %v", err)
		writeError(w, http.StatusInternalServerError, "erro ao consultar pedidos")
		return
	}
	writeJSON(w, http.StatusOK, global)
}

func (h *Handler) handleConfirmAutoOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "método não permitido")
		return
	}
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if req.OrderGroup == "" {
		writeError(w, http.StatusBadRequest, "order_group obrigatório")
		return
	}
	if err := h.orderUseCase.ConfirmAutoOrder(r.Context(), orDefault(req.UserID), req.OrderGroup); err != nil {
		logger.ErrorLogger.Printf("confirm_auto_order %s: %v", req.OrderGroup, err)
		writeError(w, http.StatusInternalServerError, "erro ao confirmar pedido")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *Handler) handleDeleteAutoOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "método não permitido")
		return
	}
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if req.OrderGroup == "" {
		writeError(w, http.StatusBadRequest, "order_group obrigatório")
		return
	}
	if err := h.orderUseCase.DeleteAutoOrder(r.Context(), orDefault(req.UserID), req.OrderGroup); err != nil {
		logger.ErrorLogger.Printf("delete_auto_order %s: %v", req.OrderGroup, err)
		writeError(w, http.StatusInternalServerError, "erro ao excluir pedido")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// handleDownloadExcel soma o grupo principal com os grupos automáticos
// e devolve a planilha como anexo
func (h *Handler) handleDownloadExcel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "método não permitido")
		return
	}
	userID := orDefault(r.URL.Query().Get("user_id"))
	global, err := h.orderUseCase.GetGlobalOrders(r.Context(), userID)
	if err != nil {
		logger.ErrorLogger.Printf("download_excel: %v", err)
		writeError(w, http.StatusInternalServerError, "erro ao consultar pedidos")
		return
	}

	totals := make(map[string]int)
	for product, quantity := range global.MainOrders {
		totals[product] += quantity
	}
	for _, products := range global.AutoOrders {
		for product, quantity := range products {
			totals[product] += quantity
		}
	}

	data, err := export.BuildOrdersXLSX(totals)
	if err != nil {
		logger.ErrorLogger.Printf("download_excel: %v", err)
		writeError(w, http.StatusInternalServerError, "erro ao gerar planilha")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="pedidos.xlsx"`)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logger.ErrorLogger.Printf("download_excel write: %v", err)
	}
}

func (h *Handler) handleResetSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "método não permitido")
		return
	}
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	h.orderUseCase.ResetSession(orDefault(req.UserID))
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func orDefault(userID string) string {
	if userID == "" {
		return defaultUserID
	}
	return userID
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.ErrorLogger.Printf("write json response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{"error": msg})
}
