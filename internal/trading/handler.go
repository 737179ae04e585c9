package trading

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"stocksim/internal/httputil"
	"stocksim/internal/model"
	"stocksim/internal/types"
)

// AccountSaver checkpoints the account snapshot to persistent storage.
type AccountSaver interface {
	SaveAccount(ctx context.Context, acct model.Account) error
}

type Handler struct {
	svc   *Service
	saver AccountSaver
}

func NewHandler(svc *Service, saver AccountSaver) *Handler {
	return &Handler{svc: svc, saver: saver}
}

type tradeRequest struct {
	Symbol   string `json:"symbol"`
	Quantity int64  `json:"quantity"`
}

func (h *Handler) Buy(w http.ResponseWriter, r *http.Request) {
	var req tradeRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	res, err := h.svc.Buy(normalizeSymbol(req.Symbol), req.Quantity)
	if err != nil {
		writeTradeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) Sell(w http.ResponseWriter, r *http.Request) {
	var req tradeRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	res, err := h.svc.Sell(normalizeSymbol(req.Symbol), req.Quantity)
	if err != nil {
		writeTradeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) Account(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"username":    h.svc.Username(),
		"balance":     h.svc.Balance(),
		"net_worth":   h.svc.NetWorth(),
		"profit_loss": h.svc.ProfitLoss(),
	})
}

func (h *Handler) Portfolio(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.svc.PortfolioReport())
}

func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.svc.Transactions())
}

type placeOrderRequest struct {
	Symbol      string  `json:"symbol"`
	Action      string  `json:"action"`
	Type        string  `json:"type"`
	Quantity    int64   `json:"quantity"`
	TargetPrice float64 `json:"target_price"`
}

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	o, err := h.svc.PlaceOrder(
		normalizeSymbol(req.Symbol),
		types.OrderAction(strings.ToUpper(strings.TrimSpace(req.Action))),
		types.OrderType(strings.ToUpper(strings.TrimSpace(req.Type))),
		req.Quantity,
		req.TargetPrice,
	)
	if err != nil {
		writeTradeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, o)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("all") == "true" {
		httputil.WriteJSON(w, http.StatusOK, h.svc.Orders())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.svc.PendingOrders())
}

func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.svc.CancelOrder(id); err != nil {
		httputil.WriteJSON(w, http.StatusNotFound, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (h *Handler) Watchlist(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.svc.WatchItems())
}

type watchRequest struct {
	Symbol string `json:"symbol"`
}

func (h *Handler) Watch(w http.ResponseWriter, r *http.Request) {
	var req watchRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	if err := h.svc.Watch(normalizeSymbol(req.Symbol)); err != nil {
		writeTradeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{"status": "watching"})
}

func (h *Handler) Unwatch(w http.ResponseWriter, r *http.Request, symbol string) {
	h.svc.Unwatch(normalizeSymbol(symbol))
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

type alertRequest struct {
	Target float64 `json:"target"`
}

func (h *Handler) SetAlert(w http.ResponseWriter, r *http.Request, symbol string) {
	var req alertRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	if err := h.svc.SetAlert(normalizeSymbol(symbol), req.Target); err != nil {
		writeTradeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{"status": "armed"})
}

func (h *Handler) ClearAlert(w http.ResponseWriter, r *http.Request, symbol string) {
	h.svc.ClearAlert(normalizeSymbol(symbol))
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// Checkpoint saves the account now. Store failures are reported to the
// caller but leave the in-memory engine untouched.
func (h *Handler) Checkpoint(w http.ResponseWriter, r *http.Request) {
	if h.saver == nil {
		httputil.WriteJSON(w, http.StatusServiceUnavailable, httputil.ErrorResponse{Error: "no account store configured"})
		return
	}
	if err := h.saver.SaveAccount(r.Context(), h.svc.Snapshot()); err != nil {
		log.Printf("checkpoint failed: %v", err)
		httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorResponse{Error: "checkpoint failed"})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func normalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func writeTradeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, ErrUnknownSymbol):
		status = http.StatusNotFound
	case errors.Is(err, ErrInsufficientFunds), errors.Is(err, ErrInsufficientShares):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, ErrOrderNotFound):
		status = http.StatusNotFound
	}
	httputil.WriteJSON(w, status, httputil.ErrorResponse{Error: err.Error()})
}
