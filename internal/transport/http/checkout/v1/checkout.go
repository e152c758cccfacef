package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Poupe902/Checkout-Bahia/internal/converter"
	"github.com/Poupe902/Checkout-Bahia/internal/model"
	"github.com/Poupe902/Checkout-Bahia/internal/platform/logger"
)

type CheckoutService interface {
	Start(ctx context.Context) (uuid.UUID, model.CheckoutState, error)
	State(ctx context.Context, id uuid.UUID) (model.CheckoutState, error)
	SubmitIdentity(ctx context.Context, id uuid.UUID, buyer model.BuyerProfile) (model.CheckoutState, error)
	SubmitAddress(ctx context.Context, id uuid.UUID, addr model.Address) (model.CheckoutState, error)
	ChooseShipping(ctx context.Context, id uuid.UUID, option model.ShippingOption) (model.CheckoutState, error)
	ChoosePaymentMethod(ctx context.Context, id uuid.UUID, method model.PaymentMethod) (model.CheckoutState, error)
	Edit(ctx context.Context, id uuid.UUID, target model.Step) (model.CheckoutState, error)
	Submit(ctx context.Context, id uuid.UUID, card *model.CardDetails) (model.CheckoutState, error)
	DemoSubmit(ctx context.Context, id uuid.UUID) (model.CheckoutState, error)
	LookupPostalCode(ctx context.Context, code string) (*model.Address, error)
}

type Handler struct {
	svc CheckoutService
}

func NewCheckoutHandler(service CheckoutService) *Handler {
	return &Handler{svc: service}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/checkout", h.start)
	r.Get("/checkout/{sessionID}", h.state)
	r.Post("/checkout/{sessionID}/identity", h.identity)
	r.Post("/checkout/{sessionID}/address", h.address)
	r.Post("/checkout/{sessionID}/shipping", h.shipping)
	r.Post("/checkout/{sessionID}/payment-method", h.paymentMethod)
	r.Post("/checkout/{sessionID}/edit", h.edit)
	r.Post("/checkout/{sessionID}/submit", h.submit)
	r.Post("/checkout/{sessionID}/demo", h.demo)
	r.Get("/cep/{code}", h.lookupCEP)
}

type identityRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Document string `json:"document"`
}

type addressRequest struct {
	ZipCode      string `json:"zip_code"`
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

type shippingRequest struct {
	Option string `json:"option"`
}

type paymentMethodRequest struct {
	Method string `json:"method"`
}

type editRequest struct {
	Step int `json:"step"`
}

type submitRequest struct {
	Card *cardRequest `json:"card,omitempty"`
}

type cardRequest struct {
	Number       string `json:"number"`
	Name         string `json:"name"`
	Expiry       string `json:"expiry"`
	CVV          string `json:"cvv"`
	Installments string `json:"installments"`
}

func (h *Handler) start(w http.ResponseWriter, r *http.Request) {
	id, state, err := h.svc.Start(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, converter.CheckoutStateToDTO(id, state))
}

func (h *Handler) state(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	state, err := h.svc.State(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, converter.CheckoutStateToDTO(id, state))
}

func (h *Handler) identity(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req identityRequest
	if !decodeBody(w, r, &req) {
		return
	}

	state, err := h.svc.SubmitIdentity(r.Context(), id, model.BuyerProfile{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Document: req.Document,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, converter.CheckoutStateToDTO(id, state))
}

func (h *Handler) address(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req addressRequest
	if !decodeBody(w, r, &req) {
		return
	}

	state, err := h.svc.SubmitAddress(r.Context(), id, model.Address{
		ZipCode:      req.ZipCode,
		Street:       req.Street,
		Number:       req.Number,
		Complement:   req.Complement,
		Neighborhood: req.Neighborhood,
		City:         req.City,
		State:        req.State,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, converter.CheckoutStateToDTO(id, state))
}

func (h *Handler) shipping(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req shippingRequest
	if !decodeBody(w, r, &req) {
		return
	}

	state, err := h.svc.ChooseShipping(r.Context(), id, model.ShippingOption(req.Option))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, converter.CheckoutStateToDTO(id, state))
}

func (h *Handler) paymentMethod(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req paymentMethodRequest
	if !decodeBody(w, r, &req) {
		return
	}

	state, err := h.svc.ChoosePaymentMethod(r.Context(), id, model.PaymentMethod(req.Method))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, converter.CheckoutStateToDTO(id, state))
}

func (h *Handler) edit(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req editRequest
	if !decodeBody(w, r, &req) {
		return
	}

	state, err := h.svc.Edit(r.Context(), id, model.Step(req.Step))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, converter.CheckoutStateToDTO(id, state))
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req submitRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var card *model.CardDetails
	if req.Card != nil {
		card = &model.CardDetails{
			Number:       req.Card.Number,
			Name:         req.Card.Name,
			Expiry:       req.Card.Expiry,
			CVV:          req.Card.CVV,
			Installments: req.Card.Installments,
		}
	}

	state, err := h.svc.Submit(r.Context(), id, card)
	if err != nil && !errors.Is(err, model.ErrValidation) {
		writeError(w, r, err)
		return
	}

	// A failed cascade is still a well-formed submission outcome; the
	// state carries the user-facing error text.
	writeJSON(w, r, http.StatusOK, converter.CheckoutStateToDTO(id, state))
}

func (h *Handler) demo(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	state, err := h.svc.DemoSubmit(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, converter.CheckoutStateToDTO(id, state))
}

func (h *Handler) lookupCEP(w http.ResponseWriter, r *http.Request) {
	addr, err := h.svc.LookupPostalCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, converter.AddressToDTO(*addr))
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeJSON(w, r, http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid session id",
		})
		return uuid.Nil, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, r, http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, model.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, model.ErrSessionNotFound), errors.Is(err, model.ErrCEPNotFound):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrWrongStep), errors.Is(err, model.ErrDemoUnavailable):
		status = http.StatusConflict
	case errors.Is(err, model.ErrSubmissionInFlight):
		status = http.StatusTooManyRequests
	case errors.Is(err, model.ErrNetwork):
		status = http.StatusBadGateway
	}

	writeJSON(w, r, status, errorResponse{Code: status, Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error(r.Context(), "write response", logger.ErrorF(err))
	}
}
