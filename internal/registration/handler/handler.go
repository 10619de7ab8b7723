package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"registrar/internal/platform/middleware"
	"registrar/internal/registration/models"
	id "registrar/pkg/domain"
	dErrors "registrar/pkg/domain-errors"
	"registrar/pkg/requestcontext"

	"registrar/internal/transport/http/shared"
)

// Service defines the registration operations the handler delegates to.
type Service interface {
	Config(ctx context.Context) (models.Config, error)
	Show(ctx context.Context, address id.AccountID) (*models.Registration, error)
	Register(ctx context.Context, referrer *id.AccountID) (*models.Registration, error)
	Update(ctx context.Context, referrer *id.AccountID) (*models.Registration, error)
	Destroy(ctx context.Context) error
	UpdateConfig(ctx context.Context, deadline time.Time) error
}

// Handler is the thin HTTP layer over the registration service. It decodes
// and validates requests, delegates, and translates errors; business logic
// stays in the service.
type Handler struct {
	service   Service
	logger    *slog.Logger
	validator middleware.TokenValidator
}

// New creates a registration Handler.
func New(service Service, logger *slog.Logger, validator middleware.TokenValidator) *Handler {
	return &Handler{
		service:   service,
		logger:    logger,
		validator: validator,
	}
}

// Register mounts the registration routes on the given router.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RequestTime)
	router.Use(middleware.Recovery(h.logger))
	router.Use(middleware.Logger(h.logger))
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(middleware.ContentTypeJSON)

	// Reading the configuration requires no identity.
	router.Get("/config", h.handleConfig)

	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth(h.validator, h.logger))
		authed.Get("/registrations/{address}", h.handleShow)
		authed.Post("/registrations", h.handleRegister)
		authed.Put("/registrations", h.handleUpdate)
		authed.Delete("/registrations", h.handleDestroy)
		authed.Put("/config", h.handleUpdateConfig)
	})

	r.Mount("/", router)
}

func (h *Handler) handleConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.service.Config(r.Context())
	if err != nil {
		h.logError(r, "failed to read config", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, cfg)
}

func (h *Handler) handleShow(w http.ResponseWriter, r *http.Request) {
	address, err := id.ParseAccountID(chi.URLParam(r, "address"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "address must be a valid account id"))
		return
	}
	record, err := h.service.Show(r.Context(), address)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	referrer, ok := h.decodeReferrer(w, r)
	if !ok {
		return
	}
	record, err := h.service.Register(r.Context(), referrer)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logError(r, "failed to register", err)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, record)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	referrer, ok := h.decodeReferrer(w, r)
	if !ok {
		return
	}
	record, err := h.service.Update(r.Context(), referrer)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logError(r, "failed to update registration", err)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) handleDestroy(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Destroy(r.Context()); err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logError(r, "failed to destroy registration", err)
		}
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req updateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := req.validate(); err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.service.UpdateConfig(r.Context(), req.Deadline); err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logError(r, "failed to update config", err)
		}
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeReferrer reads the shared register/update body. An empty body means
// no referrer.
func (h *Handler) decodeReferrer(w http.ResponseWriter, r *http.Request) (*id.AccountID, bool) {
	var req referrerRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
			return nil, false
		}
	}
	referrer, err := req.parseReferrer()
	if err != nil {
		shared.WriteError(w, err)
		return nil, false
	}
	return referrer, true
}

func (h *Handler) logError(r *http.Request, msg string, err error) {
	h.logger.ErrorContext(r.Context(), msg,
		"request_id", requestcontext.RequestID(r.Context()),
		"error", err.Error(),
	)
}
