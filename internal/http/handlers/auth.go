package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	apierrors "github.com/madcrow/auth-service/internal/errors"
	"github.com/madcrow/auth-service/internal/http/middleware"
	"github.com/madcrow/auth-service/internal/models"
	"github.com/madcrow/auth-service/internal/service"
)

func (h *Handlers) RegisterAccount(w http.ResponseWriter, r *http.Request) {
	var in models.RegisterRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrInvalidArgument)
		return
	}

	tp, aid, err := h.Svc.RegisterAccount(r.Context(), in.Name, in.Email, in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, models.TokenPairFromDomain(tp, aid.String()))
}

func (h *Handlers) LoginAccount(w http.ResponseWriter, r *http.Request) {
	var in models.LoginRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrInvalidArgument)
		return
	}

	tp, aid, err := h.Svc.LoginAccount(r.Context(), in.Email, in.Password, clientIP(r))
	if err != nil {
		if errors.Is(err, service.ErrRateLimited) {
			h.recordRateLimited()
			h.writeRateLimited(w, r, in.Email)
			return
		}

		if errors.Is(err, service.ErrInvalidCredentials) {
			h.recordLogin(false)
		}

		apierrors.WriteError(w, r, err)
		return
	}

	h.recordLogin(true)
	writeJSON(w, http.StatusOK, models.TokenPairFromDomain(tp, aid.String()))
}

func (h *Handlers) RefreshSession(w http.ResponseWriter, r *http.Request) {
	var in models.RefreshRequest
	if err := decodeStrict(r, &in); err != nil || in.RefreshToken == "" {
		apierrors.WriteError(w, r, apierrors.ErrInvalidArgument)
		return
	}

	tp, aid, err := h.Svc.RefreshSession(r.Context(), in.RefreshToken)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.TokenPairFromDomain(tp, aid.String()))
}

func (h *Handlers) RevokeSession(w http.ResponseWriter, r *http.Request) {
	var in models.RevokeRequest
	if err := decodeStrict(r, &in); err != nil || in.RefreshToken == "" {
		apierrors.WriteError(w, r, apierrors.ErrInvalidArgument)
		return
	}

	if err := h.Svc.RevokeSession(r.Context(), in.RefreshToken); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ResultResponse{Result: true})
}

// Logout отзывает все сессии аутентифицированного аккаунта («выйти везде»).
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	aid, err := h.authorize(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if _, err := h.Svc.RevokeAllSessions(r.Context(), aid); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ResultResponse{Result: true})
}

func (h *Handlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	aid, err := h.authorize(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in models.ChangePasswordRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrInvalidArgument)
		return
	}

	if err := h.Svc.ChangePassword(r.Context(), aid, in.CurrentPassword, in.NewPassword); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ResultResponse{Result: true})
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	aid, err := h.authorize(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	account, err := h.Svc.Profile(r.Context(), aid)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ProfileFromAccount(account))
}

// LoginLimit возвращает текущее состояние лимита попыток входа для identity.
func (h *Handlers) LoginLimit(w http.ResponseWriter, r *http.Request) {
	identity := r.URL.Query().Get("identity")
	if identity == "" {
		apierrors.WriteError(w, r, apierrors.ErrInvalidArgument)
		return
	}

	info, err := h.Svc.CheckLoginLimit(r.Context(), identity)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, info)
}

// authorize валидирует Bearer-токен из контекста и возвращает ID аккаунта.
func (h *Handlers) authorize(r *http.Request) (aid uuid.UUID, err error) {
	token, ok := middleware.BearerToken(r.Context())
	if !ok {
		return uuid.Nil, service.ErrInvalidToken
	}

	aid, _, _, err = h.Svc.ValidateAccess(token)
	if err != nil {
		return uuid.Nil, err
	}

	return aid, nil
}

// writeRateLimited отдаёт 429 с актуальным снимком лимита для identity.
func (h *Handlers) writeRateLimited(w http.ResponseWriter, r *http.Request, identity string) {
	info, err := h.Svc.CheckLoginLimit(r.Context(), identity)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	apierrors.WriteRateLimited(w, r, info)
}
