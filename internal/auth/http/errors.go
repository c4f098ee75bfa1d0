package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/tabkeep/authd/internal/auth/service"
	"github.com/tabkeep/authd/pkg/httpx"
	"github.com/tabkeep/authd/pkg/slogx"
)

// writeServiceError maps service-layer errors onto the HTTP contract.
// Every error body is {"msg": "..."}; unexpected failures surface as a
// generic 500 with the detail logged, never returned.
func writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		httpx.WriteMsg(w, http.StatusBadRequest, verr.Msg)
		return
	}

	switch {
	case errors.Is(err, service.ErrDuplicateEmail):
		httpx.WriteMsg(w, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteMsg(w, http.StatusBadRequest, "Invalid credentials")
	case errors.Is(err, service.ErrInvalidTwoFactorCode):
		httpx.WriteMsg(w, http.StatusBadRequest, "Invalid 2FA token")
	case errors.Is(err, service.ErrTwoFactorNotSetup):
		httpx.WriteMsg(w, http.StatusBadRequest, "2FA not setup for user")
	case errors.Is(err, service.ErrUserNotFound):
		httpx.WriteMsg(w, http.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrRenderQR):
		slogx.FromContext(ctx).Error("qr rendering failed", "err", err)
		httpx.WriteMsg(w, http.StatusInternalServerError, "Error generating QR")
	default:
		slogx.FromContext(ctx).Error("request failed", "err", err)
		httpx.WriteMsg(w, http.StatusInternalServerError, "Server error")
	}
}
