package http

import (
	"net/http"

	"github.com/tabkeep/authd/internal/auth/service"
	"github.com/tabkeep/authd/pkg/httpx"
	"github.com/tabkeep/authd/pkg/slogx"
)

// MeHandler returns the profile of the authenticated user. It sits behind
// httpx.AuthnMiddleware, which is also what keeps the token format honest:
// a token issued at signup or login must resolve back to its user here.
type MeHandler struct {
	UserService *service.UserService
}

func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := ctx.Value(httpx.CtxKeyUserID).(string)
	if !ok || userID == "" {
		httpx.WriteMsg(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	user, err := h.UserService.GetUserByID(ctx, userID)
	if err != nil {
		log.Warn("failed to load user", "user_id", userID, "err", err)
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"user":         user.Summary(),
		"twoFAEnabled": user.TwoFactorEnabled,
	})
}
