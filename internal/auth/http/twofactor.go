package http

import (
	"encoding/json"
	"net/http"

	"github.com/tabkeep/authd/internal/auth/service"
	"github.com/tabkeep/authd/pkg/httpx"
)

// TwoFactorHandler handles TOTP setup and verification.
type TwoFactorHandler struct {
	TwoFactorService *service.TwoFactorService
}

type twoFactorSetupRequest struct {
	Email string `json:"email"`
}

type twoFactorVerifyRequest struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// HandleSetup handles POST /api/auth/2fa/setup.
func (h *TwoFactorHandler) HandleSetup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req twoFactorSetupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteMsg(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	res, err := h.TwoFactorService.Setup(ctx, req.Email)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"msg":       "2FA secret generated",
		"qrCodeUrl": res.QRCodeURL,
	})
}

// HandleVerify handles POST /api/auth/2fa/verify.
func (h *TwoFactorHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req twoFactorVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteMsg(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if err := h.TwoFactorService.Verify(ctx, req.Email, req.Token); err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteMsg(w, http.StatusOK, "2FA verified successfully")
}
