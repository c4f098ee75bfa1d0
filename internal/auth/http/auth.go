package http

import (
	"encoding/json"
	"net/http"

	"github.com/tabkeep/authd/internal/auth/domain"
	"github.com/tabkeep/authd/internal/auth/service"
	"github.com/tabkeep/authd/pkg/httpx"
)

// AuthHandler handles signup and login.
type AuthHandler struct {
	AuthService *service.AuthService
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	// Token is the optional TOTP code, named for wire compatibility with
	// clients that send the 2FA code in a "token" field.
	Token string `json:"token"`
}

type authResponse struct {
	Msg   string         `json:"msg"`
	User  domain.Summary `json:"user"`
	Token string         `json:"token"`
}

// HandleSignup handles POST /api/auth/signup.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteMsg(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	res, err := h.AuthService.Signup(ctx, service.SignupParams{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authResponse{
		Msg:   "User created successfully",
		User:  res.User,
		Token: res.Token,
	})
}

// HandleLogin handles POST /api/auth/login.
//
// Three outcomes: 200 with a token, 206 when the account has 2FA enabled
// and no code was supplied, 400 on any hard failure.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteMsg(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	res, err := h.AuthService.Login(ctx, req.Email, req.Password, req.Token)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	if res.TwoFactorRequired {
		httpx.WriteJSON(w, http.StatusPartialContent, map[string]any{
			"msg":           "2FA token required",
			"twoFARequired": true,
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authResponse{
		Msg:   "Login successful",
		User:  res.User,
		Token: res.Token,
	})
}
