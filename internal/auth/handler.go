// Package auth issues the admin bearer tokens the protected routes require.
package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/twisthair/booking-api/internal/api/respond"
	"github.com/twisthair/booking-api/pkg/logging"
)

// Handler serves the admin login endpoint.
type Handler struct {
	username string
	password string
	secret   string
	tokenTTL time.Duration
	logger   *logging.Logger
	now      func() time.Time
}

// Config wires a login handler.
type Config struct {
	Username string
	Password string
	Secret   string
	TokenTTL time.Duration
	Logger   *logging.Logger
	Now      func() time.Time
}

// NewHandler creates a login handler.
func NewHandler(cfg Config) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 12 * time.Hour
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Handler{
		username: cfg.Username,
		password: cfg.Password,
		secret:   cfg.Secret,
		tokenTTL: cfg.TokenTTL,
		logger:   cfg.Logger,
		now:      cfg.Now,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login handles POST /api/admin/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if h.secret == "" || h.password == "" {
		respond.Error(w, http.StatusUnauthorized, "admin access disabled")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.password)) == 1
	if !userOK || !passOK {
		h.logger.Warn("admin login rejected", "username", req.Username)
		respond.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	now := h.now()
	expiresAt := now.Add(h.tokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   req.Username,
		Issuer:    "booking-api",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.secret))
	if err != nil {
		h.logger.Error("token signing failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "could not issue token")
		return
	}

	h.logger.Info("admin logged in", "username", req.Username)
	respond.JSON(w, http.StatusOK, loginResponse{Token: token, ExpiresAt: expiresAt})
}
