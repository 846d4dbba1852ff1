package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/rakapradana/auth-gate-be/internal/auth"
	"github.com/rakapradana/auth-gate-be/internal/services"
)

const (
	msgFieldsRequired = "Nama dan password harus diisi!"
	msgPasswordShort  = "Password minimal 6 karakter!"
	msgNameTaken      = "Nama sudah terdaftar!"
	msgRegistered     = "Registrasi berhasil!"
	msgBadCredentials = "Nama atau password salah!"
	msgLoggedIn       = "Login berhasil!"
	msgUserNotFound   = "User tidak ditemukan!"
	msgDashboard      = "Selamat datang di dashboard!"
	msgTokenMissing   = "Akses ditolak, token hilang!"
	msgTokenInvalid   = "Token tidak valid atau telah kadaluarsa!"
	msgInternal       = "Terjadi kesalahan pada server"

	dashboardInfo = "Ini adalah data yang dilindungi. Hanya user dengan token valid yang bisa mengaksesnya."
)

// AuthHandler handles registration, login and the protected dashboard.
type AuthHandler struct {
	users  services.UserServiceProvider
	tokens *auth.TokenService
	events services.EventServiceProvider
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users services.UserServiceProvider, tokens *auth.TokenService, events services.EventServiceProvider) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, events: events}
}

// credentialsPayload defines the structure for register and login requests.
type credentialsPayload struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// userData is the public projection of a user record.
type userData struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Register handles new user registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, msgFieldsRequired)
		return
	}

	if payload.Name == "" || payload.Password == "" {
		respondError(w, http.StatusBadRequest, msgFieldsRequired)
		return
	}
	if len(payload.Password) < 6 {
		respondError(w, http.StatusBadRequest, msgPasswordShort)
		return
	}

	user, err := h.users.Register(payload.Name, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrNameTaken) {
			respondError(w, http.StatusConflict, msgNameTaken)
			return
		}
		log.Error().Err(err).Str("name", payload.Name).Msg("Failed to register user")
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	h.events.RecordEvent("auth.register", "info", "user "+user.Name+" registered", &user.ID)
	respond(w, http.StatusCreated, msgRegistered, userData{ID: user.ID, Name: user.Name})
}

// Login handles user authentication and token issuance.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, msgFieldsRequired)
		return
	}

	if payload.Name == "" || payload.Password == "" {
		respondError(w, http.StatusBadRequest, msgFieldsRequired)
		return
	}

	user, err := h.users.Authenticate(payload.Name, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Warn().Str("name", payload.Name).Msg("Failed authentication attempt")
			h.events.RecordEvent("auth.login.failed", "warn", "failed login for "+payload.Name, nil)
			respondError(w, http.StatusUnauthorized, msgBadCredentials)
			return
		}
		log.Error().Err(err).Str("name", payload.Name).Msg("Login lookup failed")
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to issue token")
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	h.events.RecordEvent("auth.login", "info", "user "+user.Name+" logged in", &user.ID)
	respond(w, http.StatusOK, msgLoggedIn, map[string]interface{}{
		"user":  userData{ID: user.ID, Name: user.Name},
		"token": token,
	})
}

// Dashboard returns the protected profile for the authenticated user. The
// identity comes from the verified token claims, never from the request.
func (h *AuthHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve user claims from context")
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	user, err := h.users.GetUserByID(claims.UserID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			log.Warn().Str("user_id", claims.UserID).Msg("User from token not found in DB")
			respondError(w, http.StatusNotFound, msgUserNotFound)
			return
		}
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to load dashboard user")
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	h.events.RecordEvent("auth.dashboard", "info", "user "+user.Name+" opened dashboard", &user.ID)
	respond(w, http.StatusOK, msgDashboard, map[string]interface{}{
		"user": userData{ID: user.ID, Name: user.Name},
		"info": dashboardInfo,
	})
}
