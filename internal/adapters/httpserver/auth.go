package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"

	"github.com/boscoapparel/shop/internal/domain"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		fail(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	u, pair, err := s.auth.Register(r.Context(), req.Name, req.Email, req.Password, domain.RoleUser)
	if err != nil {
		failErr(w, err, "User not found", "User with this email already exists")
		return
	}
	ok(w, http.StatusCreated, map[string]any{
		"message":      "User registered successfully",
		"user":         u,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		fail(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	u, pair, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		var valErr domain.ValidationError
		if errors.As(err, &valErr) {
			fail(w, http.StatusBadRequest, valErr.Error())
			return
		}
		fail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	ok(w, http.StatusOK, map[string]any{
		"message":      "Login successful",
		"user":         u,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (s *Server) handleRefreshToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		fail(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := decodeJSON(r, &req); err != nil || req.RefreshToken == "" {
		fail(w, http.StatusBadRequest, "Refresh token is required")
		return
	}
	_, access, err := s.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		fail(w, http.StatusUnauthorized, "Token is not valid")
		return
	}
	ok(w, http.StatusOK, map[string]any{"accessToken": access})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		fail(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	u := s.requireAuth(w, r)
	if u == nil {
		return
	}
	if err := s.auth.Logout(r.Context(), u.ID); err != nil {
		failErr(w, err, "User not found", "")
		return
	}
	ok(w, http.StatusOK, map[string]any{"message": "Logged out successfully"})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	u := s.requireAuth(w, r)
	if u == nil {
		return
	}
	switch r.Method {
	case http.MethodGet:
		ok(w, http.StatusOK, map[string]any{"user": u})
	case http.MethodPut:
		var req struct {
			Name  string `json:"name"`
			Email string `json:"email"`
		}
		if err := decodeJSON(r, &req); err != nil {
			fail(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		updated, err := s.auth.UpdateProfile(r.Context(), u.ID, req.Name, req.Email)
		if err != nil {
			failErr(w, err, "User not found", "User with this email already exists")
			return
		}
		ok(w, http.StatusOK, map[string]any{"message": "Profile updated successfully", "user": updated})
	default:
		fail(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		fail(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if s.requireAdmin(w, r) == nil {
		return
	}
	qv := r.URL.Query()
	page := cast.ToInt(qv.Get("page"))
	if page < 1 {
		page = 1
	}
	limit := cast.ToInt(qv.Get("limit"))
	if limit < 1 {
		limit = 10
	}
	users, total, err := s.auth.ListUsers(r.Context(), page, limit)
	if err != nil {
		failErr(w, err, "User not found", "")
		return
	}
	ok(w, http.StatusOK, map[string]any{"data": users, "total": total})
}

// handleDeleteUser covers DELETE /api/auth/{id}; everything else under the
// prefix is an unknown route.
func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	idStr := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/auth/"), "/")
	id, err := uuid.Parse(idStr)
	if err != nil {
		fail(w, http.StatusNotFound, "Route not found")
		return
	}
	if r.Method != http.MethodDelete {
		fail(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if s.requireAdmin(w, r) == nil {
		return
	}
	if err := s.auth.DeleteUser(r.Context(), id); err != nil {
		failErr(w, err, "User not found", "")
		return
	}
	ok(w, http.StatusOK, map[string]any{"message": "User deleted successfully"})
}

func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if s.oauthCfg == nil || s.oauthCfg.ClientID == "" {
		fail(w, http.StatusServiceUnavailable, "Google login is not configured")
		return
	}
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   300,
	})
	http.Redirect(w, r, s.oauthCfg.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if s.oauthCfg == nil || s.oauthCfg.ClientID == "" {
		fail(w, http.StatusServiceUnavailable, "Google login is not configured")
		return
	}
	cookie, err := r.Cookie("oauth_state")
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		fail(w, http.StatusBadRequest, "Invalid OAuth state")
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		fail(w, http.StatusBadRequest, "Missing authorization code")
		return
	}
	token, err := s.oauthCfg.Exchange(r.Context(), code)
	if err != nil {
		log.Error().Err(err).Msg("google code exchange")
		fail(w, http.StatusUnauthorized, "Google authentication failed")
		return
	}
	client := s.oauthCfg.Client(r.Context(), token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		log.Error().Err(err).Msg("google userinfo fetch")
		fail(w, http.StatusUnauthorized, "Google authentication failed")
		return
	}
	defer resp.Body.Close()
	var info struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil || info.Email == "" {
		fail(w, http.StatusUnauthorized, "Google authentication failed")
		return
	}
	u, pair, err := s.auth.LoginOAuth(r.Context(), info.Name, info.Email)
	if err != nil {
		failErr(w, err, "User not found", "")
		return
	}
	ok(w, http.StatusOK, map[string]any{
		"message":      "Login successful",
		"user":         u,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}
