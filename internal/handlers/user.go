package handlers

import (
	"Arquivista/internal/config"
	"Arquivista/internal/middleware"
	"Arquivista/internal/service"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

const (
	msgRequired       = "Username and password are required."
	msgUsernameTaken  = "This username already exists. Please choose another one."
	msgRegistered     = "Account created! Please log in."
	msgBadCredentials = "Invalid username or password."
)

// UserHandler регистрация, вход и выход.
type UserHandler struct {
	Users    *service.UserService
	Sessions *service.SessionService
	Logger   *zap.SugaredLogger
	Config   *config.Config
	views    *views
}

// NewUserHandler создаёт хендлер пользователей
func NewUserHandler(users *service.UserService, sessions *service.SessionService, v *views, logger *zap.SugaredLogger, cfg *config.Config) *UserHandler {
	return &UserHandler{Users: users, Sessions: sessions, Logger: logger, Config: cfg, views: v}
}

// RegisterForm GET /register
func (h *UserHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.views.render(w, r, http.StatusOK, "register.html", &pageData{Title: "Register"})
}

// Register POST /register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	user, err := h.Users.Register(r.Context(), username, password)
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		h.views.setFlash(w, msgRequired)
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	case errors.Is(err, service.ErrUsernameTaken):
		h.Logger.Infow("Register: username taken")
		h.views.setFlash(w, msgUsernameTaken)
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	case err != nil:
		h.Logger.Errorw("Register: service error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.Logger.Infow("User registered", "user_id", user.ID, "username", user.Username)
	h.views.setFlash(w, msgRegistered)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// LoginForm GET /login
func (h *UserHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.views.render(w, r, http.StatusOK, "login.html", &pageData{Title: "Login"})
}

// Login POST /login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	user, err := h.Users.Login(r.Context(), username, password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		// введённое имя не логируем: туда бывает вписан пароль
		h.Logger.Infow("Login: invalid credentials", "remote_addr", r.RemoteAddr)
		h.views.render(w, r, http.StatusOK, "login.html", &pageData{
			Title:     "Login",
			FormError: msgBadCredentials,
			Username:  username,
		})
		return
	}
	if err != nil {
		h.Logger.Errorw("Login: service error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	sess, err := h.Sessions.Login(r.Context(), user.ID)
	if err != nil {
		h.Logger.Errorw("Login: failed to create session", "user_id", user.ID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if err := middleware.SetLoginCookie(w, sess, h.Config.AuthSecret, h.Config.EnableHTTPS); err != nil {
		h.Logger.Errorw("Login: failed to sign cookie", "user_id", user.ID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.Logger.Infow("User logged in", "user_id", user.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout GET /logout
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if sessionID, ok := middleware.GetSessionIDFromContext(r.Context()); ok {
		if err := h.Sessions.Logout(r.Context(), sessionID); err != nil {
			h.Logger.Errorw("Logout: failed to delete session", "user_id", userID, "error", err)
		}
	}
	middleware.ClearLoginCookie(w, h.Config.EnableHTTPS)

	h.Logger.Infow("User logged out", "user_id", userID)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
