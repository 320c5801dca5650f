package handlers

import (
	"Arquivista/internal/config"
	"Arquivista/internal/middleware"
	"Arquivista/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	userService *service.UserService,
	sessionService *service.SessionService,
	fileService *service.FileService,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.WithLogging(logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.WithGzip)
	r.Use(middleware.WithAuth(config.AuthSecret, sessionService))

	v := newViews(logger, config.EnableHTTPS)

	// Handlers
	userHandler := NewUserHandler(userService, sessionService, v, logger, config)
	fileHandler := NewFileHandler(fileService, userService, v, logger, config)

	r.Get("/up", Health)

	// User routes
	r.Get("/register", userHandler.RegisterForm)
	r.Post("/register", userHandler.Register)
	r.Get("/login", userHandler.LoginForm)
	r.Post("/login", userHandler.Login)
	r.Get("/logout", userHandler.Logout)

	// File routes
	r.Get("/", fileHandler.Index)
	r.Post("/upload", fileHandler.Upload)
	r.Get("/history", fileHandler.History)

	return &Handler{Router: r}
}

// Health проверка живости без аутентификации.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// requireUser: guard в начале каждого защищённого хендлера.
// Анонимный запрос перенаправляется на /login.
func requireUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	// защищённые страницы не кешируем
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	w.Header().Set("Pragma", "no-cache")

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return 0, false
	}
	return userID, true
}
