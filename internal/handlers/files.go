package handlers

import (
	"Arquivista/internal/classifier"
	"Arquivista/internal/config"
	"Arquivista/internal/service"
	"fmt"
	"mime/multipart"
	"net/http"

	"go.uber.org/zap"
)

const (
	// сверх лимита тело уходит во временные файлы
	multipartMemory = 32 << 20

	msgNothingValid = "No valid file was uploaded."
)

// поля multipart, из которых берутся файлы; "arquivo" старое имя поля
var uploadFields = []string{"files", "arquivo"}

// FileHandler главная страница, загрузка и история.
type FileHandler struct {
	Files  *service.FileService
	Users  *service.UserService
	Logger *zap.SugaredLogger
	Config *config.Config
	views  *views
}

// NewFileHandler создаёт хендлер файлов
func NewFileHandler(files *service.FileService, users *service.UserService, v *views, logger *zap.SugaredLogger, cfg *config.Config) *FileHandler {
	return &FileHandler{Files: files, Users: users, Logger: logger, Config: cfg, views: v}
}

// Index GET /: дерево файлов пользователя по категориям.
func (h *FileHandler) Index(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	categories, err := h.Files.Organized(userID)
	if err != nil {
		h.Logger.Errorw("Index: failed to list files", "user_id", userID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.views.render(w, r, http.StatusOK, "index.html", &pageData{
		Title:      "My files",
		LoggedIn:   true,
		Username:   h.username(r, userID),
		Categories: categories,
		Extensions: classifier.Extensions(),
	})
}

// Upload POST /upload: пакет файлов. Пользователь видит только число
// сохранённых; после загрузки всегда редирект на главную.
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.Config.UploadMaxBytes())
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.Logger.Warnw("Upload: invalid multipart form", "user_id", userID, "error", err)
		h.views.setFlash(w, msgNothingValid)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	var files []*multipart.FileHeader
	for _, field := range uploadFields {
		files = append(files, r.MultipartForm.File[field]...)
	}

	res := h.Files.StoreBatch(r.Context(), userID, files)
	h.Logger.Infow("Upload finished",
		"user_id", userID,
		"received", len(files),
		"stored", res.Stored,
		"rejected", res.Rejected,
		"failed", res.Failed,
	)

	if res.Stored > 0 {
		h.views.setFlash(w, fmt.Sprintf("%d file(s) organized successfully!", res.Stored))
	} else {
		h.views.setFlash(w, msgNothingValid)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// History GET /history: журнал загрузок пользователя.
func (h *FileHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	history, err := h.Files.History(r.Context(), userID)
	if err != nil {
		h.Logger.Errorw("History: failed to load", "user_id", userID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.views.render(w, r, http.StatusOK, "history.html", &pageData{
		Title:    "Upload history",
		LoggedIn: true,
		Username: h.username(r, userID),
		History:  history,
	})
}

func (h *FileHandler) username(r *http.Request, userID int64) string {
	u, err := h.Users.GetByID(r.Context(), userID)
	if err != nil {
		h.Logger.Warnw("failed to load current user", "user_id", userID, "error", err)
		return ""
	}
	if u == nil {
		return ""
	}
	return u.Username
}
