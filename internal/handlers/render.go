package handlers

import (
	"Arquivista/internal/model"
	"Arquivista/internal/storage"
	"bytes"
	"embed"
	"encoding/base64"
	"html/template"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

const flashCookie = "flash"

// pageData данные для всех шаблонов.
type pageData struct {
	Title     string
	Flash     string
	FormError string
	LoggedIn  bool
	Username  string // текущий пользователь или введённое в форму имя

	Categories []storage.Category
	History    []model.Archive
	Extensions []string
}

var funcs = template.FuncMap{
	"formatDate": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Local().Format("02 Jan 2006, 15:04")
	},
	"humanSize": func(n int64) string {
		if n < 0 {
			n = 0
		}
		return humanize.IBytes(uint64(n))
	},
}

type views struct {
	pages  map[string]*template.Template
	logger *zap.SugaredLogger
	secure bool // flash-cookie только по HTTPS
}

func newViews(logger *zap.SugaredLogger, secure bool) *views {
	v := &views{pages: make(map[string]*template.Template), logger: logger, secure: secure}
	for _, page := range []string{"login.html", "register.html", "index.html", "history.html"} {
		v.pages[page] = template.Must(
			template.New(page).Funcs(funcs).ParseFS(templateFS, "templates/base.html", "templates/"+page),
		)
	}
	return v
}

// render выполняет шаблон в буфер и только потом пишет ответ,
// чтобы ошибка шаблона не оставила полстраницы.
func (v *views) render(w http.ResponseWriter, r *http.Request, status int, page string, data *pageData) {
	if data == nil {
		data = &pageData{}
	}
	data.Flash = v.popFlash(w, r)

	ts, ok := v.pages[page]
	if !ok {
		v.logger.Errorw("render: unknown page", "page", page)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	buf := new(bytes.Buffer)
	if err := ts.ExecuteTemplate(buf, "base", data); err != nil {
		v.logger.Errorw("render: template failed", "page", page, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// setFlash сообщение, которое покажет следующая отрисованная страница.
func (v *views) setFlash(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString([]byte(msg)),
		Path:     "/",
		HttpOnly: true,
		Secure:   v.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash читает и сразу удаляет flash-сообщение.
func (v *views) popFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   v.secure,
		SameSite: http.SameSiteLaxMode,
	})
	msg, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return ""
	}
	return string(msg)
}
