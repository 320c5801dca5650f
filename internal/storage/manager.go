// Package storage хранит загруженные файлы в личном дереве каждого пользователя:
// <root>/<user_id>/<категория>/<имя>.
package storage

import (
	"Arquivista/internal/classifier"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const (
	dirPerm  = 0o750
	filePerm = 0o640

	// временные файлы незавершённой записи, в листинг не попадают
	tempPrefix = ".upload-"
)

var (
	ErrInvalidName     = errors.New("invalid file name")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrOutsideRoot     = errors.New("path escapes user root")
	ErrInvalidUser     = errors.New("invalid user id")
)

// StoredFile результат успешной записи.
type StoredFile struct {
	Name     string
	Category string // относительный путь категории через "/"
	RelPath  string // путь от корня пользователя через "/"
	Size     int64
}

// Entry файл в листинге.
type Entry struct {
	Name    string
	RelPath string
}

// Category папка, в которой непосредственно лежат файлы.
// Label: относительный путь с разделителями " / ".
type Category struct {
	Label string
	Files []Entry
}

// Manager владеет корнем загрузок.
type Manager struct {
	root string
}

// NewManager создаёт корень загрузок, если его нет.
func NewManager(root string) (*Manager, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve upload root: %w", err)
	}
	if err := os.MkdirAll(abs, dirPerm); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", abs, err)
	}
	return &Manager{root: abs}, nil
}

// Root абсолютный путь корня загрузок.
func (m *Manager) Root() string { return m.root }

// UserRoot личная папка пользователя.
func (m *Manager) UserRoot(userID int64) string {
	return filepath.Join(m.root, strconv.FormatInt(userID, 10))
}

// Store классифицирует и сохраняет файл. Файл с тем же именем в той же
// категории перезаписывается. Ошибки ErrInvalidName и ErrUnsupportedType
// означают отказ, остальные означают сбой ввода-вывода.
func (m *Manager) Store(userID int64, filename string, content io.Reader) (*StoredFile, error) {
	if userID <= 0 {
		return nil, ErrInvalidUser
	}
	name := SanitizeFilename(filename)
	if name == "" {
		return nil, ErrInvalidName
	}
	category, ok := classifier.Classify(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, name)
	}

	userRoot := m.UserRoot(userID)
	dir := filepath.Join(userRoot, filepath.FromSlash(category))
	target := filepath.Join(dir, name)
	if !within(userRoot, target) {
		return nil, ErrOutsideRoot
	}

	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}

	size, err := writeAtomic(dir, target, content)
	if err != nil {
		return nil, err
	}

	return &StoredFile{
		Name:     name,
		Category: category,
		RelPath:  category + "/" + name,
		Size:     size,
	}, nil
}

// writeAtomic пишет во временный файл рядом с target и переименовывает его.
func writeAtomic(dir, target string, content io.Reader) (int64, error) {
	tmp, err := os.CreateTemp(dir, tempPrefix+"*")
	if err != nil {
		return 0, fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()

	n, err := io.Copy(tmp, content)
	if err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return 0, fmt.Errorf("write %s: %w", target, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return 0, fmt.Errorf("close %s: %w", target, err)
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		_ = os.Remove(tmpName)
		return 0, fmt.Errorf("chmod %s: %w", target, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return 0, fmt.Errorf("rename %s: %w", target, err)
	}
	return n, nil
}

// ListOrganized обходит дерево пользователя и группирует файлы по папкам.
// Файлы прямо в корне пользователя не показываются.
// Категории отсортированы по Label, файлы по имени.
func (m *Manager) ListOrganized(userID int64) ([]Category, error) {
	root := m.UserRoot(userID)
	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		return []Category{}, nil
	}

	byDir := make(map[string][]Entry)
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() || strings.HasPrefix(d.Name(), tempPrefix) {
			return nil
		}
		dir := filepath.Dir(p)
		if dir == root {
			return nil
		}
		rel, err := filepath.Rel(root, dir)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		byDir[rel] = append(byDir[rel], Entry{Name: d.Name(), RelPath: rel + "/" + d.Name()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	out := make([]Category, 0, len(byDir))
	for rel, files := range byDir {
		sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
		out = append(out, Category{Label: strings.ReplaceAll(rel, "/", " / "), Files: files})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

func within(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil || filepath.IsAbs(rel) {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
