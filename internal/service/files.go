package service

import (
	"Arquivista/internal/model"
	"Arquivista/internal/repo"
	"Arquivista/internal/storage"
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const historyLimit = 200

// FileService загрузка файлов в дерево пользователя и история загрузок.
type FileService struct {
	storage  *storage.Manager
	archives repo.ArchiveRepository
	logger   *zap.SugaredLogger
}

func NewFileService(st *storage.Manager, archives repo.ArchiveRepository, logger *zap.SugaredLogger) *FileService {
	return &FileService{storage: st, archives: archives, logger: logger}
}

// UploadResult итог пакетной загрузки. Пользователю показывается только Stored.
type UploadResult struct {
	Stored   int
	Rejected int // пустое имя или неподдерживаемое расширение
	Failed   int // ошибка ввода-вывода
}

// StoreBatch сохраняет каждый файл независимо; отказ одного не прерывает остальные.
func (s *FileService) StoreBatch(ctx context.Context, userID int64, files []*multipart.FileHeader) UploadResult {
	var res UploadResult
	for _, fh := range files {
		if fh == nil || fh.Filename == "" {
			res.Rejected++
			continue
		}
		_, err := s.storeOne(ctx, userID, fh)
		switch {
		case err == nil:
			res.Stored++
		case errors.Is(err, storage.ErrInvalidName), errors.Is(err, storage.ErrUnsupportedType):
			res.Rejected++
			s.logger.Infow("upload: file rejected", "user_id", userID, "filename", fh.Filename, "reason", err)
		default:
			res.Failed++
			s.logger.Errorw("upload: file failed", "user_id", userID, "filename", fh.Filename, "error", err)
		}
	}
	return res
}

func (s *FileService) storeOne(ctx context.Context, userID int64, fh *multipart.FileHeader) (*storage.StoredFile, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open part: %w", err)
	}
	defer f.Close()

	stored, err := s.storage.Store(userID, fh.Filename, f)
	if err != nil {
		return nil, err
	}

	// история вспомогательная, её сбой не отменяет сохранённый файл
	entry := &model.Archive{
		ID:       uuid.NewString(),
		UserID:   userID,
		Name:     stored.Name,
		Category: stored.Category,
		Path:     stored.RelPath,
		Size:     stored.Size,
	}
	if err := s.archives.Create(ctx, entry); err != nil {
		s.logger.Warnw("upload: history not recorded", "user_id", userID, "path", stored.RelPath, "error", err)
	}
	return stored, nil
}

// Organized дерево файлов пользователя по категориям.
func (s *FileService) Organized(userID int64) ([]storage.Category, error) {
	return s.storage.ListOrganized(userID)
}

// History последние загрузки пользователя, новые первыми.
func (s *FileService) History(ctx context.Context, userID int64) ([]model.Archive, error) {
	return s.archives.ListByUser(ctx, userID, historyLimit)
}
