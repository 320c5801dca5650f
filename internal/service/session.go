package service

import (
	"Arquivista/internal/model"
	"Arquivista/internal/repo"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// SessionService серверные сессии: вход, проверка, выход.
type SessionService struct {
	repo repo.SessionRepository
	ttl  time.Duration
	now  func() time.Time
}

func NewSessionService(r repo.SessionRepository, ttl time.Duration) *SessionService {
	return &SessionService{repo: r, ttl: ttl, now: time.Now}
}

// Login открывает новую сессию пользователя.
func (s *SessionService) Login(ctx context.Context, userID int64) (*model.Session, error) {
	sess := &model.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: s.now().UTC().Add(s.ttl),
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

// Resolve возвращает действующую сессию. Истёкшая сессия удаляется.
func (s *SessionService) Resolve(ctx context.Context, id string) (*model.Session, error) {
	sess, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if sess.Expired(s.now()) {
		_ = s.repo.Delete(ctx, id)
		return nil, ErrSessionExpired
	}
	return sess, nil
}

// Logout удаляет сессию; отсутствующая сессия не ошибка.
func (s *SessionService) Logout(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// CleanupExpired удаляет все истёкшие сессии.
func (s *SessionService) CleanupExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx, s.now().UTC())
}
