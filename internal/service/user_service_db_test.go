package service

import (
	"Arquivista/internal/repo"
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Тест: одновременная регистрация одного имени на файловой SQLite.
// Ровно одна успешна, остальные получают ErrUsernameTaken, а не ошибку БД.
func TestUserService_Register_ConcurrentSameUsername(t *testing.T) {
	db, err := repo.InitDB(filepath.Join(t.TempDir(), "arquivista.db"))
	require.NoError(t, err)
	sqlDB, _ := db.DB()
	t.Cleanup(func() { _ = sqlDB.Close() })

	svc := NewUserService(repo.NewUserRepository(db))

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register(context.Background(), "same", "pw")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, taken int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, ErrUsernameTaken):
			taken++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, taken)
}
