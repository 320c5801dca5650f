package repo

import (
	"Arquivista/internal/model"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveRepository_ListByUser(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	r := NewArchiveRepository(db)
	ctx := context.Background()

	a, err := users.CreateUser(ctx, &model.User{Username: "a", Password: "h"})
	require.NoError(t, err)
	b, err := users.CreateUser(ctx, &model.User{Username: "b", Password: "h"})
	require.NoError(t, err)

	base := time.Now().UTC().Add(-time.Hour)
	rows := []model.Archive{
		{ID: "aaaaaaaa-0000-0000-0000-000000000001", UserID: a.ID, Name: "old.pdf", Category: "documentos/pdf", Path: "documentos/pdf/old.pdf", CreatedAt: base},
		{ID: "aaaaaaaa-0000-0000-0000-000000000002", UserID: a.ID, Name: "new.png", Category: "imagens/png", Path: "imagens/png/new.png", CreatedAt: base.Add(time.Minute)},
		{ID: "bbbbbbbb-0000-0000-0000-000000000001", UserID: b.ID, Name: "other.png", Category: "imagens/png", Path: "imagens/png/other.png", CreatedAt: base},
	}
	for i := range rows {
		row := rows[i]
		require.NoError(t, r.Create(ctx, &row))
	}

	got, err := r.ListByUser(ctx, a.ID, 0)
	require.NoError(t, err)
	if assert.Len(t, got, 2) {
		assert.Equal(t, "new.png", got[0].Name)
		assert.Equal(t, "old.pdf", got[1].Name)
	}

	limited, err := r.ListByUser(ctx, a.ID, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	none, err := r.ListByUser(ctx, 12345, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}
