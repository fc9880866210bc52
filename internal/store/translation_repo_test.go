package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *TranslationRepo {
	t.Helper()
	db, err := Init(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewTranslationRepo(db)
}

func TestInsertAndFindExact(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, &TranslationRecord{
		SourceText:     "Hello",
		TargetLang:     "pt",
		TranslatedText: "Olá",
		Model:          "deepl-v2",
	}))

	rec, err := repo.FindExact(ctx, "Hello", "pt")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "Olá", rec.TranslatedText)
	assert.Equal(t, "deepl-v2", rec.Model)
	assert.False(t, rec.CreatedAt.IsZero())

	missing, err := repo.FindExact(ctx, "Hello", "fr")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestInsertIgnoresDuplicateKey(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := &TranslationRecord{SourceText: "Hello", TargetLang: "pt", TranslatedText: "Olá"}
	require.NoError(t, repo.Insert(ctx, first))

	// The losing side of the race must neither error nor overwrite.
	second := &TranslationRecord{SourceText: "Hello", TargetLang: "pt", TranslatedText: "Alô"}
	require.NoError(t, repo.Insert(ctx, second))

	rec, err := repo.FindExact(ctx, "Hello", "pt")
	require.NoError(t, err)
	assert.Equal(t, "Olá", rec.TranslatedText)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestFindBySet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.BulkInsert(ctx, []*TranslationRecord{
		{SourceText: "Save", TargetLang: "pt", TranslatedText: "Guardar"},
		{SourceText: "Cancel", TargetLang: "pt", TranslatedText: "Cancelar"},
		{SourceText: "Save", TargetLang: "fr", TranslatedText: "Enregistrer"},
	}))

	got, err := repo.FindBySet(ctx, []string{"Save", "Cancel", "Delete"}, "pt")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Save": "Guardar", "Cancel": "Cancelar"}, got)

	empty, err := repo.FindBySet(ctx, nil, "pt")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestBulkInsertSkipsDuplicates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, &TranslationRecord{
		SourceText: "Save", TargetLang: "pt", TranslatedText: "Guardar",
	}))
	require.NoError(t, repo.BulkInsert(ctx, []*TranslationRecord{
		{SourceText: "Save", TargetLang: "pt", TranslatedText: "Salvar"},
		{SourceText: "Edit", TargetLang: "pt", TranslatedText: "Editar"},
	}))

	got, err := repo.FindBySet(ctx, []string{"Save", "Edit"}, "pt")
	require.NoError(t, err)
	assert.Equal(t, "Guardar", got["Save"])
	assert.Equal(t, "Editar", got["Edit"])
}

func TestAllAndCounts(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.BulkInsert(ctx, []*TranslationRecord{
		{SourceText: "Save", TargetLang: "pt", TranslatedText: "Guardar"},
		{SourceText: "Cancel", TargetLang: "pt", TranslatedText: "Cancelar"},
		{SourceText: "Save", TargetLang: "fr", TranslatedText: "Enregistrer"},
	}))

	all, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byLang, err := repo.CountByLang(ctx)
	require.NoError(t, err)
	require.Len(t, byLang, 2)
	assert.Equal(t, LangCount{TargetLang: "fr", Count: 1}, byLang[0])
	assert.Equal(t, LangCount{TargetLang: "pt", Count: 2}, byLang[1])
}

func TestMigrationsAreIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := Init(dbPath)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopening must not re-apply migrations.
	db, err = Init(dbPath)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}
