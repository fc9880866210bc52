package glossary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDomainTerms(t *testing.T) {
	g := NewDefault()

	assert.Equal(t, "Orçamentos", g.Apply("Quotes", "pt"))
	assert.Equal(t, "Orçamento", g.Apply("Quote", "pt"))
	assert.Equal(t, "Ver Orçamentos recentes", g.Apply("Ver Quotes recentes", "pt"))
}

func TestApplyEuropeanPortugueseCorrections(t *testing.T) {
	g := NewDefault()

	tests := []struct{ in, want string }{
		{"Salvar", "Guardar"},
		{"Deletar alterações", "Eliminar alterações"},
		{"Gerenciamento de usuários", "Gestão de utilizadores"},
		{"Aluguel de equipamento", "Aluguer de equipamento"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, g.Apply(tt.in, "pt"))
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	g := NewDefault()

	inputs := []string{"Quotes", "Salvar e continuar", "Orçamentos", "Texto sem termos"}
	for _, in := range inputs {
		once := g.Apply(in, "pt")
		twice := g.Apply(once, "pt")
		assert.Equal(t, once, twice, "glossary must be a no-op on its own output: %q", in)
	}
}

func TestApplyMatchesWholeWordsOnly(t *testing.T) {
	g := NewDefault()

	// "Quotes" inside a larger word must not be rewritten.
	assert.Equal(t, "Misquotes", g.Apply("Misquotes", "pt"))
	assert.Equal(t, "Quotesheet", g.Apply("Quotesheet", "pt"))
}

func TestApplyUnknownLanguagePassesThrough(t *testing.T) {
	g := NewDefault()
	assert.Equal(t, "Quotes", g.Apply("Quotes", "fr"))
}

func TestLoadMergesFileRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glossary.yaml")
	content := []byte("pt:\n  - match: \"Dashboard\"\n    replacement: \"Painel\"\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	g, err := Load(path)
	require.NoError(t, err)

	// File rules extend the defaults.
	assert.Equal(t, "Painel", g.Apply("Dashboard", "pt"))
	assert.Equal(t, "Orçamentos", g.Apply("Quotes", "pt"))
	assert.Greater(t, g.RuleCount("pt"), 0)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
