package translator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryCacheBasics(t *testing.T) {
	c := NewMemoryCache()

	_, ok := c.Get(cacheKey("pt", "Hello"))
	assert.False(t, ok)

	c.Set(cacheKey("pt", "Hello"), "Olá")
	v, ok := c.Get(cacheKey("pt", "Hello"))
	assert.True(t, ok)
	assert.Equal(t, "Olá", v)

	// Same text, different language: separate entries.
	c.Set(cacheKey("fr", "Hello"), "Bonjour")
	assert.Equal(t, 2, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
	_, ok = c.Get(cacheKey("pt", "Hello"))
	assert.False(t, ok)
}
