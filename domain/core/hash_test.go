package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewHash(t *testing.T) {
	h := NewHash([]byte("e1|logro|4"))

	assert.Len(t, h.String(), 64)
	assert.Equal(t, h, NewHash([]byte("e1|logro|4")))
	assert.NotEqual(t, h, NewHash([]byte("e1|logro|5")))
	assert.False(t, h.IsEmpty())
	assert.True(t, Hash("").IsEmpty())
}

func TestHashShort(t *testing.T) {
	h := NewHash(nil)

	assert.Equal(t, "e3b0c44298fc", h.Short())
	assert.Equal(t, "abc", Hash("abc").Short())
}
