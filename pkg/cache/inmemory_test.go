package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetFromCache(t *testing.T) {
	c := NewCache(time.Minute, time.Minute)
	c.Set("answer", 42, 0)
	c.Set("name", "zebpay", 0)

	tests := []struct {
		name      string
		key       string
		wantValue int
		wantFound bool
	}{
		{name: "typed hit", key: "answer", wantValue: 42, wantFound: true},
		{name: "wrong type", key: "name", wantValue: 0, wantFound: false},
		{name: "missing key", key: "nope", wantValue: 0, wantFound: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := GetFromCache[int](c, tt.key)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.wantValue, got)
		})
	}
}

func TestCache_DeleteAndFlush(t *testing.T) {
	c := NewCache(time.Minute, time.Minute)
	c.Set("a", 1, 0)
	c.Set("b", 2, 0)
	assert.Equal(t, 2, c.ItemCount())

	c.Delete("a")
	_, found := c.Get("a")
	assert.False(t, found)

	c.Flush()
	assert.Equal(t, 0, c.ItemCount())
}

func TestGetFromCache_NilCache(t *testing.T) {
	got, found := GetFromCache[string](nil, "x")
	assert.False(t, found)
	assert.Empty(t, got)
}
