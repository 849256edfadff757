package quotations

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNumberFormat(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 30, 45, 0, time.UTC)
	n := NewNumber(now)

	parts := strings.Split(n, "-")
	require.Len(t, parts, 3)
	assert.Equal(t, "Q", parts[0])
	assert.Equal(t, "20260314103045", parts[1])
	assert.Len(t, parts[2], 4)
}

func TestNewNumberVariesWithinOneSecond(t *testing.T) {
	now := time.Now()
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		seen[NewNumber(now)] = true
	}
	// 3 random bytes give ~16M combinations; 100 draws colliding into one
	// bucket would indicate a broken suffix.
	assert.Greater(t, len(seen), 90)
}
