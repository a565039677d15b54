package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNumberFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		num, err := NewNumber()
		require.NoError(t, err)
		assert.Regexp(t, numberPattern, num)
	}
}

func TestNewNumberDoesNotRepeat(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		num, err := NewNumber()
		require.NoError(t, err)
		_, dup := seen[num]
		require.False(t, dup, "generated number repeated: %s", num)
		seen[num] = struct{}{}
	}
}
