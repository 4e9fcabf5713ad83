package equitywire

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniformJitterBackoffWindow(t *testing.T) {
	calc := UniformJitterBackoff(2500*time.Millisecond, 2000*time.Millisecond)

	seen := make(map[time.Duration]struct{})
	for i := 0; i < 500; i++ {
		d := calc(i)
		require.GreaterOrEqual(t, d, 2500*time.Millisecond)
		require.Less(t, d, 4500*time.Millisecond)
		seen[d] = struct{}{}
	}

	assert.Greater(t, len(seen), 1, "delay must vary across trials")
}

func TestUniformJitterBackoffIgnoresAttempts(t *testing.T) {
	calc := UniformJitterBackoff(time.Second, 0)

	for _, attempts := range []int{1, 2, 10, 1000} {
		assert.Equal(t, time.Second, calc(attempts))
	}
}

func TestExponentialBackoffSeconds(t *testing.T) {
	assert.Equal(t, time.Duration(0), ExponentialBackoffSeconds(1))
	assert.Equal(t, 3*time.Second, ExponentialBackoffSeconds(3))
	assert.Equal(t, 15*time.Second, ExponentialBackoffSeconds(5))

	prev := time.Duration(0)
	for attempts := 1; attempts < 10; attempts++ {
		d := ExponentialBackoffSeconds(attempts)
		require.GreaterOrEqual(t, d, prev)
		prev = d
	}
}
