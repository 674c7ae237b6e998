package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeedUtils(t *testing.T) {
	t.Run("dereferenceSeed: nil の場合は 0 を返す", func(t *testing.T) {
		assert.Equal(t, int64(0), DereferenceSeed(nil))
	})

	t.Run("dereferenceSeed: 値がある場合はその値を返す", func(t *testing.T) {
		var val int64 = 999
		assert.Equal(t, int64(999), DereferenceSeed(&val))
	})

	t.Run("NewRand: 同じシードなら同じ系列になる", func(t *testing.T) {
		var seed int64 = 42
		a, b := NewRand(&seed), NewRand(&seed)
		for i := 0; i < 10; i++ {
			assert.Equal(t, a.Uint64(), b.Uint64())
		}
	})

	t.Run("NewRand: nil でも乱数源を返す", func(t *testing.T) {
		assert.NotNil(t, NewRand(nil))
	})
}
