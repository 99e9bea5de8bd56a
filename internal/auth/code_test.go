package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kinsust/kin-api/internal/auth"
)

func TestGenerateCode(t *testing.T) {
	t.Run("generates numeric codes of the requested length", func(t *testing.T) {
		code, hash, err := auth.GenerateCode(4)
		assert.NoError(t, err)
		assert.Len(t, code, 4)
		assert.NotEmpty(t, hash)
		assert.NotContains(t, hash, code)

		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9', "code should be digits only, got %q", code)
		}
	})

	t.Run("rejects non positive lengths", func(t *testing.T) {
		_, _, err := auth.GenerateCode(0)
		assert.Error(t, err)

		_, _, err = auth.GenerateCode(-3)
		assert.Error(t, err)
	})
}

func TestCompareCode(t *testing.T) {
	code, hash, err := auth.GenerateCode(6)
	assert.NoError(t, err)

	t.Run("accepts the matching code", func(t *testing.T) {
		assert.NoError(t, auth.CompareCode(code, hash))
	})

	t.Run("rejects a wrong code", func(t *testing.T) {
		err := auth.CompareCode("000000", hash)
		if code == "000000" {
			t.Skip("generated the one colliding code")
		}
		assert.ErrorIs(t, err, auth.ErrCodeMismatch)
	})

	t.Run("rejects an empty code", func(t *testing.T) {
		assert.ErrorIs(t, auth.CompareCode("", hash), auth.ErrCodeMismatch)
	})
}

func TestPasswordHashing(t *testing.T) {
	t.Run("round trips", func(t *testing.T) {
		hash, err := auth.HashPassword("correct horse battery")
		assert.NoError(t, err)
		assert.NoError(t, auth.ComparePasswordAndHash("correct horse battery", hash))
		assert.ErrorIs(t, auth.ComparePasswordAndHash("wrong", hash), auth.ErrInvalidCredentials)
	})

	t.Run("rejects empty passwords", func(t *testing.T) {
		_, err := auth.HashPassword("")
		assert.ErrorIs(t, err, auth.ErrNoEmptyString)
	})
}
