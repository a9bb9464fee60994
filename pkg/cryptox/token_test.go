package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	t.Parallel()

	t.Run("encodes to the expected length", func(t *testing.T) {
		code, err := GenerateCode(CodeSize256)
		require.NoError(t, err)
		require.Len(t, code, 43) // 32 bytes, base64url, no padding

		code, err = GenerateCode(CodeSize128)
		require.NoError(t, err)
		require.Len(t, code, 22)
	})

	t.Run("codes are unique", func(t *testing.T) {
		seen := make(map[string]bool)
		for range 100 {
			code, err := GenerateCode(CodeSize256)
			require.NoError(t, err)
			require.False(t, seen[code], "duplicate code generated")
			seen[code] = true
		}
	})

	t.Run("rejects non-positive sizes", func(t *testing.T) {
		_, err := GenerateCode(0)
		require.Error(t, err)
		_, err = GenerateCode(-4)
		require.Error(t, err)
	})
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	require.Equal(t, Fingerprint("value"), Fingerprint("value"))
	require.NotEqual(t, Fingerprint("value"), Fingerprint("other"))
	require.Len(t, Fingerprint("value"), 43)
}
