package idx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	a := New()
	b := New()

	require.False(t, a.IsZero())
	require.NotEqual(t, a, b)
	require.Len(t, a.String(), 26)
}

func TestNewAtIsSortable(t *testing.T) {
	t.Parallel()

	earlier := NewAt(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	later := NewAt(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))

	require.Less(t, earlier.String(), later.String())
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("round trips a generated id", func(t *testing.T) {
		id := New()
		parsed, err := Parse(id.String())
		require.NoError(t, err)
		require.Equal(t, id, parsed)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		for _, bad := range []string{"", "  ", "not-a-ulid", "0000"} {
			_, err := Parse(bad)
			require.ErrorIs(t, err, ErrInvalid)
		}
	})
}

func TestTime(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	id := NewAt(at)

	// ULID timestamps have millisecond resolution.
	require.WithinDuration(t, at, id.Time(), time.Millisecond)
	require.True(t, Zero.Time().IsZero())
}
