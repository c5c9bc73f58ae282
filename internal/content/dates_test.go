package content

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/sqrtlabs/contentfeed/internal/foundation/errors"
)

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	for _, raw := range []string{
		"2024-03-15",
		"2024-03-15T00:00:00Z",
		"2024-03-15T00:00:00",
		"2024-03-15 00:00:00",
		"March 15, 2024",
		"Mar 15, 2024",
		"15 March 2024",
		" 2024-03-15 ",
	} {
		got, err := ParseDate(raw)
		require.NoError(t, err, raw)
		assert.True(t, want.Equal(got), "%s parsed as %s", raw, got)
	}

	offset, err := ParseDate("2024-03-15T02:00:00+02:00")
	require.NoError(t, err)
	assert.True(t, want.Equal(offset))
	assert.Equal(t, time.UTC, offset.Location())
}

func TestParseDateMalformed(t *testing.T) {
	for _, raw := range []string{"", "sometime in spring", "2024-13-45"} {
		_, err := ParseDate(raw)
		require.Error(t, err, raw)
		assert.True(t, ferrors.HasCategory(err, ferrors.CategoryMalformedDate))
	}
}
