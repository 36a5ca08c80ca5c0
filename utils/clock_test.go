package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeToMinutes(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"00:00", 0},
		{"09:00", 540},
		{"09:30", 570},
		{"23:59", 1439},
	}
	for _, tc := range cases {
		got, err := TimeToMinutes(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestTimeToMinutesRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "9", "24:00", "12:60", "ab:cd", "12:00:00"} {
		_, err := TimeToMinutes(in)
		assert.Error(t, err, in)
	}
}

func TestMinutesToTimeRoundTrip(t *testing.T) {
	for _, m := range []int{0, 540, 570, 1439} {
		s := MinutesToTime(m)
		back, err := TimeToMinutes(s)
		require.NoError(t, err)
		assert.Equal(t, m, back)
	}
}
