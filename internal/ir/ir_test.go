package ir

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   time.Duration
		want Pulse
	}{
		{"fine rounds down", 424 * time.Microsecond, 420},
		{"fine rounds half up", 425 * time.Microsecond, 430},
		{"debounced sum", 110 * time.Microsecond, 110},
		{"medium grid", 1274 * time.Microsecond, 1250},
		{"medium half up", 1275 * time.Microsecond, 1300},
		{"coarse grid", 3399 * time.Microsecond, 3400},
		{"coarse down", 10090 * time.Microsecond, 10000},
		{"sub microsecond truncated", 1500 * time.Nanosecond, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestSequenceCloneIsIndependent(t *testing.T) {
	s := Sequence{1, 2, 3}
	c := s.Clone()
	c[0] = 9
	require.Equal(t, Pulse(1), s[0])
	require.True(t, s.Equal(Sequence{1, 2, 3}))
	require.False(t, s.Equal(c))
	require.Nil(t, Sequence(nil).Clone())
}

func TestFrameString(t *testing.T) {
	assert.Equal(t, "Repeat", Frame{}.String())
	assert.Equal(t, "0x40, 0x00, 0x14", Frame{0x40, 0x00, 0x14}.String())
}

func TestSequenceMicrosRoundTrip(t *testing.T) {
	s := Sequence{3400, 1700, 425}
	assert.True(t, s.Equal(SequenceFromMicros(s.Micros())))
	assert.Equal(t, 425*time.Microsecond, Pulse(425).Duration())
}
