package aeha

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"controlling_aircon/internal/ir"
)

func zeroByteSequence() ir.Sequence {
	seq := ir.Sequence{StdCycle * 8, StdCycle * 4}
	for i := 0; i < 8; i++ {
		seq = append(seq, StdCycle, StdCycle)
	}
	return append(seq, StdCycle)
}

func TestDecode_SingleZeroByte(t *testing.T) {
	frame, err := DecodeFrame(zeroByteSequence())
	require.NoError(t, err)
	assert.Equal(t, ir.Frame{0x00}, frame)
}

func TestDecodeFrame_RejectsSeveralFrames(t *testing.T) {
	seq, err := EncodeFrames(ir.Frame{0x40}, ir.Frame{0x01})
	require.NoError(t, err)

	_, err = DecodeFrame(seq)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFrameCount)
	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, len(seq), de.Index)
}

func TestEncode_KnownLayout(t *testing.T) {
	seq, err := Encode(ir.Frame{0x01})
	require.NoError(t, err)
	require.Len(t, seq, EncodedLength(1))
	assert.Equal(t, ir.Pulse(3400), seq[0])
	assert.Equal(t, ir.Pulse(1700), seq[1])
	// LSB first: bit 0 is a one
	assert.Equal(t, ir.Pulse(425), seq[2])
	assert.Equal(t, ir.Pulse(1275), seq[3])
	assert.Equal(t, ir.Pulse(425), seq[5])
	assert.Equal(t, ir.Pulse(425), seq[len(seq)-1])
}

func TestEncode_Errors(t *testing.T) {
	_, err := Encode(ir.Frame{})
	assert.ErrorIs(t, err, ErrEmptyFrame)

	_, err = Encode(make(ir.Frame, MaxFrameBytes+1))
	assert.ErrorIs(t, err, ErrFrameTooLong)

	_, err = EncodeFrames()
	assert.ErrorIs(t, err, ErrEmptyFrame)

	_, err = EncodeFrames(ir.Frame{1}, ir.Frame{})
	assert.ErrorIs(t, err, ErrEmptyFrame)
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for n := 1; n <= MaxFrameBytes; n++ {
		frame := make(ir.Frame, n)
		rng.Read(frame)

		seq, err := Encode(frame)
		require.NoError(t, err)
		got, err := DecodeFrame(seq)
		require.NoError(t, err, "length %d", n)
		require.Equal(t, frame, got, "length %d", n)
	}
}

func TestRoundTrip_MultipleFrames(t *testing.T) {
	frames := []ir.Frame{{0x40, 0x00, 0x14}, {0xFF, 0x80}}
	seq, err := EncodeFrames(frames...)
	require.NoError(t, err)

	got, err := Decode(seq)
	require.NoError(t, err)
	assert.Equal(t, frames, got)
}

func TestDecode_RepeatFrameAfterData(t *testing.T) {
	seq, err := Encode(ir.Frame{0xAA})
	require.NoError(t, err)
	seq = append(seq, WaitLength, StdCycle*8, StdCycle*8, StdCycle)

	got, err := Decode(seq)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, ir.Frame{0xAA}, got[0])
	assert.True(t, got[1].IsRepeat())
}

func TestDecode_Tolerance(t *testing.T) {
	scale := func(seq ir.Sequence, f float64) ir.Sequence {
		out := make(ir.Sequence, len(seq))
		for i, p := range seq {
			out[i] = ir.Pulse(float64(p) * f)
		}
		return out
	}
	seq, err := Encode(ir.Frame{0x5A, 0xC3})
	require.NoError(t, err)

	for _, f := range []float64{0.70, 0.80, 1.20, 1.30} {
		got, err := DecodeFrame(scale(seq, f))
		require.NoError(t, err, "factor %.2f", f)
		assert.Equal(t, ir.Frame{0x5A, 0xC3}, got)
	}

	// a data space between the 1 and 3 cycle bands
	bad := seq.Clone()
	bad[3] = 700
	_, err = Decode(bad)
	assert.ErrorIs(t, err, ErrUnknownBit)

	// a data mark outside +/-35%
	bad = seq.Clone()
	bad[2] = ir.Pulse(StdCycle * 1.4)
	_, err = Decode(bad)
	assert.ErrorIs(t, err, ErrUnknownBit)
}

func TestDecode_Errors(t *testing.T) {
	valid, err := Encode(ir.Frame{0x12})
	require.NoError(t, err)

	cases := []struct {
		name string
		seq  ir.Sequence
		want error
	}{
		{
			name: "too short",
			seq:  valid[:9],
			want: ErrTooShort,
		},
		{
			name: "bad leader",
			seq:  append(ir.Sequence{StdCycle, StdCycle}, valid[2:]...),
			want: ErrUnknownEnd,
		},
		{
			name: "missing stop mark",
			seq:  valid[:len(valid)-1],
			want: ErrUnexpectedEnd,
		},
		{
			name: "partial byte before stop",
			seq:  append(valid[:len(valid)-3:len(valid)-3], StdCycle),
			want: ErrInvalidBits,
		},
		{
			name: "stop mark out of band",
			seq:  append(valid[:len(valid)-1:len(valid)-1], StdCycle*3),
			want: ErrInvalidBits,
		},
		{
			name: "gap followed by garbage",
			seq:  append(valid.Clone(), WaitLength, StdCycle, StdCycle, StdCycle),
			want: ErrUnknownEnd,
		},
		{
			name: "gap followed by lone mark",
			seq:  append(valid.Clone(), WaitLength, StdCycle*8),
			want: ErrOddEnd,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.seq)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)

			var de *DecodeError
			assert.True(t, errors.As(err, &de))
		})
	}
}

func TestVerifyLeaderAndRepeat(t *testing.T) {
	assert.True(t, VerifyLeader(3400, 1700))
	assert.False(t, VerifyLeader(3400, 3400))
	assert.True(t, VerifyRepeat(3400, 3400))
	assert.False(t, VerifyRepeat(1700, 3400))
}
