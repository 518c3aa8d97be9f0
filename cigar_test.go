package align

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCigarString(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    []CodeCountPair
		wantErr error
	}{
		{"basic", "10M2I5D", []CodeCountPair{{0, 10}, {1, 2}, {2, 5}}, nil},
		{"bare_count_one", "M2I", []CodeCountPair{{0, 1}, {1, 2}}, nil},
		{"coalesces_on_parse", "3M4M2I", []CodeCountPair{{0, 7}, {1, 2}}, nil},
		{"trailing_digits", "3M4", nil, ErrTrailingDigits},
		{"unknown_char", "3Z", nil, ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := ParseCigarString([]byte(tc.in))
			if tc.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, c.ToPairList())
		})
	}
}

func TestParseEmitRoundTrip(t *testing.T) {
	for _, s := range []string{"10M2I5D", "1M1I1D1M", "150M", "6H5S4M3I5M2D6S11H"} {
		t.Run(s, func(t *testing.T) {
			c, err := ParseCigarString([]byte(s))
			require.NoError(t, err)
			assert.Equal(t, s, string(c.ToString()))

			c2, err := ParseCigarString(c.ToString())
			require.NoError(t, err)
			assert.Equal(t, string(c.ToString()), string(c2.ToString()))
		})
	}
}

func TestAppendCoalescesAndDoesNotCoalesceAcrossDifferentOps(t *testing.T) {
	c := NewCigarSequence()
	require.NoError(t, c.Append(OpMatch, 3))
	require.NoError(t, c.Append(OpMatch, 4))
	require.NoError(t, c.Append(OpInsertion, 2))
	require.NoError(t, c.Append(OpInsertion, 0)) // no-op
	require.NoError(t, c.Append(OpDeletion, 1))

	pairs := c.ToPairList()
	require.Len(t, pairs, 3)
	assert.Equal(t, uint32(7), pairs[0].Count)
	assert.Equal(t, uint32(2), pairs[1].Count)
	assert.Equal(t, uint32(1), pairs[2].Count)

	for i := 1; i < len(pairs); i++ {
		assert.NotEqual(t, pairs[i-1].Code, pairs[i].Code, "adjacent runs must not share an operation code")
	}
}

func TestNoAdjacentRunsShareCodeAcrossConstructors(t *testing.T) {
	words := []uint32{(3 << 4) | 0, (4 << 4) | 0, (2 << 4) | 1}
	c, err := NewCigarSequenceFromBinary(words)
	require.NoError(t, err)
	pairs := c.ToPairList()
	require.Len(t, pairs, 2)
	assert.Equal(t, uint32(7), pairs[0].Count)
}

func TestScenarioSixCigarQueries(t *testing.T) {
	c, err := ParseCigarString([]byte("6H5S4M3I5M2D6S11H"))
	require.NoError(t, err)

	assert.Equal(t, uint32(14), c.GappedLen(false))
	assert.Equal(t, uint32(25), c.GappedLen(true))
	assert.Equal(t, uint32(11), c.RefLen(-1))
	assert.Equal(t, uint32(8), c.QueryLen(5, false))
	assert.Equal(t, uint32(13), c.QueryLen(5, true))
	assert.Equal(t, uint32(17), c.Count(OpHardClip))
}

func TestReverse(t *testing.T) {
	c, err := ParseCigarString([]byte("3M2I5D"))
	require.NoError(t, err)
	c.Reverse()
	assert.Equal(t, "5D2I3M", string(c.ToString()))
}

func TestSlice(t *testing.T) {
	c, err := ParseCigarString([]byte("1M2I3D4M5I"))
	require.NoError(t, err)

	sub, err := c.Slice(1, 4, 1)
	require.NoError(t, err)
	assert.Equal(t, "2I3D4M", string(sub.ToString()))

	rev, err := c.Slice(-1, -6, -1)
	require.NoError(t, err)
	assert.Equal(t, "5I4M3D2I1M", string(rev.ToString()))

	stepped, err := c.Slice(0, 5, 2)
	require.NoError(t, err)
	assert.Equal(t, "1M3D5I", string(stepped.ToString()))
}

func TestPop(t *testing.T) {
	c, err := ParseCigarString([]byte("3M2I"))
	require.NoError(t, err)

	op, n, err := c.Pop()
	require.NoError(t, err)
	assert.Same(t, OpInsertion, op)
	assert.Equal(t, uint32(2), n)
	assert.Equal(t, "3M", string(c.ToString()))

	_, _, err = NewCigarSequence().Pop()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptySequence)
}

func TestInvertRoundTrip(t *testing.T) {
	c, err := ParseCigarString([]byte("3M2I4M1D5M"))
	require.NoError(t, err)

	inv, sLeft, sRight, err := c.Invert(0, 0)
	require.NoError(t, err)
	assert.Equal(t, "3M2D4M1I5M", string(inv.ToString()))
	assert.Equal(t, 0, sLeft)
	assert.Equal(t, 0, sRight)

	back, sLeft2, sRight2, err := inv.Invert(0, 0)
	require.NoError(t, err)
	assert.True(t, c.Equal(back))
	assert.Equal(t, 0, sLeft2)
	assert.Equal(t, 0, sRight2)
}

func TestInvertStripsClipsAndBracketsWithSoftClip(t *testing.T) {
	c, err := ParseCigarString([]byte("5H3S4M2I3M6S11H"))
	require.NoError(t, err)

	inv, sLeft, sRight, err := c.Invert(2, 7)
	require.NoError(t, err)
	assert.Equal(t, 3, sLeft)
	assert.Equal(t, 6, sRight)
	assert.Equal(t, "2S4M2D3M7S", string(inv.ToString()))
}

func TestInvertRejectsNegativeClip(t *testing.T) {
	c, _ := ParseCigarString([]byte("3M"))
	_, _, _, err := c.Invert(-1, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidClip)
}

func TestConvertNToSDoesNotCoalesce(t *testing.T) {
	c, err := ParseCigarString([]byte("3M4N4S2N"))
	require.NoError(t, err)
	c.ConvertNToS()
	assert.Equal(t, "3M4S4S2S", string(c.ToString()))
}

func TestBinaryRoundTrip(t *testing.T) {
	c, err := ParseCigarString([]byte("10M2I5D"))
	require.NoError(t, err)

	bin := c.ToBinaryBytes()
	c2, err := NewCigarSequenceFromBinaryBytes(bin)
	require.NoError(t, err)
	assert.True(t, c.Equal(c2))

	_, err = NewCigarSequenceFromBinaryBytes(bin[:len(bin)-1])
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestStats(t *testing.T) {
	c, err := ParseCigarString([]byte("5S10M2I8M3D4M6S"))
	require.NoError(t, err)
	st := c.Stats()
	assert.Equal(t, uint32(10+2+8+3+4), st.AlignLen)
	assert.Equal(t, uint32(10+8+4), st.Matches)
	assert.Equal(t, uint32(2+3), st.Gaps)
	assert.Equal(t, uint32(2), st.GapRegions)
}
