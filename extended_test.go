package align

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToExtendedCigarExpandsMatchRuns(t *testing.T) {
	c, err := ParseCigarString([]byte("5M"))
	require.NoError(t, err)

	ext, err := ToExtendedCigar(c, []byte("ACGTA"), []byte("ACGAA"), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "3=1X1=", string(ext.ToString()))
}

func TestToExtendedCigarCopiesNonMatchOpsUnchanged(t *testing.T) {
	c, err := ParseCigarString([]byte("3S2M4I2M3D2H"))
	require.NoError(t, err)

	ext, err := ToExtendedCigar(c, []byte("ACGTXXX"), []byte("SSSACIIIIGT"), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "3S2=4I2=3D2H", string(ext.ToString()))
}

func TestToExtendedCigarRespectsOffsets(t *testing.T) {
	c, err := ParseCigarString([]byte("3M"))
	require.NoError(t, err)

	ext, err := ToExtendedCigar(c, []byte("GGGACG"), []byte("TTACG"), 3, 2)
	require.NoError(t, err)
	assert.Equal(t, "3=", string(ext.ToString()))
}

func TestToExtendedCigarFailsWhenReferenceTooShort(t *testing.T) {
	c, err := ParseCigarString([]byte("4M"))
	require.NoError(t, err)

	_, err = ToExtendedCigar(c, []byte("AC"), []byte("ACGT"), 0, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestToExtendedCigarFailsWhenQueryTooShort(t *testing.T) {
	c, err := ParseCigarString([]byte("4M"))
	require.NoError(t, err)

	_, err = ToExtendedCigar(c, []byte("ACGT"), []byte("AC"), 0, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestToExtendedCigarFailsWhenNonMatchRunOverrunsQuery(t *testing.T) {
	c, err := ParseCigarString([]byte("5I"))
	require.NoError(t, err)

	_, err = ToExtendedCigar(c, []byte(""), []byte("AC"), 0, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLengthMismatch)
}
