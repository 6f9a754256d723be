package suffix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
	}{
		{"07", true},
		{"00", true},
		{"99", true},
		{"7", false},
		{"7a", false},
		{"007", false},
		{"", false},
		{"-1", false},
		{"٠٧", false}, // Arabic-Indic digits are not ASCII
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			err := Validate(tt.in)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidSuffix)
			}
		})
	}
}

func TestNumber(t *testing.T) {
	n, err := Number("07")
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	n, err = Number("42")
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	_, err = Number("x7")
	assert.ErrorIs(t, err, ErrInvalidSuffix)
}

func TestAll(t *testing.T) {
	all := All()
	require.Len(t, all, PoolSize)
	assert.Equal(t, "00", all[0])
	assert.Equal(t, "09", all[9])
	assert.Equal(t, "99", all[99])
}
