package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mode string

const (
	modeFast mode = "fast"
	modeSlow mode = "slow"
)

func newModes() *Normalizer[mode] {
	return NewEnumNormalizer("mode", map[string]mode{
		"fast":  modeFast,
		"quick": modeFast,
		"slow":  modeSlow,
	}, modeSlow)
}

func TestNormalize(t *testing.T) {
	n := newModes()

	tests := []struct {
		name  string
		input string
		want  mode
	}{
		{"exact", "fast", modeFast},
		{"case insensitive", "FAST", modeFast},
		{"alias with spaces", "  Quick ", modeFast},
		{"unknown falls back to default", "warp", modeSlow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.input))
		})
	}
}

func TestNormalizeWithValidation(t *testing.T) {
	n := newModes()

	got, err := n.NormalizeWithValidation(" SLOW")
	require.NoError(t, err)
	assert.Equal(t, modeSlow, got)

	_, err = n.NormalizeWithValidation("warp")
	require.EqualError(t, err, `invalid mode "warp", valid options: fast, quick, slow`)
}

func TestValidValues(t *testing.T) {
	n := newModes()
	assert.True(t, n.IsValid("Quick"))
	assert.False(t, n.IsValid(""))

	values := n.ValidValues()
	assert.Equal(t, []string{"fast", "quick", "slow"}, values)
	values[0] = "mutated"
	assert.Equal(t, "fast", n.ValidValues()[0])
}
