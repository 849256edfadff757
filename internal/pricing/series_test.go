package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeriesOf(t *testing.T) {
	cases := []struct {
		name     string
		expected string
	}{
		{"Activa125", "Activa"},
		{"Activa125 DLX", "Activa"},
		{"CB350-RS", "CB"},
		{"X1", "X"},
		{"X2", "X"},
		{"Shine100 Drum", "Shine"},
		{"125cc Special", "125"},
		{" Activa", SeriesUnknown},
		{"-dash", SeriesUnknown},
		{"", SeriesUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.expected, SeriesOf(tc.name), "name %q", tc.name)
	}
}

func TestSeriesOfIsDeterministic(t *testing.T) {
	first := SeriesOf("Shine100 Drum")
	second := SeriesOf("Shine100 Drum")
	assert.Equal(t, first, second)
}
