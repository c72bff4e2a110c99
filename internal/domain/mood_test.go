package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMood_BaseTempo(t *testing.T) {
	m := &Mood{
		TempoElectronic: 140,
		TempoClassical:  120,
		TempoLofi:       100,
	}

	assert.Equal(t, 140, m.BaseTempo(GenreElectronic))
	assert.Equal(t, 120, m.BaseTempo(GenreClassical))
	assert.Equal(t, 100, m.BaseTempo(GenreLofi))

	// No custom tempo authored: custom and unknown genres fall back to
	// electronic.
	assert.Equal(t, 140, m.BaseTempo(GenreCustom))
	assert.Equal(t, 140, m.BaseTempo(Genre("vaporwave")))

	m.TempoCustom = 90
	assert.Equal(t, 90, m.BaseTempo(GenreCustom))
	assert.Equal(t, 90, m.BaseTempo(Genre("vaporwave")))
}

func TestValidTempo(t *testing.T) {
	assert.True(t, ValidTempo(30))
	assert.True(t, ValidTempo(140))
	assert.True(t, ValidTempo(200))
	assert.False(t, ValidTempo(29))
	assert.False(t, ValidTempo(201))
	assert.False(t, ValidTempo(0))
}
