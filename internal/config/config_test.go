package config_test

import (
	"testing"

	"github.com/alkime/opledit/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := config.LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, config.EnvDevelopment, cfg.Env)
		assert.Empty(t, cfg.LogLevel, "unset so the environment picks the level")
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, uint8(16), cfg.EncoderCC)
		assert.Equal(t, -1, cfg.EncoderChannel)
		assert.Equal(t, "twos-complement", cfg.EncoderMode)
		assert.Equal(t, 16, cfg.LCDCols)
		assert.Equal(t, 2, cfg.LCDRows)
		assert.Equal(t, "detail", cfg.LCDLayout)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("OPLEDIT_MIDI_PORT", "Arturia BeatStep")
		t.Setenv("OPLEDIT_ENCODER_CC", "10")
		t.Setenv("OPLEDIT_LCD_LAYOUT", "list")

		cfg, err := config.LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "Arturia BeatStep", cfg.MIDIPort)
		assert.Equal(t, uint8(10), cfg.EncoderCC)
		assert.Equal(t, "list", cfg.LCDLayout)
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("OPLEDIT_ENCODER_CC", "not-a-number")
		_, err := config.LoadConfig()
		require.Error(t, err)
	})
}

func TestBuildCSP(t *testing.T) {
	assert.Contains(t, config.BuildCSP("strict"), "object-src 'none'")
	assert.Contains(t, config.BuildCSP("relaxed"), "'unsafe-inline'")
}
