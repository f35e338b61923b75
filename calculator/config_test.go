package calculator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig([]byte(`
[calculator]
MaxSweeps = 250
Tolerance = 1e-10
Workers = 2
`))
	require.NoError(t, err)
	assert.Equal(t, 250, cfg.MaxSweeps)
	assert.Equal(t, 1e-10, cfg.Tolerance)
	assert.Equal(t, 2, cfg.Workers)
	// missing keys keep their defaults
	assert.Equal(t, 0.5, cfg.StabilityLimit)
	assert.Equal(t, 64, cfg.HistoryFrames)
}

func TestLoadConfigFile(t *testing.T) {
	cfg, err := LoadConfig("../conf/config.ini")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigInvalid(t *testing.T) {
	_, err := LoadConfig([]byte("[calculator]\nMaxSweeps = 0\n"))
	assert.True(t, errors.Is(err, ErrInvalidConfiguration))

	_, err = LoadConfig([]byte("[calculator]\nTolerance = -1\n"))
	assert.True(t, errors.Is(err, ErrInvalidConfiguration))

	_, err = LoadConfig("does/not/exist.ini")
	assert.Error(t, err)
}
