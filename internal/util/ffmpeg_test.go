package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProbeOutput(t *testing.T) {
	out := `{
		"streams": [{"codec_type": "audio"}, {"codec_type": "video", "width": 1280, "height": 720}],
		"format": {"duration": "93.5", "size": "1048576", "format_name": "mov,mp4,m4a"}
	}`

	info, err := parseProbeOutput(out, 1)
	require.NoError(t, err)
	assert.Equal(t, 93.5, info.Duration)
	assert.Equal(t, 1280, info.Width)
	assert.Equal(t, 720, info.Height)
	assert.Equal(t, int64(1048576), info.Size)
	assert.Equal(t, "mov", info.Format)
}

func TestParseProbeOutputFallbacks(t *testing.T) {
	info, err := parseProbeOutput(`{"streams": [], "format": {}}`, 77)
	require.NoError(t, err)
	assert.Zero(t, info.Duration)
	assert.Equal(t, int64(77), info.Size)
	assert.Equal(t, "unknown", info.Format)

	_, err = parseProbeOutput("not json", 0)
	assert.Error(t, err)
}
