package transcode

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresetLookup(t *testing.T) {
	vertical, ok := Preset("mobile_vertical")
	require.True(t, ok)
	assert.Equal(t, 1080, vertical.Width)
	assert.Equal(t, 1920, vertical.Height)

	horizontal, ok := Preset("mobile_horizontal")
	require.True(t, ok)
	assert.Equal(t, 1920, horizontal.Width)
	assert.Equal(t, 1080, horizontal.Height)

	_, ok = Preset("cinema_scope")
	assert.False(t, ok)
}

func TestWithDefaultsFillsZeroValues(t *testing.T) {
	opts := Options{Width: 720, Height: 1280}.withDefaults()

	assert.Equal(t, 720, opts.Width)
	assert.Equal(t, 1280, opts.Height)
	assert.Equal(t, "libx264", opts.VideoCodec)
	assert.Equal(t, "aac", opts.AudioCodec)
	assert.Equal(t, "6M", opts.VideoBitrate)
	assert.Equal(t, 29.97, opts.FrameRate)
	assert.Equal(t, 23, opts.CRF)
}

func TestScaleFilter(t *testing.T) {
	opts := Options{Width: 1080, Height: 1920}
	assert.Equal(t, "scale=1080:1920", opts.scaleFilter())
}

func TestConcatList(t *testing.T) {
	list := concatList([]string{"/tmp/a.mp4", "/tmp/b.mp4"})

	lines := strings.Split(strings.TrimSpace(list), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "file '/tmp/a.mp4'", lines[0])
	assert.Equal(t, "file '/tmp/b.mp4'", lines[1])
}

func TestConcatListEscapesQuotes(t *testing.T) {
	list := concatList([]string{"/tmp/it's.mp4"})
	assert.Contains(t, list, `it'\''s.mp4`)
}

func TestConcatListResolvesRelativePaths(t *testing.T) {
	list := concatList([]string{"clip.mp4"})

	line := strings.TrimSpace(list)
	path := strings.TrimSuffix(strings.TrimPrefix(line, "file '"), "'")
	assert.True(t, filepath.IsAbs(path), "expected absolute path, got %s", path)
}

func TestConcatRejectsEmptyInput(t *testing.T) {
	err := Concat(nil, "/tmp/out.mp4", Options{})
	assert.Error(t, err)
}
