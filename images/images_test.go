package images

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	return img
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("does-not-exist.jpg")
	assert.Error(t, err)
}

func TestLoadDecodesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, testImage(32, 24)))
	require.NoError(t, f.Close())

	img, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, 24, img.Bounds().Dy())
}

func TestToTensorShapeAndRange(t *testing.T) {
	const size = 16
	dst := make([]float32, 3*size*size)

	err := ToTensor(testImage(64, 48), size, dst)
	require.NoError(t, err)

	for i, v := range dst {
		require.GreaterOrEqual(t, v, float32(0), "index %d", i)
		require.LessOrEqual(t, v, float32(1), "index %d", i)
	}

	// Blue channel is constant 128 across the source image.
	channelSize := size * size
	for i := 2 * channelSize; i < 3*channelSize; i++ {
		assert.InDelta(t, 128.0/255.0, dst[i], 0.02)
	}
}

func TestToTensorRejectsSmallBuffer(t *testing.T) {
	err := ToTensor(testImage(8, 8), 16, make([]float32, 10))
	assert.Error(t, err)
}
