package palette

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func solidImage(c color.RGBA, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestExtractColors_SolidImage(t *testing.T) {
	e := NewExtractor()
	data := encodePNG(t, solidImage(color.RGBA{R: 200, G: 150, B: 120, A: 255}, 40, 40))

	samples, err := e.ExtractColors(context.Background(), data)
	require.NoError(t, err)

	require.NotNil(t, samples.Dominant)
	require.NotNil(t, samples.Average)
	require.NotNil(t, samples.Vibrant)

	assert.Equal(t, 200, samples.Dominant.R)
	assert.Equal(t, 150, samples.Dominant.G)
	assert.Equal(t, 120, samples.Dominant.B)
	assert.Equal(t, *samples.Dominant, *samples.Average)
	assert.Equal(t, *samples.Dominant, *samples.Vibrant)
}

func TestExtractColors_DominantWinsByPopulation(t *testing.T) {
	// Three quarters of the image is a muted beige, one quarter a
	// saturated red. Dominant must follow population, vibrant must
	// follow saturation.
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	beige := color.RGBA{R: 200, G: 180, B: 160, A: 255}
	red := color.RGBA{R: 220, G: 30, B: 30, A: 255}
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			if x < 30 {
				img.SetRGBA(x, y, beige)
			} else {
				img.SetRGBA(x, y, red)
			}
		}
	}

	e := NewExtractor()
	samples, err := e.ExtractColors(context.Background(), encodePNG(t, img))
	require.NoError(t, err)

	assert.Equal(t, 200, samples.Dominant.R)
	assert.Equal(t, 180, samples.Dominant.G)

	assert.Equal(t, 220, samples.Vibrant.R)
	assert.Equal(t, 30, samples.Vibrant.G)

	// Average sits between the two regions.
	assert.Greater(t, samples.Average.R, 200)
	assert.Less(t, samples.Average.G, 180)
}

func TestExtractColors_UndecodableReturnsEmpty(t *testing.T) {
	e := NewExtractor()

	samples, err := e.ExtractColors(context.Background(), []byte("not an image"))
	require.NoError(t, err)

	assert.Nil(t, samples.Dominant)
	assert.Nil(t, samples.Average)
	assert.Nil(t, samples.Vibrant)
}

func TestExtractColors_LargeImageIsSampled(t *testing.T) {
	e := NewExtractor()
	data := encodePNG(t, solidImage(color.RGBA{R: 90, G: 90, B: 90, A: 255}, 512, 512))

	samples, err := e.ExtractColors(context.Background(), data)
	require.NoError(t, err)
	require.NotNil(t, samples.Average)
	assert.Equal(t, 90, samples.Average.R)
}

func TestVibrancy(t *testing.T) {
	assert.Equal(t, 0.0, vibrancy(0, 0, 0))
	assert.Equal(t, 0.0, vibrancy(128, 128, 128))
	assert.Greater(t, vibrancy(255, 0, 0), vibrancy(255, 200, 200))
}
