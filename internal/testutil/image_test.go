package testutil

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextPage_DrawsInk(t *testing.T) {
	img := TextPage(2, "HELLO", "WORLD")

	b := img.Bounds()
	assert.Equal(t, 0, b.Dx()%2)
	assert.Equal(t, uint8(0xff), img.GrayAt(0, 0).Y)

	dark := 0
	for _, p := range img.Pix {
		if p < 128 {
			dark++
		}
	}
	assert.Greater(t, dark, 0)
}

func TestEncodePNG_RoundTrips(t *testing.T) {
	img := TextPage(1, "x")
	decoded, err := png.Decode(bytes.NewReader(EncodePNG(img)))
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())
}
