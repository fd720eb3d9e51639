package media

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func encoded(t *testing.T, encode func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for x := 0; x < 40; x++ {
		img.Set(x, x%30, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, encode(&buf, img))
	return buf.Bytes()
}

func TestImagingDecoder_Formats(t *testing.T) {
	d := NewImagingDecoder()

	tests := []struct {
		format string
		data   []byte
	}{
		{"png", encoded(t, func(b *bytes.Buffer, i image.Image) error { return png.Encode(b, i) })},
		{"jpeg", encoded(t, func(b *bytes.Buffer, i image.Image) error { return jpeg.Encode(b, i, nil) })},
		{"bmp", encoded(t, func(b *bytes.Buffer, i image.Image) error { return bmp.Encode(b, i) })},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			format, err := d.Verify(bytes.NewReader(tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.format, format)

			w, h, err := d.Load(bytes.NewReader(tt.data))
			require.NoError(t, err)
			assert.Equal(t, 40, w)
			assert.Equal(t, 30, h)
		})
	}
}

func TestImagingDecoder_Garbage(t *testing.T) {
	d := NewImagingDecoder()

	_, err := d.Verify(bytes.NewReader([]byte("definitely not an image")))
	assert.Error(t, err)
	_, _, err = d.Load(bytes.NewReader([]byte("definitely not an image")))
	assert.Error(t, err)
}

func TestImagingDecoder_TruncatedPassesVerifyFailsLoad(t *testing.T) {
	d := NewImagingDecoder()
	data := encoded(t, func(b *bytes.Buffer, i image.Image) error { return png.Encode(b, i) })
	truncated := data[:len(data)/2]

	_, err := d.Verify(bytes.NewReader(truncated))
	require.NoError(t, err)

	_, _, err = d.Load(bytes.NewReader(truncated))
	assert.Error(t, err)
}

// pngHeader builds a PNG that declares w x h RGBA pixels but carries no
// pixel data
func pngHeader(w, h uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	chunk := func(typ string, data []byte) {
		binary.Write(&buf, binary.BigEndian, uint32(len(data)))
		body := append([]byte(typ), data...)
		buf.Write(body)
		binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(body))
	}
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], w)
	binary.BigEndian.PutUint32(ihdr[4:8], h)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 6 // truecolor with alpha
	chunk("IHDR", ihdr)
	chunk("IDAT", nil)
	chunk("IEND", nil)
	return buf.Bytes()
}

func TestImagingDecoder_PixelLimit(t *testing.T) {
	d := NewImagingDecoder()

	tests := []struct {
		name   string
		w, h   uint32
		tooBig bool
	}{
		{"square bomb", 20000, 20000, true},
		{"one past limit", MaxDecodePixels + 1, 1, true},
		{"wide strip at limit", MaxDecodePixels, 1, false},
		{"ordinary", 640, 480, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := pngHeader(tt.w, tt.h)

			_, err := d.Verify(bytes.NewReader(data))
			if !tt.tooBig {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrImageTooLarge)

			_, _, err = d.Load(bytes.NewReader(data))
			assert.ErrorIs(t, err, ErrImageTooLarge)
		})
	}
}
