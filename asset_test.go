package lottie

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

// tiff_with_orientation builds a minimal little-endian TIFF holding only the
// EXIF orientation tag.
func tiff_with_orientation(orient uint16) []byte {
	var b bytes.Buffer
	b.WriteString("II*\x00")
	binary.Write(&b, binary.LittleEndian, uint32(8))      // IFD offset
	binary.Write(&b, binary.LittleEndian, uint16(1))      // entry count
	binary.Write(&b, binary.LittleEndian, uint16(0x0112)) // orientation tag
	binary.Write(&b, binary.LittleEndian, uint16(3))      // SHORT
	binary.Write(&b, binary.LittleEndian, uint32(1))
	binary.Write(&b, binary.LittleEndian, orient)
	binary.Write(&b, binary.LittleEndian, uint16(0)) // value padding
	binary.Write(&b, binary.LittleEndian, uint32(0)) // no next IFD
	return b.Bytes()
}

func TestFixOrientation(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, red)
	src.SetNRGBA(1, 0, blue)

	out := fixOrientation(src, tiff_with_orientation(2)) // mirrored
	require.Equal(t, 2, out.Rect.Dx())
	require.Equal(t, blue, out.NRGBAAt(0, 0))
	require.Equal(t, red, out.NRGBAAt(1, 0))

	out = fixOrientation(src, tiff_with_orientation(6)) // rotated 90 CW in camera
	require.Equal(t, 1, out.Rect.Dx())
	require.Equal(t, 2, out.Rect.Dy())
	require.Equal(t, red, out.NRGBAAt(0, 0))
	require.Equal(t, blue, out.NRGBAAt(0, 1))

	out = fixOrientation(src, tiff_with_orientation(8)) // rotated 90 CCW in camera
	require.Equal(t, 1, out.Rect.Dx())
	require.Equal(t, 2, out.Rect.Dy())
	require.Equal(t, blue, out.NRGBAAt(0, 0))
	require.Equal(t, red, out.NRGBAAt(0, 1))

	// orientation 1 and missing EXIF data leave the image untouched
	require.Equal(t, src.Pix, fixOrientation(src, tiff_with_orientation(1)).Pix)
	require.Equal(t, src.Pix, fixOrientation(src, []byte("not exif data")).Pix)
}

// jpeg_with_orientation encodes an 8x4 JPEG and splices an EXIF APP1 segment
// carrying the given orientation in right after the SOI marker.
func jpeg_with_orientation(t *testing.T, orient uint16) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	raw := buf.Bytes()
	payload := append([]byte("Exif\x00\x00"), tiff_with_orientation(orient)...)
	app1 := []byte{0xFF, 0xE1, byte((len(payload) + 2) >> 8), byte(len(payload) + 2)}
	app1 = append(app1, payload...)
	out := append([]byte{}, raw[:2]...)
	out = append(out, app1...)
	return append(out, raw[2:]...)
}

func TestJPEGAssetOrientation(t *testing.T) {
	b64 := base64.StdEncoding.EncodeToString(jpeg_with_orientation(t, 6))
	doc := fmt.Sprintf(`{
		"w": 8, "h": 8, "ip": 0, "op": 1, "fr": 30,
		"assets": [{"id": "image_0", "e": 1, "p": "data:image/jpeg;base64,%s"}],
		"layers": [{"ty": 2, "refId": "image_0"}]
	}`, b64)
	anim, err := DecodeBytes([]byte(doc))
	require.NoError(t, err)
	il := anim.Composition().Layers[0].(*ImageLayer)
	// the 8x4 source comes out rotated upright
	require.Equal(t, 4, il.Width)
	require.Equal(t, 8, il.Height)
	require.Len(t, il.Pix, 4*8*4)
}

func TestTruncatedEmbeddedAsset(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	// some exporters leave garbage after the payload; the decoder trims the
	// tail back to a multiple of 4
	b64 := base64.StdEncoding.EncodeToString(buf.Bytes()) + "xx"
	doc := fmt.Sprintf(`{
		"w": 8, "h": 8, "ip": 0, "op": 1, "fr": 30,
		"assets": [{"id": "image_0", "e": 1, "p": "data:image/png;base64,%s"}],
		"layers": [{"ty": 2, "refId": "image_0"}]
	}`, b64)
	anim, err := DecodeBytes([]byte(doc))
	require.NoError(t, err)
	il := anim.Composition().Layers[0].(*ImageLayer)
	require.Equal(t, []byte{255, 0, 0, 255}, il.Pix)
}
