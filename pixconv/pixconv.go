// Package pixconv converts between the packed 32bit ARGB pixel words
// produced by the renderer and the byte-ordered RGBA layout expected by the
// standard image encoders.
//
// A packed word holds the channels as A<<24 | R<<16 | G<<8 | B; the RGBA
// byte layout stores them in memory as R, G, B, A.
package pixconv

import (
	"fmt"
	"image"
)

var _ = fmt.Print

// ARGBToRGBA writes the RGBA byte representation of every packed ARGB word
// in src into dst, which must hold at least 4*len(src) bytes.
func ARGBToRGBA(src []uint32, dst []uint8) error {
	if expected := 4 * len(src); len(dst) < expected {
		return fmt.Errorf("destination buffer too small for pixel data: %d < %d", len(dst), expected)
	}
	for i, argb := range src {
		o := i * 4
		s := dst[o : o+4 : o+4]
		s[0] = uint8(argb >> 16)
		s[1] = uint8(argb >> 8)
		s[2] = uint8(argb)
		s[3] = uint8(argb >> 24)
	}
	return nil
}

// RGBAToARGB packs RGBA bytes back into ARGB words, the inverse of
// ARGBToRGBA. src must hold at least 4*len(dst) bytes.
func RGBAToARGB(src []uint8, dst []uint32) error {
	if expected := 4 * len(dst); len(src) < expected {
		return fmt.Errorf("source buffer too small for pixel data: %d < %d", len(src), expected)
	}
	for i := range dst {
		o := i * 4
		s := src[o : o+4 : o+4]
		dst[i] = uint32(s[3])<<24 | uint32(s[0])<<16 | uint32(s[1])<<8 | uint32(s[2])
	}
	return nil
}

// ToNRGBA converts a width*height buffer of packed ARGB words into a
// *image.NRGBA with its origin at (0, 0).
func ToNRGBA(src []uint32, width, height int) (*image.NRGBA, error) {
	if expected := width * height; expected != len(src) {
		return nil, fmt.Errorf("the image width and height dont match the size of the specified pixel data: width=%d height=%d sz=%d != %d", width, height, len(src), expected)
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	if err := ARGBToRGBA(src, img.Pix); err != nil {
		return nil, err
	}
	return img, nil
}
