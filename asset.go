package lottie

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/draw"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

var _ = fmt.Print

// decodeImageAsset resolves an image asset, either embedded as a base64
// data URI or referenced by a path relative to the animation file.
func (ld *loader) decodeImageAsset(a *rawAsset) (*ImageLayer, error) {
	var data []byte
	if a.Embedded == 1 || strings.HasPrefix(a.Path, "data:") {
		_, b64, found := strings.Cut(a.Path, ",")
		if !found {
			return nil, fmt.Errorf("embedded image asset has no data URI payload")
		}
		// some exporters leave trailing garbage after the base64 payload
		if extra := len(b64) % 4; extra != 0 {
			b64 = b64[:len(b64)-extra]
		}
		var err error
		data, err = base64.StdEncoding.DecodeString(b64)
		if err != nil {
			return nil, fmt.Errorf("decoding embedded image data: %w", err)
		}
	} else {
		name := filepath.Join(ld.baseDir, a.Dir, a.Path)
		f, err := fs.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		data, err = io.ReadAll(f)
		if err != nil {
			return nil, err
		}
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image data: %w", err)
	}
	nrgba := toNRGBA(img)
	if format == "jpeg" {
		nrgba = fixOrientation(nrgba, data)
	}
	return &ImageLayer{
		Width:     nrgba.Rect.Dx(),
		Height:    nrgba.Rect.Dy(),
		Pix:       nrgba.Pix,
		Transform: DefaultTransform(),
	}, nil
}

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// fixOrientation applies the EXIF orientation tag, if any, so the pixel
// data matches what the user sees in an image viewer.
func fixOrientation(img *image.NRGBA, data []byte) *image.NRGBA {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return img
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return img
	}
	orient, err := tag.Int(0)
	if err != nil {
		return img
	}
	switch orient {
	case 2:
		return flipH(img)
	case 3:
		return rotate180(img)
	case 4:
		return flipV(img)
	case 5:
		return transpose(img)
	case 6:
		return rotate270(img)
	case 7:
		return transverse(img)
	case 8:
		return rotate90(img)
	}
	return img
}

func flipH(src *image.NRGBA) *image.NRGBA {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			copy(dst.Pix[y*dst.Stride+(w-1-x)*4:], src.Pix[y*src.Stride+x*4:y*src.Stride+x*4+4])
		}
	}
	return dst
}

func flipV(src *image.NRGBA) *image.NRGBA {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		copy(dst.Pix[(h-1-y)*dst.Stride:(h-1-y)*dst.Stride+w*4], src.Pix[y*src.Stride:y*src.Stride+w*4])
	}
	return dst
}

func rotate180(src *image.NRGBA) *image.NRGBA {
	return flipH(flipV(src))
}

// rotate90 rotates counter clockwise.
func rotate90(src *image.NRGBA) *image.NRGBA {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			copy(dst.Pix[(w-1-x)*dst.Stride+y*4:], src.Pix[y*src.Stride+x*4:y*src.Stride+x*4+4])
		}
	}
	return dst
}

func rotate270(src *image.NRGBA) *image.NRGBA {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			copy(dst.Pix[x*dst.Stride+(h-1-y)*4:], src.Pix[y*src.Stride+x*4:y*src.Stride+x*4+4])
		}
	}
	return dst
}

func transpose(src *image.NRGBA) *image.NRGBA {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			copy(dst.Pix[x*dst.Stride+y*4:], src.Pix[y*src.Stride+x*4:y*src.Stride+x*4+4])
		}
	}
	return dst
}

func transverse(src *image.NRGBA) *image.NRGBA {
	return flipV(rotate90(src))
}

var loadDefaultFont = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
})

// defaultFace returns a face of the bundled font at the given point size.
// Text layers carry no embedded font data so a packaged fallback is used.
func defaultFace(size float32) (font.Face, error) {
	ft, err := loadDefaultFont()
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(ft, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
