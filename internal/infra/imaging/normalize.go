package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const jpegQuality = 85

// Normalizer shrinks oversized room photos before they are sent upstream.
// A zero MaxDimension disables it.
type Normalizer struct {
	MaxDimension int
}

// Normalize takes a bare base64 payload and returns the payload to send.
// Anything it cannot decode is passed through untouched.
func (n Normalizer) Normalize(payload string) string {
	if n.MaxDimension <= 0 {
		return payload
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return payload
	}
	out, changed, err := n.resize(data)
	if err != nil || !changed {
		return payload
	}
	return base64.StdEncoding.EncodeToString(out)
}

func (n Normalizer) resize(data []byte) ([]byte, bool, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("failed to decode image: %w", err)
	}

	orientation := 1
	if format == "jpeg" {
		orientation = orientationOf(data)
	}
	bounds := img.Bounds()
	if orientation == 1 && bounds.Dx() <= n.MaxDimension && bounds.Dy() <= n.MaxDimension {
		return nil, false, nil
	}
	img = applyOrientation(img, orientation)

	w, h := fit(img.Bounds().Dx(), img.Bounds().Dy(), n.MaxDimension)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, false, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), true, nil
}

// fit scales w x h down so neither side exceeds limit, keeping aspect ratio.
func fit(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return w, h
	}
	scale := float64(limit) / float64(w)
	if s := float64(limit) / float64(h); s < scale {
		scale = s
	}
	nw, nh := int(float64(w)*scale), int(float64(h)*scale)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}

// orientationOf reads the EXIF orientation tag, 1 when absent.
func orientationOf(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	v, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return v
}

func applyOrientation(img image.Image, orientation int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	var dst *image.RGBA
	var at func(x, y int) (int, int)
	switch orientation {
	case 2: // flip horizontal
		dst, at = image.NewRGBA(image.Rect(0, 0, w, h)), func(x, y int) (int, int) { return w - 1 - x, y }
	case 3: // rotate 180
		dst, at = image.NewRGBA(image.Rect(0, 0, w, h)), func(x, y int) (int, int) { return w - 1 - x, h - 1 - y }
	case 4: // flip vertical
		dst, at = image.NewRGBA(image.Rect(0, 0, w, h)), func(x, y int) (int, int) { return x, h - 1 - y }
	case 5: // transpose
		dst, at = image.NewRGBA(image.Rect(0, 0, h, w)), func(x, y int) (int, int) { return y, x }
	case 6: // rotate 90 clockwise
		dst, at = image.NewRGBA(image.Rect(0, 0, h, w)), func(x, y int) (int, int) { return h - 1 - y, x }
	case 7: // transverse
		dst, at = image.NewRGBA(image.Rect(0, 0, h, w)), func(x, y int) (int, int) { return h - 1 - y, w - 1 - x }
	case 8: // rotate 90 counter-clockwise
		dst, at = image.NewRGBA(image.Rect(0, 0, h, w)), func(x, y int) (int, int) { return y, w - 1 - x }
	default:
		return img
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := at(x, y)
			dst.Set(dx, dy, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}
