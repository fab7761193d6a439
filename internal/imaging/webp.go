package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
)

const (
	ContentType = "image/webp"

	// MaxUploadBytes limita o arquivo recebido antes de decodificar.
	MaxUploadBytes = 5 << 20

	defaultMaxSide = 512
	defaultQuality = 80
)

var ErrUnsupported = errors.New("unsupported image")

type Options struct {
	MaxSide int
	Quality float32
}

// ToWebP decodifica JPEG, PNG ou WebP, reduz para caber em MaxSide e
// reencoda em WebP.
func ToWebP(r io.Reader, opts Options) ([]byte, error) {
	if opts.MaxSide <= 0 {
		opts.MaxSide = defaultMaxSide
	}
	if opts.Quality <= 0 {
		opts.Quality = defaultQuality
	}

	src, _, err := image.Decode(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}

	img := fit(src, opts.MaxSide)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: opts.Quality}); err != nil {
		return nil, fmt.Errorf("webp encode: %w", err)
	}
	return buf.Bytes(), nil
}

func fit(src image.Image, maxSide int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxSide && h <= maxSide {
		return src
	}

	nw, nh := maxSide, maxSide
	if w > h {
		nh = h * maxSide / w
	} else {
		nw = w * maxSide / h
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
