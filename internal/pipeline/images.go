package pipeline

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"strings"

	// Decoders for embedded images.
	_ "image/gif"
	_ "image/png"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-txt2pdf/internal/document"
)

// DefaultMaxImagePixels bounds the decoded size of a recompressed image.
const DefaultMaxImagePixels = 40_000_000

// ImageRecompressor re-encodes embedded data-URI images as JPEG.
type ImageRecompressor struct {
	// Quality in (0, 1]. Values >= 1 disable recompression.
	Quality float64
	// MaxPixels skips images whose width*height exceeds it. Zero means
	// DefaultMaxImagePixels.
	MaxPixels int
}

// Recompress rewrites every <img> whose src is a base64 data URI holding a
// decodable raster image no larger than MaxPixels. Transparent areas are flattened onto white. An
// image is only replaced when the JPEG is smaller. It returns the number of
// images replaced.
func (r *ImageRecompressor) Recompress(ctx context.Context, doc *document.Document) (int, error) {
	if r.Quality <= 0 || r.Quality >= 1 {
		return 0, nil
	}
	quality := int(r.Quality * 100)
	if quality < 1 {
		quality = 1
	}
	maxPixels := r.MaxPixels
	if maxPixels <= 0 {
		maxPixels = DefaultMaxImagePixels
	}

	var imgs []*html.Node
	doc.Walk(func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.Img {
			imgs = append(imgs, n)
		}
		return true
	})

	replaced := 0
	for _, img := range imgs {
		if err := ctx.Err(); err != nil {
			return replaced, err
		}
		src, _ := document.Attr(img, "src")
		data, ok := decodeDataURI(src)
		if !ok {
			continue
		}
		out, ok := reencode(data, quality, maxPixels)
		if !ok {
			continue
		}
		document.SetAttr(img, "src", "data:image/jpeg;base64,"+base64.StdEncoding.EncodeToString(out))
		replaced++
	}
	return replaced, nil
}

// decodeDataURI returns the payload of a base64 image data URI.
func decodeDataURI(src string) ([]byte, bool) {
	rest, ok := strings.CutPrefix(src, "data:image/")
	if !ok {
		return nil, false
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, false
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, false
	}
	return data, true
}

// reencode checks the header before decoding so a small payload cannot
// expand into an oversized pixel buffer.
func reencode(data []byte, quality, maxPixels int) ([]byte, bool) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, false
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, false
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false
	}
	bounds := src.Bounds()
	flat := image.NewRGBA(bounds)
	draw.Draw(flat, bounds, &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(flat, bounds, src, bounds.Min, draw.Over)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flat, &jpeg.Options{Quality: quality}); err != nil {
		return nil, false
	}
	if buf.Len() >= len(data) {
		return nil, false
	}
	return buf.Bytes(), true
}
