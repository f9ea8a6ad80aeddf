package wizard

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"sync"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultThumbnailEdge es el lado máximo (px) de la miniatura.
	DefaultThumbnailEdge = 160
	// DefaultMaxPreviewPixels acota lo que se decodifica para la miniatura.
	// Por encima se entrega el archivo tal cual.
	DefaultMaxPreviewPixels = 40_000_000
)

// Preview es la miniatura de una imagen preparada. Index es la posición en
// el AttachmentSet al momento de renderizar.
type Preview struct {
	Index       int    `json:"index"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	DataURL     string `json:"data_url"`
}

// PreviewRenderer convierte imágenes en miniaturas, una goroutine por imagen.
type PreviewRenderer struct {
	MaxEdge   int
	MaxPixels int
	Limit     int
}

func NewPreviewRenderer() *PreviewRenderer {
	return &PreviewRenderer{
		MaxEdge:   DefaultThumbnailEdge,
		MaxPixels: DefaultMaxPreviewPixels,
		Limit:     MaxAttachments,
	}
}

// Render llama emit una vez por imagen, en orden de término (no de
// preparación). emit se serializa. Una lectura iniciada corre hasta el final;
// ctx solo evita iniciar las pendientes.
func (r *PreviewRenderer) Render(ctx context.Context, items []Attachment, emit func(Preview)) error {
	g, ctx := errgroup.WithContext(ctx)
	if r.Limit > 0 {
		g.SetLimit(r.Limit)
	}

	var mu sync.Mutex
	for i, a := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p := Preview{
				Index:       i,
				Name:        a.Name,
				ContentType: a.ContentType,
				Size:        a.Size,
				DataURL:     r.dataURL(a),
			}

			mu.Lock()
			defer mu.Unlock()
			emit(p)
			return nil
		})
	}
	return g.Wait()
}

func (r *PreviewRenderer) dataURL(a Attachment) string {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(a.Data))
	if err != nil {
		return rawDataURL(a.ContentType, a.Data)
	}

	edge := r.MaxEdge
	if edge <= 0 {
		edge = DefaultThumbnailEdge
	}
	limit := r.MaxPixels
	if limit <= 0 {
		limit = DefaultMaxPreviewPixels
	}
	w, h := cfg.Width, cfg.Height
	// el tamaño en bytes no acota los píxeles: un PNG chico puede pedir GiB
	if w <= edge && h <= edge || int64(w)*int64(h) > int64(limit) {
		return rawDataURL(a.ContentType, a.Data)
	}

	src, _, err := image.Decode(bytes.NewReader(a.Data))
	if err != nil {
		return rawDataURL(a.ContentType, a.Data)
	}
	b := src.Bounds()

	tw, th := edge, edge
	if w >= h {
		th = max(1, h*edge/w)
	} else {
		tw = max(1, w*edge/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	// fondo blanco: JPEG no tiene alfa
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 80}); err != nil {
		return rawDataURL(a.ContentType, a.Data)
	}
	return rawDataURL("image/jpeg", buf.Bytes())
}

func rawDataURL(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
