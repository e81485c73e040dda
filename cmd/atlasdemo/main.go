// Command atlasdemo shapes text, packs the glyphs into an atlas, and
// composites the batched quads into a PNG. With -atlas it also dumps
// the atlas pages themselves, which is the quickest way to watch the
// packer at work.
package main

import (
	"flag"
	"image"
	"image/png"
	"log"
	"os"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/textatlas"
	"github.com/gogpu/textatlas/batch"
	"github.com/gogpu/textatlas/preview"
	"github.com/gogpu/textatlas/raster"
	"github.com/gogpu/textatlas/shape"
	"github.com/gogpu/textatlas/slab"
)

func main() {
	var (
		text     = flag.String("text", "The quick brown fox jumps over the lazy dog", "text to render")
		size     = flag.Float64("size", 24, "font size in pixels")
		fontPath = flag.String("font", "", "TTF/OTF font file (default: Go Regular)")
		output   = flag.String("output", "demo.png", "output file")
		atlasOut = flag.String("atlas", "", "also dump the atlas pages to this file")
		pageSize = flag.Int("page-size", 256, "atlas page size in pixels")
		width    = flag.Int("width", 800, "image width")
		height   = flag.Int("height", 160, "image height")
	)
	flag.Parse()

	fontData := goregular.TTF
	if *fontPath != "" {
		data, err := os.ReadFile(*fontPath)
		if err != nil {
			log.Fatalf("Failed to read font: %v", err)
		}
		fontData = data
	}

	// Raster side: font store, outline renderer, atlas.
	store := raster.NewFontStore()
	if _, err := store.Add(fontData); err != nil {
		log.Fatalf("Failed to load font: %v", err)
	}
	atlas, err := textatlas.New(raster.NewRenderer(store), textatlas.WithPageSize(*pageSize))
	if err != nil {
		log.Fatalf("Failed to create atlas: %v", err)
	}
	defer func() { _ = atlas.Close() }()

	// Shaping side: face, engine, result cache.
	face, err := shape.ParseFace(fontData)
	if err != nil {
		log.Fatalf("Failed to parse font: %v", err)
	}
	cache, err := shape.NewResultCache(shape.NewEngine(), shape.DefaultCacheConfig())
	if err != nil {
		log.Fatalf("Failed to create result cache: %v", err)
	}
	builder, err := batch.NewBuilder(atlas)
	if err != nil {
		log.Fatalf("Failed to create builder: %v", err)
	}

	// Three text boxes: plain, synthetic bold, synthetic italic.
	boxes, err := slab.New(slab.Style{
		Face:  face,
		Size:  *size,
		Color: batch.RGBA{R: 0.92, G: 0.92, B: 0.92, A: 1},
	})
	if err != nil {
		log.Fatalf("Failed to create text boxes: %v", err)
	}
	bold := boxes.AddStyle(slab.Style{
		Face:  face,
		Size:  *size,
		Color: batch.RGBA{R: 1, G: 0.78, B: 0.25, A: 1},
		Flags: textatlas.FlagSyntheticBold,
	})
	italic := boxes.AddStyle(slab.Style{
		Face:  face,
		Size:  *size * 0.85,
		Color: batch.RGBA{R: 0.45, G: 0.75, B: 1, A: 1},
		Flags: textatlas.FlagSyntheticItalic,
	})

	boxes.Add(*text, 20, 16, slab.DefaultStyle)
	boxes.Add(*text, 20, 16+*size*1.5, bold)
	boxes.Add(*text, 20, 16+*size*3, italic)

	set, err := boxes.PrepareAll(cache, builder)
	if err != nil {
		log.Fatalf("Failed to prepare text: %v", err)
	}
	for _, w := range set.Warnings {
		log.Printf("Warning: glyph %d not placed: %v", w.Key.GID, w.Err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, *width, *height))
	drawGradientBackground(dst)

	view := atlas.View()
	for _, b := range set.Batches {
		compositeBatch(dst, view, b)
	}

	if err := savePNG(*output, dst); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	stats := atlas.Stats()
	log.Printf("Demo saved to %s (%d batches, %d/%d resolves hit, %d live slots on %d pages)\n",
		*output, len(set.Batches), stats.Hits, stats.Hits+stats.Misses, stats.Live, view.Pages())

	if *atlasOut != "" {
		if err := saveAtlasPages(*atlasOut, view); err != nil {
			log.Fatalf("Failed to save atlas pages: %v", err)
		}
		log.Printf("Atlas pages saved to %s\n", *atlasOut)
	}
}

// drawGradientBackground fills dst with a dark vertical gradient.
func drawGradientBackground(img *image.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		t := float64(y-b.Min.Y) / float64(b.Dy())
		r := uint8(20 + t*18)
		g := uint8(24 + t*14)
		bl := uint8(36 + t*12)
		for x := b.Min.X; x < b.Max.X; x++ {
			off := img.PixOffset(x, y)
			img.Pix[off+0] = r
			img.Pix[off+1] = g
			img.Pix[off+2] = bl
			img.Pix[off+3] = 255
		}
	}
}

// compositeBatch blits every instance's atlas slot into dst, tinted by
// the instance color. A CPU stand-in for the wgpu render path: the same
// rects, UVs, and premultiplied colors a GPU pipeline would consume.
func compositeBatch(dst *image.RGBA, view *textatlas.AtlasView, b batch.RenderBatch) {
	pix := view.Pix(b.Page)
	stride := view.Stride(b.Page)
	size := float32(view.PageSize())

	for _, in := range b.Instances {
		srcX := int(in.UV.U0 * size)
		srcY := int(in.UV.V0 * size)
		w := int(in.X1 - in.X0)
		h := int(in.Y1 - in.Y0)

		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				cov := pix[(srcY+y)*stride+srcX+x]
				if cov == 0 {
					continue
				}
				blend(dst, int(in.X0)+x, int(in.Y0)+y, in.Color, cov)
			}
		}
	}
}

// blend composites a premultiplied color, scaled by cov/255, over the
// premultiplied dst pixel.
func blend(dst *image.RGBA, x, y int, col [4]float32, cov byte) {
	if !(image.Pt(x, y).In(dst.Rect)) {
		return
	}
	a := float32(cov) / 255
	off := dst.PixOffset(x, y)
	for i := 0; i < 4; i++ {
		v := col[i]*a*255 + float32(dst.Pix[off+i])*(1-col[3]*a)
		if v > 255 {
			v = 255
		}
		dst.Pix[off+i] = uint8(v + 0.5)
	}
}

// saveAtlasPages writes the pages side by side as white-on-transparent
// tiles.
func saveAtlasPages(path string, view *textatlas.AtlasView) error {
	size := view.PageSize()
	pages := view.Pages()
	img := image.NewRGBA(image.Rect(0, 0, pages*size, size))
	for p := 0; p < pages; p++ {
		rgba := preview.ExpandAlpha(view.Pix(p), view.Stride(p), size, size)
		for y := 0; y < size; y++ {
			off := img.PixOffset(p*size, y)
			copy(img.Pix[off:off+size*4], rgba[y*size*4:(y+1)*size*4])
		}
	}
	return savePNG(path, img)
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	return png.Encode(f, img)
}
