package preview

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/textatlas"
)

// Drawing errors.
var (
	// ErrDrawerClosed is returned when operations are attempted on a
	// closed drawer.
	ErrDrawerClosed = errors.New("preview: drawer is closed")

	// ErrNilView is returned when the atlas view is nil.
	ErrNilView = errors.New("preview: nil atlas view")

	// ErrInvalidPage is returned when the page index is out of range.
	ErrInvalidPage = errors.New("preview: page index out of range")

	// ErrInvalidRenderer is returned when the draw context has no
	// texture creator.
	ErrInvalidRenderer = errors.New("preview: draw context has no texture creator")

	// ErrInvalidTexture is returned when a created texture does not
	// implement gpucontext.Texture.
	ErrInvalidTexture = errors.New("preview: texture does not implement gpucontext.Texture")
)

// textureDestroyer is the interface for destroying textures.
// This matches the gogpu.Texture.Destroy signature.
type textureDestroyer interface {
	Destroy()
}

// Drawer caches one GPU texture per atlas page and draws pages as
// grayscale tiles. The zero value is ready to use; textures are
// created lazily on the first Draw of each page.
//
// A Drawer is not safe for concurrent use.
type Drawer struct {
	textures []any
	closed   bool
}

// NewDrawer returns a drawer with no cached textures.
func NewDrawer() *Drawer {
	return &Drawer{}
}

// Draw uploads the page's current pixels and draws the page as a tile
// at (x, y).
//
// The page texture is created on first use and updated in place on
// later calls. A texture that cannot update in place is destroyed and
// recreated, so the tile never shows stale coverage.
func (d *Drawer) Draw(dc gpucontext.TextureDrawer, view *textatlas.AtlasView, page int, x, y float32) error {
	if d.closed {
		return ErrDrawerClosed
	}
	if view == nil {
		return ErrNilView
	}
	if page < 0 || page >= view.Pages() {
		return fmt.Errorf("%w: page %d of %d", ErrInvalidPage, page, view.Pages())
	}

	size := view.PageSize()
	data := ExpandAlpha(view.Pix(page), view.Stride(page), size, size)

	for len(d.textures) <= page {
		d.textures = append(d.textures, nil)
	}

	tex := d.textures[page]
	if tex != nil {
		updated, err := refreshTexture(tex, data)
		if err != nil {
			return fmt.Errorf("preview: texture update failed: %w", err)
		}
		if !updated {
			destroyTexture(tex)
			d.textures[page] = nil
			tex = nil
		}
	}
	if tex == nil {
		creator := dc.TextureCreator()
		if creator == nil {
			return ErrInvalidRenderer
		}
		created, err := creator.NewTextureFromRGBA(size, size, data)
		if err != nil {
			return fmt.Errorf("preview: NewTextureFromRGBA failed: %w", err)
		}
		// Expanded coverage is premultiplied alpha — mark the texture
		// so gogpu composites it with the BlendFactorOne pipeline.
		if pt, ok := created.(interface{ SetPremultiplied(bool) }); ok {
			pt.SetPremultiplied(true)
		}
		d.textures[page] = created
		tex = created
	}

	gpuTex, ok := tex.(gpucontext.Texture)
	if !ok {
		return ErrInvalidTexture
	}
	return dc.DrawTexture(gpuTex, x, y)
}

// DrawAll draws every page in a horizontal strip starting at (x, y)
// with gap pixels between tiles.
func (d *Drawer) DrawAll(dc gpucontext.TextureDrawer, view *textatlas.AtlasView, x, y, gap float32) error {
	if d.closed {
		return ErrDrawerClosed
	}
	if view == nil {
		return ErrNilView
	}
	step := float32(view.PageSize()) + gap
	for page := 0; page < view.Pages(); page++ {
		if err := d.Draw(dc, view, page, x+float32(page)*step, y); err != nil {
			return err
		}
	}
	return nil
}

// Close destroys all cached textures. Close is idempotent.
func (d *Drawer) Close() {
	if d.closed {
		return
	}
	d.closed = true
	for _, tex := range d.textures {
		if tex != nil {
			destroyTexture(tex)
		}
	}
	d.textures = nil
}

// refreshTexture writes data into tex in place. It reports whether the
// texture supports in-place updates.
func refreshTexture(tex any, data []byte) (bool, error) {
	updater, ok := tex.(gpucontext.TextureUpdater)
	if !ok {
		return false, nil
	}
	return true, updater.UpdateData(data)
}

func destroyTexture(tex any) {
	if destroyer, ok := tex.(textureDestroyer); ok {
		destroyer.Destroy()
	}
}
