//go:build !nogpu

package wgpu

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/textatlas"
)

// Uploader mirrors atlas pages into R8Unorm GPU textures. Textures are
// created lazily as pages appear; Upload writes only the regions the
// atlas marked dirty since the last call.
//
// Uploader shares the atlas's single-threaded contract.
type Uploader struct {
	device hal.Device
	queue  hal.Queue
	config Config

	textures []hal.Texture
	views    []hal.TextureView
	closed   bool
}

// NewUploader creates an uploader writing through the given device and
// queue.
func NewUploader(device hal.Device, queue hal.Queue, opts ...Option) (*Uploader, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return NewUploaderWithConfig(device, queue, config)
}

// NewUploaderWithConfig creates an uploader with an explicit
// configuration.
func NewUploaderWithConfig(device hal.Device, queue hal.Queue, config Config) (*Uploader, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	if queue == nil {
		return nil, ErrNilQueue
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Uploader{device: device, queue: queue, config: config}, nil
}

// Upload creates textures for pages that appeared since the last call
// and writes every dirty rectangle, then clears the pages' dirty state.
// A freshly created texture receives the full page regardless of dirty
// tracking.
func (u *Uploader) Upload(view *textatlas.AtlasView) error {
	if u.closed {
		return ErrUploaderClosed
	}
	if view == nil {
		return ErrNilView
	}

	size := view.PageSize()
	for page := 0; page < view.Pages(); page++ {
		created, err := u.ensurePage(page, size)
		if err != nil {
			return err
		}

		var rects []image.Rectangle
		if created {
			rects = []image.Rectangle{image.Rect(0, 0, size, size)}
		} else {
			rects = view.DirtyRects(page)
		}
		if len(rects) == 0 {
			continue
		}

		pix := view.Pix(page)
		stride := view.Stride(page)
		for _, r := range rects {
			u.queue.WriteTexture(
				&hal.ImageCopyTexture{
					Texture:  u.textures[page],
					MipLevel: 0,
					Origin:   hal.Origin3D{X: uint32(r.Min.X), Y: uint32(r.Min.Y)},
					Aspect:   gputypes.TextureAspectAll,
				},
				subRect(pix, stride, r),
				&hal.ImageDataLayout{
					Offset:       0,
					BytesPerRow:  uint32(stride),
					RowsPerImage: uint32(r.Dy()),
				},
				&hal.Extent3D{Width: uint32(r.Dx()), Height: uint32(r.Dy()), DepthOrArrayLayers: 1},
			)
		}
		view.Flush(page)

		textatlas.Logger().Debug("wgpu: uploaded page", "page", page, "rects", len(rects))
	}
	return nil
}

// ensurePage creates the texture and view for page if missing.
func (u *Uploader) ensurePage(page, size int) (created bool, err error) {
	for len(u.textures) <= page {
		u.textures = append(u.textures, nil)
		u.views = append(u.views, nil)
	}
	if u.textures[page] != nil {
		return false, nil
	}

	tex, err := u.device.CreateTexture(&hal.TextureDescriptor{
		Label:         fmt.Sprintf("%s_%d", u.config.LabelPrefix, page),
		Size:          hal.Extent3D{Width: uint32(size), Height: uint32(size), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        u.config.Format,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return false, fmt.Errorf("wgpu: create atlas texture %d: %w", page, err)
	}

	view, err := u.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         fmt.Sprintf("%s_%d_view", u.config.LabelPrefix, page),
		Format:        u.config.Format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		u.device.DestroyTexture(tex)
		return false, fmt.Errorf("wgpu: create atlas texture view %d: %w", page, err)
	}

	u.textures[page] = tex
	u.views[page] = view
	textatlas.Logger().Debug("wgpu: created atlas texture", "page", page, "size", size)
	return true, nil
}

// TextureView returns the GPU view of a page, or nil when the page has
// no texture yet.
func (u *Uploader) TextureView(page int) hal.TextureView {
	if page < 0 || page >= len(u.views) {
		return nil
	}
	return u.views[page]
}

// Pages returns the number of pages with GPU textures.
func (u *Uploader) Pages() int {
	return len(u.textures)
}

// Close destroys all page textures and views. Close is idempotent;
// Upload on a closed uploader returns ErrUploaderClosed.
func (u *Uploader) Close() {
	if u.closed {
		return
	}
	u.closed = true

	for _, v := range u.views {
		if v != nil {
			u.device.DestroyTextureView(v)
		}
	}
	u.views = nil

	for _, t := range u.textures {
		if t != nil {
			u.device.DestroyTexture(t)
		}
	}
	u.textures = nil
}
