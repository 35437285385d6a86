package components

import (
	"fmt"
	"image"
	"os"

	_ "image/jpeg"
	_ "image/png"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"

	"github.com/gogpu/winmux"
	"github.com/gogpu/winmux/cache"
	"github.com/gogpu/winmux/gpu"
)

// ImageKind identifies the image viewer's (empty) pipeline bundle. The
// viewer blits with a texture copy instead of a draw call, but still
// registers a kind so the bundle sharing machinery treats it uniformly.
type ImageKind struct{}

func (ImageKind) Name() string { return "image" }

func (ImageKind) GeneratePipelines(ctx *winmux.Context) (*winmux.Pipelines, error) {
	return winmux.NewPipelines(nil, nil), nil
}

// ImageViewer shows one decoded image scaled to its viewport. The
// scaled pixels are uploaded to a GPU texture once per size and copied
// onto the surface texture each frame.
type ImageViewer struct {
	img       image.Image
	pipelines *winmux.Pipelines

	// scaled caches rescale results so bouncing between two window
	// sizes does not redo the filtering.
	scaled *cache.LRU[winmux.Size, *image.RGBA]

	tex     gpu.Texture
	texSize winmux.Size
}

// NewImageViewer creates a viewer for img.
func NewImageViewer(ctx *winmux.Context, img image.Image) (*ImageViewer, error) {
	ps, err := ctx.Pipelines(ImageKind{})
	if err != nil {
		return nil, fmt.Errorf("components: image pipelines: %w", err)
	}
	return &ImageViewer{
		img:       img,
		pipelines: ps,
		scaled:    cache.NewLRU[winmux.Size, *image.RGBA](8),
	}, nil
}

// LoadImage decodes a PNG or JPEG file.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("components: open image: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("components: decode image %s: %w", path, err)
	}
	return img, nil
}

func (v *ImageViewer) Kind() winmux.Kind { return ImageKind{} }

func (v *ImageViewer) MinSize() (winmux.Size, bool) {
	return winmux.Size{W: 16, H: 16}, true
}

// Render scales the image to the clipped viewport, uploads it on size
// changes, and copies the texture onto the surface.
func (v *ImageViewer) Render(enc gpu.CommandEncoder, ctx *winmux.Context, target gpu.RenderTarget, viewport, clip winmux.Rect) error {
	region := clip.ClampedToOrigin()
	if region.Size.IsEmpty() {
		return nil
	}

	if v.tex == nil || v.texSize != region.Size {
		if err := v.upload(ctx, region.Size); err != nil {
			return err
		}
	}

	enc.CopyTextureToTexture(
		v.tex, target.Texture(),
		uint32(region.Pos.X), uint32(region.Pos.Y),
		region.Size.W, region.Size.H,
	)
	return nil
}

// Release frees the GPU texture.
func (v *ImageViewer) Release() {
	if v.tex != nil {
		v.tex.Release()
		v.tex = nil
		v.texSize = winmux.Size{}
	}
}

// upload rescales the source image to size and writes it into a fresh
// texture matching the surface format.
func (v *ImageViewer) upload(ctx *winmux.Context, size winmux.Size) error {
	rgba := v.scaled.GetOrCreate(size, func() *image.RGBA {
		dst := image.NewRGBA(image.Rect(0, 0, int(size.W), int(size.H)))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), v.img, v.img.Bounds(), draw.Src, nil)
		return dst
	})

	pixels := rgba.Pix
	if isBGRA(ctx.Format) {
		pixels = swapRB(pixels)
	}

	tex, err := ctx.Device.CreateTexture(&gpu.TextureDescriptor{
		Label:  "image viewer",
		Width:  size.W,
		Height: size.H,
		Format: ctx.Format,
		Usage:  gpu.TextureUsageCopySrc | gpu.TextureUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("components: image texture: %w", err)
	}
	ctx.Queue.WriteTexture(tex, pixels, 4*size.W, size.W, size.H)

	if v.tex != nil {
		v.tex.Release()
	}
	v.tex = tex
	v.texSize = size
	return nil
}

func isBGRA(f gputypes.TextureFormat) bool {
	return f == gputypes.TextureFormatBGRA8Unorm || f == gputypes.TextureFormatBGRA8UnormSrgb
}

// swapRB returns a copy of RGBA pixels with the red and blue channels
// exchanged.
func swapRB(pix []byte) []byte {
	out := make([]byte, len(pix))
	copy(out, pix)
	for i := 0; i+3 < len(out); i += 4 {
		out[i], out[i+2] = out[i+2], out[i]
	}
	return out
}
