// package common contains common types and math helpers that are used throughout this engine. They are not interface-wrapped structs, just plain
// structs and functions that express commonly used data-types.
package common

import (
	"errors"
	"image"

	"github.com/cogentcore/webgpu/wgpu"
	"golang.org/x/image/draw"
)

// ErrEmptyImage is returned when staging an image with no pixels.
var ErrEmptyImage = errors.New("image has no pixels")

// TextureStagingData holds RGBA pixel data for a texture binding pending GPU upload.
// This is primarily used in the BindGroupProvider to stage texture data before creating the GPU texture and bind group.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels. This is required to correctly create the GPU texture and interpret the pixel data.
	Width uint32
	// Height is the height of the texture in pixels. This is required to correctly create the GPU texture and interpret the pixel data.
	Height uint32
}

// SamplerStagingData holds the configuration for a sampler binding pending GPU creation.
// Zero values fall back to linear filtering and repeat addressing when the sampler is created.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture coordinates outside the [0, 1] range in each dimension (U, V, W).
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the minimum and maximum level of detail (LOD) for mipmapping.
	LodMinClamp, LodMaxClamp float32
	// MaxAnisotropy specifies the maximum anisotropy level for anisotropic filtering.
	MaxAnisotropy uint16
}

// NewTextureStagingData converts a decoded image into tightly packed RGBA8 pixels.
// Images whose largest side exceeds maxDimension are scaled down with bilinear
// filtering, keeping the aspect ratio. A maxDimension of 0 disables scaling.
//
// Parameters:
//   - img: the decoded source image
//   - maxDimension: the largest texture side the device accepts
//
// Returns:
//   - TextureStagingData: the staged pixels and final dimensions
//   - error: ErrEmptyImage if img is nil or has zero area
func NewTextureStagingData(img image.Image, maxDimension uint32) (TextureStagingData, error) {
	if img == nil || img.Bounds().Empty() {
		return TextureStagingData{}, ErrEmptyImage
	}

	src := img.Bounds()
	w, h := src.Dx(), src.Dy()
	if maxDimension > 0 && (uint32(w) > maxDimension || uint32(h) > maxDimension) {
		if w >= h {
			h = max(1, h*int(maxDimension)/w)
			w = int(maxDimension)
		} else {
			w = max(1, w*int(maxDimension)/h)
			h = int(maxDimension)
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == src.Dx() && h == src.Dy() {
		draw.Draw(dst, dst.Bounds(), img, src.Min, draw.Src)
	} else {
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)
	}

	return TextureStagingData{
		Pixels: dst.Pix,
		Width:  uint32(w),
		Height: uint32(h),
	}, nil
}

// WhiteImage returns a 1x1 opaque white image, used as the default albedo texture.
func WhiteImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Pix[0], img.Pix[1], img.Pix[2], img.Pix[3] = 0xff, 0xff, 0xff, 0xff
	return img
}
