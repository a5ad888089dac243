package software

import (
	"image"
	"image/color"
	"math"

	"github.com/Carmen-Shannon/oxy-trace/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Image is a CPU-side floating point render target.
type Image struct {
	width  int
	height int
	pix    []mgl32.Vec3
}

func newImage(width, height int) *Image {
	return &Image{width: width, height: height, pix: make([]mgl32.Vec3, width*height)}
}

// Size returns the pixel dimensions of the image.
func (img *Image) Size() (int, int) {
	return img.width, img.height
}

// At returns the linear radiance stored at a pixel.
//
// Parameters:
//   - x, y: pixel coordinates, origin at the top left
//
// Returns:
//   - mgl32.Vec3: the stored value, zero outside the image
func (img *Image) At(x, y int) mgl32.Vec3 {
	if x < 0 || y < 0 || x >= img.width || y >= img.height || img.pix == nil {
		return mgl32.Vec3{}
	}
	return img.pix[y*img.width+x]
}

// Set stores a value at a pixel. Out of range writes are ignored.
//
// Parameters:
//   - x, y: pixel coordinates
//   - v: the value to store
func (img *Image) Set(x, y int, v mgl32.Vec3) {
	if x < 0 || y < 0 || x >= img.width || y >= img.height || img.pix == nil {
		return
	}
	img.pix[y*img.width+x] = v
}

// sampleUV reads the nearest pixel at normalised coordinates, so targets of different sizes can
// serve as each other's history.
func (img *Image) sampleUV(u, v float32) mgl32.Vec3 {
	x := int(u * float32(img.width))
	y := int(v * float32(img.height))
	return img.At(min(x, img.width-1), min(y, img.height-1))
}

func (img *Image) fill(v mgl32.Vec3) {
	for i := range img.pix {
		img.pix[i] = v
	}
}

// RGBA converts the image to 8-bit sRGB after Reinhard tone mapping.
//
// Returns:
//   - *image.RGBA: the display image
func (img *Image) RGBA() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.width, img.height))
	for y := range img.height {
		for x := range img.width {
			c := img.At(x, y)
			out.SetRGBA(x, y, color.RGBA{
				R: toSRGB8(c[0]),
				G: toSRGB8(c[1]),
				B: toSRGB8(c[2]),
				A: 255,
			})
		}
	}
	return out
}

func toSRGB8(v float32) uint8 {
	v = common.FiniteOr(v, 0)
	if v < 0 {
		v = 0
	}
	v = v / (1 + v)
	s := float32(math.Pow(float64(v), 1/2.2))
	return uint8(common.Clamp(s*255+0.5, 0, 255))
}
