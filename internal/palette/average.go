package palette

import (
	"image"
	"image/color"
	"math"
)

// SampleStart is the fraction of the image height where sampling begins.
// The region below it usually sits under overlaid text.
const SampleStart = 0.66

// Region returns the sampled rows of b: floor(h*SampleStart) to the last row, all columns
func Region(b image.Rectangle) image.Rectangle {
	start := int(math.Floor(float64(b.Dy()) * SampleStart))
	return image.Rect(b.Min.X, b.Min.Y+start, b.Max.X, b.Max.Y)
}

// Average returns the floored mean of the non-premultiplied red, green and
// blue channels over Region. It reports false for an empty region.
func Average(img image.Image) (Color, bool) {
	r := Region(img.Bounds())
	if r.Empty() {
		return Black, false
	}

	var sr, sg, sb uint64
	if src, ok := img.(*image.NRGBA); ok {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			i := src.PixOffset(r.Min.X, y)
			row := src.Pix[i : i+r.Dx()*4]
			for j := 0; j < len(row); j += 4 {
				sr += uint64(row[j])
				sg += uint64(row[j+1])
				sb += uint64(row[j+2])
			}
		}
	} else {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
				sr += uint64(c.R)
				sg += uint64(c.G)
				sb += uint64(c.B)
			}
		}
	}

	n := uint64(r.Dx()) * uint64(r.Dy())
	return Color{R: uint8(sr / n), G: uint8(sg / n), B: uint8(sb / n)}, true
}
