package encdec

import (
	"image"
)

// Image wraps a copy of the frame in an image.YCbCr so it can be encoded
// for previews. YUY2 becomes 4:2:2 and NV12 becomes 4:2:0.
func (i *Frame) Image() (*image.YCbCr, error) {
	l, err := NewPlaneLayout(i.Width, i.Height)
	if err != nil {
		return nil, err
	}
	if err := ValidateFrame(i.Type, l, i.Data); err != nil {
		return nil, err
	}

	bounds := image.Rect(0, 0, i.Width, i.Height)
	switch i.Type {
	case YUY2Frames:
		img := image.NewYCbCr(bounds, image.YCbCrSubsampleRatio422)
		for p := 0; p < len(i.Data)/4; p++ {
			img.Y[p*2] = i.Data[p*4]
			img.Cb[p] = i.Data[p*4+1]
			img.Y[p*2+1] = i.Data[p*4+2]
			img.Cr[p] = i.Data[p*4+3]
		}
		return img, nil
	default:
		img := image.NewYCbCr(bounds, image.YCbCrSubsampleRatio420)
		Y, UV, err := i.Planes()
		if err != nil {
			return nil, err
		}
		copy(img.Y, Y)
		for p := 0; p < len(UV)/2; p++ {
			img.Cb[p] = UV[p*2]
			img.Cr[p] = UV[p*2+1]
		}
		return img, nil
	}
}
