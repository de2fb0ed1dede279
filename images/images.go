// Package images - Image decoding and model input preparation.
package images

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// Load reads and decodes a JPEG or PNG image file.
//
// Arguments:
//   - path: Path to the image file.
//
// Returns:
//   - image.Image: The decoded image.
//   - error: An error if reading or decoding fails.
func Load(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read image %s", path)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode image %s", path)
	}
	return img, nil
}

// ToTensor resizes img to size x size using Lanczos3 and fills dst with NCHW
// float32 data normalized to [0, 1].
//
// Arguments:
//   - img: The image to convert.
//   - size: The square model input resolution.
//   - dst: The destination tensor buffer to populate.
//
// Returns:
//   - error: An error if dst is too small for the requested resolution.
func ToTensor(img image.Image, size int, dst []float32) error {
	channelSize := size * size
	if len(dst) < channelSize*3 {
		return errors.Errorf("destination tensor holds %d floats, needs %d (make sure it's the right shape)",
			len(dst), channelSize*3)
	}
	red := dst[0:channelSize]
	green := dst[channelSize : channelSize*2]
	blue := dst[channelSize*2 : channelSize*3]

	resized := resize.Resize(uint(size), uint(size), img, resize.Lanczos3)

	i := 0
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()
			red[i] = float32(r>>8) / 255.0
			green[i] = float32(g>>8) / 255.0
			blue[i] = float32(b>>8) / 255.0
			i++
		}
	}
	return nil
}
