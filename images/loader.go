package images

import (
	"image"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// LoadAll reads path as either a single image file or a directory of image
// files. Directory entries that are not decodable images are skipped.
//
// Arguments:
//   - path: An image file or a directory containing image files.
//
// Returns:
//   - []image.Image: The decoded images, in directory order.
//   - error: An error if path is unreadable or yields no images.
func LoadAll(path string) ([]image.Image, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to stat image path %s", path)
	}

	if !info.IsDir() {
		img, err := Load(path)
		if err != nil {
			return nil, err
		}
		return []image.Image{img}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read image directory %s", path)
	}

	var imgs []image.Image
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".jpg", ".jpeg", ".png":
			img, err := Load(filepath.Join(path, entry.Name()))
			if err != nil {
				continue
			}
			imgs = append(imgs, img)
		}
	}

	if len(imgs) == 0 {
		return nil, errors.Errorf("no valid images found in %s", path)
	}
	return imgs, nil
}
