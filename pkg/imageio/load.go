package imageio

import(
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/mdouchement/hdr/codec/rgbe"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/abworrall/lutgrade/pkg/raster"
)

// Extensions we know how to decode.
var Extensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".tif": true, ".tiff": true, ".bmp": true, ".webp": true, ".hdr": true,
}

func IsImageFile(filename string) bool {
	return Extensions[strings.ToLower(filepath.Ext(filename))]
}

// Load decodes an image file into an RGB buffer. JPEGs are rotated
// upright according to their EXIF orientation tag. Radiance .hdr files
// are accepted, but clipped to [0,1].
func Load(filename string) (raster.Buffer, error) {
	contents, err := ioutil.ReadFile(filename)
	if err != nil {
		return raster.Buffer{}, fmt.Errorf("read '%s': %v: %w", filename, err, raster.ErrInvalidImage)
	}

	var img image.Image
	ext := strings.ToLower(filepath.Ext(filename))

	if ext == ".hdr" {
		img, err = rgbe.Decode(bytes.NewReader(contents))
	} else {
		img, _, err = image.Decode(bytes.NewReader(contents))
	}
	if err != nil {
		return raster.Buffer{}, fmt.Errorf("decode '%s': %v: %w", filename, err, raster.ErrInvalidImage)
	}

	buf, err := raster.FromImage(img)
	if err != nil {
		return raster.Buffer{}, fmt.Errorf("'%s': %w", filename, err)
	}

	if ext == ".jpg" || ext == ".jpeg" {
		if o := Orientation(contents); o > 1 {
			return raster.Orient(buf, o)
		}
	}

	return buf, nil
}

// Orientation digs the EXIF orientation tag (1-8) out of the file
// contents. Files without EXIF, or without the tag, are orientation 1.
func Orientation(contents []byte) int {
	ex, err := exif.Decode(bytes.NewReader(contents))
	if err != nil {
		return 1
	}
	tag, err := ex.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	val, err := tag.Int(0)
	if err != nil || val < 1 || val > 8 {
		return 1
	}
	return val
}

// FindImages expands the args into a list of image files; directories
// are walked recursively, files that aren't images are skipped.
func FindImages(args ...string) ([]string, error) {
	ret := []string{}

	for _, arg := range args {
		item, err := os.Stat(arg)

		switch {

		case err != nil:
			return nil, fmt.Errorf("load %s: %v", arg, err)

		case item.IsDir():
			// Is a dir, recurse into contents
			contents, err := ioutil.ReadDir(arg)
			if err != nil {
				return nil, fmt.Errorf("readdir %s: %v", arg, err)
			}
			for _, content := range contents {
				found, err := FindImages(filepath.Join(arg, content.Name()))
				if err != nil {
					return nil, fmt.Errorf("load %s: %v", arg, err)
				}
				ret = append(ret, found...)
			}

		case IsImageFile(arg):
			ret = append(ret, arg)
		}
	}

	return ret, nil
}
