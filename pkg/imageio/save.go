package imageio

import(
	"fmt"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"

	"github.com/abworrall/lutgrade/pkg/raster"
)

const DefaultJPEGQuality = 95

var savable = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".tif": true, ".tiff": true,
}

// CanSave reports whether Save has an encoder for the filename's extension.
func CanSave(filename string) bool {
	return savable[strings.ToLower(filepath.Ext(filename))]
}

// OutputNames maps input files to output files in dir. The output extension
// is ext if given; otherwise the input's own extension when Save can write
// it, else ".jpg". Inputs that would land on the same name get _2, _3, ...
func OutputNames(inFiles []string, dir, ext string) ([]string, error) {
	if ext != "" {
		if !strings.HasPrefix(ext, ".") { ext = "." + ext }
		if !CanSave(ext) {
			return nil, fmt.Errorf("output format '%s': %w", ext, raster.ErrInvalidImage)
		}
	}

	taken := map[string]bool{}
	outFiles := []string{}
	for _, in := range inFiles {
		base := filepath.Base(in)
		stem, inExt := strings.TrimSuffix(base, filepath.Ext(base)), filepath.Ext(base)

		outExt := ext
		if outExt == "" {
			outExt = ".jpg"
			if CanSave(inExt) { outExt = inExt }
		}

		name := stem + outExt
		for n := 2; taken[strings.ToLower(name)]; n++ {
			name = fmt.Sprintf("%s_%d%s", stem, n, outExt)
		}
		taken[strings.ToLower(name)] = true
		outFiles = append(outFiles, filepath.Join(dir, name))
	}
	return outFiles, nil
}

// Save encodes the buffer according to the filename's extension: PNG,
// TIFF, or (for anything else) JPEG at the given quality.
func Save(buf raster.Buffer, filename string, quality int) error {
	if err := buf.Validate(); err != nil {
		return fmt.Errorf("save '%s': %w", filename, err)
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}

	writer, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("open+w '%s': %v: %w", filename, err, raster.ErrInvalidImage)
	}

	img := buf.ToRGBA()
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":          err = png.Encode(writer, img)
	case ".tif", ".tiff": err = tiff.Encode(writer, img, &tiff.Options{Compression: tiff.Deflate})
	default:              err = jpeg.Encode(writer, img, &jpeg.Options{Quality: quality})
	}

	if cerr := writer.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("encode '%s': %v: %w", filename, err, raster.ErrInvalidImage)
	}
	return nil
}
