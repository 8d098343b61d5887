package raster

// Orient applies one of the eight EXIF orientations, returning a buffer
// that displays upright. Orientation 1 (and anything unrecognised) is a
// no-op copy.
//
//   1: normal           2: mirror horizontal
//   3: rotate 180       4: mirror vertical
//   5: transpose        6: rotate 90 CW
//   7: transverse       8: rotate 90 CCW
func Orient(src Buffer, orientation int) (Buffer, error) {
	if err := src.Validate(); err != nil {
		return Buffer{}, err
	}
	if orientation < 2 || orientation > 8 {
		return src.Clone(), nil
	}

	w, h := src.Width, src.Height
	if orientation >= 5 {
		w, h = h, w // the last four swap the axes
	}

	dst, err := NewBuffer(w, h)
	if err != nil {
		return Buffer{}, err
	}

	W, H := src.Width, src.Height
	for y:=0; y<H; y++ {
		for x:=0; x<W; x++ {
			var dx, dy int
			switch orientation {
			case 2: dx, dy = W-1-x, y
			case 3: dx, dy = W-1-x, H-1-y
			case 4: dx, dy = x, H-1-y
			case 5: dx, dy = y, x
			case 6: dx, dy = H-1-y, x
			case 7: dx, dy = H-1-y, W-1-x
			case 8: dx, dy = y, W-1-x
			}
			r, g, b := src.RGB(x, y)
			dst.SetRGB(dx, dy, r, g, b)
		}
	}

	return dst, nil
}
