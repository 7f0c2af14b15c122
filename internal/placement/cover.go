package placement

// CoverFit returns the photo size, as fractions of the viewport, that covers
// the viewport completely once the photo is drawn with the given rotation.
//
// The wider/taller decision uses the rotated aspect. The ratios themselves
// are computed from the unrotated aspect and, for quarter turns, rescaled by
// imageW/imageH because the renderer applies the size before rotating.
func CoverFit(imageW, imageH, viewportW, viewportH float64, rotation int) (widthRatio, heightRatio float64) {
	swapped := IsSwapped(rotation)

	effW, effH := imageW, imageH
	if swapped {
		effW, effH = imageH, imageW
	}

	imageAspect := effW / effH
	viewportAspect := viewportW / viewportH

	if imageAspect > viewportAspect {
		widthRatio = (imageW / imageH) * (viewportH / viewportW)
		heightRatio = 1
	} else {
		widthRatio = 1
		heightRatio = (imageH / imageW) * (viewportW / viewportH)
	}

	if swapped {
		widthRatio *= imageW / imageH
		heightRatio *= imageW / imageH
	}
	return widthRatio, heightRatio
}
