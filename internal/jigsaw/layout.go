package jigsaw

import "fmt"

// Aspect ratio assumed when the image's natural size is unknown.
const defaultAspect = 3.0 / 4.0

// FitPuzzle scales an image of natural size imageWidth x imageHeight so
// that it fills as much of a maxWidth x maxHeight box as possible while
// keeping its aspect ratio. A zero natural size falls back to 3:4.
func FitPuzzle(imageWidth, imageHeight, maxWidth, maxHeight float64) (width, height float64) {
	ratio := defaultAspect
	if validDimension(imageWidth) && validDimension(imageHeight) {
		ratio = imageWidth / imageHeight
	}
	if ratio > maxWidth/maxHeight {
		return maxWidth, maxWidth / ratio
	}
	return maxHeight * ratio, maxHeight
}

// FormatTime renders a second count as MM:SS.
func FormatTime(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
