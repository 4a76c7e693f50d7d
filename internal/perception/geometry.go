package perception

import (
	"math"

	"codeberg.org/mutker/screenwell/internal/errors"
)

// Keypoint order of a face detection.
const (
	KeypointNose = iota
	KeypointLeftEye
	KeypointRightEye
)

// TriangleArea is the area spanned by three points.
func TriangleArea(a, b, c Point) float64 {
	return math.Abs(0.5 * (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y)))
}

// FaceArea measures screen distance as the area of the nose and eye
// triangle; it grows as the face moves closer.
func FaceArea(d Detection) (float64, error) {
	errFactory := errors.New()

	if d.Kind != OneDetection {
		return 0, errFactory.WithData(ErrUnexpectedResult, d.Kind.String())
	}
	if len(d.Keypoints) <= KeypointRightEye {
		return 0, errFactory.WithData(ErrNotEnoughPoints, len(d.Keypoints))
	}

	return TriangleArea(d.Keypoints[KeypointNose], d.Keypoints[KeypointLeftEye], d.Keypoints[KeypointRightEye]), nil
}

// Ratio is width over height.
func (b Box) Ratio() (float64, error) {
	height := b.Y2 - b.Y1
	if height == 0 {
		return 0, errors.New().WithData(ErrDegenerateBox, b)
	}

	return (b.X2 - b.X1) / height, nil
}

// EyeRatios returns the width/height ratio of each eye box, in detection
// order.
func EyeRatios(d Detection) ([]float64, error) {
	if d.Kind != OneDetection {
		return nil, errors.New().WithData(ErrUnexpectedResult, d.Kind.String())
	}

	ratios := make([]float64, 0, len(d.Boxes))
	for _, b := range d.Boxes {
		r, err := b.Ratio()
		if err != nil {
			return nil, err
		}
		ratios = append(ratios, r)
	}

	return ratios, nil
}
