// Package perception is the boundary to the external detector that turns a
// camera frame into face keypoints or eye boxes.
package perception

import "context"

// Source yields one detection per call.
type Source interface {
	Detect(ctx context.Context) (Detection, error)
	Close() error
}

// ImageSource runs the detector on a still image, used for calibration.
type ImageSource interface {
	DetectImage(ctx context.Context, path string) (Detection, error)
}

// Mode selects what a detector looks for.
type Mode string

const (
	// ModeFace expects faces with nose, left eye and right eye keypoints.
	ModeFace Mode = "face"
	// ModeEyes expects one box per eye.
	ModeEyes Mode = "eyes"
)

// Kind tags a Detection.
type Kind int

const (
	NoDetection Kind = iota
	OneDetection
	ManyDetections
)

func (k Kind) String() string {
	switch k {
	case NoDetection:
		return "none"
	case OneDetection:
		return "one"
	case ManyDetections:
		return "many"
	default:
		return "unknown"
	}
}

// Detection is the per-frame result. Keypoints are set for a single face,
// Boxes for a single pair of eyes; both are empty for the other kinds.
type Detection struct {
	Kind      Kind
	Keypoints []Point
	Boxes     []Box
}

type Point struct {
	X, Y float64
}

// Box is an axis-aligned bounding box given by two corners.
type Box struct {
	X1, Y1, X2, Y2 float64
}
