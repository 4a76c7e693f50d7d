package perception

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"strings"

	"codeberg.org/mutker/screenwell/internal/errors"
)

// CommandSource runs an external detector once per frame. The command
// captures a frame itself (or reads the image path appended to its
// arguments) and prints a JSON document on stdout:
//
//	{"faces": [{"keypoints": [[x, y], ...]}], "boxes": [[x1, y1, x2, y2], ...]}
type CommandSource struct {
	argv []string
	mode Mode
}

type detectorOutput struct {
	Faces []struct {
		Keypoints [][2]float64 `json:"keypoints"`
	} `json:"faces"`
	Boxes [][4]float64 `json:"boxes"`
}

// NewCommandSource resolves the detector binary on PATH.
func NewCommandSource(command string, mode Mode) (*CommandSource, error) {
	errFactory := errors.New()

	argv := strings.Fields(command)
	if len(argv) == 0 {
		return nil, errFactory.New(ErrNoCommand)
	}

	binary, err := exec.LookPath(argv[0])
	if err != nil {
		return nil, errFactory.Wrap(ErrDetectorNotFound, err)
	}
	argv[0] = binary

	return &CommandSource{argv: argv, mode: mode}, nil
}

func (s *CommandSource) Detect(ctx context.Context) (Detection, error) {
	return s.run(ctx, s.argv)
}

func (s *CommandSource) DetectImage(ctx context.Context, path string) (Detection, error) {
	argv := append(append([]string{}, s.argv...), path)
	return s.run(ctx, argv)
}

func (s *CommandSource) Close() error {
	return nil
}

func (s *CommandSource) run(ctx context.Context, argv []string) (Detection, error) {
	errFactory := errors.New()

	var stdout, stderr bytes.Buffer
	//nolint:gosec // G204: detector command comes from the user's own config
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return Detection{}, errFactory.WithData(ErrDetectorFailed, struct {
			Command string
			Error   string
			Stderr  string
		}{
			Command: argv[0],
			Error:   err.Error(),
			Stderr:  strings.TrimSpace(stderr.String()),
		})
	}

	return Decode(stdout.Bytes(), s.mode)
}

// Decode checks detector output against its schema and turns it into a
// tagged Detection for mode.
func Decode(data []byte, mode Mode) (Detection, error) {
	errFactory := errors.New()

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return Detection{}, errFactory.Wrap(ErrInvalidOutput, err)
	}
	if err := detectorSchema.Validate(doc); err != nil {
		return Detection{}, errFactory.Wrap(ErrInvalidOutput, err)
	}

	var out detectorOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return Detection{}, errFactory.Wrap(ErrInvalidOutput, err)
	}

	switch mode {
	case ModeEyes:
		return classifyEyes(out.Boxes), nil
	default:
		return classifyFaces(out), nil
	}
}

func classifyFaces(out detectorOutput) Detection {
	switch len(out.Faces) {
	case 0:
		return Detection{Kind: NoDetection}
	case 1:
		points := make([]Point, 0, len(out.Faces[0].Keypoints))
		for _, kp := range out.Faces[0].Keypoints {
			points = append(points, Point{X: kp[0], Y: kp[1]})
		}
		return Detection{Kind: OneDetection, Keypoints: points}
	default:
		return Detection{Kind: ManyDetections}
	}
}

// Exactly two boxes are one pair of eyes.
func classifyEyes(raw [][4]float64) Detection {
	switch {
	case len(raw) < 2:
		return Detection{Kind: NoDetection}
	case len(raw) > 2:
		return Detection{Kind: ManyDetections}
	}

	boxes := make([]Box, 0, 2)
	for _, b := range raw {
		boxes = append(boxes, Box{X1: b[0], Y1: b[1], X2: b[2], Y2: b[3]})
	}

	return Detection{Kind: OneDetection, Boxes: boxes}
}
