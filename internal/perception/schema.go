package perception

import "github.com/santhosh-tekuri/jsonschema/v5"

// detectorSchema describes what a detector may print. Keypoints are
// [x, y] pairs and boxes are [x1, y1, x2, y2] corners.
var detectorSchema = jsonschema.MustCompileString("detector-output.schema.json", `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"faces": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"keypoints": {
						"type": "array",
						"items": {
							"type": "array",
							"items": {"type": "number"},
							"minItems": 2,
							"maxItems": 2
						}
					}
				}
			}
		},
		"boxes": {
			"type": "array",
			"items": {
				"type": "array",
				"items": {"type": "number"},
				"minItems": 4,
				"maxItems": 4
			}
		}
	}
}`)
