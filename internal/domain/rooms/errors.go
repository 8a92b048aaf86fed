package rooms

import "errors"

// ErrNoImage is the only failure reported back to the caller.
var ErrNoImage = errors.New("no image provided")

var (
	// ErrNoJSONObject means the model text has no '{' or no '}'.
	ErrNoJSONObject = errors.New("no json object in model output")
	// ErrInvalidJSON means the brace-bounded text did not parse.
	ErrInvalidJSON = errors.New("invalid json in model output")
)
