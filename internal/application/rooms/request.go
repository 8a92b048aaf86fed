package rooms

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	domain "github.com/artspace/room-analyzer/internal/domain/rooms"
)

var errNotObject = errors.New("request body is not a JSON object")

// DecodeImage pulls the image payload out of a {"image": "..."} body and
// strips any data URL prefix.
//
// A body that has no image member yields domain.ErrNoImage. That covers
// objects without the key, arrays without an "image" element and strings
// that do not mention "image". Other shapes fail with a plain error.
func DecodeImage(body []byte) (string, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return "", fmt.Errorf("failed to decode request body: %w", err)
	}

	switch v := doc.(type) {
	case map[string]any:
		raw, ok := v["image"]
		if !ok {
			return "", domain.ErrNoImage
		}
		image, ok := raw.(string)
		if !ok {
			return "", fmt.Errorf("image must be a string, got %T", raw)
		}
		return StripDataURL(image), nil
	case []any:
		if slices.Contains(v, any("image")) {
			return "", fmt.Errorf("%w: got an array", errNotObject)
		}
		return "", domain.ErrNoImage
	case string:
		if strings.Contains(v, "image") {
			return "", fmt.Errorf("%w: got a string", errNotObject)
		}
		return "", domain.ErrNoImage
	default:
		return "", errNotObject
	}
}

// StripDataURL turns "data:<mime>;base64,<payload>" into "<payload>".
// Strings without the data: scheme, or without a comma, are returned as is.
func StripDataURL(image string) string {
	if !strings.HasPrefix(image, "data:") {
		return image
	}
	if i := strings.IndexByte(image, ','); i >= 0 {
		return image[i+1:]
	}
	return image
}
