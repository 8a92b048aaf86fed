package ai

import "context"

// Client sends a room photo to a vision model and returns its raw text answer.
// imageBase64 is the bare base64 payload, without a data URL prefix.
type Client interface {
	AnalyzeRoom(ctx context.Context, imageBase64 string) (string, error)
}
