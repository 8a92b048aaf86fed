package rooms

import (
	"encoding/json"

	"github.com/artspace/room-analyzer/internal/domain/catalog"
)

// RoomAnalysis is the model's read of the photographed room.
type RoomAnalysis struct {
	Description    string   `json:"description"`
	DominantColors []string `json:"dominantColors"`
	Style          string   `json:"style"`
	Mood           string   `json:"mood"`
	Lighting       string   `json:"lighting"`
}

// Recommendation points at a catalog artwork. The id is not checked against the catalog.
type Recommendation struct {
	ArtworkID  catalog.ArtworkID `json:"artworkId"`
	MatchScore int               `json:"matchScore"`
	Reason     string            `json:"reason"`
}

// AnalysisResult is the response body of a successful analysis.
//
// A result parsed from model output keeps the model's JSON and encodes back to
// it, so fields the model added (or typed differently) survive the round trip.
type AnalysisResult struct {
	Analysis        RoomAnalysis     `json:"analysis"`
	Recommendations []Recommendation `json:"recommendations"`

	raw json.RawMessage
}

// Raw returns the model JSON the result was parsed from, or nil for results built in code.
func (r AnalysisResult) Raw() json.RawMessage {
	return r.raw
}

func (r AnalysisResult) MarshalJSON() ([]byte, error) {
	if len(r.raw) > 0 {
		return r.raw, nil
	}
	type plain AnalysisResult
	return json.Marshal(plain(r))
}
