package rooms

// DefaultResult is returned whenever the pipeline cannot produce a trustworthy answer.
// Each call builds a fresh value.
func DefaultResult() AnalysisResult {
	return AnalysisResult{
		Analysis: RoomAnalysis{
			Description:    "This appears to be a well-lit room with a contemporary feel. The space has potential for various art styles depending on your preference.",
			DominantColors: []string{"neutral", "white", "gray"},
			Style:          "contemporary",
			Mood:           "versatile",
			Lighting:       "natural",
		},
		Recommendations: []Recommendation{
			{ArtworkID: 106, MatchScore: 90, Reason: "Abstract Blue would add a calming focal point to your space"},
			{ArtworkID: 112, MatchScore: 85, Reason: "Minimalist Lines would complement a clean, modern aesthetic"},
			{ArtworkID: 108, MatchScore: 82, Reason: "Golden Abstract adds warmth and sophistication"},
			{ArtworkID: 102, MatchScore: 78, Reason: "Water Lilies brings natural tranquility to any room"},
		},
	}
}
