package prompt

import (
	"fmt"
	"strings"

	"github.com/artspace/room-analyzer/internal/domain/catalog"
)

const systemPromptHead = `You are an expert interior designer and art consultant. Analyze the room photo and recommend artworks.

Your response MUST be valid JSON with this exact structure:
{
    "analysis": {
        "description": "2-3 sentences describing the room's style, colors, and atmosphere",
        "dominantColors": ["color1", "color2", "color3"],
        "style": "modern/traditional/minimalist/eclectic/etc",
        "mood": "calm/energetic/cozy/sophisticated/etc",
        "lighting": "bright/dim/natural/warm/cool"
    },
    "recommendations": [
        {
            "artworkId": 101,
            "matchScore": 95,
            "reason": "Why this artwork fits the room"
        }
    ]
}

Available artwork IDs and their characteristics:
`

const systemPromptTail = `
Recommend 3-5 artworks that best match the room. Consider color harmony, style compatibility, and mood.`

// userPrompt is the text part of the user turn; the photo follows it.
const userPrompt = "Analyze this room and recommend artworks from the available collection."

// GetSystemPrompt provides the output schema and the catalog the model may pick from.
func GetSystemPrompt() string {
	var b strings.Builder
	b.WriteString(systemPromptHead)
	for _, a := range catalog.All() {
		fmt.Fprintf(&b, "- %d: %s (%s)\n", a.ID, a.Title, strings.Join(a.Tags, ", "))
	}
	b.WriteString(systemPromptTail)
	return b.String()
}

// GetUserPrompt returns the instruction sent alongside the photo.
func GetUserPrompt() string {
	return userPrompt
}

// ImageDataURL wraps a bare base64 payload. The payload is always labelled as JPEG.
func ImageDataURL(imageBase64 string) string {
	return "data:image/jpeg;base64," + imageBase64
}
