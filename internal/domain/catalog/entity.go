package catalog

// ArtworkID identifies a catalog item
type ArtworkID int

// Artwork describes one piece in the fixed collection.
type Artwork struct {
	ID    ArtworkID `json:"id"`
	Title string    `json:"title"`
	Tags  []string  `json:"tags"`
}

var artworks = []Artwork{
	{ID: 101, Title: "Starry Night", Tags: []string{"blue", "dramatic", "expressive"}},
	{ID: 102, Title: "Water Lilies", Tags: []string{"green", "calm", "natural"}},
	{ID: 103, Title: "Café Terrace", Tags: []string{"yellow", "warm", "cozy"}},
	{ID: 104, Title: "Mona Lisa", Tags: []string{"brown", "classic", "elegant"}},
	{ID: 105, Title: "Kandinsky", Tags: []string{"colorful", "energetic", "bold"}},
	{ID: 106, Title: "Abstract Blue", Tags: []string{"blue", "calm", "modern"}},
	{ID: 107, Title: "Colorful Abstract", Tags: []string{"vibrant", "playful", "fun"}},
	{ID: 108, Title: "Golden Abstract", Tags: []string{"gold", "luxurious", "warm"}},
	{ID: 109, Title: "Botanical Study", Tags: []string{"green", "fresh", "natural"}},
	{ID: 110, Title: "Classic Portrait", Tags: []string{"brown", "traditional", "dignified"}},
	{ID: 111, Title: "Great Wave", Tags: []string{"blue", "dramatic", "powerful"}},
	{ID: 112, Title: "Minimalist Lines", Tags: []string{"black/white", "clean", "simple"}},
	{ID: 113, Title: "Geometric Patterns", Tags: []string{"colorful", "structured", "modern"}},
	{ID: 114, Title: "Neon Dreams", Tags: []string{"neon", "futuristic", "edgy"}},
	{ID: 115, Title: "Traditional Landscape", Tags: []string{"green", "peaceful", "scenic"}},
}

// All returns the collection in catalog order. The result is a copy.
func All() []Artwork {
	out := make([]Artwork, len(artworks))
	for i, a := range artworks {
		out[i] = a.clone()
	}
	return out
}

// Lookup finds an artwork by id.
func Lookup(id ArtworkID) (Artwork, bool) {
	for _, a := range artworks {
		if a.ID == id {
			return a.clone(), true
		}
	}
	return Artwork{}, false
}

func (a Artwork) clone() Artwork {
	a.Tags = append([]string(nil), a.Tags...)
	return a
}
