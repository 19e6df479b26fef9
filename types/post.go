package types

// RawPost represents a social media post as ingested, before any analysis.
// Immutable once created.
type RawPost struct {
	ID          string `firestore:"id" json:"id"`
	Title       string `firestore:"title" json:"title"`
	Content     string `firestore:"content" json:"content"`
	Platform    string `firestore:"platform" json:"platform"`
	Channel     string `firestore:"channel" json:"channel"`
	Handle      string `firestore:"handle" json:"handle"`
	Score       int    `firestore:"score" json:"score"`
	Timestamp   string `firestore:"timestamp" json:"timestamp"`
	DisplayName string `firestore:"displayName,omitempty" json:"displayName,omitempty"`
	Avatar      string `firestore:"avatar,omitempty" json:"avatar,omitempty"`
}

// Text returns the title and body joined for analysis.
func (p RawPost) Text() string {
	if p.Title == "" {
		return p.Content
	}
	if p.Content == "" {
		return p.Title
	}
	return p.Title + "\n" + p.Content
}
