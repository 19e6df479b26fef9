package nlp

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"sync"

	language "cloud.google.com/go/language/apiv2"
	"cloud.google.com/go/language/apiv2/languagepb"
	"google.golang.org/api/option"
)

// languageClient is a singleton language client instance.
var (
	languageClient *language.Client
	clientOnce     sync.Once
	clientErr      error
)

// InitLanguageClient initializes and returns the Natural Language client.
// Returns an error when credentials are absent; callers treat that as the
// entity-extraction refinement being unavailable, not as fatal.
func InitLanguageClient(ctx context.Context) (*language.Client, error) {
	clientOnce.Do(func() {
		encodedCreds := os.Getenv("NATURAL_LANGUAGE_CREDENTIALS")
		if encodedCreds == "" {
			clientErr = fmt.Errorf("NATURAL_LANGUAGE_CREDENTIALS environment variable not set")
			return
		}
		creds, err := base64.StdEncoding.DecodeString(encodedCreds)
		if err != nil {
			clientErr = fmt.Errorf("decode natural language credentials: %w", err)
			return
		}
		languageClient, clientErr = language.NewClient(ctx, option.WithCredentialsJSON(creds))
	})
	return languageClient, clientErr
}

// CloseLanguageClient closes the singleton client if it was created.
func CloseLanguageClient() {
	if languageClient != nil {
		languageClient.Close()
	}
}

// ExtractLocations sends text to the Cloud Natural Language API and returns
// the names of LOCATION and ADDRESS entities, most salient first. Used to
// refine the free-text location handed to geocoding when the keyword
// heuristics came up empty.
func ExtractLocations(ctx context.Context, client *language.Client, text string) ([]string, error) {
	req := &languagepb.AnalyzeEntitiesRequest{
		Document: &languagepb.Document{
			Source: &languagepb.Document_Content{
				Content: text,
			},
			Type: languagepb.Document_PLAIN_TEXT,
		},
		EncodingType: languagepb.EncodingType_UTF8,
	}

	resp, err := client.AnalyzeEntities(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("AnalyzeEntities error: %w", err)
	}

	var locations []string
	for _, e := range resp.Entities {
		if e.Type == languagepb.Entity_LOCATION || e.Type == languagepb.Entity_ADDRESS {
			locations = append(locations, e.Name)
		}
	}
	return locations, nil
}

// Refiner adapts entity extraction to the pipeline's location fallback.
type Refiner struct {
	client *language.Client
}

func NewRefiner(client *language.Client) *Refiner {
	return &Refiner{client: client}
}

// Refine returns the most salient location entity in the text, or the
// empty string when extraction fails or finds none.
func (r *Refiner) Refine(ctx context.Context, text string) string {
	locations, err := ExtractLocations(ctx, r.client, text)
	if err != nil || len(locations) == 0 {
		return ""
	}
	return locations[0]
}
