// Package social fetches disaster-related posts from Bluesky feeds and
// converts them into the pipeline's raw post shape.
package social

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bluesky-social/indigo/xrpc"

	"github.com/wongkaishen/SmartEAS---Emergency-Alerts-System/types"
)

const (
	publicHost = "https://public.api.bsky.app"
	feedMethod = "app.bsky.feed.getFeed"

	defaultLimit = 10
)

// Client wraps the public Bluesky XRPC endpoint for unauthenticated
// feed reads.
type Client struct {
	xrpc *xrpc.Client
}

func NewClient() *Client {
	return NewClientWithHost(publicHost)
}

// NewClientWithHost points the client at a different endpoint; tests
// use this with a local server.
func NewClientWithHost(host string) *Client {
	return &Client{
		xrpc: &xrpc.Client{
			Client: &http.Client{Timeout: 10 * time.Second},
			Host:   host,
		},
	}
}

// feedResponse mirrors the app.bsky.feed.getFeed hydrated response,
// trimmed to the fields the pipeline consumes.
type feedResponse struct {
	Cursor string      `json:"cursor"`
	Feed   []feedEntry `json:"feed"`
}

type feedEntry struct {
	Post feedPost `json:"post"`
}

type feedPost struct {
	URI       string     `json:"uri"`
	CID       string     `json:"cid"`
	Author    feedAuthor `json:"author"`
	Record    feedRecord `json:"record"`
	IndexedAt string     `json:"indexedAt"`
	LikeCount int        `json:"likeCount"`
}

type feedAuthor struct {
	DID         string `json:"did"`
	Handle      string `json:"handle"`
	DisplayName string `json:"displayName"`
	Avatar      string `json:"avatar"`
}

type feedRecord struct {
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}

// FetchFeed pulls the latest posts from a feed generator at-uri.
func (c *Client) FetchFeed(ctx context.Context, feedURI string, limit int) ([]types.RawPost, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	params := map[string]interface{}{
		"feed":  feedURI,
		"limit": limit,
	}

	var out feedResponse
	if err := c.xrpc.Do(ctx, xrpc.Query, "json", feedMethod, params, nil, &out); err != nil {
		return nil, fmt.Errorf("fetching feed %s: %w", feedURI, err)
	}

	posts := make([]types.RawPost, 0, len(out.Feed))
	for _, entry := range out.Feed {
		posts = append(posts, toRawPost(entry.Post, feedURI))
	}
	return posts, nil
}

func toRawPost(post feedPost, feedURI string) types.RawPost {
	timestamp := post.Record.CreatedAt
	if timestamp == "" {
		timestamp = post.IndexedAt
	}
	return types.RawPost{
		ID:          post.URI,
		Content:     post.Record.Text,
		Platform:    "bluesky",
		Channel:     feedURI,
		Handle:      post.Author.Handle,
		Score:       post.LikeCount,
		Timestamp:   timestamp,
		DisplayName: post.Author.DisplayName,
		Avatar:      post.Author.Avatar,
	}
}
