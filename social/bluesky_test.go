package social

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchFeedConvertsPosts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/xrpc/app.bsky.feed.getFeed", r.URL.Path)
		assert.Equal(t, "at://feed/quakes", r.URL.Query().Get("feed"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"cursor": "abc",
			"feed": [{
				"post": {
					"uri": "at://did:plc:abc/app.bsky.feed.post/1",
					"cid": "bafy1",
					"author": {"did": "did:plc:abc", "handle": "quakes.example", "displayName": "Quake Watch", "avatar": "https://cdn/avatar.jpg"},
					"record": {"text": "Magnitude 6.1 earthquake near Tokyo", "createdAt": "2025-03-01T12:00:00Z"},
					"indexedAt": "2025-03-01T12:00:05Z",
					"likeCount": 42
				}
			}, {
				"post": {
					"uri": "at://did:plc:abc/app.bsky.feed.post/2",
					"author": {"handle": "other.example"},
					"record": {"text": "no createdAt here"},
					"indexedAt": "2025-03-01T12:01:00Z"
				}
			}]
		}`))
	}))
	defer server.Close()

	client := NewClientWithHost(server.URL)
	posts, err := client.FetchFeed(context.Background(), "at://feed/quakes", 0)

	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, "at://did:plc:abc/app.bsky.feed.post/1", posts[0].ID)
	assert.Equal(t, "Magnitude 6.1 earthquake near Tokyo", posts[0].Content)
	assert.Equal(t, "bluesky", posts[0].Platform)
	assert.Equal(t, "at://feed/quakes", posts[0].Channel)
	assert.Equal(t, "quakes.example", posts[0].Handle)
	assert.Equal(t, 42, posts[0].Score)
	assert.Equal(t, "2025-03-01T12:00:00Z", posts[0].Timestamp)

	assert.Equal(t, "2025-03-01T12:01:00Z", posts[1].Timestamp, "indexedAt backfills a missing createdAt")
}

func TestFetchFeedServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream busted", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClientWithHost(server.URL)
	_, err := client.FetchFeed(context.Background(), "at://feed/quakes", 5)
	assert.Error(t, err)
}
