// Package cronjobs schedules the recurring feed polls that keep the
// pipeline fed, plus housekeeping on the alerts collection.
package cronjobs

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/wongkaishen/SmartEAS---Emergency-Alerts-System/pipeline"
	"github.com/wongkaishen/SmartEAS---Emergency-Alerts-System/social"
)

const (
	feedLimit   = 10
	pollTimeout = 30 * time.Second

	// seenCap bounds the in-memory dedupe set; feeds revisit the same
	// posts across polls.
	seenCap = 4096
)

// Feed names a Bluesky feed generator to poll on a schedule.
type Feed struct {
	Name     string
	URI      string
	Schedule string
}

// DefaultFeeds staggers the polls so they do not all fire at once.
var DefaultFeeds = []Feed{
	{Name: "Fire", URI: "at://did:plc:qiknc4t5rq7yngvz7g4aezq7/app.bsky.feed.generator/aaaejsyozb6iq", Schedule: "*/10 * * * *"},
	{Name: "Earthquake", URI: "at://did:plc:qiknc4t5rq7yngvz7g4aezq7/app.bsky.feed.generator/aaaejxlobe474", Schedule: "2-59/10 * * * *"},
	{Name: "Hurricane", URI: "at://did:plc:qiknc4t5rq7yngvz7g4aezq7/app.bsky.feed.generator/aaaejwgffwqky", Schedule: "4-59/10 * * * *"},
}

// Pruner removes expired alerts.
type Pruner interface {
	PruneExpiredAlerts(ctx context.Context) (int, error)
}

type deduper struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func newDeduper() *deduper {
	return &deduper{seen: map[string]struct{}{}}
}

// firstSighting reports whether the id is new, recording it if so.
func (d *deduper) firstSighting(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.seen[id]; ok {
		return false
	}
	if len(d.seen) >= seenCap {
		d.seen = map[string]struct{}{}
	}
	d.seen[id] = struct{}{}
	return true
}

// InitCronJobs wires the feed polls and the alert pruner into a cron
// scheduler and starts it.
func InitCronJobs(client *social.Client, p *pipeline.Pipeline, pruner Pruner, feeds []Feed) *cron.Cron {
	log.Println("Starting cron jobs")
	c := cron.New()
	dedupe := newDeduper()

	for _, feed := range feeds {
		feed := feed
		_, err := c.AddFunc(feed.Schedule, func() {
			pollFeed(client, p, dedupe, feed)
		})
		if err != nil {
			log.Printf("Error scheduling %s feed: %v", feed.Name, err)
		}
	}

	if pruner != nil {
		_, err := c.AddFunc("@hourly", func() {
			ctx, cancel := context.WithTimeout(context.Background(), pollTimeout)
			defer cancel()
			if _, err := pruner.PruneExpiredAlerts(ctx); err != nil {
				log.Printf("Error pruning expired alerts: %v", err)
			}
		})
		if err != nil {
			log.Printf("Error scheduling alert pruning: %v", err)
		}
	}

	c.Start()
	return c
}

func pollFeed(client *social.Client, p *pipeline.Pipeline, dedupe *deduper, feed Feed) {
	log.Printf("CronJob: %s feed running", feed.Name)

	ctx, cancel := context.WithTimeout(context.Background(), pollTimeout)
	defer cancel()

	posts, err := client.FetchFeed(ctx, feed.URI, feedLimit)
	if err != nil {
		log.Printf("Error fetching %s feed: %v", feed.Name, err)
		return
	}

	submitted := 0
	for _, post := range posts {
		if !dedupe.firstSighting(post.ID) {
			continue
		}
		p.Submit(ctx, post)
		submitted++
	}
	log.Printf("CronJob: %s feed submitted %d of %d posts", feed.Name, submitted, len(posts))
}
