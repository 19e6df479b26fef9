package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/wongkaishen/SmartEAS---Emergency-Alerts-System/types"
)

const (
	eventsCollection = "events"
	alertsCollection = "alerts"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("document not found")

// EventStore persists pipeline events and derived alerts in Firestore.
type EventStore struct {
	client *firestore.Client
}

func NewEventStore(client *firestore.Client) *EventStore {
	return &EventStore{client: client}
}

// SaveEvent writes the full event document keyed by its id.
func (s *EventStore) SaveEvent(ctx context.Context, event *types.DisasterEvent) error {
	_, err := s.client.Collection(eventsCollection).Doc(event.ID).Set(ctx, event)
	if err != nil {
		return fmt.Errorf("saving event %s: %w", event.ID, err)
	}
	return nil
}

// UpdateEvent merges a partial set of fields into an existing event
// document, leaving the rest untouched.
func (s *EventStore) UpdateEvent(ctx context.Context, id string, fields map[string]interface{}) error {
	_, err := s.client.Collection(eventsCollection).Doc(id).Set(ctx, fields, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("updating event %s: %w", id, err)
	}
	return nil
}

// GetEvent retrieves a single event by id.
func (s *EventStore) GetEvent(ctx context.Context, id string) (types.DisasterEvent, error) {
	var event types.DisasterEvent

	docSnap, err := s.client.Collection(eventsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return event, ErrNotFound
		}
		return event, fmt.Errorf("getting event %s: %w", id, err)
	}

	if err := docSnap.DataTo(&event); err != nil {
		return event, fmt.Errorf("converting document %s: %w", id, err)
	}
	event.ID = docSnap.Ref.ID

	return event, nil
}

// GetEvents retrieves all events, optionally filtered by state.
func (s *EventStore) GetEvents(ctx context.Context, state types.EventState) ([]types.DisasterEvent, error) {
	query := s.client.Collection(eventsCollection).Query
	if state != "" {
		query = query.Where("state", "==", string(state))
	}

	var events []types.DisasterEvent
	iter := query.Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterating events collection: %w", err)
		}

		var event types.DisasterEvent
		if err := doc.DataTo(&event); err != nil {
			log.Printf("Warning: error converting document %s to DisasterEvent: %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		event.ID = doc.Ref.ID
		events = append(events, event)
	}
	return events, nil
}

// CreateAlert derives an alert document from an alerted event.
func (s *EventStore) CreateAlert(ctx context.Context, event *types.DisasterEvent) error {
	alert := types.NewAlert(event)
	_, err := s.client.Collection(alertsCollection).Doc(alert.ID).Set(ctx, alert)
	if err != nil {
		return fmt.Errorf("creating alert for event %s: %w", event.ID, err)
	}
	return nil
}

// GetActiveAlerts retrieves all alerts that have not yet expired.
func (s *EventStore) GetActiveAlerts(ctx context.Context) ([]types.Alert, error) {
	now := time.Now().UTC().Format(time.RFC3339)

	var alerts []types.Alert
	iter := s.client.Collection(alertsCollection).
		Where("expiresAt", ">", now).
		Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterating alerts collection: %w", err)
		}

		var alert types.Alert
		if err := doc.DataTo(&alert); err != nil {
			log.Printf("Warning: error converting document %s to Alert: %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		alerts = append(alerts, alert)
	}
	return alerts, nil
}

// PruneExpiredAlerts deletes alerts past their expiry using a
// BulkWriter for efficient non-transactional deletes.
func (s *EventStore) PruneExpiredAlerts(ctx context.Context) (int, error) {
	now := time.Now().UTC().Format(time.RFC3339)

	docs, err := s.client.Collection(alertsCollection).
		Where("expiresAt", "<=", now).
		Documents(ctx).
		GetAll()
	if err != nil {
		return 0, fmt.Errorf("querying expired alerts: %w", err)
	}
	if len(docs) == 0 {
		return 0, nil
	}

	bw := s.client.BulkWriter(ctx)
	pruned := 0
	for _, doc := range docs {
		if _, err := bw.Delete(doc.Ref); err != nil {
			log.Printf("Error enqueueing alert %s for deletion: %v", doc.Ref.ID, err)
			continue
		}
		pruned++
	}
	bw.Flush()

	log.Printf("Pruned %d expired alerts.", pruned)
	return pruned, nil
}
