// Package pipeline coordinates a post's trip through the stages:
// pre-filter, classification, multi-source validation, and alert
// promotion. New posts become classify tasks; disaster classifications
// become validate tasks. The queue decouples the stages from whatever
// mechanism noticed the post.
package pipeline

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wongkaishen/SmartEAS---Emergency-Alerts-System/prefilter"
	"github.com/wongkaishen/SmartEAS---Emergency-Alerts-System/types"
)

const (
	// validationGate is the classification confidence an event must
	// exceed before the source fan-out runs.
	validationGate = 60

	// alertGate is the fused confidence a confirmed event must exceed
	// to become a public alert. Kept equal to the fusion confirmation
	// threshold in the reference configuration.
	alertGate = 70

	// rejectionPenalty lowers an event's confidence when validation
	// does not confirm it.
	rejectionPenalty = 25

	defaultQueueSize = 256
	defaultWorkers   = 4
)

// Classifier produces a structured classification for post text.
type Classifier interface {
	Classify(ctx context.Context, text string, signal types.KeywordSignal) types.ClassificationResult
}

// Validator cross-checks a classification against authoritative sources.
type Validator interface {
	Validate(ctx context.Context, disasterType types.DisasterType, location string, eventTime time.Time) (types.ValidationResult, *types.GeoPoint)
}

// Store persists events, keyed by id, with partial-attribute updates.
type Store interface {
	SaveEvent(ctx context.Context, event *types.DisasterEvent) error
	UpdateEvent(ctx context.Context, id string, fields map[string]interface{}) error
}

// Alerter receives events promoted to public alerts.
type Alerter interface {
	CreateAlert(ctx context.Context, event *types.DisasterEvent) error
}

// LocationRefiner extracts a location string from raw text; used only
// when neither the classifier nor the keyword heuristics found one.
type LocationRefiner interface {
	Refine(ctx context.Context, text string) string
}

type taskKind int

const (
	classifyTask taskKind = iota
	validateTask
)

type task struct {
	kind  taskKind
	event *types.DisasterEvent
}

// Pipeline owns the task queue and workers. Each event is owned by
// exactly one in-flight task at a time.
type Pipeline struct {
	store      Store
	classifier Classifier
	validator  Validator
	alerter    Alerter
	refiner    LocationRefiner

	tasks   chan task
	pending sync.WaitGroup
	wg      sync.WaitGroup
	workers int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithAlerter sets the alert sink for promoted events.
func WithAlerter(a Alerter) Option {
	return func(p *Pipeline) { p.alerter = a }
}

// WithLocationRefiner sets the fallback location extractor.
func WithLocationRefiner(r LocationRefiner) Option {
	return func(p *Pipeline) { p.refiner = r }
}

// WithWorkers sets the worker count.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

func New(store Store, classifier Classifier, validator Validator, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:      store,
		classifier: classifier,
		validator:  validator,
		tasks:      make(chan task, defaultQueueSize),
		workers:    defaultWorkers,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the worker pool. Workers drain the queue until Stop is
// called or the context is cancelled.
func (p *Pipeline) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case t, ok := <-p.tasks:
					if !ok {
						return
					}
					p.run(ctx, t)
				}
			}
		}()
	}
}

// Stop waits for every queued task, including tasks enqueued by other
// tasks, then shuts the workers down. Submit must not be called after
// Stop.
func (p *Pipeline) Stop() {
	p.pending.Wait()
	close(p.tasks)
	p.wg.Wait()
}

func (p *Pipeline) enqueue(t task) {
	p.pending.Add(1)
	p.tasks <- t
}

// Submit creates an event for a newly ingested post, persists it, and
// enqueues a classify task.
func (p *Pipeline) Submit(ctx context.Context, post types.RawPost) *types.DisasterEvent {
	event := &types.DisasterEvent{
		ID:         uuid.NewString(),
		Post:       post,
		State:      types.StateIngested,
		IngestedAt: now(),
	}
	if err := p.store.SaveEvent(ctx, event); err != nil {
		log.Printf("Pipeline: saving event %s failed: %v", event.ID, err)
	}
	p.enqueue(task{kind: classifyTask, event: event})
	return event
}

// Process runs the full pipeline synchronously for one post, bypassing
// the queue. Used by on-demand endpoints and kept identical in behavior
// to the queued path.
func (p *Pipeline) Process(ctx context.Context, post types.RawPost) *types.DisasterEvent {
	event := &types.DisasterEvent{
		ID:         uuid.NewString(),
		Post:       post,
		State:      types.StateIngested,
		IngestedAt: now(),
	}
	if err := p.store.SaveEvent(ctx, event); err != nil {
		log.Printf("Pipeline: saving event %s failed: %v", event.ID, err)
	}
	if p.classify(ctx, event) {
		p.validate(ctx, event)
	}
	return event
}

func (p *Pipeline) run(ctx context.Context, t task) {
	defer p.pending.Done()
	switch t.kind {
	case classifyTask:
		if p.classify(ctx, t.event) {
			p.enqueue(task{kind: validateTask, event: t.event})
		}
	case validateTask:
		p.validate(ctx, t.event)
	}
}

// classify moves an event from ingested to classified. Classification
// always succeeds, possibly via the keyword fallback; there is no
// terminal failure state for this stage. Returns whether the event
// should proceed to validation.
func (p *Pipeline) classify(ctx context.Context, event *types.DisasterEvent) bool {
	signal := prefilter.Score(event.Post.Text())
	result := p.classifier.Classify(ctx, event.Post.Text(), signal)

	if result.Location == "" {
		result.Location = p.resolveLocation(ctx, event.Post.Text(), signal)
	}

	event.Classification = &result
	event.State = types.StateClassified
	event.ClassifiedAt = now()
	event.Confidence = result.Confidence
	event.Severity = result.Severity

	p.persistUpdate(ctx, event, map[string]interface{}{
		"classification": result,
		"state":          event.State,
		"classifiedAt":   event.ClassifiedAt,
		"confidence":     event.Confidence,
		"severity":       event.Severity,
	})

	// Below the gate the event legitimately rests in "classified";
	// that is a terminal state, not a failure.
	return result.IsDisaster && result.Confidence > validationGate
}

// validate moves an event from classified to validated, and on a
// confirmed high-confidence outcome promotes it to alerted.
func (p *Pipeline) validate(ctx context.Context, event *types.DisasterEvent) {
	cls := event.Classification
	result, point := p.validator.Validate(ctx, cls.DisasterType, cls.Location, eventTime(event))

	event.Validation = &result
	event.State = types.StateValidated
	event.ValidatedAt = now()
	event.Coordinate = point
	event.Confidence = adjustConfidence(event.Confidence, result)
	event.Severity = result.Severity

	p.persistUpdate(ctx, event, map[string]interface{}{
		"validation":  result,
		"state":       event.State,
		"validatedAt": event.ValidatedAt,
		"coordinate":  event.Coordinate,
		"confidence":  event.Confidence,
		"severity":    event.Severity,
	})

	if result.DisasterConfirmed && event.Confidence > alertGate {
		p.promote(ctx, event)
	}
}

// promote marks an event alerted; this state is terminal.
func (p *Pipeline) promote(ctx context.Context, event *types.DisasterEvent) {
	event.State = types.StateAlerted
	event.AlertedAt = now()

	p.persistUpdate(ctx, event, map[string]interface{}{
		"state":     event.State,
		"alertedAt": event.AlertedAt,
	})

	if p.alerter != nil {
		if err := p.alerter.CreateAlert(ctx, event); err != nil {
			log.Printf("Pipeline: creating alert for event %s failed: %v", event.ID, err)
		}
	}
	log.Printf("Pipeline: event %s promoted to alert (%s, %s, confidence %d)",
		event.ID, event.DisasterType(), event.Severity, event.Confidence)
}

// adjustConfidence applies the monotonic post-validation adjustment:
// confirmation raises the event's confidence, rejection lowers it, and
// the result stays within the configured floor and ceiling.
func adjustConfidence(current int, result types.ValidationResult) int {
	if result.DisasterConfirmed {
		raised := current
		if result.Confidence > raised {
			raised = result.Confidence
		}
		if raised > types.ConfidenceCeiling {
			raised = types.ConfidenceCeiling
		}
		return types.ClampConfidence(raised)
	}
	lowered := current - rejectionPenalty
	if lowered < types.ConfidenceFloor {
		lowered = types.ConfidenceFloor
	}
	return types.ClampConfidence(lowered)
}

func (p *Pipeline) resolveLocation(ctx context.Context, text string, signal types.KeywordSignal) string {
	if signal.Location != "" {
		return signal.Location
	}
	if p.refiner != nil {
		return p.refiner.Refine(ctx, text)
	}
	return ""
}

func (p *Pipeline) persistUpdate(ctx context.Context, event *types.DisasterEvent, fields map[string]interface{}) {
	if err := p.store.UpdateEvent(ctx, event.ID, fields); err != nil {
		log.Printf("Pipeline: updating event %s failed: %v", event.ID, err)
	}
}

func eventTime(event *types.DisasterEvent) time.Time {
	if t, err := time.Parse(time.RFC3339, event.Post.Timestamp); err == nil {
		return t
	}
	return time.Now().UTC()
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
