package service

import (
	"context"
	"log"
	"sync"
	"time"

	"equisecure/internal/model"
	"equisecure/internal/repository"
)

// StatusPublisher pushes plan-status updates to connected admin clients.
// Implemented by the WebSocket hub; the service layer stays transport-free.
type StatusPublisher interface {
	PublishPlanStatus(update model.PlanStatusUpdate)
}

// PlanWatcher polls pending plan-generation jobs and pushes status changes
// to subscribers. One goroutine per watched evaluation; a watch ends when
// the plan leaves the generating state or the watcher shuts down.
type PlanWatcher struct {
	planRepo  repository.PlanRepo
	publisher StatusPublisher
	interval  time.Duration

	mu      sync.Mutex
	active  map[string]context.CancelFunc
	ctx     context.Context
	cancel  context.CancelFunc
	stopped bool
}

// NewPlanWatcher creates a watcher polling at the given interval
func NewPlanWatcher(planRepo repository.PlanRepo, interval time.Duration) *PlanWatcher {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &PlanWatcher{
		planRepo: planRepo,
		interval: interval,
		active:   make(map[string]context.CancelFunc),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// SetPublisher wires the update sink (wired after construction, the hub
// lives in the transport layer)
func (w *PlanWatcher) SetPublisher(publisher StatusPublisher) {
	w.publisher = publisher
}

// Watch starts polling the plan of an evaluation. Watching an evaluation
// that is already watched is a no-op.
func (w *PlanWatcher) Watch(evaluationID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if _, ok := w.active[evaluationID]; ok {
		return
	}

	ctx, cancel := context.WithCancel(w.ctx)
	w.active[evaluationID] = cancel
	go w.poll(ctx, evaluationID)
}

// Unwatch stops polling an evaluation
func (w *PlanWatcher) Unwatch(evaluationID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if cancel, ok := w.active[evaluationID]; ok {
		cancel()
		delete(w.active, evaluationID)
	}
}

// Publish pushes an update to subscribers immediately, used by status
// transitions that don't come from polling
func (w *PlanWatcher) Publish(update model.PlanStatusUpdate) {
	if w.publisher != nil {
		w.publisher.PublishPlanStatus(update)
	}
}

// Shutdown stops all watches
func (w *PlanWatcher) Shutdown() {
	w.mu.Lock()
	w.stopped = true
	w.mu.Unlock()
	w.cancel()
}

func (w *PlanWatcher) poll(ctx context.Context, evaluationID string) {
	defer w.Unwatch(evaluationID)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			lookupCtx, cancel := context.WithTimeout(ctx, w.interval)
			plan, err := w.planRepo.GetByEvaluationID(lookupCtx, evaluationID)
			cancel()
			if err != nil {
				log.Printf("plan poll failed for evaluation %s: %v", evaluationID, err)
				continue
			}

			status := model.PlanNotGenerated
			if plan != nil {
				status = plan.Status
			}
			if status == model.PlanGenerating {
				continue
			}

			w.Publish(model.PlanStatusUpdate{EvaluationID: evaluationID, Status: status})
			return
		}
	}
}
