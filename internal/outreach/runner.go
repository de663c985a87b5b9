package outreach

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/rwagency/intent-agent/internal/entity"
)

// ErrQueueEmpty is returned by Start when no approved lead is waiting.
// Not a failure: the operator just has nothing to drain.
var ErrQueueEmpty = errors.New("outreach queue is empty")

// LeadQueue is the runner's view of the lead store. ClaimNext must
// atomically pick the first eligible lead (approved, queued, not scheduled
// for later; FIFO by approval time) and mark it sending, returning
// entity.ErrNoLeadQueued once the queue is drained.
type LeadQueue interface {
	ClaimNext(ctx context.Context) (*entity.Lead, error)
	MarkSent(ctx context.Context, leadID string) error
	MarkFailed(ctx context.Context, leadID string) error
	Requeue(ctx context.Context, leadID string) error
	HasEligible(ctx context.Context) (bool, error)
}

// Dispatcher hands a claimed lead to the delivery pipeline.
type Dispatcher interface {
	Dispatch(ctx context.Context, lead *entity.Lead) error
}

// Config controls pacing and failure handling. The randomized delay exists
// to avoid a uniform bot-like cadence against rate-limited social surfaces;
// the exact bounds are not safety-critical.
type Config struct {
	MinDelay        time.Duration // lower bound before a claimed lead is delivered
	MaxDelay        time.Duration // upper bound
	Pause           time.Duration // fixed breather between two deliveries
	MaxAttempts     int           // dispatch attempts per lead before giving up
	RetryBackoff    time.Duration // base backoff between attempts (doubles each retry)
	DispatchTimeout time.Duration // per-attempt deadline on the dispatcher
	RequeueOnStop   bool          // revert an in-flight lead to queued on Stop instead of finishing it
}

func DefaultConfig() Config {
	return Config{
		MinDelay:        3 * time.Second,
		MaxDelay:        8 * time.Second,
		Pause:           2 * time.Second,
		MaxAttempts:     3,
		RetryBackoff:    500 * time.Millisecond,
		DispatchTimeout: 10 * time.Second,
		RequeueOnStop:   false, // default: let the in-flight lead finish
	}
}

// Runner drains approved leads one at a time with human-mimicry pacing.
// It owns its lifecycle: no ambient globals, cancellation via context.
type Runner struct {
	queue      LeadQueue
	dispatcher Dispatcher
	cfg        Config

	mu     sync.Mutex
	active bool
	cancel context.CancelFunc
	done   chan struct{}
}

func NewRunner(queue LeadQueue, dispatcher Dispatcher, cfg Config) *Runner {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.MaxDelay < cfg.MinDelay {
		cfg.MaxDelay = cfg.MinDelay
	}
	return &Runner{
		queue:      queue,
		dispatcher: dispatcher,
		cfg:        cfg,
	}
}

// Start is a toggle, like the dashboard button it replaces: starting an
// active campaign stops it instead. With nothing eligible it reports
// ErrQueueEmpty and stays inactive.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.active {
		r.mu.Unlock()
		r.Stop()
		return nil
	}
	r.mu.Unlock()

	return r.begin(ctx)
}

// Kick starts the campaign only when idle. Unlike Start it never toggles an
// active campaign off, so the scheduler cannot kill an operator's run.
func (r *Runner) Kick(ctx context.Context) error {
	return r.begin(ctx)
}

func (r *Runner) begin(ctx context.Context) error {
	ok, err := r.queue.HasEligible(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return ErrQueueEmpty
	}

	r.mu.Lock()
	if r.active { // perdeu a corrida para outro Start
		r.mu.Unlock()
		return nil
	}
	runCtx, cancel := context.WithCancel(context.Background())
	r.active = true
	r.cancel = cancel
	r.done = make(chan struct{})
	done := r.done
	r.mu.Unlock()

	log.Println("🚀 [CAMPAIGN] Outreach ativado")
	go r.loop(runCtx, done)
	return nil
}

// Stop is cooperative: no new lead is picked up and a pending delay is
// cancelled. Depending on RequeueOnStop the in-flight lead either finishes
// (default) or goes back to queued.
func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.active {
		r.mu.Unlock()
		return
	}
	cancel := r.cancel
	r.mu.Unlock()

	log.Println("🛑 [CAMPAIGN] Stop solicitado")
	cancel()
}

// Active reports whether the campaign loop is running.
func (r *Runner) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

func (r *Runner) loop(ctx context.Context, done chan struct{}) {
	defer func() {
		r.mu.Lock()
		r.active = false
		r.mu.Unlock()
		close(done)
		log.Println("💤 [CAMPAIGN] Outreach desativado")
	}()

	for {
		if ctx.Err() != nil {
			return
		}

		lead, err := r.queue.ClaimNext(ctx)
		if err != nil {
			if errors.Is(err, entity.ErrNoLeadQueued) {
				log.Println("✅ [CAMPAIGN] Fila drenada")
			} else if !errors.Is(err, context.Canceled) {
				log.Printf("❌ [CAMPAIGN] Erro ao buscar próximo lead: %v", err)
			}
			return
		}

		log.Printf("⚙️ [CAMPAIGN] Enviando para %s (%s)", lead.FullName, lead.Company)
		stopped := r.waitDelay(ctx)

		if stopped && r.cfg.RequeueOnStop {
			// Política alternativa: devolve o lead para a fila em vez de concluir.
			if err := r.queue.Requeue(context.Background(), lead.ID); err != nil {
				log.Printf("⚠️ [CAMPAIGN] Falha ao devolver lead %s para fila: %v", lead.ID, err)
			}
			return
		}

		// The in-flight lead always completes, even after Stop. The writes
		// below use a fresh context because the run context is cancelled.
		r.complete(lead)

		if stopped || ctx.Err() != nil {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(r.cfg.Pause):
		}
	}
}

// waitDelay sleeps the randomized per-lead delay. Returns true when the
// campaign was stopped while waiting.
func (r *Runner) waitDelay(ctx context.Context) bool {
	delay := r.cfg.MinDelay
	if spread := r.cfg.MaxDelay - r.cfg.MinDelay; spread > 0 {
		delay += time.Duration(rand.Int63n(int64(spread)))
	}
	select {
	case <-ctx.Done():
		return true
	case <-time.After(delay):
		return false
	}
}

func (r *Runner) complete(lead *entity.Lead) {
	if err := r.dispatchWithRetry(lead); err != nil {
		log.Printf("❌ [CAMPAIGN] Entrega falhou definitivamente para %s: %v", lead.FullName, err)
		if err := r.queue.MarkFailed(context.Background(), lead.ID); err != nil {
			log.Printf("⚠️ [CAMPAIGN] Falha ao marcar lead %s como failed: %v", lead.ID, err)
		}
		return
	}
	if err := r.queue.MarkSent(context.Background(), lead.ID); err != nil {
		log.Printf("⚠️ [CAMPAIGN] Falha ao marcar lead %s como sent: %v", lead.ID, err)
		return
	}
	log.Printf("✉️ [CAMPAIGN] %s -> sent", lead.FullName)
}

// dispatchWithRetry tries the delivery pipeline with exponential backoff.
// One stubborn lead never stalls the queue: after MaxAttempts it is parked
// as failed and the loop moves on.
func (r *Runner) dispatchWithRetry(lead *entity.Lead) error {
	backoff := r.cfg.RetryBackoff
	var lastErr error

	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), r.cfg.DispatchTimeout)
		lastErr = r.dispatcher.Dispatch(ctx, lead)
		cancel()

		if lastErr == nil {
			return nil
		}
		log.Printf("⚠️ [CAMPAIGN] Tentativa %d/%d falhou para %s: %v",
			attempt, r.cfg.MaxAttempts, lead.FullName, lastErr)

		if attempt < r.cfg.MaxAttempts {
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	return lastErr
}
