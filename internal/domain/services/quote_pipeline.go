package services

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/gonzalo10/uniswap-interface/internal/domain/entities"
	"github.com/gonzalo10/uniswap-interface/internal/observability"
)

// QuoteUpdate is a published quote together with the generation that
// produced it. Err is set when the computation degraded.
type QuoteUpdate struct {
	Generation uint64
	Quote      *entities.Quote
	Err        error
}

// QuotePipeline recomputes quotes in the background. Every submission gets a
// new generation; a result is published only if its generation is still the
// newest, so a slow stale computation can never overwrite a newer one.
type QuotePipeline struct {
	quoter  Quoter
	log     zerolog.Logger
	metrics *observability.Metrics

	mu      sync.Mutex
	current uint64
	latest  QuoteUpdate
	subs    map[int]chan QuoteUpdate
	nextSub int

	inflight sync.WaitGroup
}

// NewQuotePipeline creates a pipeline backed by quoter
func NewQuotePipeline(quoter Quoter, log zerolog.Logger, metrics *observability.Metrics) *QuotePipeline {
	return &QuotePipeline{
		quoter:  quoter,
		log:     log,
		metrics: metrics,
		subs:    make(map[int]chan QuoteUpdate),
	}
}

// Submit starts a recomputation for req and returns its generation. Earlier
// computations keep running but their results will be dropped.
func (p *QuotePipeline) Submit(ctx context.Context, req QuoteRequest) uint64 {
	p.mu.Lock()
	p.current++
	gen := p.current
	p.mu.Unlock()

	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()
		quote, err := p.quoter.Quote(ctx, req)
		p.publish(gen, quote, err)
	}()
	return gen
}

// publish stores the result if gen is still current. It reports whether the
// result was kept.
func (p *QuotePipeline) publish(gen uint64, quote *entities.Quote, err error) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.current {
		p.metrics.StaleQuote()
		p.log.Debug().
			Uint64("generation", gen).
			Uint64("current", p.current).
			Msg("dropping stale quote")
		return false
	}

	if quote != nil {
		quote.Generation = gen
	}
	p.latest = QuoteUpdate{Generation: gen, Quote: quote, Err: err}
	for _, ch := range p.subs {
		// keep only the newest update for slow subscribers
		select {
		case <-ch:
		default:
		}
		ch <- p.latest
	}
	return true
}

// Latest returns the most recently published update
func (p *QuotePipeline) Latest() QuoteUpdate {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.latest
}

// Current returns the newest submitted generation
func (p *QuotePipeline) Current() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Pending reports whether the newest submission has not been published yet
func (p *QuotePipeline) Pending() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.latest.Generation != p.current
}

// Subscribe returns a channel receiving every published update. The channel
// holds at most one update; older unread updates are replaced. Call cancel to
// unsubscribe.
func (p *QuotePipeline) Subscribe() (<-chan QuoteUpdate, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextSub
	p.nextSub++
	ch := make(chan QuoteUpdate, 1)
	p.subs[id] = ch

	cancel := func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if _, ok := p.subs[id]; ok {
			delete(p.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// Wait blocks until every submitted computation has finished
func (p *QuotePipeline) Wait() {
	p.inflight.Wait()
}
