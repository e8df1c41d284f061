// Package conversation sequences dispatch calls into a clarification
// round-trip: initial submission, zero or more clarification rounds, then a
// terminal improved or graded result. A conversation is sequential: one
// in-flight dispatch at a time, and a terminal conversation is never reused.
package conversation

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/frogg-app/prompt-assistant/core/engine"
	"github.com/frogg-app/prompt-assistant/core/result"
)

// MaxClarificationRounds is the hard cap on clarification round-trips. The
// provider contract says supplied answers are final, but an uncooperative
// provider could spin the machine forever, so the cap fails closed.
const MaxClarificationRounds = 5

// State is the conversation lifecycle position.
type State string

const (
	// StateStart: created, nothing dispatched yet.
	StateStart State = "start"
	// StateAwaitingClarification: the provider asked questions; no further
	// dispatch happens until answers are supplied.
	StateAwaitingClarification State = "awaiting_clarification"
	// StateTerminal: an improved or graded result was produced, or the
	// conversation failed. Terminal conversations reject further calls.
	StateTerminal State = "terminal"
)

// Dispatcher is the engine surface the state machine drives. Satisfied by
// *engine.Engine.
type Dispatcher interface {
	Dispatch(ctx context.Context, dctx engine.DispatchContext, req engine.Request) (*result.StructuredResult, error)
}

// Conversation carries one rough prompt through refinement. It does not
// accept concurrent submissions: a second call while one is in flight is
// rejected, not queued.
type Conversation struct {
	id         string
	dispatcher Dispatcher
	dctx       engine.DispatchContext
	request    engine.Request

	mu       sync.Mutex
	state    State
	inFlight bool
	rounds   int
	answers  map[string]any
	pending  []result.ClarificationItem
	final    *result.StructuredResult
}

// New returns a conversation in StateStart for the given request. The
// request's ClarificationAnswers field is managed by the machine and any
// caller-supplied value is discarded.
func New(dispatcher Dispatcher, dctx engine.DispatchContext, request engine.Request) *Conversation {
	request.ClarificationAnswers = nil
	return &Conversation{
		id:         uuid.NewString(),
		dispatcher: dispatcher,
		dctx:       dctx,
		request:    request,
		state:      StateStart,
		answers:    map[string]any{},
	}
}

// ID returns the conversation identifier.
func (c *Conversation) ID() string { return c.id }

// State returns the current lifecycle position.
func (c *Conversation) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Pending returns the clarification items awaiting answers, nil outside
// StateAwaitingClarification.
func (c *Conversation) Pending() []result.ClarificationItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Result returns the terminal structured result, nil before StateTerminal or
// when the conversation failed.
func (c *Conversation) Result() *result.StructuredResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.final
}

// Submit performs the initial dispatch. Valid only in StateStart.
func (c *Conversation) Submit(ctx context.Context) (*result.StructuredResult, error) {
	if err := c.begin(StateStart); err != nil {
		return nil, err
	}
	return c.dispatch(ctx)
}

// Answer supplies answers to the pending clarification items and
// re-dispatches with everything accumulated so far. Valid only in
// StateAwaitingClarification. Empty answers are allowed; the provider is
// expected to proceed on assumptions.
func (c *Conversation) Answer(ctx context.Context, answers map[string]any) (*result.StructuredResult, error) {
	if err := c.begin(StateAwaitingClarification); err != nil {
		return nil, err
	}

	c.mu.Lock()
	for id, value := range answers {
		c.answers[id] = value
	}
	c.mu.Unlock()

	return c.dispatch(ctx)
}

// begin validates the current state and marks a dispatch in flight.
func (c *Conversation) begin(want State) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight {
		return fmt.Errorf("conversation %s: a dispatch is already in flight", c.id)
	}
	if c.state != want {
		return fmt.Errorf("conversation %s: state is %s, not %s", c.id, c.state, want)
	}
	c.inFlight = true
	return nil
}

func (c *Conversation) dispatch(ctx context.Context) (*result.StructuredResult, error) {
	c.mu.Lock()
	req := c.request
	if len(c.answers) > 0 {
		merged := make(map[string]any, len(c.answers))
		for id, value := range c.answers {
			merged[id] = value
		}
		req.ClarificationAnswers = merged
	}
	c.mu.Unlock()

	res, err := c.dispatcher.Dispatch(ctx, c.dctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false

	if err != nil {
		// The state is left untouched so the caller may retry the same
		// submission; retry is a caller decision, never automatic.
		return nil, err
	}

	if res.Kind() == result.KindNeedsClarification {
		c.rounds++
		if c.rounds > MaxClarificationRounds {
			c.state = StateTerminal
			return nil, &engine.DispatchError{
				Kind:     engine.KindClarificationLoop,
				Provider: c.request.ProviderID,
				Err:      fmt.Errorf("provider requested clarification %d times (cap %d)", c.rounds, MaxClarificationRounds),
			}
		}
		c.state = StateAwaitingClarification
		c.pending = res.Clarifications
		return res, nil
	}

	c.state = StateTerminal
	c.pending = nil
	c.final = res
	return res, nil
}
