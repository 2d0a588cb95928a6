package checker

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"pwned/internal/digest"
	"pwned/internal/observability"
)

const (
	EmptyInputMessage = "Please enter a password or SHA1 hash"
	NotFoundMessage   = "✓ Good news: This password has not been found in any known data breaches."
	foundFormat       = "⚠️ Warning: This password has been found in %d data breaches!"
)

// CheckRequest is the body sent to the lookup service.
type CheckRequest struct {
	Hash string `json:"hash"`
}

// CheckResponse is a 2xx lookup service payload.
type CheckResponse struct {
	Prefix string `json:"prefix,omitempty"`
	Found  bool   `json:"found"`
	Count  int    `json:"count,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Digester turns a password into a lowercase hex SHA1.
type Digester interface {
	Digest(s string) string
}

// Lookup asks the breach lookup service about a digest.
type Lookup interface {
	CheckHash(ctx context.Context, hash string) (CheckResponse, error)
}

// Policy decides what happens to a pending lookup when a new one is submitted.
type Policy int

const (
	// AllowRace lets every lookup finish; the last one to resolve is displayed.
	AllowRace Policy = iota
	// SupersedePrior cancels the pending lookup and drops its result.
	SupersedePrior
)

// Checker drives one password field: normalize input, look it up, publish the outcome.
type Checker struct {
	digester Digester
	lookup   Lookup
	store    *Store
	field    *Field
	policy   Policy
	logger   zerolog.Logger

	mu         sync.Mutex
	latest     uuid.UUID
	cancelPrev context.CancelFunc
}

type Option func(*Checker)

func WithPolicy(p Policy) Option {
	return func(c *Checker) { c.policy = p }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Checker) { c.logger = logger }
}

// WithStore shares a store, e.g. with a renderer created before the checker.
func WithStore(s *Store) Option {
	return func(c *Checker) { c.store = s }
}

func New(digester Digester, lookup Lookup, opts ...Option) *Checker {
	c := &Checker{
		digester: digester,
		lookup:   lookup,
		field:    &Field{},
		policy:   AllowRace,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.store == nil {
		c.store = NewStore()
	}
	return c
}

func (c *Checker) Store() *Store { return c.store }

func (c *Checker) Field() *Field { return c.field }

// ToggleVisibility flips the password field between hidden and shown.
func (c *Checker) ToggleVisibility() bool { return c.field.ToggleVisibility() }

// View projects the current state and field mode for display.
func (c *Checker) View() View { return Render(c.store.State(), c.field.Visible()) }

// Check runs one submission and returns the state it produced. Under
// SupersedePrior a submission that was overtaken still returns its own
// outcome but does not publish it.
func (c *Checker) Check(ctx context.Context, input string) State {
	ticket := uuid.New()
	ctx, release := c.admit(ctx, ticket)
	defer release()

	hash, err := c.normalize(input)
	if err != nil {
		st := Result(EmptyInputMessage, SeverityError)
		c.publish(ticket, st)
		return st
	}
	return c.run(ctx, ticket, hash)
}

// normalize trims input and returns the digest to send: a 40-hex input is
// used verbatim, anything else is hashed.
func (c *Checker) normalize(input string) (string, error) {
	trimmed := strings.TrimFunc(input, isTrimmable)
	if trimmed == "" {
		return "", ErrEmptyInput
	}
	if digest.IsSHA1Hex(trimmed) {
		return trimmed, nil
	}
	return c.digester.Digest(trimmed), nil
}

// isTrimmable matches what a browser's String.prototype.trim strips,
// including the byte order mark.
func isTrimmable(r rune) bool {
	return unicode.IsSpace(r) || r == '\ufeff'
}

func (c *Checker) run(ctx context.Context, ticket uuid.UUID, hash string) (st State) {
	c.publish(ticket, Loading())
	defer func() {
		// A panicking lookup still leaves the loading state.
		if st.Phase != PhaseResult {
			st = Idle()
		}
		c.publish(ticket, st)
	}()

	log := c.logger.With().Str("ticket", ticket.String()).Str("hash", observability.HashField(hash)).Logger()
	log.Debug().Msg("lookup started")

	resp, err := c.lookup.CheckHash(ctx, hash)
	if err != nil {
		log.Debug().Err(err).Msg("lookup failed")
		return Result("Error: "+errorMessage(err), SeverityError)
	}
	log.Debug().Bool("found", resp.Found).Int("count", resp.Count).Msg("lookup done")
	return outcome(resp)
}

func outcome(resp CheckResponse) State {
	switch {
	case resp.Error != "":
		return Result("Error: "+resp.Error, SeverityError)
	case resp.Found:
		return Result(fmt.Sprintf(foundFormat, resp.Count), SeverityWarning)
	default:
		return Result(NotFoundMessage, SeveritySuccess)
	}
}

func (c *Checker) admit(ctx context.Context, ticket uuid.UUID) (context.Context, context.CancelFunc) {
	if c.policy != SupersedePrior {
		return ctx, func() {}
	}
	ctx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	if c.cancelPrev != nil {
		c.cancelPrev()
	}
	c.latest = ticket
	c.cancelPrev = cancel
	c.mu.Unlock()
	return ctx, cancel
}

func (c *Checker) publish(ticket uuid.UUID, st State) {
	if c.policy == SupersedePrior {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.latest != ticket {
			return
		}
	}
	c.store.set(st)
}
