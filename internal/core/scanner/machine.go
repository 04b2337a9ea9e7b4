// Package scanner implements the field-side scan/resolve/claim flow used by
// staff devices for benefit redemption and event attendance. The backend's
// unique constraint is the authoritative at-most-once guard; this machine's
// job is to never issue a second write for the same physical scan and to
// surface the backend's conflict answer as a first-class outcome.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"pdao-carelink/internal/core/domain"
)

// State of the scan/claim machine
type State string

const (
	StateIdle         State = "idle"
	StateResolving    State = "resolving"
	StateEligible     State = "eligible"
	StateIneligible   State = "ineligible"
	StateResolveError State = "resolve_error"
	StateClaiming     State = "claiming"
	StateSuccess      State = "success"
	StateConflict     State = "conflict"
	StateClaimError   State = "claim_error"
)

// TargetKind distinguishes benefit claims from event attendance
type TargetKind string

const (
	TargetBenefit TargetKind = "benefit"
	TargetEvent   TargetKind = "event"
)

// Target identifies what a scan redeems against
type Target struct {
	Kind TargetKind
	ID   uint
}

// ResolvedMember is the lookup result for a scanned ID number
type ResolvedMember struct {
	ID       uint   `json:"id"`
	IDNumber string `json:"id_number"`
	Name     string `json:"name"`
	Barangay string `json:"barangay"`
}

// Receipt echoes who/when from a successful submission. Claims stamp
// claimed_at, attendances stamp scanned_at.
type Receipt struct {
	Reference string     `json:"reference,omitempty"`
	MemberID  uint       `json:"member_id"`
	Name      string     `json:"member_name,omitempty"`
	ClaimedAt *time.Time `json:"claimed_at,omitempty"`
	ScannedAt *time.Time `json:"scanned_at,omitempty"`
}

// RecordedAt returns whichever timestamp the backend stamped.
func (r *Receipt) RecordedAt() time.Time {
	switch {
	case r.ClaimedAt != nil:
		return *r.ClaimedAt
	case r.ScannedAt != nil:
		return *r.ScannedAt
	default:
		return time.Time{}
	}
}

// Resolver looks up a scanned identifier
type Resolver interface {
	ResolveMember(ctx context.Context, idNumber string) (*ResolvedMember, error)
}

// Submitter performs the claim/attendance write
type Submitter interface {
	Submit(ctx context.Context, target Target, memberID uint) (*Receipt, error)
}

// Outcome is what the operator sees after a scan step. Every terminal
// state carries its own message; conflict is never folded into a generic
// error.
type Outcome struct {
	State   State
	Message string
	Member  *ResolvedMember
	Receipt *Receipt
	Err     error
}

var (
	// ErrScannerClosed is returned after Close
	ErrScannerClosed = errors.New("scanner is closed")
	// ErrDecodeSuppressed is returned for decode events that arrive while
	// the decoder gate is shut (a scan is in flight or awaiting reset)
	ErrDecodeSuppressed = errors.New("decode suppressed")
	// ErrNothingToConfirm is returned when Confirm is called outside the
	// eligible state
	ErrNothingToConfirm = errors.New("no pending scan to confirm")
)

// Option configures a Machine
type Option func(*Machine)

// WithConfirmBeforeClaim makes the machine stop in the eligible state and
// wait for an explicit Confirm before writing. Default is to claim
// immediately (field throughput).
func WithConfirmBeforeClaim() Option {
	return func(m *Machine) { m.confirmBeforeClaim = true }
}

// Machine drives one scanning screen. One decode event produces at most
// one backend write; the gate stays shut from the moment a decode is
// accepted until the machine returns to idle via Reset.
type Machine struct {
	target    Target
	resolver  Resolver
	submitter Submitter

	confirmBeforeClaim bool

	mu       sync.Mutex
	state    State
	gateOpen bool
	closed   bool
	member   *ResolvedMember
}

// New creates a machine in the idle state with the gate open.
func New(target Target, resolver Resolver, submitter Submitter, opts ...Option) *Machine {
	m := &Machine{
		target:    target,
		resolver:  resolver,
		submitter: submitter,
		state:     StateIdle,
		gateOpen:  true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// ScanEnabled reports whether a decode event would currently be accepted.
func (m *Machine) ScanEnabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gateOpen && !m.closed
}

// Scan feeds one decode event into the machine. Decodes that fire while a
// previous scan is still being serviced (the same code held in frame) are
// suppressed without side effects. Context cancellation (leaving the
// screen) abandons the in-flight step: the backend write, if already sent,
// is not retracted, but the machine performs no further transitions.
func (m *Machine) Scan(ctx context.Context, payload string) Outcome {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return Outcome{State: m.state, Err: ErrScannerClosed}
	}
	if !m.gateOpen || payload == "" {
		state := m.state
		m.mu.Unlock()
		return Outcome{State: state, Err: ErrDecodeSuppressed}
	}
	// Accept the decode: shut the gate before any network work so repeat
	// decodes of the same code cannot produce a second submission.
	m.gateOpen = false
	m.state = StateResolving
	m.mu.Unlock()

	member, err := m.resolver.ResolveMember(ctx, payload)
	if ctx.Err() != nil {
		return m.abandon(ctx)
	}
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrMemberNotFound):
			return m.terminal(StateResolveError, fmt.Sprintf("No member found for ID %q. Check the card and scan again.", payload), nil, nil, err)
		case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrMemberNotApproved):
			return m.terminal(StateIneligible, "This member is not approved for benefits.", nil, nil, err)
		default:
			return m.terminal(StateResolveError, "Lookup failed. Check the connection and retry.", nil, nil, err)
		}
	}

	m.mu.Lock()
	m.member = member
	m.state = StateEligible
	confirm := m.confirmBeforeClaim
	m.mu.Unlock()

	if confirm {
		return Outcome{
			State:   StateEligible,
			Message: fmt.Sprintf("%s (%s) — confirm to record.", member.Name, member.IDNumber),
			Member:  member,
		}
	}
	return m.claim(ctx, member)
}

// Confirm performs the write for a machine configured with
// WithConfirmBeforeClaim, once a member is in the eligible state.
func (m *Machine) Confirm(ctx context.Context) Outcome {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return Outcome{State: m.state, Err: ErrScannerClosed}
	}
	if m.state != StateEligible || m.member == nil {
		state := m.state
		m.mu.Unlock()
		return Outcome{State: state, Err: ErrNothingToConfirm}
	}
	member := m.member
	m.mu.Unlock()

	return m.claim(ctx, member)
}

// claim performs exactly one write call for the accepted decode.
func (m *Machine) claim(ctx context.Context, member *ResolvedMember) Outcome {
	m.mu.Lock()
	m.state = StateClaiming
	m.mu.Unlock()

	receipt, err := m.submitter.Submit(ctx, m.target, member.ID)
	if ctx.Err() != nil {
		return m.abandon(ctx)
	}
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrConflict):
			return m.terminal(StateConflict, alreadyRedeemedMessage(m.target.Kind), member, nil, err)
		case errors.Is(err, domain.ErrForbidden):
			return m.terminal(StateIneligible, notEligibleMessage(m.target.Kind), member, nil, err)
		default:
			return m.terminal(StateClaimError, "Could not record the scan. Check the connection and retry.", member, nil, err)
		}
	}

	return m.terminal(StateSuccess, successMessage(m.target.Kind, member, receipt), member, receipt, nil)
}

// Reset returns a terminal display state to idle and reopens the gate.
// This is the only way back: terminal states hold until the operator acts.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.state = StateIdle
	m.member = nil
	m.gateOpen = true
}

// Close releases the machine when the operator leaves the screen. The gate
// never reopens; any in-flight call's outcome is discarded by Scan.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.gateOpen = false
}

// terminal records a terminal display state. The gate stays shut until an
// explicit Reset so the code still in frame cannot re-trigger.
func (m *Machine) terminal(state State, message string, member *ResolvedMember, receipt *Receipt, err error) Outcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		// Screen already torn down; suppress the UI transition.
		return Outcome{State: m.state, Err: ErrScannerClosed}
	}
	m.state = state
	return Outcome{State: state, Message: message, Member: member, Receipt: receipt, Err: err}
}

// abandon handles context cancellation mid-flight: no terminal state is
// shown and the gate stays shut (the screen is going away).
func (m *Machine) abandon(ctx context.Context) Outcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Outcome{State: m.state, Err: ctx.Err()}
}

func alreadyRedeemedMessage(kind TargetKind) string {
	if kind == TargetEvent {
		return "Attendance was already recorded for this member."
	}
	return "This benefit was already claimed by this member."
}

func notEligibleMessage(kind TargetKind) string {
	if kind == TargetEvent {
		return "This member is not on the list for this event."
	}
	return "This member is not a participant of this benefit."
}

func successMessage(kind TargetKind, member *ResolvedMember, receipt *Receipt) string {
	verb := "Claim recorded"
	if kind == TargetEvent {
		verb = "Attendance recorded"
	}
	if receipt != nil {
		if at := receipt.RecordedAt(); !at.IsZero() {
			return fmt.Sprintf("%s for %s at %s.", verb, member.Name, at.Format("15:04:05"))
		}
	}
	return fmt.Sprintf("%s for %s.", verb, member.Name)
}
