package scanner

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdao-carelink/internal/core/domain"
)

type fakeResolver struct {
	members map[string]*ResolvedMember
	err     error
	calls   int
}

func (f *fakeResolver) ResolveMember(_ context.Context, idNumber string) (*ResolvedMember, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	m, ok := f.members[idNumber]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

type fakeSubmitter struct {
	err   error
	calls int
}

func (f *fakeSubmitter) Submit(_ context.Context, _ Target, memberID uint) (*Receipt, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	claimedAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	return &Receipt{
		Reference: fmt.Sprintf("ref-%d", f.calls),
		MemberID:  memberID,
		ClaimedAt: &claimedAt,
	}, nil
}

func juanDelaCruz() map[string]*ResolvedMember {
	return map[string]*ResolvedMember{
		"PWD-0001": {ID: 7, IDNumber: "PWD-0001", Name: "Juan Dela Cruz", Barangay: "Poblacion"},
	}
}

func TestScanSuccessSubmitsOnce(t *testing.T) {
	resolver := &fakeResolver{members: juanDelaCruz()}
	submitter := &fakeSubmitter{}
	m := New(Target{Kind: TargetBenefit, ID: 3}, resolver, submitter)

	out := m.Scan(context.Background(), "PWD-0001")

	require.NoError(t, out.Err)
	assert.Equal(t, StateSuccess, out.State)
	require.NotNil(t, out.Receipt)
	assert.Equal(t, uint(7), out.Receipt.MemberID)
	assert.Contains(t, out.Message, "Juan Dela Cruz")
	assert.Equal(t, 1, submitter.calls)
}

func TestRepeatDecodesProduceOneSubmission(t *testing.T) {
	resolver := &fakeResolver{members: juanDelaCruz()}
	submitter := &fakeSubmitter{}
	m := New(Target{Kind: TargetBenefit, ID: 3}, resolver, submitter)

	// First decode is serviced; the same code still in frame keeps firing.
	first := m.Scan(context.Background(), "PWD-0001")
	require.Equal(t, StateSuccess, first.State)

	for i := 0; i < 5; i++ {
		repeat := m.Scan(context.Background(), "PWD-0001")
		assert.ErrorIs(t, repeat.Err, ErrDecodeSuppressed)
	}

	assert.Equal(t, 1, resolver.calls)
	assert.Equal(t, 1, submitter.calls)
	assert.False(t, m.ScanEnabled())
}

func TestResetReopensGate(t *testing.T) {
	resolver := &fakeResolver{members: juanDelaCruz()}
	submitter := &fakeSubmitter{}
	m := New(Target{Kind: TargetBenefit, ID: 3}, resolver, submitter)

	m.Scan(context.Background(), "PWD-0001")
	assert.False(t, m.ScanEnabled())

	m.Reset()
	assert.True(t, m.ScanEnabled())
	assert.Equal(t, StateIdle, m.State())

	out := m.Scan(context.Background(), "PWD-0001")
	assert.Equal(t, StateSuccess, out.State)
	assert.Equal(t, 2, submitter.calls)
}

func TestConflictIsDistinctFromError(t *testing.T) {
	resolver := &fakeResolver{members: juanDelaCruz()}
	submitter := &fakeSubmitter{err: fmt.Errorf("%w: already claimed", domain.ErrConflict)}
	m := New(Target{Kind: TargetBenefit, ID: 3}, resolver, submitter)

	out := m.Scan(context.Background(), "PWD-0001")

	assert.Equal(t, StateConflict, out.State)
	assert.Contains(t, out.Message, "already claimed")
	assert.ErrorIs(t, out.Err, domain.ErrConflict)
}

func TestAttendanceConflictMessage(t *testing.T) {
	resolver := &fakeResolver{members: juanDelaCruz()}
	submitter := &fakeSubmitter{err: fmt.Errorf("%w: duplicate", domain.ErrConflict)}
	m := New(Target{Kind: TargetEvent, ID: 9}, resolver, submitter)

	out := m.Scan(context.Background(), "PWD-0001")

	assert.Equal(t, StateConflict, out.State)
	assert.Contains(t, out.Message, "Attendance was already recorded")
}

func TestSubmitErrorIsRetryable(t *testing.T) {
	resolver := &fakeResolver{members: juanDelaCruz()}
	submitter := &fakeSubmitter{err: fmt.Errorf("%w: connection refused", domain.ErrNetworkFailure)}
	m := New(Target{Kind: TargetBenefit, ID: 3}, resolver, submitter)

	out := m.Scan(context.Background(), "PWD-0001")
	assert.Equal(t, StateClaimError, out.State)

	// Operator retries after restoring connectivity.
	submitter.err = nil
	m.Reset()
	retry := m.Scan(context.Background(), "PWD-0001")
	assert.Equal(t, StateSuccess, retry.State)
}

func TestUnknownMemberShowsResolveError(t *testing.T) {
	resolver := &fakeResolver{members: juanDelaCruz()}
	submitter := &fakeSubmitter{}
	m := New(Target{Kind: TargetBenefit, ID: 3}, resolver, submitter)

	out := m.Scan(context.Background(), "PWD-9999")

	assert.Equal(t, StateResolveError, out.State)
	assert.Contains(t, out.Message, "PWD-9999")
	assert.Equal(t, 0, submitter.calls)
}

func TestNotApprovedMemberIsIneligible(t *testing.T) {
	resolver := &fakeResolver{err: fmt.Errorf("%w: pending review", domain.ErrMemberNotApproved)}
	submitter := &fakeSubmitter{}
	m := New(Target{Kind: TargetBenefit, ID: 3}, resolver, submitter)

	out := m.Scan(context.Background(), "PWD-0001")

	assert.Equal(t, StateIneligible, out.State)
	assert.Equal(t, 0, submitter.calls)
}

func TestNotParticipantIsIneligible(t *testing.T) {
	resolver := &fakeResolver{members: juanDelaCruz()}
	submitter := &fakeSubmitter{err: fmt.Errorf("%w: not on roster", domain.ErrForbidden)}
	m := New(Target{Kind: TargetBenefit, ID: 3}, resolver, submitter)

	out := m.Scan(context.Background(), "PWD-0001")

	assert.Equal(t, StateIneligible, out.State)
	assert.Contains(t, out.Message, "not a participant")
}

func TestConfirmBeforeClaim(t *testing.T) {
	resolver := &fakeResolver{members: juanDelaCruz()}
	submitter := &fakeSubmitter{}
	m := New(Target{Kind: TargetBenefit, ID: 3}, resolver, submitter, WithConfirmBeforeClaim())

	out := m.Scan(context.Background(), "PWD-0001")
	require.Equal(t, StateEligible, out.State)
	require.NotNil(t, out.Member)
	assert.Equal(t, 0, submitter.calls)

	confirmed := m.Confirm(context.Background())
	assert.Equal(t, StateSuccess, confirmed.State)
	assert.Equal(t, 1, submitter.calls)
}

func TestConfirmWithoutPendingScan(t *testing.T) {
	m := New(Target{Kind: TargetBenefit, ID: 3}, &fakeResolver{}, &fakeSubmitter{}, WithConfirmBeforeClaim())

	out := m.Confirm(context.Background())
	assert.ErrorIs(t, out.Err, ErrNothingToConfirm)
}

func TestCancelledContextAbandonsTransition(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	resolver := &fakeResolver{members: juanDelaCruz()}
	submitter := &fakeSubmitter{}
	// Cancel before the scan so the resolve result arrives on a dead context.
	cancel()
	m := New(Target{Kind: TargetBenefit, ID: 3}, resolver, submitter)

	out := m.Scan(ctx, "PWD-0001")

	assert.True(t, errors.Is(out.Err, context.Canceled))
	assert.NotEqual(t, StateSuccess, out.State)
	assert.Equal(t, 0, submitter.calls)
}

func TestClosedMachineRejectsScans(t *testing.T) {
	resolver := &fakeResolver{members: juanDelaCruz()}
	submitter := &fakeSubmitter{}
	m := New(Target{Kind: TargetBenefit, ID: 3}, resolver, submitter)

	m.Close()

	out := m.Scan(context.Background(), "PWD-0001")
	assert.ErrorIs(t, out.Err, ErrScannerClosed)
	assert.Equal(t, 0, submitter.calls)
	assert.False(t, m.ScanEnabled())

	// Reset after close must not reopen the gate.
	m.Reset()
	assert.False(t, m.ScanEnabled())
}

func TestEmptyPayloadSuppressed(t *testing.T) {
	m := New(Target{Kind: TargetBenefit, ID: 3}, &fakeResolver{}, &fakeSubmitter{})

	out := m.Scan(context.Background(), "")
	assert.ErrorIs(t, out.Err, ErrDecodeSuppressed)
	assert.True(t, m.ScanEnabled())
}
