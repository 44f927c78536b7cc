package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSender fails on the indices listed in failAt and records every
// call with its timestamp.
type scriptedSender struct {
	failAt map[int]error
	calls  []WorkItem
	times  []time.Time
}

func (s *scriptedSender) Send(_ context.Context, item WorkItem) (SendReceipt, error) {
	idx := len(s.calls)
	s.calls = append(s.calls, item)
	s.times = append(s.times, time.Now())
	if err, ok := s.failAt[idx]; ok {
		return SendReceipt{}, err
	}
	return SendReceipt{
		Signature:     fmt.Sprintf("sig-%d", idx),
		ReferenceLink: fmt.Sprintf("https://explorer.solana.com/tx/sig-%d", idx),
	}, nil
}

func testItems(n int) []WorkItem {
	items := make([]WorkItem, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, NewTransferItem(fmt.Sprintf("recipient-%d", i), "hello"))
	}
	return items
}

func newTestDispatcher(s Sender) *Dispatcher {
	return New(s, "devnet", slog.Default())
}

func TestRun_AllSucceed(t *testing.T) {
	t.Parallel()

	s := &scriptedSender{}
	outcome, err := newTestDispatcher(s).Run(context.Background(), testItems(3), Policy{})
	require.NoError(t, err)

	assert.Equal(t, 3, outcome.Succeeded)
	assert.Equal(t, 0, outcome.Failed)
	assert.True(t, outcome.AllSucceeded)
	assert.Len(t, outcome.Results, 3)
	assert.Equal(t, StatusCompleted, outcome.Status())
	assert.NotEmpty(t, outcome.BatchID)

	for i, r := range outcome.Results {
		assert.True(t, r.Succeeded)
		assert.Equal(t, fmt.Sprintf("sig-%d", i), r.Signature)
		assert.NotEmpty(t, r.ReferenceLink)
		assert.Empty(t, r.ErrDetail)
	}
}

func TestRun_StopsOnFirstFailureByDefault(t *testing.T) {
	t.Parallel()

	s := &scriptedSender{failAt: map[int]error{1: errors.New("node rejected it")}}
	outcome, err := newTestDispatcher(s).Run(context.Background(), testItems(3), Policy{})
	require.NoError(t, err)

	// Items 0 and 1 were attempted; item 2 never was.
	assert.Len(t, s.calls, 2)
	assert.Len(t, outcome.Results, 2)
	assert.Equal(t, 1, outcome.Succeeded)
	assert.Equal(t, 1, outcome.Failed)
	assert.False(t, outcome.AllSucceeded)
	assert.Equal(t, StatusPartialFailure, outcome.Status())

	failing := outcome.Results[1]
	assert.False(t, failing.Succeeded)
	assert.Empty(t, failing.Signature)
	assert.Contains(t, failing.ErrDetail, "node rejected it")
}

func TestRun_ContinueOnErrorProcessesAll(t *testing.T) {
	t.Parallel()

	s := &scriptedSender{failAt: map[int]error{1: errors.New("boom")}}
	outcome, err := newTestDispatcher(s).Run(context.Background(), testItems(3), Policy{ContinueOnError: true})
	require.NoError(t, err)

	assert.Len(t, outcome.Results, 3)
	assert.Equal(t, 2, outcome.Succeeded)
	assert.Equal(t, 1, outcome.Failed)
	assert.False(t, outcome.AllSucceeded)
}

func TestRun_AllFail(t *testing.T) {
	t.Parallel()

	s := &scriptedSender{failAt: map[int]error{0: errors.New("a"), 1: errors.New("b")}}
	outcome, err := newTestDispatcher(s).Run(context.Background(), testItems(2), Policy{ContinueOnError: true})
	require.NoError(t, err)

	assert.Equal(t, 0, outcome.Succeeded)
	assert.Equal(t, 2, outcome.Failed)
	assert.Equal(t, StatusFailed, outcome.Status())
}

func TestRun_EmptyInput(t *testing.T) {
	t.Parallel()

	s := &scriptedSender{}
	outcome, err := newTestDispatcher(s).Run(context.Background(), nil, Policy{})
	require.NoError(t, err)

	assert.Equal(t, 0, outcome.Succeeded)
	assert.Equal(t, 0, outcome.Failed)
	assert.True(t, outcome.AllSucceeded)
	assert.Empty(t, outcome.Results)
	assert.Empty(t, s.calls)
}

func TestRun_PreservesInputOrder(t *testing.T) {
	t.Parallel()

	items := []WorkItem{
		NewTransferItem("alpha", "m"),
		NewMemoItem("m"),
		NewTransferItem("gamma", "m"),
	}
	s := &scriptedSender{}
	outcome, err := newTestDispatcher(s).Run(context.Background(), items, Policy{})
	require.NoError(t, err)

	require.Len(t, outcome.Results, 3)
	assert.Equal(t, "alpha", outcome.Results[0].Target)
	assert.Equal(t, MemoOnlyTarget, outcome.Results[1].Target)
	assert.Equal(t, "gamma", outcome.Results[2].Target)
}

func TestRun_DelayBetweenItemsNotAfterLast(t *testing.T) {
	t.Parallel()

	const delay = 60 * time.Millisecond
	s := &scriptedSender{}

	start := time.Now()
	_, err := newTestDispatcher(s).Run(context.Background(), testItems(3), Policy{InterOpDelay: delay})
	elapsed := time.Since(start)
	require.NoError(t, err)

	require.Len(t, s.times, 3)
	assert.GreaterOrEqual(t, s.times[1].Sub(s.times[0]), delay)
	assert.GreaterOrEqual(t, s.times[2].Sub(s.times[1]), delay)

	// Two gaps only; no trailing delay after the final item.
	assert.Less(t, elapsed, 3*delay)
}

func TestRun_NoDelayAfterEarlyStop(t *testing.T) {
	t.Parallel()

	s := &scriptedSender{failAt: map[int]error{0: errors.New("boom")}}

	start := time.Now()
	outcome, err := newTestDispatcher(s).Run(context.Background(), testItems(3), Policy{InterOpDelay: 200 * time.Millisecond})
	require.NoError(t, err)

	assert.Len(t, outcome.Results, 1)
	assert.Less(t, time.Since(start), 150*time.Millisecond)
}

func TestRun_ContextCanceledDuringDelay(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := &scriptedSender{}
	outcome, err := newTestDispatcher(s).Run(ctx, testItems(5), Policy{InterOpDelay: time.Second})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// The first item completed before the cancellation hit the delay.
	assert.Len(t, outcome.Results, 1)
	assert.Equal(t, 1, outcome.Succeeded)
}

func TestRun_NilSender(t *testing.T) {
	t.Parallel()

	d := New(nil, "devnet", slog.Default())
	_, err := d.Run(context.Background(), testItems(1), Policy{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sender is nil")
}

func TestRun_NegativeDelayRejected(t *testing.T) {
	t.Parallel()

	s := &scriptedSender{}
	_, err := newTestDispatcher(s).Run(context.Background(), testItems(1), Policy{InterOpDelay: -time.Second})
	require.Error(t, err)
	assert.Empty(t, s.calls, "no operation may be attempted on structural failure")
}
