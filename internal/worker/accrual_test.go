package worker

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"bank-ledger/internal/domain"
	"bank-ledger/internal/errors"
)

type countingAccruer struct {
	calls atomic.Int32
	err   error
}

func (c *countingAccruer) AccrueDaily(ctx context.Context) (*domain.AccrualRun, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return &domain.AccrualRun{
		RunDate:       time.Now().UTC(),
		Credited:      1,
		TotalInterest: decimal.RequireFromString("5.00"),
	}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitForCalls(t *testing.T, accruer *countingAccruer, want int32) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for accruer.calls.Load() < want {
		if time.Now().After(deadline) {
			t.Fatalf("accruer reached %d calls, want at least %d", accruer.calls.Load(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestAccrualWorkerRunsOnInterval(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	accruer := &countingAccruer{}
	StartAccrualWorker(ctx, accruer, 10*time.Millisecond, testLogger())

	waitForCalls(t, accruer, 2)
}

func TestAccrualWorkerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	accruer := &countingAccruer{}
	StartAccrualWorker(ctx, accruer, 10*time.Millisecond, testLogger())

	waitForCalls(t, accruer, 1)
	cancel()

	// Let any sweep already in flight land, then confirm the loop is done.
	time.Sleep(30 * time.Millisecond)
	settled := accruer.calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, accruer.calls.Load())
}

func TestAccrualWorkerKeepsGoingAfterFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	accruer := &countingAccruer{err: errors.ErrStorageFailure}
	StartAccrualWorker(ctx, accruer, 10*time.Millisecond, testLogger())

	// Two consecutive failing sweeps prove an error does not end the loop.
	waitForCalls(t, accruer, 2)
}

func TestAccrualWorkerDisabledWithoutInterval(t *testing.T) {
	accruer := &countingAccruer{}
	StartAccrualWorker(context.Background(), accruer, 0, testLogger())
	StartAccrualWorker(context.Background(), accruer, -time.Second, testLogger())

	time.Sleep(30 * time.Millisecond)
	assert.Zero(t, accruer.calls.Load())
}
