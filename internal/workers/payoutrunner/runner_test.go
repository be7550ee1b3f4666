package payoutrunner_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"referraldesk/internal/ports"
	"referraldesk/internal/workers/payoutrunner"
)

type fakeJobRepo struct {
	mu        sync.Mutex
	queue     []ports.PayoutJob
	completed []string
	failed    map[string]string
}

func newFakeJobRepo(jobs ...ports.PayoutJob) *fakeJobRepo {
	return &fakeJobRepo{queue: jobs, failed: make(map[string]string)}
}

func (r *fakeJobRepo) ClaimNext(context.Context) (ports.PayoutJob, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.queue) == 0 {
		return ports.PayoutJob{}, false, nil
	}
	job := r.queue[0]
	r.queue = r.queue[1:]
	return job, true, nil
}

func (r *fakeJobRepo) MarkCompleted(_ context.Context, jobID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed = append(r.completed, jobID)
	return nil
}

func (r *fakeJobRepo) MarkFailed(_ context.Context, jobID, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed[jobID] = reason
	return nil
}

func (r *fakeJobRepo) resolved() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.completed) + len(r.failed)
}

type scriptedProcessor struct {
	failFor map[string]error
}

func (p scriptedProcessor) Process(_ context.Context, payoutID string) error {
	return p.failFor[payoutID]
}

func TestRunDrainsQueueAndResolvesJobs(t *testing.T) {
	repo := newFakeJobRepo(
		ports.PayoutJob{ID: "job-1", PayoutID: "payout-1"},
		ports.PayoutJob{ID: "job-2", PayoutID: "payout-2"},
		ports.PayoutJob{ID: "job-3", PayoutID: "payout-3"},
	)
	proc := scriptedProcessor{failFor: map[string]error{
		"payout-2": errors.New("provider declined"),
	}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	payoutrunner.Run(ctx, repo, proc, 2, time.Millisecond, zap.NewNop())

	require.Eventually(t, func() bool { return repo.resolved() == 3 }, time.Second, 5*time.Millisecond)

	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.ElementsMatch(t, []string{"job-1", "job-3"}, repo.completed)
	assert.Equal(t, map[string]string{"job-2": "provider declined"}, repo.failed)
}

func TestRunWithoutWorkersIsANoOp(t *testing.T) {
	repo := newFakeJobRepo(ports.PayoutJob{ID: "job-1", PayoutID: "payout-1"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	payoutrunner.Run(ctx, repo, scriptedProcessor{}, 0, time.Millisecond, zap.NewNop())

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, repo.resolved())
	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.Len(t, repo.queue, 1)
}
