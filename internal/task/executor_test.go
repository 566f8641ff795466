package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func startExecutor(t *testing.T) (*Executor, *Dispatcher) {
	t.Helper()
	d := startDispatcher(t)
	e, err := NewExecutor(d, 4)
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e, d
}

func TestSubmit_DeliversOnDispatcher(t *testing.T) {
	e, _ := startExecutor(t)

	done := make(chan struct{})
	var gotID ID
	var gotValue int

	id := Submit(e,
		func(context.Context) (int, error) { return 7, nil },
		func(id ID, value int, err error) {
			require.NoError(t, err)
			gotID, gotValue = id, value
			close(done)
		},
	)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("result not delivered")
	}
	require.Equal(t, id, gotID)
	require.Equal(t, 7, gotValue)
}

func TestSubmit_DeliversError(t *testing.T) {
	e, _ := startExecutor(t)

	boom := errors.New("boom")
	done := make(chan error, 1)

	Submit(e,
		func(context.Context) (struct{}, error) { return struct{}{}, boom },
		func(_ ID, _ struct{}, err error) { done <- err },
	)

	select {
	case err := <-done:
		require.ErrorIs(t, err, boom)
	case <-time.After(time.Second):
		t.Fatal("error not delivered")
	}
}

func TestCancel_CallbackNeverInvoked(t *testing.T) {
	e, _ := startExecutor(t)

	started := make(chan struct{})
	release := make(chan struct{})
	delivered := make(chan struct{}, 1)

	id := Submit(e,
		func(ctx context.Context) (int, error) {
			close(started)
			select {
			case <-release:
				return 1, nil
			case <-ctx.Done():
				return 0, ctx.Err()
			}
		},
		func(ID, int, error) { delivered <- struct{}{} },
	)

	<-started
	e.Cancel(id) // отмена до завершения работы
	close(release)

	select {
	case <-delivered:
		t.Fatal("callback of a cancelled task was invoked")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCancel_UnblocksWorkContext(t *testing.T) {
	e, _ := startExecutor(t)

	unblocked := make(chan error, 1)
	id := Submit(e,
		func(ctx context.Context) (int, error) {
			<-ctx.Done()
			unblocked <- ctx.Err()
			return 0, ctx.Err()
		},
		func(ID, int, error) {},
	)

	e.Cancel(id)

	select {
	case err := <-unblocked:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("work context was not cancelled")
	}
}

func TestCancel_AfterCompletion_Noop(t *testing.T) {
	e, _ := startExecutor(t)

	done := make(chan struct{})
	id := Submit(e,
		func(context.Context) (int, error) { return 1, nil },
		func(ID, int, error) { close(done) },
	)

	<-done
	e.Cancel(id) // уже доставлена — безвредно
}

func TestClose_CancelsAllPending(t *testing.T) {
	d := startDispatcher(t)
	e, err := NewExecutor(d, 4)
	require.NoError(t, err)

	delivered := make(chan struct{}, 4)
	for i := 0; i < 4; i++ {
		Submit(e,
			func(ctx context.Context) (int, error) {
				<-ctx.Done()
				return 0, ctx.Err()
			},
			func(ID, int, error) { delivered <- struct{}{} },
		)
	}

	e.Close()

	select {
	case <-delivered:
		t.Fatal("callback invoked after Close")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubmit_IDsAreUnique(t *testing.T) {
	e, _ := startExecutor(t)

	seen := make(map[ID]bool)
	for i := 0; i < 100; i++ {
		id := Submit(e,
			func(context.Context) (int, error) { return 0, nil },
			func(ID, int, error) {},
		)
		require.NotZero(t, id)
		require.False(t, seen[id])
		seen[id] = true
	}
}
