package usecase

import (
	"github.com/felixgeelhaar/statekit"
	"github.com/m-mizutani/goerr/v2"
)

// Sync run states
const (
	syncStatePending    = "pending"
	syncStateFetching   = "fetching"
	syncStateProcessing = "processing"
	syncStateSuccess    = "success"
	syncStateError      = "error"
)

// Sync run events
const (
	syncEventFetch   = "fetch"
	syncEventProcess = "process"
	syncEventSucceed = "succeed"
	syncEventFail    = "fail"
)

type syncRunContext struct {
	SyncID    string
	ProjectID int64
}

// syncRun tracks the phase of one project sync
type syncRun struct {
	syncID      string
	interpreter *statekit.Interpreter[syncRunContext]
}

func newSyncRun(syncID string, projectID int64) (*syncRun, error) {
	builder := statekit.NewMachine[syncRunContext]("sync-run").
		WithInitial(statekit.StateID(syncStatePending)).
		WithContext(syncRunContext{
			SyncID:    syncID,
			ProjectID: projectID,
		})

	builder.State(syncStatePending).
		On(syncEventFetch).Target(syncStateFetching).
		On(syncEventFail).Target(syncStateError).
		Done()

	builder.State(syncStateFetching).
		On(syncEventProcess).Target(syncStateProcessing).
		On(syncEventFail).Target(syncStateError).
		Done()

	builder.State(syncStateProcessing).
		On(syncEventSucceed).Target(syncStateSuccess).
		On(syncEventFail).Target(syncStateError).
		Done()

	builder.State(syncStateSuccess).Done()
	builder.State(syncStateError).Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build sync state machine")
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &syncRun{syncID: syncID, interpreter: interpreter}, nil
}

// fire sends event. An event the current state does not accept leaves the
// run unchanged and returns ErrInvalidSyncTransition.
func (r *syncRun) fire(event string) error {
	before := r.current()
	r.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	if r.current() == before {
		return goerr.Wrap(ErrInvalidSyncTransition, "sync run rejected event",
			goerr.V("event", event),
			goerr.V("state", before),
			goerr.V(SyncIDKey, r.syncID))
	}
	return nil
}

func (r *syncRun) current() string {
	return string(r.interpreter.State().Value)
}
