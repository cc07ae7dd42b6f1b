package usecase

// SyncRunStates replays events on a fresh sync run and returns the state
// after each accepted one. Replay stops at the first rejected event.
func SyncRunStates(events ...string) ([]string, error) {
	run, err := newSyncRun("test", 1)
	if err != nil {
		return nil, err
	}
	states := make([]string, 0, len(events))
	for _, e := range events {
		if err := run.fire(e); err != nil {
			return states, err
		}
		states = append(states, run.current())
	}
	return states, nil
}
