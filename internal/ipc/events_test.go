package ipc

import "testing"

func TestEventBusOnAndUnsubscribe(t *testing.T) {
	t.Parallel()

	bus := NewEventBus()
	count := 0
	unsubscribe := bus.On(EventEntityChanged, func(any) { count++ })

	bus.Emit(EventEntityChanged, nil)
	bus.Emit(EventEntityChanged, nil)
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}

	unsubscribe()
	bus.Emit(EventEntityChanged, nil)
	if count != 2 {
		t.Errorf("count after unsubscribe = %d, want 2", count)
	}
}

func TestEventBusOnceFiresOnce(t *testing.T) {
	t.Parallel()

	bus := NewEventBus()
	count := 0
	bus.Once(EventBackupCompleted, func(any) { count++ })

	bus.Emit(EventBackupCompleted, nil)
	bus.Emit(EventBackupCompleted, nil)
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestEventBusRemoveAll(t *testing.T) {
	t.Parallel()

	bus := NewEventBus()
	count := 0
	bus.On(EventConfigChanged, func(any) { count++ })
	bus.On(EventConfigChanged, func(any) { count++ })

	bus.RemoveAll(EventConfigChanged)
	bus.Emit(EventConfigChanged, nil)
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}

func TestEventBusChannelsAreIndependent(t *testing.T) {
	t.Parallel()

	bus := NewEventBus()
	var entity, backup int
	bus.On(EventEntityChanged, func(any) { entity++ })
	bus.On(EventBackupCompleted, func(any) { backup++ })

	bus.Emit(EventEntityChanged, nil)
	if entity != 1 || backup != 0 {
		t.Errorf("entity = %d backup = %d", entity, backup)
	}
}

func TestEventBusSinkSeesEveryChannel(t *testing.T) {
	t.Parallel()

	bus := NewEventBus()
	var seen []Channel
	bus.AddSink(func(ch Channel, _ any) { seen = append(seen, ch) })

	bus.Emit(EventEntityChanged, nil)
	bus.Emit(EventBackupCompleted, nil)
	if len(seen) != 2 || seen[0] != EventEntityChanged || seen[1] != EventBackupCompleted {
		t.Errorf("seen = %v", seen)
	}
}

func TestEventBusEmitWithNoListeners(t *testing.T) {
	t.Parallel()

	bus := NewEventBus()
	// Must not panic or block.
	bus.Emit(EventAnalysisCompleted, map[string]any{"profileId": 1})
}
