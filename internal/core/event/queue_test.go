package event

import (
	"testing"

	"github.com/l1jgo/simcore/internal/core/family"
)

type output struct{ Text string }
type input struct{ Line string }
type unregistered struct{}

func newBus() (*Queue, *Emitter) {
	reg := family.NewRegistry()
	family.RegisterEvent[output](reg)
	family.RegisterEvent[input](reg)
	return NewQueue(reg), NewEmitter(reg)
}

func texts(evs []output) []string {
	out := make([]string, len(evs))
	for i, ev := range evs {
		out[i] = ev.Text
	}
	return out
}

func TestEmitIsInvisibleUntilMerge(t *testing.T) {
	q, em := newBus()
	Emit(em, output{"hi"})
	if got := Receive[output](q); len(got) != 0 {
		t.Fatalf("pending event visible before merge: %v", got)
	}
	if em.Len() != 1 {
		t.Fatalf("expected 1 pending event, got %d", em.Len())
	}
}

func TestMergePreservesEmissionOrder(t *testing.T) {
	q, em := newBus()
	Emit(em, output{"a"})
	Emit(em, input{"x"})
	Emit(em, output{"b"})
	q.Merge(em)

	Emit(em, output{"c"})
	q.Merge(em)

	got := texts(Receive[output](q))
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("expected [a b c], got %v", got)
	}
	if in := Receive[input](q); len(in) != 1 || in[0].Line != "x" {
		t.Fatalf("expected [x], got %v", in)
	}
}

func TestMergeEmptiesEmitter(t *testing.T) {
	q, em := newBus()
	Emit(em, output{"once"})
	q.Merge(em)
	q.Merge(em)

	if em.Len() != 0 {
		t.Fatalf("emitter kept %d events after merge", em.Len())
	}
	if got := Receive[output](q); len(got) != 1 {
		t.Fatalf("event merged %d times", len(got))
	}
}

func TestFlushIdempotent(t *testing.T) {
	q, em := newBus()
	Emit(em, output{"a"})
	Emit(em, input{"b"})
	q.Merge(em)

	q.Flush()
	if len(Receive[output](q)) != 0 || len(Receive[input](q)) != 0 {
		t.Fatal("events survived the first flush")
	}
	q.Flush()
	if len(Receive[output](q)) != 0 || q.Len() != 0 {
		t.Fatal("events appeared after the second flush")
	}
}

func TestMergeThenFlushClearsExactlyMerged(t *testing.T) {
	q, em := newBus()
	Emit(em, output{"merged"})
	q.Merge(em)
	Emit(em, output{"pending"})

	q.Flush()
	if q.Len() != 0 {
		t.Fatalf("flush left %d visible events", q.Len())
	}
	if em.Len() != 1 {
		t.Fatal("flush touched the emitter's pending events")
	}
	q.Merge(em)
	if got := texts(Receive[output](q)); len(got) != 1 || got[0] != "pending" {
		t.Fatalf("expected [pending], got %v", got)
	}
}

func TestHaltUsesFamilyZero(t *testing.T) {
	q, em := newBus()
	if q.Halted() {
		t.Fatal("fresh queue reports halt")
	}
	em.Halt()
	q.Merge(em)
	if !q.Halted() || q.Count(family.HaltID) != 1 {
		t.Fatal("halt not visible after merge")
	}
	q.Flush()
	if q.Halted() {
		t.Fatal("halt survived flush")
	}
}

func TestUnregisteredEventPanics(t *testing.T) {
	_, em := newBus()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for an unregistered event type")
		}
	}()
	Emit(em, unregistered{})
}

func TestLateRegistration(t *testing.T) {
	reg := family.NewRegistry()
	q, em := NewQueue(reg), NewEmitter(reg)
	family.RegisterEvent[output](reg)

	Emit(em, output{"late"})
	q.Merge(em)
	if got := texts(Receive[output](q)); len(got) != 1 || got[0] != "late" {
		t.Fatalf("expected [late], got %v", got)
	}
}

func TestMergeFamilyMismatchPanics(t *testing.T) {
	q, em := newBus()
	f := family.MustEvent[output](q.bufs.registry)
	q.bufs.at(f, func() anyBuffer { return &buffer[input]{family: f} })
	Emit(em, output{"boom"})

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when merging into a buffer of another type")
		}
	}()
	q.Merge(em)
}
