package family

import "testing"

type position struct{ X, Y int }
type velocity struct{ DX, DY int }
type said struct{ Text string }

func TestHaltReservedAtZero(t *testing.T) {
	r := NewRegistry()
	id, ok := Lookup[Halt](r, KindEvent)
	if !ok || id != HaltID {
		t.Fatalf("expected Halt at family %d, got %d (ok=%v)", HaltID, id, ok)
	}
	if r.Len() != 1 {
		t.Fatalf("expected 1 family in a new registry, got %d", r.Len())
	}
}

func TestRegisterIsStable(t *testing.T) {
	r := NewRegistry()
	p := RegisterComponent[position](r)
	v := RegisterComponent[velocity](r)
	e := RegisterEvent[said](r)

	if p == HaltID || v == HaltID || e == HaltID {
		t.Fatal("registered type collided with the Halt family")
	}
	if p == v || p == e || v == e {
		t.Fatalf("distinct types share a family: %d %d %d", p, v, e)
	}
	if again := RegisterComponent[position](r); again != p {
		t.Fatalf("re-registering position returned %d, want %d", again, p)
	}
	if got := MustComponent[velocity](r); got != v {
		t.Fatalf("MustComponent returned %d, want %d", got, v)
	}
	if got := MustEvent[said](r); got != e {
		t.Fatalf("MustEvent returned %d, want %d", got, e)
	}
}

func TestLookupChecksKind(t *testing.T) {
	r := NewRegistry()
	RegisterEvent[said](r)
	if _, ok := Lookup[said](r, KindComponent); ok {
		t.Fatal("event type must not resolve as a component")
	}
	if _, ok := Lookup[position](r, KindComponent); ok {
		t.Fatal("unregistered type must not resolve")
	}
}

func TestMustComponentPanicsWhenUnregistered(t *testing.T) {
	r := NewRegistry()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unregistered component")
		}
	}()
	MustComponent[position](r)
}

func TestRegisterUnderTwoKindsPanics(t *testing.T) {
	r := NewRegistry()
	RegisterComponent[position](r)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when registering a component as an event")
		}
	}()
	RegisterEvent[position](r)
}

func TestFamiliesByKind(t *testing.T) {
	r := NewRegistry()
	p := RegisterComponent[position](r)
	e := RegisterEvent[said](r)
	v := RegisterComponent[velocity](r)

	comps := r.Families(KindComponent)
	if len(comps) != 2 || comps[0] != p || comps[1] != v {
		t.Fatalf("unexpected component families %v", comps)
	}
	events := r.Families(KindEvent)
	if len(events) != 2 || events[0] != HaltID || events[1] != e {
		t.Fatalf("unexpected event families %v", events)
	}
	if r.Name(p) != "family.position" {
		t.Fatalf("unexpected name %q", r.Name(p))
	}
}
