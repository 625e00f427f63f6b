package sym

import (
	"fmt"
	"sync"
	"testing"
)

func TestStateInterning(t *testing.T) {
	t.Parallel()
	state := NewState()

	x := state.GetOrInsert("x")
	if y := state.GetOrInsert("y"); y == x {
		t.Fatalf("distinct names share identifier %d", x)
	}
	if again := state.GetOrInsert("x"); again != x {
		t.Fatalf("%d %d", again, x)
	}
	if state.Name(x) != "x" {
		t.Fatalf("%s", state.Name(x))
	}

	// The builtins are interned before any user symbol.
	for id, name := range map[Identifier]string{Exp: "exp", Log: "log", Sin: "sin", Cos: "cos", Derivative: "der"} {
		got, ok := state.Get(name)
		if !ok || got != id {
			t.Fatalf("%s: %d %t", name, got, ok)
		}
	}
}

func TestStateConcurrent(t *testing.T) {
	t.Parallel()
	state := NewState()

	var wg sync.WaitGroup
	ids := make([][]Identifier, 8)
	for g := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				ids[g] = append(ids[g], state.GetOrInsert(fmt.Sprintf("v%d", i)))
			}
		}()
	}
	wg.Wait()

	// Every goroutine observed the same identifier for the same name.
	for g := 1; g < len(ids); g++ {
		for i := range ids[0] {
			if ids[g][i] != ids[0][i] {
				t.Fatalf("goroutine %d: v%d has identifiers %d and %d", g, i, ids[g][i], ids[0][i])
			}
		}
	}
}
