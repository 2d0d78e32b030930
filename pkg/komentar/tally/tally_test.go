package tally

import "testing"

func TestCounterTopKeepsFirstSeenOnTies(t *testing.T) {
	c := New()
	for _, label := range []string{"b", "a", "c", "a", "b", "d"} {
		c.Add(label)
	}

	top := c.Top(0)
	want := []Count{{"b", 2}, {"a", 2}, {"c", 1}, {"d", 1}}
	if len(top) != len(want) {
		t.Fatalf("expected %d labels, got %d", len(want), len(top))
	}
	for i := range want {
		if top[i] != want[i] {
			t.Errorf("position %d: expected %+v, got %+v", i, want[i], top[i])
		}
	}
}

func TestCounterTopTruncates(t *testing.T) {
	c := New()
	c.AddN("x", 5)
	c.AddN("y", 3)
	c.AddN("z", 9)

	top := c.Top(2)
	if len(top) != 2 {
		t.Fatalf("expected 2 labels, got %d", len(top))
	}
	if top[0].Label != "z" || top[1].Label != "x" {
		t.Errorf("unexpected order: %+v", top)
	}
}

func TestCounterMax(t *testing.T) {
	c := New()
	if _, ok := c.Max(); ok {
		t.Error("empty counter should report no max")
	}

	c.Add("first")
	c.Add("second")
	best, ok := c.Max()
	if !ok || best.Label != "first" {
		t.Errorf("tie should resolve to first seen, got %+v", best)
	}
	if c.Get("second") != 1 || c.Get("missing") != 0 {
		t.Error("Get returned wrong counts")
	}
}
