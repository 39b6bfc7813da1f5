package layout

import "testing"

func TestSideCache(t *testing.T) {
	c := NewSideCache()

	if _, ok := c.Get("d1"); ok {
		t.Fatal("expected empty cache")
	}

	c.Set("d1", SideBelow)
	c.Set("d2", -5)
	if side, ok := c.Get("d1"); !ok || side != SideBelow {
		t.Errorf("d1: got (%d,%v)", side, ok)
	}
	if side, _ := c.Get("d2"); side != SideAbove {
		t.Errorf("d2: expected sign normalized to %d, got %d", SideAbove, side)
	}
	if c.Len() != 2 {
		t.Errorf("Len: got %d, want 2", c.Len())
	}

	c.Delete("d1")
	if _, ok := c.Get("d1"); ok {
		t.Error("d1 still cached after Delete")
	}

	c.Set("d2", 0)
	if c.Len() != 0 {
		t.Errorf("Set with zero side should remove the entry, Len %d", c.Len())
	}

	c.Set("d3", SideAbove)
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len after Clear: got %d", c.Len())
	}
}

func TestSession_CachedSideOverridesPreference(t *testing.T) {
	s := NewSession(nil, DefaultOptions())

	// Near the top edge the label is forced below and the choice is remembered
	first := s.Layout("d1", dimensionInput(5, 5, SideAbove))
	if first.UsedSideSign != SideBelow {
		t.Fatalf("first: got side %d, want %d", first.UsedSideSign, SideBelow)
	}

	// With room on both sides the cached side wins over the caller's preference
	second := s.Layout("d1", dimensionInput(150, 150, SideAbove))
	if second.UsedSideSign != SideBelow {
		t.Errorf("second: got side %d, want cached %d", second.UsedSideSign, SideBelow)
	}

	// Another id starts from its own preference
	other := s.Layout("d2", dimensionInput(150, 150, SideAbove))
	if other.UsedSideSign != SideAbove {
		t.Errorf("d2: got side %d, want %d", other.UsedSideSign, SideAbove)
	}

	if s.Cache().Len() != 2 {
		t.Errorf("cache Len: got %d, want 2", s.Cache().Len())
	}
}

func TestSession_EmptyIDIsNotCached(t *testing.T) {
	s := NewSession(DefaultApproxMeasurer, DefaultOptions())
	s.Layout("", dimensionInput(5, 5, SideAbove))
	if s.Cache().Len() != 0 {
		t.Errorf("expected no cache entry for an empty id, got %d", s.Cache().Len())
	}
}

func TestSession_ClearResetsPreference(t *testing.T) {
	s := NewSession(nil, DefaultOptions())
	s.Layout("d1", dimensionInput(5, 5, SideAbove))
	s.Cache().Clear()

	got := s.Layout("d1", dimensionInput(150, 150, SideAbove))
	if got.UsedSideSign != SideAbove {
		t.Errorf("after Clear: got side %d, want %d", got.UsedSideSign, SideAbove)
	}
}
