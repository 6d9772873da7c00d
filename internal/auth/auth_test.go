package auth

import "testing"

func TestAllowAll(t *testing.T) {
	p := AllowAll{}
	for _, id := range []int64{0, 42, -1, 99999} {
		if !p.Allow(id) {
			t.Errorf("AllowAll denied %d", id)
		}
	}
}

func TestAllowlist(t *testing.T) {
	p := NewAllowlist([]int64{42, 7})

	if !p.Allow(42) || !p.Allow(7) {
		t.Error("listed user denied")
	}
	if p.Allow(99) {
		t.Error("unlisted user allowed")
	}
}

func TestFromConfig(t *testing.T) {
	if _, ok := FromConfig(nil).(AllowAll); !ok {
		t.Errorf("empty list should mean allow-all, got %T", FromConfig(nil))
	}

	p := FromConfig([]int64{42})
	if !p.Allow(42) {
		t.Error("owner denied")
	}
	if p.Allow(99) {
		t.Error("stranger allowed")
	}
}
