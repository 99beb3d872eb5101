package accrual

import "testing"

func TestChannelScope_Eligibility(t *testing.T) {
	scope := NewChannelScope([]string{"general", "lounge"}, []string{"lounge", "afk"})

	tests := []struct {
		id   string
		want bool
	}{
		{"general", true},
		{"lounge", false}, // disabled wins over enabled
		{"afk", false},
		{"unlisted", false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := scope.Eligible(tt.id); got != tt.want {
				t.Errorf("Eligible(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestChannelScope_MutationsKeepPairConsistent(t *testing.T) {
	scope := NewChannelScope(nil, nil)

	scope.Disable("general")
	if scope.Eligible("general") {
		t.Error("disabled channel is eligible")
	}

	// Enabling removes the id from the disabled set.
	scope.Enable("general")
	if !scope.Eligible("general") {
		t.Error("re-enabled channel is not eligible")
	}

	scope.Disable("general")
	if scope.Eligible("general") {
		t.Error("re-disabled channel is eligible")
	}
}

func TestTally_BumpAndReset(t *testing.T) {
	tl := newTally()

	for want := 1; want <= 3; want++ {
		if got := tl.bump(1); got != want {
			t.Errorf("bump = %d, want %d", got, want)
		}
	}
	tl.reset(1)
	if got := tl.bump(1); got != 1 {
		t.Errorf("bump after reset = %d, want 1", got)
	}
}
