package services

import "testing"

func TestChangeForFreshVote(t *testing.T) {
	change, err := ChangeFor(0, DirectionUp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !change.Fresh || change.Removed || change.Switched {
		t.Fatalf("expected fresh transition, got %+v", change)
	}
	if change.Value != 1 {
		t.Fatalf("expected value 1, got %d", change.Value)
	}

	change, err = ChangeFor(0, DirectionDown)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !change.Fresh || change.Value != -1 {
		t.Fatalf("expected fresh downvote, got %+v", change)
	}
}

func TestChangeForToggleOff(t *testing.T) {
	change, err := ChangeFor(1, DirectionUp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !change.Removed || change.Value != 0 {
		t.Fatalf("expected removal, got %+v", change)
	}

	change, err = ChangeFor(-1, DirectionDown)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !change.Removed || change.Value != 0 {
		t.Fatalf("expected removal, got %+v", change)
	}
}

func TestChangeForSwitch(t *testing.T) {
	change, err := ChangeFor(-1, DirectionUp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !change.Switched || change.Value != 1 {
		t.Fatalf("expected switch to +1, got %+v", change)
	}

	change, err = ChangeFor(1, DirectionDown)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !change.Switched || change.Value != -1 {
		t.Fatalf("expected switch to -1, got %+v", change)
	}
}

func TestChangeForInvalidDirection(t *testing.T) {
	for _, dir := range []string{"sideways", "", "UP", "upvote"} {
		if _, err := ChangeFor(0, dir); err == nil {
			t.Errorf("direction %q: expected error", dir)
		}
	}
}
