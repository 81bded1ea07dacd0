package services

import (
	"reflect"
	"testing"
)

func TestRecipientsExcludingDropsActor(t *testing.T) {
	actor := uint(2)
	got := RecipientsExcluding([]uint{1, 2, 3}, &actor)
	if !reflect.DeepEqual(got, []uint{1, 3}) {
		t.Fatalf("got %v, want [1 3]", got)
	}
}

func TestRecipientsExcludingDeduplicates(t *testing.T) {
	got := RecipientsExcluding([]uint{5, 1, 5, 1, 9}, nil)
	if !reflect.DeepEqual(got, []uint{5, 1, 9}) {
		t.Fatalf("got %v, want [5 1 9]", got)
	}
}

func TestRecipientsExcludingAllExcluded(t *testing.T) {
	actor := uint(4)
	got := RecipientsExcluding([]uint{4, 4}, &actor)
	if len(got) != 0 {
		t.Fatalf("got %v, want empty", got)
	}
}
