package services

import (
	"encoding/json"
	"reflect"
	"testing"
)

func decodeMentions(t *testing.T, payload string) MentionList {
	t.Helper()
	var wrapper struct {
		Mentions MentionList `json:"mentions"`
	}
	if err := json.Unmarshal([]byte(payload), &wrapper); err != nil {
		t.Fatalf("unmarshal %s: %v", payload, err)
	}
	return wrapper.Mentions
}

func TestMentionListJSONArray(t *testing.T) {
	got := decodeMentions(t, `{"mentions": ["alice", "@bob", "42"]}`)
	want := MentionList{"alice", "@bob", "42"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestMentionListNumericArray(t *testing.T) {
	got := decodeMentions(t, `{"mentions": [7, 8]}`)
	want := MentionList{"7", "8"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestMentionListCSVString(t *testing.T) {
	got := decodeMentions(t, `{"mentions": "alice, bob ,,carol"}`)
	want := MentionList{"alice", "bob", "carol"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestMentionListAbsent(t *testing.T) {
	if got := decodeMentions(t, `{}`); got != nil {
		t.Fatalf("expected nil for absent field, got %v", got)
	}
	if got := decodeMentions(t, `{"mentions": null}`); got != nil {
		t.Fatalf("expected nil for null field, got %v", got)
	}
}

func TestMentionListEmptyString(t *testing.T) {
	got := decodeMentions(t, `{"mentions": ""}`)
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %v", got)
	}
}
