package controllers

import "testing"

func TestParsePagination(t *testing.T) {
	cases := []struct {
		page       string
		limit      string
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"", "", 1, 20, 0},
		{"1", "10", 1, 10, 0},
		{"3", "25", 3, 25, 50},
		{"0", "0", 1, 20, 0},
		{"-2", "-5", 1, 20, 0},
		{"2", "500", 2, 100, 100},
		{"abc", "xyz", 1, 20, 0},
	}
	for _, c := range cases {
		page, limit, offset := parsePagination(c.page, c.limit)
		if page != c.wantPage || limit != c.wantLimit || offset != c.wantOffset {
			t.Errorf("parsePagination(%q, %q) = (%d, %d, %d), want (%d, %d, %d)",
				c.page, c.limit, page, limit, offset, c.wantPage, c.wantLimit, c.wantOffset)
		}
	}
}

func TestValidHandle(t *testing.T) {
	valid := []string{"alice", "bob_92", "kovai.kural", "a_b.c123"}
	for _, h := range valid {
		if !validHandle(h) {
			t.Errorf("validHandle(%q) = false, want true", h)
		}
	}
	invalid := []string{"ab", "Alice", "with space", "has-dash", "tamil@kural", ""}
	for _, h := range invalid {
		if validHandle(h) {
			t.Errorf("validHandle(%q) = true, want false", h)
		}
	}
}
