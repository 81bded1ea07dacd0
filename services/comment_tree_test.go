package services

import (
	"testing"

	"github.com/kovaikural/kural/models"
)

func uintPtr(v uint) *uint { return &v }

func TestBuildCommentTreeNesting(t *testing.T) {
	comments := []models.Comment{
		{ID: 1},
		{ID: 2, ParentID: uintPtr(1)},
		{ID: 3, ParentID: uintPtr(1)},
		{ID: 4, ParentID: uintPtr(2)},
	}

	roots := BuildCommentTree(comments)
	if len(roots) != 1 {
		t.Fatalf("expected 1 root, got %d", len(roots))
	}
	if roots[0].ID != 1 {
		t.Fatalf("expected root id 1, got %d", roots[0].ID)
	}
	if len(roots[0].Children) != 2 {
		t.Fatalf("expected 2 children under root, got %d", len(roots[0].Children))
	}
	if roots[0].Children[0].ID != 2 || roots[0].Children[1].ID != 3 {
		t.Fatalf("children order not preserved: %d, %d",
			roots[0].Children[0].ID, roots[0].Children[1].ID)
	}
	if len(roots[0].Children[0].Children) != 1 || roots[0].Children[0].Children[0].ID != 4 {
		t.Fatal("expected comment 4 nested under comment 2")
	}
}

func TestBuildCommentTreeOrphanBecomesRoot(t *testing.T) {
	comments := []models.Comment{
		{ID: 1},
		{ID: 2, ParentID: uintPtr(1)},
		{ID: 3, ParentID: uintPtr(99)},
	}

	roots := BuildCommentTree(comments)
	if len(roots) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(roots))
	}
	if roots[0].ID != 1 || roots[1].ID != 3 {
		t.Fatalf("expected roots [1 3], got [%d %d]", roots[0].ID, roots[1].ID)
	}
	if len(roots[0].Children) != 1 || roots[0].Children[0].ID != 2 {
		t.Fatal("expected comment 2 under comment 1")
	}
}

func TestBuildCommentTreeEmpty(t *testing.T) {
	if roots := BuildCommentTree(nil); len(roots) != 0 {
		t.Fatalf("expected no roots, got %d", len(roots))
	}
}
