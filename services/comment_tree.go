package services

import "github.com/kovaikural/kural/models"

// CommentNode is a comment with its direct replies attached.
type CommentNode struct {
	models.Comment
	Children []*CommentNode `json:"children"`
}

// BuildCommentTree nests a flat comment list by ParentID in two passes.
// Comments whose parent is missing (deleted or never existed) become roots so
// no reply is silently dropped. Sibling order follows input order.
func BuildCommentTree(comments []models.Comment) []*CommentNode {
	nodes := make(map[uint]*CommentNode, len(comments))
	for i := range comments {
		nodes[comments[i].ID] = &CommentNode{
			Comment:  comments[i],
			Children: []*CommentNode{},
		}
	}

	roots := []*CommentNode{}
	for i := range comments {
		node := nodes[comments[i].ID]
		if pid := comments[i].ParentID; pid != nil {
			if parent, ok := nodes[*pid]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}
