package terms

import (
	"github.com/disiqueira/gotree" // lib for printing tree structure in terminal
)

// Display renders the parsed document as a terminal tree, convenient for
// inspecting the terms of a live agreement.
func Display(doc Doc) string {
	root := gotree.New("Terms")
	for _, clause := range doc.Clauses {
		node := root.Add(clause.Key)
		node.Add(clause.Value.Text())
	}
	return root.Print()
}
