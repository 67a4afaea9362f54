package workspace

import (
	"github.com/ryanping/jsoncrack.com/api"
	"github.com/ryanping/jsoncrack.com/internal/graph"
	"github.com/ryanping/jsoncrack.com/internal/session"
)

func SummaryOf(n *graph.Node) api.NodeSummary {
	return api.NodeSummary{
		ID:       n.ID,
		Path:     n.Path.String(),
		Fields:   len(n.Fields),
		Children: len(n.Children),
	}
}

func ViewOf(n *graph.Node, v session.View) api.NodeView {
	return api.NodeView{
		ID:       n.ID,
		Path:     v.Path,
		Pointer:  n.Path.Pointer(),
		Content:  v.Content,
		Children: append([]string(nil), n.Children...),
	}
}

// ResultOf builds the wire result of an Update call.
func ResultOf(ref, document string, err error) api.UpdateResult {
	r := api.UpdateResult{Node: ref, Message: session.MessageFor(err), Document: document}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}
