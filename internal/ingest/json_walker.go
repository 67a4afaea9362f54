package ingest

import (
	"fmt"

	"github.com/ohler55/ojg/jp"

	"github.com/ryanping/jsoncrack.com/internal/jsonvalue"
)

// JsonWalker runs JSONPath queries over a parsed document.
type JsonWalker struct{}

func NewJsonWalker() *JsonWalker {
	return &JsonWalker{}
}

// Query evaluates selector against root. Unlike nodepath.Parse the selector
// may match many values (wildcards, filters, descent).
func (w *JsonWalker) Query(root *jsonvalue.Value, selector string) ([]*jsonvalue.Value, error) {
	// Parse JSONPath
	x, err := jp.ParseString(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath '%s': %w", selector, err)
	}

	// Execute query
	results := x.Get(root.ToAny())

	matches := make([]*jsonvalue.Value, 0, len(results))
	for _, r := range results {
		v, err := jsonvalue.FromAny(r)
		if err != nil {
			return nil, fmt.Errorf("jsonpath '%s' match: %w", selector, err)
		}
		matches = append(matches, v)
	}
	return matches, nil
}
