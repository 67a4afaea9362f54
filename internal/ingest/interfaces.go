package ingest

import "github.com/ryanping/jsoncrack.com/internal/jsonvalue"

// Walker runs a selector against a parsed document and returns every match.
// JsonWalker is the JSONPath implementation.
type Walker interface {
	Query(root *jsonvalue.Value, selector string) ([]*jsonvalue.Value, error)
}

var _ Walker = (*JsonWalker)(nil)
