package mutate

import (
	"testing"

	"github.com/ryanping/jsoncrack.com/internal/ingest"
	"github.com/ryanping/jsoncrack.com/internal/jsonvalue"
)

// FuzzNoOpReplace writes every node's current value back at its own path and
// expects an unchanged document.
func FuzzNoOpReplace(f *testing.F) {
	// Seed corpus
	f.Add(`{"customer": [{"id": 1, "tags": ["a"]}], "name": "x"}`)
	f.Add(`[[1, 2], {"a": {"b": null}}]`)
	f.Add(`42`)

	f.Fuzz(func(t *testing.T, data string) {
		original, err := jsonvalue.Parse(data)
		if err != nil {
			return
		}
		g := ingest.NewEngine().IngestValue(original)

		nodes := g.All()
		// Limit size to avoid timeouts during fuzzing
		if len(nodes) > 50 {
			nodes = nodes[:50]
		}
		for _, n := range nodes {
			v, err := Lookup(data, n.Path)
			if err != nil {
				t.Fatalf("Lookup %s: %v", n.Path, err)
			}
			out, err := ApplyAtPath(data, n.Path, v)
			if err != nil {
				t.Fatalf("ApplyAtPath %s: %v", n.Path, err)
			}
			got, err := jsonvalue.Parse(out)
			if err != nil {
				t.Fatalf("result does not parse: %v", err)
			}
			if !jsonvalue.Equal(original, got) {
				t.Fatalf("no-op replace at %s changed the document", n.Path)
			}
		}
	})
}
