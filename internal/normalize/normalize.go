// Package normalize turns a node's flattened field rows into the text shown
// for the node and used to seed its edit buffer.
package normalize

import (
	"github.com/ryanping/jsoncrack.com/internal/jsonvalue"
)

// FieldRow is one flattened field of a graph node. HasKey is false when the
// node itself is a bare scalar; the empty string is a valid member key. Rows
// typed array or object stand for nested containers that are rendered as
// separate child nodes.
type FieldRow struct {
	Key    string
	HasKey bool
	Value  *jsonvalue.Value
	Type   jsonvalue.Kind
}

// Field returns the row for an object member.
func Field(key string, v *jsonvalue.Value) FieldRow {
	return FieldRow{Key: key, HasKey: true, Value: v, Type: v.Kind()}
}

// Bare returns the single row of a scalar node.
func Bare(v *jsonvalue.Value) FieldRow {
	return FieldRow{Value: v, Type: v.Kind()}
}

// IsContainer reports whether the row stands for a nested array or object.
func (r FieldRow) IsContainer() bool {
	return r.Type.IsContainer()
}

// Normalize renders rows as display text:
//   - no rows: "{}"
//   - a single unkeyed row: the canonical text of its value
//   - otherwise: the keyed scalar rows as a two-space indented object
//
// Container rows and unkeyed rows in a multi-row node are dropped.
func Normalize(rows []FieldRow) string {
	if len(rows) == 0 {
		return "{}"
	}
	if IsBareScalar(rows) {
		return rows[0].Value.Text()
	}
	return jsonvalue.MarshalIndent(Object(rows))
}

// Object collects the inline fields of rows into an object value, in row
// order.
func Object(rows []FieldRow) *jsonvalue.Value {
	members := make([]jsonvalue.Member, 0, len(rows))
	for _, r := range rows {
		if r.IsContainer() || !r.HasKey {
			continue
		}
		members = append(members, jsonvalue.Member{Key: r.Key, Value: r.Value})
	}
	return jsonvalue.Object(members...)
}

// IsBareScalar reports whether rows describe a node that is a single value
// rather than an object.
func IsBareScalar(rows []FieldRow) bool {
	return len(rows) == 1 && !rows[0].HasKey
}
