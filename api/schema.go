package api

// NodeSummary is one line of a node listing.
type NodeSummary struct {
	ID       string `json:"id"`
	Path     string `json:"path"`
	Fields   int    `json:"fields"`   // Number of field rows, container rows included
	Children int    `json:"children"` // Number of child nodes
}

// NodeView is the display of a single node.
type NodeView struct {
	ID      string `json:"id"`
	Path    string `json:"path"`
	Pointer string `json:"pointer"` // RFC 6901 pointer to the node's value
	// Content is the normalized text shown for the node and used to seed
	// the edit buffer.
	Content  string   `json:"content"`
	Children []string `json:"children,omitempty"`
}

// UpdateResult reports a node update.
type UpdateResult struct {
	Node     string `json:"node"`
	Message  string `json:"message"`
	Document string `json:"document,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Match is one result of a JSONPath query.
type Match struct {
	Value string `json:"value"` // Match rendered as indented JSON
}
