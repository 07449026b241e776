package corpus

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is a document identifier that may be a JSON string or integer. The
// original form is preserved when marshaling back.
type ID struct {
	str   string
	num   int64
	isNum bool
}

// StringID creates a string identifier.
func StringID(s string) ID { return ID{str: s} }

// IntID creates an integer identifier.
func IntID(n int64) ID { return ID{num: n, isNum: true} }

// String renders the identifier for logs and CLI output.
func (id ID) String() string {
	if id.isNum {
		return strconv.FormatInt(id.num, 10)
	}
	return id.str
}

// IsZero reports whether the identifier was absent in the source document.
func (id ID) IsZero() bool { return !id.isNum && id.str == "" }

// UnmarshalJSON accepts both `"doc-1"` and `42`.
func (id *ID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("document id: %w", err)
		}
		*id = ID{str: s}
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("document id must be a string or an integer: %w", err)
	}
	*id = ID{num: n, isNum: true}
	return nil
}

// MarshalJSON emits the identifier in its original JSON form.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.isNum {
		return strconv.AppendInt(nil, id.num, 10), nil
	}
	return json.Marshal(id.str)
}

// Document is one searchable item. Its position in the corpus slice is the
// row index into the embedding matrix; the two must never be reordered
// independently.
type Document struct {
	ID       ID       `json:"id"`
	Text     string   `json:"text"`
	Title    string   `json:"title,omitempty"`
	Author   string   `json:"author,omitempty"`
	Category string   `json:"category,omitempty"`
	Date     string   `json:"date,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}
