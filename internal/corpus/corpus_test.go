package corpus

import (
	"encoding/json"
	"testing"
)

func TestParseTopLevelArray(t *testing.T) {
	data := []byte(`[
		{"id": 1, "text": "first", "title": "One", "tags": ["a", "b"]},
		{"id": "doc-2", "text": "second", "author": "bob"}
	]`)

	docs, err := Parse(data, "")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].ID.String() != "1" {
		t.Errorf("docs[0].ID = %q, want 1", docs[0].ID.String())
	}
	if docs[1].ID.String() != "doc-2" {
		t.Errorf("docs[1].ID = %q, want doc-2", docs[1].ID.String())
	}
	if docs[0].Title != "One" || docs[1].Author != "bob" {
		t.Errorf("metadata not preserved: %+v", docs)
	}
	if len(docs[0].Tags) != 2 {
		t.Errorf("tags = %v, want [a b]", docs[0].Tags)
	}
}

func TestParseDocumentsObject(t *testing.T) {
	data := []byte(`{"documents": [{"id": 7, "text": "hello"}]}`)

	docs, err := Parse(data, "text")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(docs) != 1 || docs[0].Text != "hello" || docs[0].ID.String() != "7" {
		t.Fatalf("unexpected docs: %+v", docs)
	}
}

func TestParseDirectTextField(t *testing.T) {
	t.Run("single string", func(t *testing.T) {
		docs, err := Parse([]byte(`{"text": "only one"}`), "")
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if len(docs) != 1 || docs[0].Text != "only one" {
			t.Fatalf("unexpected docs: %+v", docs)
		}
	})

	t.Run("string list", func(t *testing.T) {
		docs, err := Parse([]byte(`{"text": ["a", "b", "c"]}`), "")
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if len(docs) != 3 {
			t.Fatalf("expected 3 documents, got %d", len(docs))
		}
		// Documents without an explicit id get their position.
		if docs[2].ID.String() != "2" {
			t.Errorf("docs[2].ID = %q, want 2", docs[2].ID.String())
		}
	})
}

func TestParseBareStringEntries(t *testing.T) {
	docs, err := Parse([]byte(`["alpha", "beta"]`), "")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(docs) != 2 || docs[1].Text != "beta" {
		t.Fatalf("unexpected docs: %+v", docs)
	}
	if docs[0].ID.String() != "0" {
		t.Errorf("docs[0].ID = %q, want positional 0", docs[0].ID.String())
	}
}

func TestParseCustomTextField(t *testing.T) {
	data := []byte(`[{"id": 1, "body": "custom content"}]`)

	docs, err := Parse(data, "body")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if docs[0].Text != "custom content" {
		t.Errorf("Text = %q, want custom content", docs[0].Text)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"scalar", `42`},
		{"missing everything", `{"other": 1}`},
		{"bad json", `[{"id":`},
		{"missing custom field", `[{"id": 1, "text": "x"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field := ""
			if tt.name == "missing custom field" {
				field = "body"
			}
			if _, err := Parse([]byte(tt.data), field); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestIDRoundTrip(t *testing.T) {
	var numeric, str ID
	if err := json.Unmarshal([]byte(`42`), &numeric); err != nil {
		t.Fatalf("unmarshal numeric id: %v", err)
	}
	if err := json.Unmarshal([]byte(`"abc"`), &str); err != nil {
		t.Fatalf("unmarshal string id: %v", err)
	}

	if out, _ := json.Marshal(numeric); string(out) != "42" {
		t.Errorf("numeric id marshals to %s, want 42", out)
	}
	if out, _ := json.Marshal(str); string(out) != `"abc"` {
		t.Errorf("string id marshals to %s, want \"abc\"", out)
	}
}
