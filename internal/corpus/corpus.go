// Package corpus loads document metadata from JSON. A corpus is an ordered
// document sequence; its order is the only linkage to the embedding matrix.
package corpus

import (
	"encoding/json"
	"fmt"
	"os"
)

// DefaultTextField is the document field embedded and searched by default.
const DefaultTextField = "text"

// Load reads a corpus from a JSON file. Accepted shapes: a top-level array of
// document objects (or bare strings), an object with a `documents` array, or
// an object carrying the text field directly.
func Load(path, textField string) ([]Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus file: %w", err)
	}

	docs, err := Parse(data, textField)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return docs, nil
}

// Parse decodes corpus JSON into an ordered document sequence.
func Parse(data []byte, textField string) ([]Document, error) {
	if textField == "" {
		textField = DefaultTextField
	}

	data = trimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty corpus")
	}

	switch data[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("decode document array: %w", err)
		}
		return parseItems(items, textField)
	case '{':
		return parseObject(data, textField)
	default:
		return nil, fmt.Errorf("corpus must be a JSON array or object")
	}
}

func parseObject(data []byte, textField string) ([]Document, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("decode corpus object: %w", err)
	}

	if raw, ok := obj["documents"]; ok {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decode documents array: %w", err)
		}
		return parseItems(items, textField)
	}

	raw, ok := obj[textField]
	if !ok {
		return nil, fmt.Errorf("corpus object has neither a documents array nor a %q field", textField)
	}

	// Direct text field: a single string or a list of strings.
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return assignPositionalIDs([]Document{{Text: text}}), nil
	}
	var texts []string
	if err := json.Unmarshal(raw, &texts); err != nil {
		return nil, fmt.Errorf("field %q must be a string or an array of strings", textField)
	}
	docs := make([]Document, len(texts))
	for i, t := range texts {
		docs[i] = Document{Text: t}
	}
	return assignPositionalIDs(docs), nil
}

func parseItems(items []json.RawMessage, textField string) ([]Document, error) {
	docs := make([]Document, 0, len(items))
	for i, item := range items {
		doc, err := parseItem(item, textField)
		if err != nil {
			return nil, fmt.Errorf("document [%d]: %w", i, err)
		}
		docs = append(docs, doc)
	}
	return assignPositionalIDs(docs), nil
}

func parseItem(item json.RawMessage, textField string) (Document, error) {
	item = trimSpace(item)
	if len(item) > 0 && item[0] == '"' {
		var text string
		if err := json.Unmarshal(item, &text); err != nil {
			return Document{}, fmt.Errorf("decode text entry: %w", err)
		}
		return Document{Text: text}, nil
	}

	var doc Document
	if err := json.Unmarshal(item, &doc); err != nil {
		return Document{}, fmt.Errorf("decode document object: %w", err)
	}

	if textField != DefaultTextField {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil {
			return Document{}, fmt.Errorf("decode document fields: %w", err)
		}
		raw, ok := fields[textField]
		if !ok {
			return Document{}, fmt.Errorf("missing text field %q", textField)
		}
		if err := json.Unmarshal(raw, &doc.Text); err != nil {
			return Document{}, fmt.Errorf("field %q must be a string: %w", textField, err)
		}
	}

	return doc, nil
}

// assignPositionalIDs fills missing identifiers with the document's index, so
// positional joins always have a stable id to report.
func assignPositionalIDs(docs []Document) []Document {
	for i := range docs {
		if docs[i].ID.IsZero() {
			docs[i].ID = IntID(int64(i))
		}
	}
	return docs
}

// Texts extracts the embedded field from each document, skipping none:
// documents without text embed as the empty string to preserve row alignment.
func Texts(docs []Document) []string {
	texts := make([]string, len(docs))
	for i := range docs {
		texts[i] = docs[i].Text
	}
	return texts
}

func trimSpace(data []byte) []byte {
	start := 0
	for start < len(data) && isSpace(data[start]) {
		start++
	}
	end := len(data)
	for end > start && isSpace(data[end-1]) {
		end--
	}
	return data[start:end]
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
