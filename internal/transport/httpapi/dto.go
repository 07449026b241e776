package httpapi

import (
	searchuc "github.com/kailas-cloud/docsearch/internal/usecase/search"
)

// notAvailable fills absent metadata fields in responses.
const notAvailable = "N/A"

type searchRequest struct {
	Query string `json:"query"`
	// TopK decodes as float64 so a fractional value can be rejected with a
	// clear message instead of a generic decode error.
	TopK *float64 `json:"top_k"`
}

type searchResponse struct {
	Query        string             `json:"query"`
	TopK         int                `json:"top_k"`
	TotalResults int                `json:"total_results"`
	Results      []searchResultItem `json:"results"`
}

type searchResultItem struct {
	DocumentID      any      `json:"document_id"`
	SimilarityScore float64  `json:"similarity_score"`
	Title           string   `json:"title"`
	Category        string   `json:"category"`
	Author          string   `json:"author"`
	TextPreview     string   `json:"text_preview"`
	Date            string   `json:"date"`
	Tags            []string `json:"tags"`
}

type healthResponse struct {
	Status              string            `json:"status"`
	SearcherInitialized bool              `json:"searcher_initialized"`
	Checks              map[string]string `json:"checks,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// resultFromMatch shapes one match for transport, truncating the text preview
// for transport economy.
func resultFromMatch(m *searchuc.Match, previewLen int) searchResultItem {
	doc := &m.Document

	tags := doc.Tags
	if tags == nil {
		tags = []string{}
	}

	return searchResultItem{
		DocumentID:      doc.ID,
		SimilarityScore: m.Score,
		Title:           orNA(doc.Title),
		Category:        orNA(doc.Category),
		Author:          orNA(doc.Author),
		TextPreview:     preview(doc.Text, previewLen),
		Date:            orNA(doc.Date),
		Tags:            tags,
	}
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}

// preview truncates text to n characters (runes, not bytes) with a trailing
// ellipsis marker.
func preview(text string, n int) string {
	if text == "" {
		return notAvailable
	}
	runes := []rune(text)
	if len(runes) > n {
		runes = runes[:n]
	}
	return string(runes) + "..."
}
