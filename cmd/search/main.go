// Command search runs a one-shot query against a vectorized corpus and
// prints the ranked matches.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/kailas-cloud/docsearch/internal/config"
	"github.com/kailas-cloud/docsearch/internal/corpus"
	"github.com/kailas-cloud/docsearch/internal/metrics"
	"github.com/kailas-cloud/docsearch/internal/npy"
	"github.com/kailas-cloud/docsearch/internal/ranker"
	openaiEmb "github.com/kailas-cloud/docsearch/internal/transport/openai"
	searchuc "github.com/kailas-cloud/docsearch/internal/usecase/search"
)

const previewLen = 200

func main() {
	_ = godotenv.Load()

	embeddingsPath := flag.String("embeddings", "", "path to the .npy embeddings file (default from config)")
	dataPath := flag.String("data", "", "path to the corpus JSON file (default from config)")
	topK := flag.Int("top-k", 5, "number of top results to return")
	timeout := flag.Duration("timeout", 30*time.Second, "query embedding timeout")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: search [flags] <query>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	query := flag.Arg(0)

	cfg, err := config.Load(config.GetEnv())
	if err != nil {
		fatal("failed to load config:", err)
	}
	if *embeddingsPath == "" {
		*embeddingsPath = cfg.Search.EmbeddingsPath
	}
	if *dataPath == "" {
		*dataPath = cfg.Search.DataPath
	}

	matrix, err := npy.ReadFile(*embeddingsPath)
	if err != nil {
		fatal("failed to load embeddings (run vectorize first):", err)
	}
	docs, err := corpus.Load(*dataPath, cfg.Search.TextField)
	if err != nil {
		fatal("failed to load corpus:", err)
	}

	rk, err := ranker.New(matrix)
	if err != nil {
		fatal("failed to build ranker:", err)
	}

	metrics.RegisterEmbeddingMetrics()

	embedder := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
	})

	svc, err := searchuc.New(rk, docs, embedder)
	if err != nil {
		fatal("failed to create search service:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	matches, err := svc.Search(ctx, query, *topK)
	if err != nil {
		fatal("search failed:", err)
	}

	printResults(query, matches)
}

func printResults(query string, matches []searchuc.Match) {
	rule := strings.Repeat("=", 80)
	fmt.Println(rule)
	fmt.Println("SEARCH RESULTS for:", query)
	fmt.Println(rule)

	for i, m := range matches {
		doc := m.Document
		fmt.Printf("\n%d. Document ID: %s\n", i+1, doc.ID)
		fmt.Printf("   Similarity Score: %.4f\n", m.Score)
		if doc.Title != "" {
			fmt.Printf("   Title: %s\n", doc.Title)
		}
		if doc.Category != "" {
			fmt.Printf("   Category: %s\n", doc.Category)
		}
		if doc.Author != "" {
			fmt.Printf("   Author: %s\n", doc.Author)
		}
		fmt.Printf("   Text Preview: %s\n", preview(doc.Text))
		fmt.Println(strings.Repeat("-", 80))
	}
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) > previewLen {
		runes = runes[:previewLen]
	}
	return string(runes) + "..."
}

func fatal(msg string, err error) {
	fmt.Fprintln(os.Stderr, "Error:", msg, err)
	os.Exit(1)
}
