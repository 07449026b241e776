// Command vectorize embeds a JSON corpus into a dense matrix and persists it
// as an .npy file, one row per document in source order.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docsearch/internal/config"
	"github.com/kailas-cloud/docsearch/internal/corpus"
	"github.com/kailas-cloud/docsearch/internal/domain"
	logpkg "github.com/kailas-cloud/docsearch/internal/logger"
	"github.com/kailas-cloud/docsearch/internal/metrics"
	"github.com/kailas-cloud/docsearch/internal/npy"
	openaiEmb "github.com/kailas-cloud/docsearch/internal/transport/openai"
)

// embedBatchSize bounds one embeddings API call.
const embedBatchSize = 128

func main() {
	_ = godotenv.Load()

	dataPath := flag.String("data", "", "path to the corpus JSON file (default from config)")
	outPath := flag.String("out", "", "path for the output .npy matrix (default from config)")
	textField := flag.String("text-field", "", "document field to embed (default from config)")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall embedding timeout")
	flag.Parse()

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if *dataPath == "" {
		*dataPath = cfg.Search.DataPath
	}
	if *outPath == "" {
		*outPath = cfg.Search.EmbeddingsPath
	}
	if *textField == "" {
		*textField = cfg.Search.TextField
	}

	docs, err := corpus.Load(*dataPath, *textField)
	if err != nil {
		logger.Fatal("Failed to load corpus", zap.Error(err))
	}
	if len(docs) == 0 {
		logger.Fatal("No documents to vectorize", zap.String("data", *dataPath))
	}
	logger.Info("Corpus loaded", zap.String("data", *dataPath), zap.Int("documents", len(docs)))

	metrics.RegisterEmbeddingMetrics()

	embedder := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Logger:     logger,
	})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	texts := corpus.Texts(docs)
	matrix, tokens, err := vectorize(ctx, embedder, texts)
	if err != nil {
		logger.Fatal("Vectorization failed", zap.Error(err))
	}

	if err := npy.WriteFile(*outPath, matrix); err != nil {
		logger.Fatal("Failed to save embeddings", zap.Error(err))
	}

	logger.Info("Embeddings saved",
		zap.String("out", *outPath),
		zap.Int("rows", matrix.Rows),
		zap.Int("dimensions", matrix.Cols),
		zap.Int("total_tokens", tokens),
	)
}

// vectorize embeds all texts in batches and assembles the row-major matrix.
// Row order matches input order; a width change mid-corpus is a provider bug
// and aborts the run.
func vectorize(ctx context.Context, embedder domain.Embedder, texts []string) (*npy.Matrix, int, error) {
	var (
		data   []float32
		cols   int
		tokens int
	)

	for start := 0; start < len(texts); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(texts) {
			end = len(texts)
		}

		res, err := embedBatch(ctx, embedder, texts[start:end])
		if err != nil {
			return nil, 0, fmt.Errorf("embed batch [%d:%d]: %w", start, end, err)
		}
		tokens += res.TotalTokens

		for i, vec := range res.Embeddings {
			if cols == 0 {
				cols = len(vec)
			}
			if len(vec) != cols {
				return nil, 0, fmt.Errorf("document %d: got %d dimensions, expected %d", start+i, len(vec), cols)
			}
			data = append(data, vec...)
		}
	}

	return &npy.Matrix{Rows: len(texts), Cols: cols, Data: data}, tokens, nil
}

// embedBatch uses native batch embedding when the provider supports it and
// falls back to one call per text otherwise.
func embedBatch(ctx context.Context, embedder domain.Embedder, texts []string) (domain.BatchEmbeddingResult, error) {
	if be, ok := embedder.(domain.BatchEmbedder); ok {
		return be.BatchEmbed(ctx, texts)
	}
	return domain.BatchFallback(ctx, embedder, texts)
}
