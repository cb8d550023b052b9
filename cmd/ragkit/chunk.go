package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ragkit/internal/chunk"
	"ragkit/internal/docmeta"
	"ragkit/internal/llm"
	"ragkit/internal/sink"
)

type chunkOptions struct {
	title     string
	slug      string
	section   string
	chunkSize int
	overlap   int
	encoding  string
	out       string

	embeddings     bool
	embeddingURL   string
	embeddingModel string
	embeddingDim   int
}

func chunkCmd() *cobra.Command {
	opts := &chunkOptions{}

	cmd := &cobra.Command{
		Use:   "chunk <file>",
		Short: "Chunk a single document into records",
		Long: `Chunk reads a markdown or plain-text file, splits it into sentences,
packs the sentences into token-budgeted chunks with sentence-aligned
overlap, and emits one record per chunk.

Records go to stdout as line-delimited JSON, or to --out; a .csv
extension selects CSV output. With --embeddings each record carries a
vector generated through an OpenAI-compatible embeddings endpoint.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChunk(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.title, "title", "", "override the document title")
	cmd.Flags().StringVar(&opts.slug, "slug", "", "override the record ID slug")
	cmd.Flags().StringVar(&opts.section, "section", "", "section label for record IDs and metadata")
	addSharedChunkFlags(cmd, opts)

	return cmd
}

// addSharedChunkFlags registers the flags common to chunk and batch.
func addSharedChunkFlags(cmd *cobra.Command, opts *chunkOptions) {
	cmd.Flags().IntVar(&opts.chunkSize, "chunk-size", chunk.DefaultTargetTokens, "target tokens per chunk")
	cmd.Flags().IntVar(&opts.overlap, "overlap", chunk.DefaultOverlapTokens, "overlap token budget between chunks")
	cmd.Flags().StringVar(&opts.encoding, "encoding", chunk.DefaultEncoding, "tiktoken encoding or model name")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output file (.jsonl or .csv); stdout when omitted")
	cmd.Flags().BoolVar(&opts.embeddings, "embeddings", false, "generate an embedding per record")
	cmd.Flags().StringVar(&opts.embeddingURL, "embedding-url", "http://localhost:8081", "embeddings endpoint base URL")
	cmd.Flags().StringVar(&opts.embeddingModel, "embedding-model", "granite-embedding-278m-multilingual", "embedding model name")
	cmd.Flags().IntVar(&opts.embeddingDim, "embedding-dim", 768, "expected embedding vector size")
}

// embedderFor returns the embeddings client for the flags, or nil when
// embeddings were not requested. The API key comes from EMBEDDING_API_KEY.
func embedderFor(opts *chunkOptions) *llm.EmbeddingsClient {
	if !opts.embeddings {
		return nil
	}
	apiKey := os.Getenv("EMBEDDING_API_KEY")
	if apiKey == "" {
		apiKey = "dummy-key"
	}
	return llm.NewEmbeddingsClient(opts.embeddingURL, apiKey, opts.embeddingModel, opts.embeddingDim)
}

func runChunk(cmd *cobra.Command, path string, opts *chunkOptions) error {
	records, err := chunkFile(cmd.Context(), path, opts, embedderFor(opts))
	if err != nil {
		return err
	}

	if opts.out != "" {
		if err := sink.WriteFile(opts.out, records); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d records to %s\n", len(records), opts.out)
		return nil
	}

	return sink.WriteJSONL(cmd.OutOrStdout(), records)
}

// chunkFile runs the full chunking core over one file: metadata, sentence
// split, packing, record assembly, and optional embeddings.
func chunkFile(ctx context.Context, path string, opts *chunkOptions, embedder *llm.EmbeddingsClient) ([]chunk.Record, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	counter := chunk.NewTokenCounter(opts.encoding)
	packer, err := chunk.NewPacker(counter, opts.chunkSize, opts.overlap)
	if err != nil {
		return nil, err
	}

	meta, section := docmeta.Build(path, content, docmeta.Overrides{
		Title:   opts.title,
		Slug:    opts.slug,
		Section: opts.section,
	})

	chunks := packer.PackText(string(content))

	var embeddings [][]float32
	if embedder != nil && len(chunks) > 0 {
		embeddings, err = embedder.EmbedTexts(ctx, chunks)
		if err != nil {
			return nil, fmt.Errorf("failed to generate embeddings: %w", err)
		}
	}

	return chunk.BuildRecords(chunks, meta, section, embeddings), nil
}
