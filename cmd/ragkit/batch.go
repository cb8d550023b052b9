package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ragkit/internal/chunk"
	"ragkit/internal/corpus"
	"ragkit/internal/docmeta"
	"ragkit/internal/sink"
)

type batchOptions struct {
	chunkOptions
	slugPrefix string
}

func batchCmd() *cobra.Command {
	opts := &batchOptions{}

	cmd := &cobra.Command{
		Use:   "batch <folder>",
		Short: "Chunk every document in a folder tree",
		Long: `Batch walks a folder, chunks every markdown and plain-text file in
it, and emits the combined records. Each file's subfolder becomes its
section label unless --section overrides it; --slug-prefix namespaces
the record IDs of the whole batch.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.section, "section", "", "section label applied to every file")
	cmd.Flags().StringVar(&opts.slugPrefix, "slug-prefix", "", "prefix prepended to every derived slug")
	addSharedChunkFlags(cmd, &opts.chunkOptions)

	return cmd
}

func runBatch(cmd *cobra.Command, root string, opts *batchOptions) error {
	files, err := corpus.Scan(cmd.Context(), root)
	if err != nil {
		return err
	}

	embedder := embedderFor(&opts.chunkOptions)

	var records []chunk.Record
	var failed int
	for _, file := range files {
		fileOpts := opts.chunkOptions
		if fileOpts.section == "" && file.Folder != "" {
			fileOpts.section = file.Folder
		}
		if opts.slugPrefix != "" {
			fileOpts.slug = opts.slugPrefix + "-" + docmeta.SlugFromFilename(file.RelPath)
		}

		fileRecords, err := chunkFile(cmd.Context(), file.AbsPath, &fileOpts, embedder)
		if err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "skipping %s: %v\n", file.RelPath, err)
			continue
		}
		records = append(records, fileRecords...)
	}

	if opts.out != "" {
		if err := sink.WriteFile(opts.out, records); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d records from %d files to %s\n", len(records), len(files)-failed, opts.out)
	} else if err := sink.WriteJSONL(cmd.OutOrStdout(), records); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}
