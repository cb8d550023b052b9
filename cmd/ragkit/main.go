package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ragkit",
		Short: "Chunk documents into token-budgeted, overlapping RAG records",
	}

	root.AddCommand(
		chunkCmd(),
		batchCmd(),
	)

	return root
}
