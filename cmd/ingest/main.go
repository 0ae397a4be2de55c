package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &ingestOptions{}

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load a reference document into the remedy corpus",
		Long: `Splits a PDF or text document into passages, embeds each passage and
replaces the stored passages of the given source in one transaction.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.path, "path", "p", "", "document to ingest (.pdf or text); defaults to CORPUS_PATH")
	cmd.Flags().StringVarP(&opts.source, "source", "s", "", "corpus source name; defaults to CORPUS_SOURCE")
	cmd.Flags().IntVar(&opts.chunkSize, "chunk-size", 0, "characters per passage; defaults to CHUNK_SIZE")
	cmd.Flags().IntVar(&opts.chunkOverlap, "chunk-overlap", -1, "characters shared by neighbouring passages; defaults to CHUNK_OVERLAP")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "split only and print passage count, no embedding or database writes")

	return cmd
}
