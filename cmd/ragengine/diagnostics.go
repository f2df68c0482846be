package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tangerg/ragengine/docstore/memory"
	"github.com/tangerg/ragengine/maintenance"
)

var diagnosticsCmd = &cobra.Command{
	Use:   "diagnostics",
	Short: "Report collection/document/chunk counts and embedding health",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := memory.New()

		ctx := context.Background()
		d, err := maintenance.Diagnose(ctx, store)
		if err != nil {
			return err
		}

		fmt.Printf("collections=%d documents=%d chunks=%d chunks_without_embedding=%d failed_documents=%d storage_bytes=%d\n",
			d.Collections, d.Documents, d.Chunks, d.ChunksWithoutEmbedding, d.FailedDocuments, d.StorageBytes)

		verify, err := maintenance.VerifyEmbeddings(ctx, store)
		if err != nil {
			return err
		}
		fmt.Printf("embedding_width_consistent=%v total_chunks=%d width=%d\n", verify.Consistent, verify.TotalChunks, verify.Width)
		return nil
	},
}
