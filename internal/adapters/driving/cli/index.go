package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leasewise/leasewise-cli/internal/adapters/driven/docsource"
	"github.com/leasewise/leasewise-cli/internal/core/domain"
)

var indexForce bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the document index",
}

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build (or rebuild) the index for the configured document",
	RunE:  runIndexBuild,
}

var indexStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the stored index for the configured document",
	RunE:  runIndexStatus,
}

func init() {
	indexBuildCmd.Flags().BoolVar(&indexForce, "force", false, "discard any stored index first")
	indexCmd.AddCommand(indexBuildCmd)
	indexCmd.AddCommand(indexStatusCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndexBuild(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := context.Background()

	if indexForce {
		doc, err := docsource.NewFileSource().Load(ctx, a.docPath)
		if err != nil {
			return err
		}
		if err := a.store.Delete(ctx, doc.Signature); err != nil {
			return fmt.Errorf("discarding stored index: %w", err)
		}
	}

	index, err := a.indexes.GetIndex(ctx, a.docPath)
	if err != nil {
		return err
	}

	cmd.Printf("Index ready: %d chunks\n", index.Len())
	cmd.Printf("  Signature: %s\n", index.Manifest.Signature)
	cmd.Printf("  Model:     %s (%d dims)\n", index.Manifest.EmbeddingModel, index.Manifest.Dimensions)
	cmd.Printf("  Chunking:  size %d, overlap %d\n", index.Manifest.ChunkSize, index.Manifest.ChunkOverlap)
	return nil
}

func runIndexStatus(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := context.Background()

	doc, err := docsource.NewFileSource().Load(ctx, a.docPath)
	if err != nil {
		return err
	}
	cmd.Printf("Document:  %s\n", doc.URI)
	cmd.Printf("Signature: %s\n", doc.Signature)
	cmd.Printf("Pages:     %d\n", len(doc.Pages))

	index, err := a.store.Read(ctx, doc.Signature)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			cmd.Println("Stored index: none (will build on first ask)")
			return nil
		}
		return err
	}

	cmd.Printf("Stored index: %d chunks, built %s with %s\n",
		index.Len(),
		index.Manifest.CreatedAt.Format("2006-01-02 15:04:05"),
		index.Manifest.EmbeddingModel)
	return nil
}
