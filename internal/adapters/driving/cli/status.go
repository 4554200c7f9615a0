package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check connectivity to the embedding and generation services",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	cmd.Printf("Embedding (%s): ", a.embedder.ModelName())
	if err := a.embedder.Ping(ctx); err != nil {
		cmd.Printf("unreachable: %v\n", err)
	} else {
		cmd.Println("ok")
	}

	cmd.Printf("LLM (%s): ", a.llm.ModelName())
	if err := a.llm.Ping(ctx); err != nil {
		cmd.Printf("unreachable: %v\n", err)
	} else {
		cmd.Println("ok")
	}

	if a.cfg.Confidence.Policy == "graded" {
		cmd.Printf("Confidence policy: graded (high %.2f, medium %.2f)\n",
			a.cfg.Confidence.High, a.cfg.Confidence.Medium)
	} else {
		cmd.Printf("Confidence policy: binary (threshold %.2f)\n", a.cfg.Confidence.Threshold)
	}
	cmd.Printf("Index store: %s\n", a.store.Path())
	return nil
}
