package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the configured contract",
	Long: `Asks a question against the active contract document.

The index is built (or rebuilt, if the document changed) on first use;
that cost is paid inline. Comprehensive questions ("what do I need to
do before moving out?") are detected automatically and answered by
synthesising every relevant clause.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := context.Background()

	index, err := a.indexes.GetIndex(ctx, a.docPath)
	if err != nil {
		return fmt.Errorf("preparing index: %w", err)
	}

	result, err := a.assistant.Ask(ctx, args[0], index)
	if err != nil {
		return fmt.Errorf("answering: %w", err)
	}

	if askJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(result.Answer)

	if result.Reference != nil {
		cmd.Println()
		if result.IsComprehensive {
			pages := make([]string, len(result.Reference.Pages))
			for i, p := range result.Reference.Pages {
				pages[i] = fmt.Sprintf("%d", p+1)
			}
			cmd.Printf("Based on %d clauses across pages %s (topics: %s)\n",
				result.Reference.NumClauses,
				strings.Join(pages, ", "),
				strings.Join(result.Reference.Topics, ", "))
		} else {
			cmd.Printf("Reference (Page %d): %q\n", result.Reference.Page+1, result.Reference.Text)
		}
	}

	if result.Escalate {
		cmd.Println()
		cmd.Println("Tip: a human agent may be able to help with this one.")
	}

	return nil
}
