package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	askTopK    int
	askCompare bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the indexed documents",
	Long: `Retrieves the chunks most relevant to the question from the vector
index and passes them as context to the language model.

With --compare the question is also answered without any retrieved
context, so the effect of the indexed documents is visible side by side.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of chunks to retrieve (default from config, else 5)")
	askCmd.Flags().BoolVar(&askCompare, "compare", false, "also answer without retrieved context")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	if answerService == nil {
		return errors.New("answer service not configured")
	}

	ctx := context.Background()
	if err := ensureIndexReady(ctx); err != nil {
		return err
	}

	topK := askTopK
	if topK == 0 && configStore != nil {
		topK = configStore.GetInt("ask.top_k")
	}

	if askCompare {
		answers, err := answerService.AskCompared(ctx, question, topK)
		if err != nil {
			return fmt.Errorf("ask failed: %w", err)
		}
		cmd.Println("Without document context:")
		cmd.Println(answers.Bare)
		cmd.Println()
		cmd.Println("With document context:")
		cmd.Println(answers.Contextual)
		return nil
	}

	answer, err := answerService.Ask(ctx, question, topK)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	cmd.Println(answer)
	return nil
}
