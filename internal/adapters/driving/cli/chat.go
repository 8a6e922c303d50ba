package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/veldt-labs/boxrag-cli/internal/adapters/driving/tui"
)

var chatTopK int

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask questions interactively",
	Long: `Starts an interactive session. Each question is answered with context
retrieved from the indexed documents. Quit with q or Ctrl+C.

When stdin is not a terminal the session falls back to a plain
line-based loop, so questions can be piped in.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().IntVarP(&chatTopK, "top-k", "k", 0, "number of chunks to retrieve per question")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if answerService == nil {
		return errors.New("answer service not configured")
	}

	if err := ensureIndexReady(context.Background()); err != nil {
		return err
	}

	topK := chatTopK
	if topK == 0 && configStore != nil {
		topK = configStore.GetInt("ask.top_k")
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		model := tui.NewChatModel(answerService, topK)
		program := tea.NewProgram(model, tea.WithAltScreen())
		_, err := program.Run()
		return err
	}

	return runChatPlain(cmd, topK)
}

// runChatPlain reads questions line by line, for piped input.
func runChatPlain(cmd *cobra.Command, topK int) error {
	ctx := context.Background()
	scanner := bufio.NewScanner(cmd.InOrStdin())

	cmd.Println("Ask a question (q to quit):")
	for scanner.Scan() {
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "q" {
			break
		}

		answer, err := answerService.Ask(ctx, question, topK)
		if err != nil {
			cmd.PrintErrf("error: %v\n", err)
			continue
		}
		cmd.Println(answer)
		cmd.Println()
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}
