// ABOUTME: Chat command group for lettre CLI
// ABOUTME: Asks the support assistant and reports answer feedback

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plumecompta/lettre-cli/internal/client"
)

var (
	chatHelpful  bool
	chatQuery    string
	chatResponse string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the support assistant",
}

var chatAskCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Ask the support assistant a question",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int {
			return runChatAsk(ctx, os.Stdout, strings.Join(args, " "))
		})
	},
}

var chatFeedbackCmd = &cobra.Command{
	Use:   "feedback <message-id>",
	Short: "Rate an assistant answer",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int {
			return runChatFeedback(ctx, os.Stdout, args[0])
		})
	},
}

func init() {
	chatFeedbackCmd.Flags().BoolVar(&chatHelpful, "helpful", false, "Mark the answer as helpful")
	chatFeedbackCmd.Flags().StringVar(&chatQuery, "query", "", "The question the answer was for")
	chatFeedbackCmd.Flags().StringVar(&chatResponse, "response", "", "The answer being rated")
	chatCmd.AddCommand(chatAskCmd)
	chatCmd.AddCommand(chatFeedbackCmd)
	rootCmd.AddCommand(chatCmd)
}

// runChatAsk sends one message and prints the answer, returning exit code
func runChatAsk(ctx context.Context, w io.Writer, message string) int {
	api, _, ok := requireSession(ctx, w)
	if !ok {
		return 1
	}

	resp, err := api.Chat(ctx, []client.ChatMessage{{Role: "user", Content: message}})
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Fprintln(w, string(data))
		return 0
	}

	fmt.Fprintln(w, resp.Response)
	if resp.MessageID != "" {
		fmt.Fprintf(w, "\n(id %s — notez la réponse avec `lettre chat feedback`)\n", resp.MessageID)
	}
	return 0
}

// runChatFeedback reports whether an answer helped, returning exit code
func runChatFeedback(ctx context.Context, w io.Writer, messageID string) int {
	api, _, ok := requireSession(ctx, w)
	if !ok {
		return 1
	}

	feedback := "not_helpful"
	if chatHelpful {
		feedback = "helpful"
	}

	err := api.SendChatFeedback(ctx, client.ChatFeedbackInput{
		MessageID: messageID,
		Feedback:  feedback,
		Query:     chatQuery,
		Response:  chatResponse,
	})
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	fmt.Fprintln(w, "Merci pour votre retour.")
	return 0
}
