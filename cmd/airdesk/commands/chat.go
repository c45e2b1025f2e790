package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/airdesk-ai/airdesk/cmd/airdesk/ui"
	"github.com/airdesk-ai/airdesk/internal/conversation"
	"github.com/airdesk-ai/airdesk/internal/engine"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive chat session with the Airdesk assistant.
Type your questions at the prompt; "exit" or "quit" ends the session,
"/clear" starts a fresh conversation and "/stats" shows engine counters.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ui.Init(noColor)
	logger := newLogger(cfg)
	eng := newEngine(cfg, logger)

	convCtx := conversation.NewContext(uuid.NewString(), cfg.Conversation.MaxHistory)
	ctx := context.Background()

	fmt.Println("Namaste! I am Maharaja, your Air India assistant.")
	fmt.Println("Ask me about flights, baggage rules or airline policies.")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	for {
		ui.UserPrompt()
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			return nil
		}
		line = strings.TrimSpace(line)

		switch strings.ToLower(line) {
		case "exit", "quit":
			fmt.Println("Dhanyavaad! Safe travels.")
			return nil
		case "/clear":
			convCtx.Clear()
			ui.Success("Conversation cleared")
			continue
		case "/stats":
			printStats(eng.Stats())
			continue
		case "":
			continue
		}

		sp := ui.NewSpinner("thinking...")
		sp.Start()
		resp := eng.ProcessQuery(ctx, convCtx, line)
		sp.Stop()

		ui.AssistantReply(resp.Text)
		if verbose {
			fmt.Printf("  [intent=%s confidence=%.2f kind=%s elapsed=%s]\n",
				resp.Intent, resp.Confidence, resp.Kind, resp.Elapsed)
		}
		fmt.Println()
	}
}

func printStats(s engine.StatsSnapshot) {
	fmt.Printf("Queries processed: %d\n", s.TotalQueries)
	fmt.Printf("Average latency:   %s\n", s.AvgProcessingTime)
	for intentType, count := range s.IntentDistribution {
		fmt.Printf("  %-16s %d\n", intentType, count)
	}
}
