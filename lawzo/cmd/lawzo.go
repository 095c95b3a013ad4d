// Command lawzo is a terminal front end for the legal assistant.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"lawzo/lawzo/agents/core"
	"lawzo/lawzo/bootstrap"
	"lawzo/lawzo/config"
	"lawzo/lawzo/utils/color"
	"lawzo/lawzo/utils/logging"
	"lawzo/lawzo/utils/types"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const cliUserID = "cli"

func main() {
	logging.InitLogger("./logs")
	defer logging.Sync()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.ColorError(err.Error()))
		logging.Sync()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lawzo",
		Short:         "Lawzo legal assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newChatCmd(), newCategoriesCmd())
	return root
}

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Print the supported legal categories and languages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := config.LoadCatalog(config.LoadConfig().CatalogFile)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, color.ColorPrompt("Categories"))
			for _, c := range catalog.Categories {
				fmt.Fprintln(out, "  "+c)
			}
			fmt.Fprintln(out, color.ColorPrompt("Languages"))
			for _, name := range catalog.LanguageNames() {
				fmt.Fprintf(out, "  %s (%s)\n", name, catalog.LanguageCode(name))
			}
			return nil
		},
	}
}

type chatOptions struct {
	category string
	language string
	strict   bool
	persist  bool
}

func newChatCmd() *cobra.Command {
	var opts chatOptions
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Ask legal questions interactively",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChat(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.category, "category", "c", "", "legal category, e.g. \"Criminal Law\"")
	cmd.Flags().StringVarP(&opts.language, "language", "l", "", "answer language")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "reject questions outside the category")
	cmd.Flags().BoolVar(&opts.persist, "persist", false, "store the conversation")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func runChat(ctx context.Context, opts chatOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := config.LoadConfig()

	startCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	app, err := bootstrap.Build(startCtx, cfg)
	cancel()
	if err != nil {
		return err
	}
	defer app.Close()

	category, ok := app.Catalog.Canonical(opts.category)
	if !ok {
		return fmt.Errorf("unknown category %q, see `lawzo categories`", opts.category)
	}
	if opts.language != "" && !app.Catalog.HasLanguage(opts.language) {
		return fmt.Errorf("unsupported language %q", opts.language)
	}

	sessionID := uuid.NewString()
	logging.AppLogger.Info("cli session started",
		zap.String("session_id", sessionID),
		zap.String("category", category),
	)

	fmt.Println(color.ColorInfo(fmt.Sprintf("Lawzo is ready to help with %s.", category)))
	fmt.Println(color.ColorInfo("Session: " + sessionID))
	fmt.Println(color.ColorInfo("Type your question or 'exit' to quit."))
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(color.ColorPrompt("lawzo> "))
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "exit" || line == "quit" {
			break
		}
		if line == "" {
			continue
		}

		resp, err := app.Pipeline.Handle(ctx, core.Request{
			Query:     line,
			Category:  category,
			Language:  opts.language,
			SessionID: sessionID,
			UserID:    cliUserID,
			Strict:    opts.strict,
			Persist:   opts.persist,
			Observer: func(s core.Stage) {
				logging.AppLogger.Debug("stage", zap.String("stage", string(s)))
			},
		})
		if err != nil {
			fmt.Println(color.ColorError(err.Error()))
			continue
		}
		printResponse(resp)
	}
	fmt.Println(color.ColorInfo("Goodbye!"))
	return scanner.Err()
}

func printResponse(resp *types.ChatResponse) {
	fmt.Println(color.ColorAnswer(resp.MessageType, resp.Answer))
	for _, s := range resp.Sources {
		fmt.Println(color.ColorSource("  source: " + s))
	}
	if len(resp.SuggestedQuestions) > 0 {
		fmt.Println(color.ColorInfo("You could also ask:"))
		for _, q := range resp.SuggestedQuestions {
			fmt.Println("  - " + q)
		}
	}
	fmt.Println()
}
