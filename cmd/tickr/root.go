package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tickr-ai/tickr/pkg/agent"
	"github.com/tickr-ai/tickr/pkg/config"
	"github.com/tickr-ai/tickr/pkg/llm"
)

const version = "0.1.0"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tickr",
		Short:         "LLM agents for crypto market data, trading, news and web research",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().String("config", "", "Path to config file (default: ~/.tickr/config.yaml)")

	cmd.AddCommand(newChatCmd())
	cmd.AddCommand(newToolsCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return config.Load(path)
}

func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session with an agent",
		RunE:  runChat,
	}
	cmd.Flags().String("agent", "coordinator", "Agent to chat with: "+strings.Join(agent.Names(), ", "))
	return cmd
}

func runChat(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("agent")
	bundle, err := agent.ByName(cfg, name)
	if err != nil {
		return err
	}

	client, err := llm.NewClient(cfg)
	if err != nil {
		return err
	}
	runner := agent.NewRunner(client, bundle, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("tickr %s agent (%d tools). Type your question, or 'exit' to quit.\n", bundle.Name, len(bundle.Tools.Tools()))

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			return nil
		}

		answer, err := runner.Run(ctx, input)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Fprintln(os.Stderr, "Error:", err)
			continue
		}
		fmt.Printf("\n%s\n\n", answer)
	}
}

func newToolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List available tools",
		RunE:  runTools,
	}
	cmd.Flags().String("agent", "coordinator", "Limit the listing to one agent's tools")
	return cmd
}

func runTools(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("agent")
	bundle, err := agent.ByName(cfg, name)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDESCRIPTION")
	for _, t := range bundle.Tools.Tools() {
		fmt.Fprintf(w, "%s\t%s\n", t.Name(), t.Description())
	}
	return w.Flush()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tickr version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tickr v%s\n", version)
		},
	}
}
