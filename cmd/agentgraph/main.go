// Command agentgraph is an interactive front end for the multi-assistant
// conversation router. It loads configuration from a YAML file and the
// environment, builds the selected model backend and checkpoint store, and
// runs a REPL chat session.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hupe1980/agentgraph"
	"github.com/hupe1980/agentgraph/checkpoint"
	"github.com/hupe1980/agentgraph/config"
	"github.com/hupe1980/agentgraph/logging"
	"github.com/hupe1980/agentgraph/model"
	"github.com/hupe1980/agentgraph/model/anthropic"
	"github.com/hupe1980/agentgraph/model/openai"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "agentgraph",
		Short:         "Multi-assistant conversation router",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newChatCmd())
	return cmd
}

func newChatCmd() *cobra.Command {
	var (
		configPath  string
		sessionID   string
		modelName   string
		agentModels map[string]string
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Optional; API keys may come from the real environment.
			_ = godotenv.Load()

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if modelName != "" {
				cfg.DefaultModel = modelName
			}
			for agentName, m := range agentModels {
				cfg.Models[agentName] = m
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := logging.New(&logging.Config{
				Level:  logging.ParseLevel(cfg.Logging.Level),
				Format: cfg.Logging.Format,
				Output: os.Stderr,
			})

			store, err := buildStore(ctx, cfg)
			if err != nil {
				return err
			}

			sys, err := agentgraph.New(buildModel(cfg, ""), func(o *agentgraph.Options) {
				o.Store = store
				o.Logger = logger
				o.MaxEmptyRetries = cfg.MaxEmptyRetries
				o.Models = perAgentModels(cfg)
			})
			if err != nil {
				return err
			}

			if sessionID == "" {
				sessionID = agentgraph.NewSessionID()
			}
			fmt.Printf("Session %s (provider %s). Type 'quit' to exit.\n", sessionID, cfg.Provider)

			return repl(ctx, sys, sessionID)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "session id to resume (default: new session)")
	cmd.Flags().StringVarP(&modelName, "model", "m", "", "default model name override")
	cmd.Flags().StringToStringVar(&agentModels, "agent-model", nil, "per-assistant model overrides (assistant=model)")
	return cmd
}

func repl(ctx context.Context, sys *agentgraph.System, sessionID string) error {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}

		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text == "quit" || text == "exit" {
			fmt.Println("Assistant: Goodbye!")
			return nil
		}

		reply, err := sys.Send(ctx, sessionID, text)
		if err != nil {
			if ctx.Err() != nil {
				fmt.Println("\nAssistant: Goodbye!")
				return nil
			}
			fmt.Fprintln(os.Stderr, "Error:", err)
			continue
		}
		fmt.Println("Assistant:", reply)
	}
}

// buildModel constructs the configured backend. name overrides the config's
// resolved model name when non-empty.
func buildModel(cfg *config.Config, agentName string) model.Model {
	modelName := cfg.DefaultModel
	if agentName != "" {
		modelName = cfg.ModelFor(agentName)
	}

	switch cfg.Provider {
	case "anthropic":
		return anthropic.NewModel(func(o *anthropic.Options) {
			o.Model = anthropicsdk.Model(modelName)
		})
	default:
		return openai.NewModel(func(o *openai.Options) {
			o.Model = modelName
		})
	}
}

// perAgentModels builds adapter instances for assistants with an explicit
// model entry, leaving the rest on the default.
func perAgentModels(cfg *config.Config) map[string]model.Model {
	models := make(map[string]model.Model, len(cfg.Models))
	for agentName := range cfg.Models {
		models[agentName] = buildModel(cfg, agentName)
	}
	return models
}

func buildStore(ctx context.Context, cfg *config.Config) (checkpoint.Store, error) {
	if cfg.Checkpoint.Driver == "sqlite" {
		return checkpoint.NewSQLiteStore(ctx, cfg.Checkpoint.Path)
	}
	return checkpoint.NewInMemoryStore(), nil
}
