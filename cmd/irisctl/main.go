// Command irisctl inspects and drives the conversation history from a terminal,
// using the same configuration and storage as the server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"iris-chat/backend/internal/app"
	"iris-chat/backend/internal/config"
	"iris-chat/backend/internal/logger"
)

// opener builds the application for one command invocation.
type opener func(ctx context.Context) (*app.App, error)

func openFromEnv(ctx context.Context) (*app.App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	// Logs go to stderr so command output stays clean.
	slog.SetDefault(logger.New(os.Stderr, cfg.LogLevel, logger.FormatPretty))
	return app.NewApp(ctx, cfg)
}

func main() {
	if err := newRootCmd(openFromEnv).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:          "irisctl",
		Short:        "Manage Iris chat history from the command line",
		SilenceUsage: true,
	}
	r := runner{open: open}
	root.AddCommand(newSessionsCmd(r), newSendCmd(r), newDraftsCmd(r))
	return root
}

// runner opens the application for a single command and always closes it,
// so the storage file is released even when the command fails.
type runner struct {
	open opener
}

func (r runner) run(fn func(cmd *cobra.Command, args []string, a *app.App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		a, err := r.open(cmd.Context())
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := a.Close(); closeErr != nil && err == nil {
				err = closeErr
			}
		}()
		return fn(cmd, args, a)
	}
}

func newSessionsCmd(r runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List or delete saved sessions",
	}

	var output string
	list := &cobra.Command{
		Use:   "list",
		Short: "List sessions, most recent first",
		Args:  cobra.NoArgs,
		RunE: r.run(func(cmd *cobra.Command, args []string, a *app.App) error {
			sessions := a.Conversation.Sessions()
			if output == "json" {
				return writeJSON(cmd.OutOrStdout(), sessions)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tMESSAGES\tUPDATED")
			for _, s := range sessions {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", s.ID, s.Title, len(s.Messages), s.UpdatedAt.Local().Format(time.DateTime))
			}
			return tw.Flush()
		}),
	}
	list.Flags().StringVarP(&output, "output", "o", "text", "output format (text, json)")

	del := &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(func(cmd *cobra.Command, args []string, a *app.App) error {
			a.Conversation.DeleteSession(cmd.Context(), args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		}),
	}

	cmd.AddCommand(list, del)
	return cmd
}

func newSendCmd(r runner) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "send <text...>",
		Short: "Send a message and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: r.run(func(cmd *cobra.Command, args []string, a *app.App) error {
			conversation := a.Conversation
			if sessionID != "" {
				if err := conversation.SelectSession(sessionID); err != nil {
					return err
				}
			}

			result, err := conversation.SendTurn(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, result.Reply.Content)
			fmt.Fprintf(out, "\nsession: %s\n", result.SessionID)
			if result.Usage != nil {
				fmt.Fprintf(out, "tokens: %d in, %d out\n", result.Usage.PromptTokens, result.Usage.CompletionTokens)
			}
			if result.Err != nil {
				return errors.New("the provider request failed")
			}
			return nil
		}),
	}
	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "continue an existing session")
	return cmd
}

func newDraftsCmd(r runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drafts",
		Short: "Inspect saved drafts",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List drafts",
		Args:  cobra.NoArgs,
		RunE: r.run(func(cmd *cobra.Command, args []string, a *app.App) error {
			return writeJSON(cmd.OutOrStdout(), a.Drafts.List(cmd.Context()))
		}),
	})
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
