package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/BlueberryTheta/wordGame/internal/bootstrap"
	"github.com/BlueberryTheta/wordGame/internal/scoring"
	"github.com/BlueberryTheta/wordGame/internal/types"
	"github.com/BlueberryTheta/wordGame/internal/wotd"
)

type opener func(ctx context.Context) (*bootstrap.Game, error)

func newRootCmd(out io.Writer, open opener) *cobra.Command {
	var namespace string
	rootCmd := &cobra.Command{
		Use:           "wordctl",
		Short:         "Inspect and administer the daily word",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&namespace, "namespace", "n", types.NamespaceMain, "Word track (main or puzzle)")

	// withGame opens the game for one command and closes it afterwards.
	withGame := func(cmd *cobra.Command, fn func(ctx context.Context, g *bootstrap.Game, c *wotd.Coordinator) error) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		g, err := open(ctx)
		if err != nil {
			return err
		}
		defer g.Close()

		var c *wotd.Coordinator
		switch namespace {
		case types.NamespaceMain:
			c = g.Words.Main
		case types.NamespacePuzzle:
			c = g.Words.Puzzle
		default:
			return fmt.Errorf("unknown namespace %q", namespace)
		}
		return fn(ctx, g, c)
	}

	dayCmd := &cobra.Command{
		Use:   "day",
		Short: "Print the current day key and the next roll",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGame(cmd, func(_ context.Context, g *bootstrap.Game, c *wotd.Coordinator) error {
				next := g.Days.NextRoll(g.Now())
				_, _ = fmt.Fprintf(out, "day:       %s\nnext roll: %s\n", c.Day(), next.Format(time.RFC3339))
				return nil
			})
		},
	}

	var day string
	wordCmd := &cobra.Command{
		Use:   "word",
		Short: "Print the word of a day (today by default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGame(cmd, func(ctx context.Context, g *bootstrap.Game, c *wotd.Coordinator) error {
				d := day
				if d == "" {
					d = c.Day()
				} else if _, err := g.Days.Parse(d); err != nil {
					return err
				}
				word, err := c.WordForDay(ctx, d)
				if err != nil {
					return fmt.Errorf("%s %s: %w", c.Namespace(), d, err)
				}
				_, _ = fmt.Fprintf(out, "%s\t%s\t%s\n", d, word, g.Version(d, word))
				return nil
			})
		},
	}
	wordCmd.Flags().StringVarP(&day, "day", "d", "", "Day key (YYYY-MM-DD)")

	var salt string
	rollCmd := &cobra.Command{
		Use:   "roll",
		Short: "Force a new word for today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGame(cmd, func(ctx context.Context, g *bootstrap.Game, c *wotd.Coordinator) error {
				s := salt
				if s == "" {
					s = uuid.NewString()
				}
				c.ResetCache()
				word, err := c.Word(ctx, true, s)
				if err != nil {
					return err
				}
				d := c.Day()
				_, _ = fmt.Fprintf(out, "%s\t%s\t%s\n", d, word, g.Version(d, word))
				return nil
			})
		},
	}
	rollCmd.Flags().StringVarP(&salt, "salt", "s", "", "Seed salt (random when empty)")

	usedCmd := &cobra.Command{
		Use:   "used",
		Short: "List words already used",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGame(cmd, func(ctx context.Context, g *bootstrap.Game, c *wotd.Coordinator) error {
				used, err := g.Store.GetUsedWords(ctx, c.Namespace())
				if err != nil {
					return err
				}
				if len(used) > 0 {
					_, _ = fmt.Fprintln(out, strings.Join(used, "\n"))
				}
				return nil
			})
		},
	}

	puzzleCmd := &cobra.Command{
		Use:   "puzzle",
		Short: "Print today's puzzle as players see it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGame(cmd, func(ctx context.Context, g *bootstrap.Game, _ *wotd.Coordinator) error {
				view, err := g.Puzzle.State(ctx, false, "")
				if err != nil {
					return err
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(types.PuzzleStateResponse{
					StateResponse: types.StateResponse{
						DayKey:      view.Day,
						WordLength:  len(view.Word),
						WordVersion: view.State.WordVersion,
					},
					RevealedMask: scoring.MaskFromIndices(view.Word, view.State.RevealedIndices),
					QAs:          view.State.QAs,
				})
			})
		},
	}

	rootCmd.AddCommand(dayCmd, wordCmd, rollCmd, usedCmd, puzzleCmd)
	return rootCmd
}
