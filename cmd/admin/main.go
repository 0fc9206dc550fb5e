// Command admin is the teamsheet administration CLI.
//
// Usage:
//
//	teamsheet-admin ingest sheet.csv --league "London 1 South"
//	teamsheet-admin duplicates --threshold 0.9
//	teamsheet-admin merge --canonical 12 --losers 34,56
//	teamsheet-admin stats leaderboard
//	teamsheet-admin stats season 2023/24
//	teamsheet-admin stats player 12
//	teamsheet-admin delete-match 7
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/guildfordrfc/teamsheet-data/internal/config"
	"github.com/guildfordrfc/teamsheet-data/internal/db"
	"github.com/guildfordrfc/teamsheet-data/internal/dedupe"
	"github.com/guildfordrfc/teamsheet-data/internal/ingest"
	"github.com/guildfordrfc/teamsheet-data/internal/merge"
	"github.com/guildfordrfc/teamsheet-data/internal/stats"
	"github.com/guildfordrfc/teamsheet-data/internal/store"
	"github.com/guildfordrfc/teamsheet-data/internal/teamsheet"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "teamsheet-admin",
		Short: "Teamsheet administration CLI",
	}

	root.AddCommand(ingestCmd())
	root.AddCommand(duplicatesCmd())
	root.AddCommand(mergeCmd())
	root.AddCommand(statsCmd())
	root.AddCommand(deleteMatchCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// run loads config, opens the pool, and hands a Postgres store to fn.
func run(fn func(ctx context.Context, cfg *config.Config, st store.Store) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	return fn(ctx, cfg, store.NewPostgres(pool.Pool))
}

func schemaFromConfig(cfg *config.Config) teamsheet.PositionSchema {
	return teamsheet.PositionSchema{
		Starters:        cfg.Starters,
		SquadSize:       cfg.SquadSize,
		AllowUnassigned: cfg.AllowUnassigned,
	}
}

// --------------------------------------------------------------------------
// ingest command
// --------------------------------------------------------------------------

func ingestCmd() *cobra.Command {
	var league string
	var strict bool
	cmd := &cobra.Command{
		Use:   "ingest <file>",
		Short: "Ingest a teamsheet file (CSV line or multi-line block)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			return run(func(ctx context.Context, cfg *config.Config, st store.Store) error {
				svc := ingest.New(st, ingest.Options{
					Schema:    schemaFromConfig(cfg),
					Threshold: cfg.DuplicateThreshold,
					Strict:    strict || cfg.StrictIngest,
				}, logger)

				result, err := svc.IngestSheet(ctx, string(raw), league)
				if err != nil {
					return err
				}
				for _, w := range result.Warnings {
					logger.Warn("Possible duplicate", "detail", w.String())
				}
				logger.Info("Teamsheet ingested",
					"match_id", result.Match.ID,
					"appearances", result.Appearances,
					"new_players", len(result.CreatedPlayers))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&league, "league", "", "League label for the match")
	cmd.Flags().BoolVar(&strict, "strict", false, "Abort when new names look like existing players")
	return cmd
}

// --------------------------------------------------------------------------
// duplicates command
// --------------------------------------------------------------------------

func duplicatesCmd() *cobra.Command {
	var threshold float64
	cmd := &cobra.Command{
		Use:   "duplicates",
		Short: "Scan the player population for candidate duplicates",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config, st store.Store) error {
				t := threshold
				if t == 0 {
					t = cfg.DuplicateThreshold
				}
				players, err := st.ListPlayers(ctx)
				if err != nil {
					return err
				}
				groups := dedupe.FindGroups(players, t, dedupe.TokenSortScorer{})
				if len(groups) == 0 {
					fmt.Println("No candidate duplicates found.")
					return nil
				}
				for i, g := range groups {
					fmt.Printf("Group %d:\n", i+1)
					for _, p := range g.Players {
						fmt.Printf("  [%d] %s\n", p.ID, p.Name)
					}
					for _, pair := range g.Pairs {
						fmt.Printf("  %s ~ %s  %.2f\n", pair.A, pair.B, pair.Score)
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Similarity threshold (defaults to configured value)")
	return cmd
}

// --------------------------------------------------------------------------
// merge command
// --------------------------------------------------------------------------

func mergeCmd() *cobra.Command {
	var canonical int64
	var losers []int64
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge duplicate players into one canonical record",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config, st store.Store) error {
				engine := merge.NewEngine(st, logger)
				result, err := engine.Merge(ctx, canonical, losers)
				if err != nil {
					return err
				}
				logger.Info("Merge complete",
					"canonical", result.Canonical.Name,
					"players_merged", result.PlayersMerged,
					"reassigned", result.Reassigned,
					"dropped", len(result.DroppedAppearanceIDs))
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&canonical, "canonical", 0, "Surviving player ID")
	cmd.Flags().Int64SliceVar(&losers, "losers", nil, "Player IDs to merge away")
	_ = cmd.MarkFlagRequired("canonical")
	_ = cmd.MarkFlagRequired("losers")
	return cmd
}

// --------------------------------------------------------------------------
// stats commands
// --------------------------------------------------------------------------

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Aggregate appearance statistics",
	}
	cmd.AddCommand(leaderboardCmd())
	cmd.AddCommand(seasonCmd())
	cmd.AddCommand(playerCmd())
	return cmd
}

func leaderboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "All-time appearance leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config, st store.Store) error {
				snap, err := st.Snapshot(ctx)
				if err != nil {
					return err
				}
				for i, e := range stats.Leaderboard(snap, schemaFromConfig(cfg)) {
					fmt.Printf("%3d. %-30s %4d matches (%d starts, %d bench)\n",
						i+1, e.Player.Name, e.Matches, e.Starts, e.Bench)
				}
				return nil
			})
		},
	}
}

func seasonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "season <key>",
		Short: "Season summary (e.g. 2023/24)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config, st store.Store) error {
				snap, err := st.Snapshot(ctx)
				if err != nil {
					return err
				}
				s, err := stats.SeasonView(snap, args[0], schemaFromConfig(cfg))
				if err != nil {
					return err
				}
				fmt.Printf("Season %s: P%d W%d D%d L%d  (%d-%d, win %.0f%%)\n",
					s.Season, s.TotalMatches, s.Wins, s.Draws, s.Losses,
					s.PointsFor, s.PointsAgainst, s.WinPct)
				fmt.Printf("Players used: %d, debutants: %d, leavers: %d\n",
					s.PlayersUsed, len(s.Debutants), len(s.Leavers))
				for _, name := range s.Debutants {
					fmt.Printf("  debut: %s\n", name)
				}
				return nil
			})
		},
	}
}

func playerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "player <id>",
		Short: "Per-player career view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id int64
			if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
				return fmt.Errorf("player id must be an integer: %q", args[0])
			}
			return run(func(ctx context.Context, cfg *config.Config, st store.Store) error {
				snap, err := st.Snapshot(ctx)
				if err != nil {
					return err
				}
				s, err := stats.PlayerView(snap, id, schemaFromConfig(cfg))
				if err != nil {
					return err
				}
				fmt.Printf("%s: %d matches (%d starts, %d bench), win %.0f%%\n",
					s.Player.Name, s.Total, s.Starts, s.Bench, s.WinPct)
				for _, a := range s.Appearances {
					fmt.Printf("  %s vs %-25s positions %v\n",
						a.Match.Date.Format("2006-01-02"), a.Match.Opposition, a.Positions)
				}
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// delete-match command
// --------------------------------------------------------------------------

func deleteMatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-match <id>",
		Short: "Delete a match and its appearances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id int64
			if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
				return fmt.Errorf("match id must be an integer: %q", args[0])
			}
			return run(func(ctx context.Context, cfg *config.Config, st store.Store) error {
				if err := st.DeleteMatch(ctx, id); err != nil {
					return err
				}
				logger.Info("Match deleted", "match_id", id)
				return nil
			})
		},
	}
}
