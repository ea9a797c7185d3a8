package cli

import (
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Training session commands",
	}

	cmd.AddCommand(newSessionListCmd())
	cmd.AddCommand(newSessionAddCmd())

	return cmd
}

func newSessionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <player-id>",
		Short: "List a player's sessions, latest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []TrainingSession

			if err := client.Get(cmd.Context(), playerPath(args[0])+"/sessions", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newSessionAddCmd() *cobra.Command {
	var (
		date, mapName, notes, exercise string
		hsRate, accuracy, duration     float64
		kills, deaths                  int
	)

	cmd := &cobra.Command{
		Use:   "add <player-id>",
		Short: "Record a training session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"session_date":     date,
				"hs_rate":          hsRate,
				"accuracy":         accuracy,
				"kills":            kills,
				"deaths":           deaths,
				"map_name":         mapName,
				"duration_minutes": duration,
				"notes":            notes,
				"exercise_type":    exercise,
			}
			var result TrainingSession

			if err := client.Post(cmd.Context(), playerPath(args[0])+"/sessions", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Session date YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&mapName, "map", "", "Map name (required)")
	cmd.Flags().Float64Var(&hsRate, "hs", 0, "Headshot rate %")
	cmd.Flags().Float64Var(&accuracy, "accuracy", 0, "Accuracy %")
	cmd.Flags().IntVar(&kills, "kills", 0, "Kills")
	cmd.Flags().IntVar(&deaths, "deaths", 0, "Deaths")
	cmd.Flags().Float64Var(&duration, "minutes", 0, "Duration in minutes")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes (markdown)")
	cmd.Flags().StringVar(&exercise, "exercise", "", "Exercise type")
	_ = cmd.MarkFlagRequired("map")

	return cmd
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <player-id>",
		Short: "Show a player's summary statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Stats

			if err := client.Get(cmd.Context(), playerPath(args[0])+"/stats", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newChartCmd() *cobra.Command {
	var (
		metric string
		height int
	)

	cmd := &cobra.Command{
		Use:   "chart <player-id>",
		Short: "Show chart points for one metric",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if metric != "" {
				q.Set("metric", metric)
			}
			if height > 0 {
				q.Set("height", strconv.Itoa(height))
			}
			path := playerPath(args[0]) + "/chart"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}

			var result Chart
			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&metric, "metric", "", "hs_rate, accuracy, kills, deaths, duration_minutes or kd")
	cmd.Flags().IntVar(&height, "height", 0, "Chart height in pixels")

	return cmd
}
