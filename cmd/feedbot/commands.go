package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"feedbot/internal/config"
)

// --- feedback ---

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Inspect stored feedback",
}

var feedbackListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent feedback submissions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), fmt.Sprintf("/feedback?limit=%d", limit))
		if err != nil {
			return err
		}

		var records []struct {
			ID          string   `json:"id"`
			AnonymousID string   `json:"anonymous_id"`
			Answers     []string `json:"answers"`
			SubmittedAt string   `json:"submitted_at"`
		}
		if err := decodeJSON(resp, &records); err != nil {
			return err
		}

		if len(records) == 0 {
			fmt.Println("No feedback stored yet.")
			return nil
		}

		for _, rec := range records {
			preview := strings.Join(rec.Answers, " | ")
			if len(preview) > 80 {
				preview = preview[:80] + "..."
			}
			fmt.Printf("%s  %s  %s\n",
				colorize(colorCyan, rec.ID[:8]),
				rec.SubmittedAt,
				preview,
			)
		}
		return nil
	},
}

var feedbackExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all feedback as JSONL",
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/feedback/export")
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			return fmt.Errorf("server returned %d", resp.StatusCode)
		}

		var writer io.Writer = os.Stdout
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer f.Close()
			writer = f
		}

		if _, err := io.Copy(writer, resp.Body); err != nil {
			return fmt.Errorf("writing export: %w", err)
		}

		if output != "" {
			printSuccess("Feedback exported to %s", output)
		}
		return nil
	},
}

var feedbackStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show submission counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/stats")
		if err != nil {
			return err
		}

		var stats map[string]int
		if err := decodeJSON(resp, &stats); err != nil {
			return err
		}

		fmt.Printf("Stored submissions: %d\n", stats["count"])
		return nil
	},
}

func init() {
	feedbackListCmd.Flags().Int("limit", 20, "maximum number of submissions to list")
	feedbackExportCmd.Flags().String("output", "", "output file path (default: stdout)")
	feedbackCmd.AddCommand(feedbackListCmd)
	feedbackCmd.AddCommand(feedbackExportCmd)
	feedbackCmd.AddCommand(feedbackStatsCmd)
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show resolved configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration (secrets redacted)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		for _, k := range config.ShowAll(cfg) {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		if cfg.UsingDefaultSalt() {
			printWarning("FEEDBOT_SALT is unset; the default salt makes tokens brute-forceable")
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
