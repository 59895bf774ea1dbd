package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hwcompat/hwcompat/internal/config"
	"github.com/hwcompat/hwcompat/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded audit runs",
	Run: func(cmd *cobra.Command, args []string) {
		jsonOut, _ := cmd.Flags().GetBool("json")

		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		if err := runHistory(cfg, jsonOut); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
	},
}

func init() {
	historyCmd.Flags().Bool("json", false, "format output as JSON")
}

func runHistory(cfg *config.Config, jsonOut bool) error {
	db, err := history.Open(cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.ListRuns()
	if err != nil {
		return err
	}

	if jsonOut {
		type jsonRun struct {
			ID            string    `json:"id"`
			CreatedAt     time.Time `json:"created_at"`
			Kernel        string    `json:"kernel"`
			TargetVersion int       `json:"target_version"`
			Findings      int       `json:"findings"`
		}
		out := make([]jsonRun, 0, len(runs))
		for _, run := range runs {
			out = append(out, jsonRun{
				ID:            run.ID,
				CreatedAt:     run.CreatedAt,
				Kernel:        run.Kernel,
				TargetVersion: run.TargetVersion,
				Findings:      len(run.Findings),
			})
		}
		return json.NewEncoder(os.Stdout).Encode(out)
	}

	fmt.Printf("%-36s %-20s %-20s %-8s %s\n", "ID", "TIME", "KERNEL", "TARGET", "FINDINGS")
	for _, run := range runs {
		fmt.Printf("%-36s %-20s %-20s %-8d %d\n",
			run.ID,
			run.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			run.Kernel,
			run.TargetVersion,
			len(run.Findings))
	}
	return nil
}
