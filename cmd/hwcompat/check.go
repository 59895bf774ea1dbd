package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hwcompat/hwcompat/internal/audit"
	"github.com/hwcompat/hwcompat/internal/compatdb"
	"github.com/hwcompat/hwcompat/internal/config"
	"github.com/hwcompat/hwcompat/internal/exceptions"
	"github.com/hwcompat/hwcompat/internal/history"
	"github.com/hwcompat/hwcompat/internal/inventory"
	"github.com/hwcompat/hwcompat/internal/kmod"
	"github.com/hwcompat/hwcompat/internal/sysinfo"
)

type checkOptions struct {
	targetVersion int
	showEntries   bool
	hideReason    bool
	jsonOut       bool
	skipKmod      bool
	save          bool
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Audit devices and modules against the deprecation database",
	Long: `Check enumerates PCI and other devices plus loaded kernel modules,
matches each against the deprecation database and prints everything that is
removed or unmaintained in the target OS version.`,
	Run: func(cmd *cobra.Command, args []string) {
		var opts checkOptions
		opts.targetVersion, _ = cmd.Flags().GetInt("target-version")
		opts.showEntries, _ = cmd.Flags().GetBool("show-entries")
		opts.hideReason, _ = cmd.Flags().GetBool("hide-reason")
		opts.jsonOut, _ = cmd.Flags().GetBool("json")
		opts.skipKmod, _ = cmd.Flags().GetBool("skip-kmod")
		opts.save, _ = cmd.Flags().GetBool("save")

		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		if !cmd.Flags().Changed("target-version") {
			opts.targetVersion = cfg.TargetVersion
		}

		if err := runCheck(cfg, opts); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
	},
}

func init() {
	checkCmd.Flags().IntP("target-version", "t", 9, "assume upgrade to OS of this version")
	checkCmd.Flags().BoolP("show-entries", "e", false, "show entries from the deprecation database")
	checkCmd.Flags().BoolP("hide-reason", "R", false, "hide the reason a device is not compatible")
	checkCmd.Flags().BoolP("json", "j", false, "format output as JSON")
	checkCmd.Flags().BoolP("skip-kmod", "K", false, "do not use module indexes to check if a device has a driver")
	checkCmd.Flags().Bool("save", false, "record the run in the history database")
}

func runCheck(cfg *config.Config, opts checkOptions) error {
	entries, err := compatdb.Load(cfg.CompatDB)
	if err != nil {
		return err
	}
	idx := compatdb.NewIndex(entries)

	except, err := exceptions.Load(cfg.ExceptionsDB)
	if err != nil {
		return err
	}

	loaded, err := inventory.LoadedModules()
	if err != nil {
		return err
	}
	builtin, err := inventory.BuiltinModules(loaded)
	if err != nil {
		return err
	}
	pci, err := inventory.CollectPCIDevices()
	if err != nil {
		return err
	}
	misc, err := inventory.CollectMiscDevices()
	if err != nil {
		return err
	}

	records, claimed := audit.MatchDevices(pci, misc, loaded, idx)

	var resolver kmod.Resolver
	if !opts.skipKmod {
		r, err := kmod.NewModprobeResolver(cfg.KmodIndexDir)
		if err != nil {
			return err
		}
		defer r.Close()
		resolver = r
	}

	findings, err := audit.BuildReport(audit.Input{
		Records:  records,
		Claimed:  claimed,
		Loaded:   loaded,
		Builtin:  builtin,
		Index:    idx,
		Target:   opts.targetVersion,
		Resolver: resolver,
		Except:   except,
	})
	if err != nil {
		return err
	}

	popts := audit.PrintOptions{
		ShowReason:  !opts.hideReason,
		ShowEntries: opts.showEntries,
	}
	if opts.jsonOut {
		err = audit.PrintJSON(os.Stdout, findings, popts)
	} else {
		err = audit.PrintPlain(os.Stdout, findings, popts)
	}
	if err != nil {
		return err
	}

	if opts.save {
		return saveRun(cfg, opts.targetVersion, findings)
	}
	return nil
}

func saveRun(cfg *config.Config, target int, findings []audit.Finding) error {
	kernel, err := sysinfo.KernelRelease()
	if err != nil {
		return err
	}

	db, err := history.Open(cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer db.Close()

	return db.SaveRun(&history.Run{
		Kernel:        kernel,
		TargetVersion: target,
		Findings:      findings,
	})
}
