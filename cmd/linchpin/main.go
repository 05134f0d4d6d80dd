package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/khartley/linchpin/internal/critpath"
	"github.com/khartley/linchpin/internal/graph"
	"github.com/khartley/linchpin/internal/item"
	"github.com/khartley/linchpin/internal/reporter"
	"github.com/khartley/linchpin/internal/snapshot"
	"github.com/khartley/linchpin/internal/store"
	"github.com/khartley/linchpin/internal/ui"
)

var (
	flagDB   string
	flagJSON bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "linchpin",
		Short: "Critical-path analysis for linked work items",
		Long: `Linchpin keeps tasks, decisions, notes and components in a local
SQLite database, builds the dependency graph over incomplete work, and
reports the critical path — the chain whose delay delays everything.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&flagDB, "db", filepath.Join(".linchpin", "items.db"), "Item database path")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Machine-readable JSON output")

	rootCmd.AddCommand(pathCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(vizCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(depsCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(setStatusCmd("done", item.StatusComplete, "Mark a task complete"))
	rootCmd.AddCommand(setStatusCmd("select", item.StatusSelected, "Mark a decision selected"))
	rootCmd.AddCommand(depCmd())
	rootCmd.AddCommand(importCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// snapshotDir is where path snapshots live, next to the database.
func snapshotDir() string {
	return filepath.Dir(flagDB)
}

func openStore() (*store.Store, error) {
	s, err := store.Open(flagDB)
	if err != nil {
		return nil, fmt.Errorf("open item store: %w", err)
	}
	return s, nil
}

func loadItems() (map[string]item.Item, error) {
	s, err := openStore()
	if err != nil {
		return nil, err
	}
	defer s.Close()
	items, err := s.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	return items, nil
}

func pathCmd() *cobra.Command {
	var (
		flagOutput string
		flagSave   bool
	)

	cmd := &cobra.Command{
		Use:   "path",
		Short: "Compute and report the critical path",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := loadItems()
			if err != nil {
				return err
			}
			result := critpath.Calculate(items)
			rpt := reporter.New(items, result)

			if flagSave {
				if err := snapshot.Save(snapshotDir(), snapshot.Capture(result)); err != nil {
					return fmt.Errorf("save snapshot: %w", err)
				}
			}

			if flagJSON || flagOutput != "" {
				data, err := rpt.JSON()
				if err != nil {
					return err
				}
				if flagOutput != "" {
					return os.WriteFile(flagOutput, data, 0644)
				}
				fmt.Println(string(data))
				return nil
			}

			rpt.PrintReport(os.Stdout)
			return nil
		},
	}
	cmd.Flags().StringVar(&flagOutput, "output", "", "Save JSON report to file")
	cmd.Flags().BoolVar(&flagSave, "save", false, "Save a snapshot for later comparison")
	return cmd
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Compare the current path against the last saved snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !snapshot.Exists(snapshotDir()) {
				return fmt.Errorf("no saved snapshot (run `linchpin path --save` first)")
			}
			saved, err := snapshot.Load(snapshotDir())
			if err != nil {
				return err
			}

			items, err := loadItems()
			if err != nil {
				return err
			}
			cur := snapshot.Capture(critpath.Calculate(items))
			diff := saved.Diff(cur)

			if flagJSON {
				return outputJSON(map[string]interface{}{
					"saved_at":  saved.SavedAt,
					"unchanged": diff.Unchanged(),
					"diff":      diff,
					"length":    cur.Length,
				})
			}

			fmt.Printf("Snapshot from %s (path length %d)\n",
				ui.Dim(saved.SavedAt.Format("2006-01-02 15:04:05")), saved.Length)
			if diff.Unchanged() {
				fmt.Printf("%s critical path unchanged\n", ui.BoldGreen("✓"))
				return nil
			}
			fmt.Printf("%s critical path changed (length %+d)\n", ui.BoldYellow("Δ"), diff.LengthDelta)
			for _, id := range diff.Added {
				fmt.Printf("  %s %s joined the path\n", ui.Green("+"), ui.BoldMagenta(id))
			}
			for _, id := range diff.Removed {
				fmt.Printf("  %s %s left the path\n", ui.Red("-"), ui.BoldMagenta(id))
			}
			return nil
		},
	}
}

func vizCmd() *cobra.Command {
	var flagFormat string

	cmd := &cobra.Command{
		Use:   "viz",
		Short: "Render the incomplete-item DAG",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := loadItems()
			if err != nil {
				return err
			}
			rpt := reporter.New(items, critpath.Calculate(items))

			if flagFormat == "dot" {
				rpt.WriteDOT(os.Stdout)
				return nil
			}
			rpt.PrintASCII(os.Stdout)
			return nil
		},
	}
	cmd.Flags().StringVar(&flagFormat, "format", "ascii", "Output format (ascii, dot)")
	return cmd
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the full dependency graph for cycles",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := loadItems()
			if err != nil {
				return err
			}
			return reporter.CheckReport(os.Stdout, items)
		},
	}
}

func depsCmd() *cobra.Command {
	var flagReverse bool

	cmd := &cobra.Command{
		Use:   "deps <id>",
		Short: "List the transitive dependency closure of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			items, err := loadItems()
			if err != nil {
				return err
			}
			if _, ok := items[id]; !ok {
				return fmt.Errorf("no item %s", id)
			}

			itemIDs := make([]string, 0, len(items))
			for itemID := range items {
				itemIDs = append(itemIDs, itemID)
			}
			sort.Strings(itemIDs)

			// Skip-and-continue on cycles: the closure is still useful
			// on partially cyclic data.
			g := graph.NewDependencyGraph()
			for _, itemID := range itemIDs {
				for _, dep := range items[itemID].DependsOn {
					if _, ok := items[dep]; ok {
						g.AddEdge(itemID, dep)
					}
				}
			}

			var closure map[string]bool
			label := "depends on"
			if flagReverse {
				closure = graph.TransitiveDependents(g, id)
				label = "is depended on by"
			} else {
				closure = graph.TransitiveDependencies(g, id)
			}

			ids := make([]string, 0, len(closure))
			for cid := range closure {
				ids = append(ids, cid)
			}
			sort.Strings(ids)

			if flagJSON {
				return outputJSON(map[string]interface{}{"id": id, "reverse": flagReverse, "closure": ids})
			}

			fmt.Printf("%s %s %d items:\n", ui.BoldMagenta(id), label, len(ids))
			for _, cid := range ids {
				it := items[cid]
				fmt.Printf("  %s %s %s\n", ui.StatusIcon(it.Status), ui.Magenta(cid), it.Title)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&flagReverse, "reverse", false, "List dependents instead of dependencies")
	return cmd
}

func listCmd() *cobra.Command {
	var (
		flagKind   string
		flagStatus string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			items, err := s.List(flagKind, flagStatus)
			if err != nil {
				return err
			}

			if flagJSON {
				return outputJSON(items)
			}
			for _, it := range items {
				line := fmt.Sprintf("%s %s %s  %s",
					ui.StatusIcon(it.Status), ui.BoldMagenta(it.ID), it.Title, ui.KindBadge(string(it.Kind)))
				if len(it.DependsOn) > 0 {
					line += "  " + ui.Dim("⤆ "+strings.Join(it.DependsOn, ", "))
				}
				fmt.Println(line)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&flagKind, "kind", "", "Filter by kind (task, decision, note, component)")
	cmd.Flags().StringVar(&flagStatus, "status", "", "Filter by status")
	return cmd
}

func addCmd() *cobra.Command {
	var (
		flagKind   string
		flagStatus string
		flagDeps   string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a new item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := item.Kind(flagKind)
			if !item.ValidKind(kind) {
				return fmt.Errorf("unknown kind %q", flagKind)
			}

			it := item.Item{
				ID:     uuid.NewString(),
				Title:  args[0],
				Kind:   kind,
				Status: flagStatus,
			}
			if flagDeps != "" {
				for _, dep := range strings.Split(flagDeps, ",") {
					if dep = strings.TrimSpace(dep); dep != "" {
						it.DependsOn = append(it.DependsOn, dep)
					}
				}
			}

			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()
			if err := s.Put(it); err != nil {
				return err
			}

			if flagJSON {
				return outputJSON(it)
			}
			fmt.Printf("%s added %s %s\n", ui.BoldGreen("✓"), ui.BoldMagenta(it.ID), it.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&flagKind, "kind", "task", "Item kind (task, decision, note, component)")
	cmd.Flags().StringVar(&flagStatus, "status", item.StatusPending, "Initial status")
	cmd.Flags().StringVar(&flagDeps, "deps", "", "Comma-separated dependency ids")
	return cmd
}

func setStatusCmd(use, status, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			ok, err := s.SetStatus(args[0], status)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no item %s", args[0])
			}
			fmt.Printf("%s %s → %s\n", ui.BoldGreen("✓"), ui.BoldMagenta(args[0]), status)
			return nil
		},
	}
}

func depCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dep",
		Short: "Manage dependency edges",
	}

	addSub := &cobra.Command{
		Use:   "add <id> <depends-on>",
		Short: "Declare that an item depends on another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, dependsOn := args[0], args[1]

			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			items, err := s.LoadAll()
			if err != nil {
				return err
			}
			if _, ok := items[id]; !ok {
				return fmt.Errorf("no item %s", id)
			}

			// Refuse edges that would close a loop in the declared
			// graph before anything hits the database.
			g := graph.NewDependencyGraph()
			for itemID, it := range items {
				for _, dep := range it.DependsOn {
					g.AddEdgeUnchecked(itemID, dep)
				}
			}
			if _, err := g.AddEdge(id, dependsOn); err != nil {
				return fmt.Errorf("refusing dependency: %w", err)
			}

			if err := s.AddDep(id, dependsOn); err != nil {
				return err
			}
			fmt.Printf("%s %s now depends on %s\n", ui.BoldGreen("✓"), ui.BoldMagenta(id), ui.BoldMagenta(dependsOn))
			return nil
		},
	}

	rmSub := &cobra.Command{
		Use:   "rm <id> <depends-on>",
		Short: "Remove a dependency edge",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			removed, err := s.RemoveDep(args[0], args[1])
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("no dependency %s -> %s", args[0], args[1])
			}
			fmt.Printf("%s removed %s -> %s\n", ui.BoldGreen("✓"), ui.BoldMagenta(args[0]), ui.BoldMagenta(args[1]))
			return nil
		},
	}

	cmd.AddCommand(addSub)
	cmd.AddCommand(rmSub)
	return cmd
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Import items from a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read export: %w", err)
			}

			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := store.ImportJSON(s, data)
			if err != nil {
				return err
			}
			fmt.Printf("%s imported %s items", ui.BoldGreen("✓"), ui.Bold(res.Imported))
			if res.Skipped > 0 {
				fmt.Printf(" %s", ui.Yellow(fmt.Sprintf("(%d skipped)", res.Skipped)))
			}
			fmt.Println()
			return nil
		},
	}
}

func outputJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
