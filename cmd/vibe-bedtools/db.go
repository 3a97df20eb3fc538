package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/vibe-bedtools/internal/output"
	"github.com/inodb/vibe-bedtools/internal/store"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage persistent interval databases",
		Long: `Import BED files into a DuckDB-backed interval store, inspect it, and
export sets back out. A persisted store records its schema version and
refuses to open under a mismatched layout.`,
	}
	cmd.AddCommand(newDBImportCmd())
	cmd.AddCommand(newDBExportCmd())
	cmd.AddCommand(newDBInfoCmd())
	return cmd
}

func newDBImportCmd() *cobra.Command {
	var setID string
	cmd := &cobra.Command{
		Use:   "import <input.bed> <store.duckdb>",
		Short: "Load a BED file into a persistent store",
		Example: `  vibe-bedtools db import exons.bed sets.duckdb --set exons
  vibe-bedtools db import peaks.bed.gz sets.duckdb --set peaks`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newRunEnv(cmd)
			if err != nil {
				return err
			}
			defer env.close()

			st, err := store.CreateDuckDBStore(args[1])
			if err != nil {
				return err
			}
			defer st.Close()

			if err := env.loadBED(st, setID, args[0]); err != nil {
				return err
			}
			if err := st.Finalize(); err != nil {
				return err
			}

			count, err := st.Count(setID)
			if err != nil {
				return err
			}
			env.logger.Info("imported set",
				zap.String("set", setID), zap.Int64("intervals", count))
			fmt.Printf("Imported %d intervals into set %q in %s\n", count, setID, args[1])
			return nil
		},
	}
	cmd.Flags().StringVar(&setID, "set", "A", "Set identifier to import under")
	return cmd
}

func newDBExportCmd() *cobra.Command {
	var setID string
	cmd := &cobra.Command{
		Use:     "export <store.duckdb>",
		Short:   "Write a stored set back out as BED",
		Example: `  vibe-bedtools db export sets.duckdb --set exons -o exons.bed`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newRunEnv(cmd)
			if err != nil {
				return err
			}
			defer env.close()

			st, err := store.OpenDuckDBStore(args[0])
			if err != nil {
				return err
			}
			defer st.Close()

			w := output.NewBEDWriter(env.out)
			chroms, err := st.Chromosomes(setID)
			if err != nil {
				return err
			}
			for _, chrom := range chroms {
				ivs, err := st.Partition(setID, chrom)
				if err != nil {
					return err
				}
				for _, iv := range ivs {
					if err := w.Write(iv); err != nil {
						return err
					}
				}
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&setID, "set", "A", "Set identifier to export")
	return cmd
}

func newDBInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "info <store.duckdb>",
		Short:   "Show sets, counts, and chromosomes of a persistent store",
		Example: `  vibe-bedtools db info sets.duckdb`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.OpenDuckDBStore(args[0])
			if err != nil {
				return err
			}
			defer st.Close()

			ids, err := st.SetIDs()
			if err != nil {
				return err
			}
			fmt.Printf("%s: schema version %s, %d set(s)\n", args[0], store.SchemaVersion, len(ids))
			for _, id := range ids {
				count, err := st.Count(id)
				if err != nil {
					return err
				}
				chroms, err := st.Chromosomes(id)
				if err != nil {
					return err
				}
				fmt.Printf("  %s: %d intervals across %d chromosome(s)\n", id, count, len(chroms))
			}
			return nil
		},
	}
}
