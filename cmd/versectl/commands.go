package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"biblenotes/database"
	"biblenotes/services"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	sqlitePath  string
	postgresDSN string
	singleVerse bool

	rootCmd = &cobra.Command{
		Use:           "versectl",
		Short:         "Manage the local verse store used by the notes server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	importCmd = &cobra.Command{
		Use:   "import [json_file]",
		Short: "Seed an empty verse store from a translation dataset",
		Args:  cobra.ExactArgs(1),
		RunE:  runImport,
	}

	lookupCmd = &cobra.Command{
		Use:   "lookup [reference]",
		Short: "Print the verses for a reference such as \"John 3:16-18\"",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runLookup,
	}

	lintCmd = &cobra.Command{
		Use:   "lint [file...]",
		Short: "Check that every line of a reference list parses",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runLint,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&sqlitePath, "sqlite", "./data/biblenotes.db", "SQLite database file")
	rootCmd.PersistentFlags().StringVar(&postgresDSN, "dsn", "", "PostgreSQL DSN; overrides --sqlite")
	lookupCmd.Flags().BoolVar(&singleVerse, "single", false, "return exactly one verse")

	rootCmd.AddCommand(importCmd, lookupCmd, lintCmd)
}

// openStore connects to PostgreSQL when a DSN is given, otherwise to the SQLite file.
func openStore() (*gorm.DB, error) {
	if postgresDSN != "" {
		conn, err := database.OpenPostgres(postgresDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := database.Migrate(conn); err != nil {
			return nil, err
		}
		return conn, nil
	}

	if sqlitePath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(sqlitePath), 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}
	return database.OpenSQLite(sqlitePath)
}

func runImport(cmd *cobra.Command, args []string) error {
	conn, err := openStore()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
	defer cancel()

	inserted, err := services.SeedVersesFromFile(ctx, services.NewVerseStore(conn), args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d verses from %s\n", inserted, args[0])
	return nil
}

func runLookup(cmd *cobra.Command, args []string) error {
	conn, err := openStore()
	if err != nil {
		return err
	}

	resolver := services.NewVerseResolver(services.NewVerseStore(conn))
	reference := strings.Join(args, " ")

	var result services.VerseResult
	if singleVerse {
		result, err = resolver.GetVerseFromDB(cmd.Context(), reference)
	} else {
		result, err = resolver.GetVersesFromDB(cmd.Context(), reference)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, result.FormattedReference)
	if len(result.Verses) == 0 {
		fmt.Fprintln(out, "  (no verses found)")
		return nil
	}
	for _, v := range result.Verses {
		fmt.Fprintf(out, "%3d  %s\n", v.Verse, v.Text)
	}
	return nil
}

func runLint(cmd *cobra.Command, args []string) error {
	failed := 0
	for _, path := range args {
		bad, err := lintFile(path, cmd.OutOrStdout())
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
			failed++
			continue
		}
		if bad > 0 {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed lint", failed, len(args))
	}
	return nil
}
