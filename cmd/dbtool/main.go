package main

import (
	"context"
	"database/sql"
	"fmt"
	"gpx-route-editor/internal/adapters/events"
	"gpx-route-editor/internal/adapters/repositories"
	"gpx-route-editor/internal/config"
	"gpx-route-editor/internal/platform/db"
	"gpx-route-editor/internal/platform/obs"
	"gpx-route-editor/internal/services"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	logLevel      string
	importProfile string
)

var rootCmd = &cobra.Command{
	Use:           "dbtool",
	Short:         "Manage the GPX file store",
	Long:          `Create the schema, bulk import GPX files and export stored files. Database settings come from DATABASE_DRIVER and DATABASE_DSN.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		obs.SetupLogger(logLevel, "text")
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the schema",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

var importCmd = &cobra.Command{
	Use:   "import <file-or-dir>...",
	Short: "Import .gpx files, walking directories recursively",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export <name> <out>",
	Short: "Write a stored file to disk",
	Args:  cobra.ExactArgs(2),
	RunE:  runExport,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored files",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	importCmd.Flags().StringVarP(&importProfile, "profile", "p", "", "Routing profile stored with imported files")

	rootCmd.AddCommand(initCmd, importCmd, exportCmd, listCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStore connects and makes sure the schema exists.
func openStore(ctx context.Context) (*sql.DB, *services.GpxFileService, error) {
	cfg, err := config.LoadDatabase()
	if err != nil {
		return nil, nil, err
	}

	conn, err := db.Open(ctx, cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, nil, err
	}

	if err := repositories.InitSchema(conn, cfg.Driver); err != nil {
		conn.Close()
		return nil, nil, err
	}

	repo, err := repositories.NewGpxFileRepository(conn, cfg.Driver)
	if err != nil {
		conn.Close()
		return nil, nil, err
	}

	// Storage commands never edit points, so no route provider is wired.
	return conn, services.NewGpxFileService(repo, nil, events.LogPublisher{}), nil
}

func runInit(cmd *cobra.Command, args []string) error {
	conn, _, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer conn.Close()

	slog.Info("schema ready")
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	paths, err := collectGpxPaths(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("import: no .gpx files under %v", args)
	}

	conn, files, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	bar := progressbar.NewOptions(len(paths),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("[GPX] import"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(100*time.Millisecond),
	)

	res := importFiles(ctx, files, paths, importProfile, func() { _ = bar.Add(1) })
	_ = bar.Finish()
	fmt.Fprintln(os.Stderr)

	slog.Info("import finished", "imported", res.Imported, "failed", len(res.Failed))
	for path, err := range res.Failed {
		slog.Warn("import failed", "path", path, "err", err)
	}
	if len(res.Failed) > 0 {
		return fmt.Errorf("import: %d of %d files failed", len(res.Failed), len(paths))
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	conn, files, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer conn.Close()

	f, err := files.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if err := os.WriteFile(args[1], f.Data, 0o644); err != nil {
		return fmt.Errorf("export %q: %w", args[0], err)
	}

	slog.Info("exported", "name", f.Name, "out", args[1], "bytes", len(f.Data))
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	conn, files, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer conn.Close()

	list, err := files.List(cmd.Context())
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPROFILE\tBYTES")
	for _, f := range list {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", f.Name, f.Profile, len(f.Data))
	}
	return tw.Flush()
}
