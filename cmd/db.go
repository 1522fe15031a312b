package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/zjrosen/markers/internal/config"
	"github.com/zjrosen/markers/internal/documents/domain"
	"github.com/zjrosen/markers/internal/infrastructure/sqlite"
	"github.com/zjrosen/markers/internal/log"
	"github.com/zjrosen/markers/internal/tracing"
	"github.com/zjrosen/markers/internal/valuetree"
)

var (
	dbSaveName  string
	dbLoadOut   string
	dbListAll   bool
	dbListLimit int
)

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbSaveCmd)
	dbCmd.AddCommand(dbLoadCmd)
	dbCmd.AddCommand(dbListCmd)
	dbCmd.AddCommand(dbDeleteCmd)

	dbSaveCmd.Flags().StringVarP(&dbSaveName, "name", "n", "",
		"document name (default: tree file base name)")
	dbLoadCmd.Flags().StringVarP(&dbLoadOut, "out", "o", "",
		"output tree file (default: <name>.yaml)")
	dbListCmd.Flags().BoolVar(&dbListAll, "all", false,
		"include deleted documents")
	dbListCmd.Flags().IntVar(&dbListLimit, "limit", 0,
		"maximum number of documents to list (0 = no limit)")
}

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the document store",
	Long: `Manage marker tree documents in the local store.

Documents are tree files saved under a name, stored in a SQLite
database at <storage.dir>/markers.db.`,
}

var dbSaveCmd = &cobra.Command{
	Use:   "save <tree-file>",
	Short: "Save a tree file as a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDBSave,
}

var dbLoadCmd = &cobra.Command{
	Use:   "load <name>",
	Short: "Load a document back into a tree file",
	Args:  cobra.ExactArgs(1),
	RunE:  runDBLoad,
}

var dbListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored documents",
	Args:  cobra.NoArgs,
	RunE:  runDBList,
}

var dbDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a stored document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDBDelete,
}

// tracingConfig maps the app configuration onto the tracing subsystem.
func tracingConfig(cfg config.TracingConfig) tracing.Config {
	tc := tracing.DefaultConfig()
	tc.Enabled = cfg.Enabled
	if cfg.Exporter != "" {
		tc.Exporter = cfg.Exporter
	}
	tc.FilePath = cfg.FilePath
	if tc.FilePath == "" {
		tc.FilePath = config.DefaultTracesFilePath()
	}
	if cfg.OTLPEndpoint != "" {
		tc.OTLPEndpoint = cfg.OTLPEndpoint
	}
	tc.SampleRate = cfg.SampleRate
	return tc
}

// openStore opens the document database and wraps its repository with
// tracing. The returned cleanup closes both.
func openStore() (domain.DocumentRepository, func(), error) {
	dir := cfg.Storage.Dir
	if dir == "" {
		dir = config.DefaultStorageDir()
	}
	if dir == "" {
		return nil, nil, fmt.Errorf("no storage directory: set storage.dir in config")
	}

	provider, err := tracing.NewProvider(tracingConfig(cfg.Tracing))
	if err != nil {
		return nil, nil, fmt.Errorf("initializing tracing: %w", err)
	}

	db, err := sqlite.NewDB(filepath.Join(dir, "markers.db"))
	if err != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = provider.Shutdown(ctx)
		return nil, nil, fmt.Errorf("opening document store: %w", err)
	}

	repo := db.Documents()
	if provider.Enabled() {
		repo = tracing.TraceRepository(repo, provider.Tracer())
	}

	// Mirror store changes into the debug log.
	sub := db.Events().Subscribe()
	go func() {
		for e := range sub.C {
			log.Debug(log.CatStore, "Document store changed",
				"type", string(e.Type), "name", e.Payload)
		}
	}()

	cleanup := func() {
		sub.Cancel()
		_ = db.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = provider.Shutdown(ctx)
	}
	return repo, cleanup, nil
}

func runDBSave(cmd *cobra.Command, args []string) error {
	treePath := args[0]
	tree, err := valuetree.LoadFile(treePath)
	if err != nil {
		return fmt.Errorf("loading tree: %w", err)
	}

	name := dbSaveName
	if name == "" {
		base := filepath.Base(treePath)
		name = base[:len(base)-len(filepath.Ext(base))]
	}

	repo, cleanup, err := openStore()
	if err != nil {
		return err
	}
	defer cleanup()

	doc, err := repo.FindByName(name)
	var notFound *domain.DocumentNotFoundError
	switch {
	case err == nil:
		doc.SetTree(tree)
	case errors.As(err, &notFound):
		doc = domain.NewDocument(uuid.NewString(), name, tree)
	default:
		return err
	}

	if err := repo.Save(doc); err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "saved %q (guid %s)\n", doc.Name(), doc.GUID())
	return nil
}

func runDBLoad(cmd *cobra.Command, args []string) error {
	name := args[0]

	repo, cleanup, err := openStore()
	if err != nil {
		return err
	}
	defer cleanup()

	doc, err := repo.FindByName(name)
	if err != nil {
		return err
	}

	out := dbLoadOut
	if out == "" {
		out = name + ".yaml"
	}
	if err := valuetree.SaveFile(out, doc.Tree()); err != nil {
		return fmt.Errorf("writing tree: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %q to %s\n", doc.Name(), out)
	return nil
}

func runDBList(cmd *cobra.Command, args []string) error {
	repo, cleanup, err := openStore()
	if err != nil {
		return err
	}
	defer cleanup()

	docs, err := repo.List(domain.ListFilter{
		Limit:          dbListLimit,
		IncludeDeleted: dbListAll,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tGUID\tUPDATED\tDELETED")
	for _, doc := range docs {
		deleted := ""
		if doc.IsDeleted() {
			deleted = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			doc.Name(), doc.GUID(),
			doc.UpdatedAt().Format(time.RFC3339), deleted)
	}
	return w.Flush()
}

func runDBDelete(cmd *cobra.Command, args []string) error {
	repo, cleanup, err := openStore()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := repo.Delete(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %q\n", args[0])
	return nil
}
