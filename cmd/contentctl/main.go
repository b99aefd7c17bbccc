// Command contentctl is the operator tool for the content store: it applies
// schema migrations and loads NDJSON content exports.
//
//	contentctl migrate up|down|version
//	contentctl import -resource posts -file posts.ndjson
//	contentctl import -dir ./export
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/myblog-api/internal/config"
	"github.com/myblog-api/internal/database"
	"github.com/myblog-api/internal/models"
	"github.com/myblog-api/internal/repository"
	"github.com/myblog-api/internal/service"
	"github.com/myblog-api/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

const (
	exitOK     = 0
	exitError  = 1
	exitUsage  = 2
	exitFailed = 3 // some records were rejected under -strict
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return exitUsage
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, color.RedString("config: %v", err))
		return exitError
	}
	log := logger.New(logger.Options{Level: cfg.Log.Level, Format: "pretty", Output: stderr})

	switch args[0] {
	case "migrate":
		return runMigrate(args[1:], cfg, log, stdout, stderr)
	case "import":
		return runImport(ctx, args[1:], cfg, log, stdout, stderr)
	case "help", "-h", "-help", "--help":
		usage(stdout)
		return exitOK
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		usage(stderr)
		return exitUsage
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  contentctl migrate up|down|version")
	fmt.Fprintln(w, "  contentctl import -resource <name> -file <path> [-strict]")
	fmt.Fprintln(w, "  contentctl import -dir <path> [-strict]")
	fmt.Fprintf(w, "\nResources, in dependency order: %v\n", models.ValidImportResources)
}

func openDB(cfg *config.Config, log zerolog.Logger, stderr io.Writer) (*database.DB, bool) {
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		fmt.Fprintln(stderr, color.RedString("database: %v", err))
		return nil, false
	}
	return db, true
}

func runMigrate(args []string, cfg *config.Config, log zerolog.Logger, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		usage(stderr)
		return exitUsage
	}

	db, ok := openDB(cfg, log, stderr)
	if !ok {
		return exitError
	}
	defer db.Close()

	switch args[0] {
	case "up":
		if err := db.RunMigrations(); err != nil {
			fmt.Fprintln(stderr, color.RedString("migrate up: %v", err))
			return exitError
		}
	case "down":
		if err := db.MigrateDown(); err != nil {
			fmt.Fprintln(stderr, color.RedString("migrate down: %v", err))
			return exitError
		}
	case "version":
	default:
		usage(stderr)
		return exitUsage
	}

	version, dirty, err := db.MigrationVersion()
	if err != nil {
		fmt.Fprintln(stderr, color.RedString("migrate version: %v", err))
		return exitError
	}
	fmt.Fprintf(stdout, "schema version %s%s\n",
		color.New(color.Bold).Sprint(version),
		lo.Ternary(dirty, color.RedString(" (dirty)"), ""),
	)
	return exitOK
}

func runImport(ctx context.Context, args []string, cfg *config.Config, log zerolog.Logger, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.SetOutput(stderr)
	resource := fs.String("resource", "", "resource to import")
	file := fs.String("file", "", "NDJSON file for -resource")
	dir := fs.String("dir", "", "directory of <resource>.ndjson files, imported in dependency order")
	strict := fs.Bool("strict", false, "exit non-zero when any record is rejected")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	plan, err := importPlan(models.ImportResource(*resource), *file, *dir)
	if err != nil {
		fmt.Fprintln(stderr, color.RedString("%v", err))
		return exitUsage
	}

	db, ok := openDB(cfg, log, stderr)
	if !ok {
		return exitError
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		fmt.Fprintln(stderr, color.RedString("migrate: %v", err))
		return exitError
	}

	services := service.NewServices(repository.New(db), db, log)

	banner(stdout)
	rejected := 0
	for _, step := range plan {
		result, err := importFile(ctx, services.Import, step)
		if result != nil {
			printResult(stdout, step.path, result)
			rejected += result.Failed
		}
		if err != nil {
			fmt.Fprintln(stderr, color.RedString("%s: import aborted: %v", step.resource, err))
			return exitError
		}
	}

	if rejected > 0 && *strict {
		return exitFailed
	}
	return exitOK
}

type importStep struct {
	resource models.ImportResource
	path     string
}

// importPlan resolves the command line into an ordered list of files
func importPlan(resource models.ImportResource, file, dir string) ([]importStep, error) {
	switch {
	case dir != "" && (file != "" || resource != ""):
		return nil, errors.New("use either -dir or -resource with -file")
	case dir != "":
		var plan []importStep
		for _, r := range models.ValidImportResources {
			path := filepath.Join(dir, string(r)+".ndjson")
			if _, err := os.Stat(path); err == nil {
				plan = append(plan, importStep{resource: r, path: path})
			}
		}
		if len(plan) == 0 {
			return nil, fmt.Errorf("no <resource>.ndjson files found in %s", dir)
		}
		return plan, nil
	case resource == "" || file == "":
		return nil, errors.New("-resource and -file are required")
	case !lo.Contains(models.ValidImportResources, resource):
		return nil, fmt.Errorf("unknown resource %q, expected one of %v", resource, models.ValidImportResources)
	default:
		return []importStep{{resource: resource, path: file}}, nil
	}
}

func importFile(ctx context.Context, importer service.ImportService, step importStep) (*models.ImportResult, error) {
	f, err := os.Open(step.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return importer.Import(ctx, step.resource, f)
}

func banner(w io.Writer) {
	fmt.Fprintf(w, "%s content import\n", color.New(color.FgHiYellow, color.Bold).Sprint("myblog"))
	fmt.Fprintln(w, color.HiBlackString("========================================"))
}

func printResult(w io.Writer, path string, result *models.ImportResult) {
	status := color.GreenString("ok")
	if result.Failed > 0 {
		status = color.YellowString("%d rejected", result.Failed)
	}
	fmt.Fprintf(w, "%-12s %4d/%-4d %s  %s\n",
		result.Resource, result.Succeeded, result.Total, status, color.HiBlackString(path))

	for _, e := range result.Errors {
		fmt.Fprintf(w, "  %s %s: %s",
			color.HiBlackString("line %d", e.Line), color.CyanString(e.Field), e.Message)
		if e.Value != nil {
			fmt.Fprintf(w, " (%v)", e.Value)
		}
		fmt.Fprintln(w)
	}
}
