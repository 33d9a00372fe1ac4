package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"btebresults/internal/config"
	"btebresults/internal/database"
	"btebresults/internal/repository"
	"btebresults/internal/service"
)

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)

	exportOutput := exportCmd.String("output", "", "Output file path (default: results_backup_YYYYMMDD_HHMMSS.json)")
	exportAdmins := exportCmd.String("admins", "", "Comma separated admin usernames to include (default: ADMIN_USERNAME)")

	importInput := importCmd.String("input", "", "Input file path (required)")
	importClear := importCmd.Bool("clear", false, "Delete all results before import (WARNING: destructive)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg := config.Load()

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	backupService := service.NewBackupService(
		repository.NewResultRepository(db),
		repository.NewAdminRepository(db),
	)

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		admins := *exportAdmins
		if admins == "" {
			admins = cfg.AdminUsername
		}
		handleExport(backupService, *exportOutput, splitNames(admins))

	case "import":
		importCmd.Parse(os.Args[2:])
		if *importInput == "" {
			fmt.Println("Error: -input flag is required")
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		handleImport(backupService, db, *importInput, *importClear)

	default:
		printUsage()
		os.Exit(1)
	}
}

func splitNames(list string) []string {
	var names []string
	for _, name := range strings.Split(list, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func handleExport(backupService *service.BackupService, outputPath string, admins []string) {
	if outputPath == "" {
		outputPath = fmt.Sprintf("results_backup_%s.json", time.Now().Format("20060102_150405"))
	}

	if dir := filepath.Dir(outputPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create output directory: %v", err)
		}
	}

	log.Printf("Exporting results to: %s", outputPath)
	if err := backupService.Export(outputPath, admins); err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	if info, err := os.Stat(outputPath); err == nil {
		log.Printf("Export complete! File size: %.2f KB", float64(info.Size())/1024)
	}
}

func handleImport(backupService *service.BackupService, db *database.DB, inputPath string, clearData bool) {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		log.Fatalf("Input file does not exist: %s", inputPath)
	}

	if clearData {
		fmt.Print("WARNING: This will delete all stored results. Type 'yes' to confirm: ")
		var confirmation string
		fmt.Scanln(&confirmation)
		if confirmation != "yes" {
			log.Println("Import cancelled")
			return
		}

		if _, err := db.Exec("DELETE FROM results"); err != nil {
			log.Fatalf("Failed to clear results: %v", err)
		}
		log.Println("Cleared table: results")
	}

	log.Printf("Importing results from: %s", inputPath)
	summary, err := backupService.Import(inputPath)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	log.Printf("Import complete! %d new results, %d updated, %d admins",
		summary.NewResults, summary.UpdatedResults, summary.Admins)
}

func printUsage() {
	fmt.Println("BTEB Results API Backup Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  backup export [options]    Export results to a JSON file")
	fmt.Println("  backup import [options]    Import results from a JSON file")
	fmt.Println()
	fmt.Println("Export Options:")
	fmt.Println("  -output <file>     Output file path (default: results_backup_YYYYMMDD_HHMMSS.json)")
	fmt.Println("  -admins <names>    Admin accounts to include (default: ADMIN_USERNAME)")
	fmt.Println()
	fmt.Println("Import Options:")
	fmt.Println("  -input <file>      Input file path (required)")
	fmt.Println("  -clear             Delete all results before import (WARNING: destructive)")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  DB_TYPE            Database type: sqlite, postgres, or mysql (default: sqlite)")
	fmt.Println("  DB_PATH            SQLite database path (default: ./results.db)")
	fmt.Println("  DATABASE_URL       PostgreSQL or MySQL connection URL")
}
