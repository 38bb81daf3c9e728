package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"tgdrive/internal/config"
	"tgdrive/internal/domain/models"
	"tgdrive/internal/domain/services"
	"tgdrive/internal/events"
	"tgdrive/internal/repository/store"
	authSvc "tgdrive/internal/service/auth"
	"tgdrive/internal/service/drive"
)

// seedFolders is the demo tree created under the user's Home folder
var seedFolders = []string{
	"Documents",
	"Documents/Work",
	"Documents/Work/Reports",
	"Documents/Personal",
	"Photos",
	"Photos/2024",
	"Photos/2025",
	"Music",
	"Archive",
}

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed folders")
	clearData := flag.Bool("clear-data", false, "Delete all users, folders and files (keep schema)")
	userID := flag.Int64("user", 1, "Chat user id that receives the demo tree")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("🚫 BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx := context.Background()
	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer st.Close()

	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := st.DropSchema(ctx); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	log.Println("📋 Ensuring database schema is up to date...")
	if err := st.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Printf("✅ Schema ready (backend: %s, prefix: %s)", st.Backend, cfg.TablePrefix)

	if *schemaOnly {
		return
	}

	if *clearData {
		log.Println("🧹 Clearing users, folders and files...")
		if err := st.ClearData(ctx); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Println("✅ Data cleared successfully")
		return
	}

	publisher := events.NoopPublisher{}
	authorizer := authSvc.NewOwnerBasedAuthorizer(st.Folders, st.Files)
	accounts := drive.NewAccountService(st.Users, st.Folders, st.TxManager, publisher, logger)
	folders := drive.NewFolderService(st.Users, st.Folders, st.TxManager, authorizer, publisher, logger)

	log.Printf("🌱 Seeding folders for user %d", *userID)
	created, err := seed(ctx, accounts, folders, *userID, seedFolders)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("🎉 Seeding complete! %d folders created", created)
}

// seed creates each slash-separated path under the user's root, parents first.
// Paths that already exist are reused.
func seed(ctx context.Context, accounts services.AccountService, folders services.FolderService, userID int64, paths []string) (int, error) {
	start, err := accounts.Start(ctx, userID)
	if err != nil {
		return 0, err
	}

	byPath := map[string]int64{"": start.Root.ID}
	created := 0

	for _, p := range paths {
		parentPath, name := "", p
		if i := strings.LastIndex(p, "/"); i >= 0 {
			parentPath, name = p[:i], p[i+1:]
		}

		parentID, ok := byPath[parentPath]
		if !ok {
			log.Printf("⚠️  Skipping %q: parent %q was not created", p, parentPath)
			continue
		}

		// Explore makes the parent the current folder, which CreateFolder uses
		res, err := folders.Explore(ctx, userID, parentID)
		if err != nil {
			return created, err
		}

		if existing := findChild(res.Contents, name); existing != nil {
			byPath[p] = existing.ID
			continue
		}

		folder, err := folders.CreateFolder(ctx, userID, name)
		if err != nil {
			return created, err
		}
		byPath[p] = folder.ID
		created++
		log.Printf("✅ Created folder %d/%d: %s (ID: %d)", created, len(paths), p, folder.ID)
	}

	// Leave the user in the root like /start does
	if _, err := folders.Explore(ctx, userID, start.Root.ID); err != nil {
		return created, err
	}
	return created, nil
}

func findChild(contents *models.FolderContents, name string) *models.Folder {
	if contents == nil {
		return nil
	}
	for i := range contents.Folders {
		if contents.Folders[i].Name == name {
			return &contents.Folders[i]
		}
	}
	return nil
}
