// Seeder: loads a companies JSON file and inserts the roster with the
// default score, skipping ids that already exist. --wipe clears companies and
// votes first.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/faangarena/arena/internal/domain"
	"github.com/faangarena/arena/internal/platform/clock"
	"github.com/faangarena/arena/internal/platform/config"
	"github.com/faangarena/arena/internal/platform/logger"
	"github.com/faangarena/arena/internal/platform/migrations"
	postgresstorage "github.com/faangarena/arena/internal/platform/storage/postgres"
)

type companySeed struct {
	Name string `json:"name"`
	Logo string `json:"logo"`
}

func main() {
	file := flag.String("file", "companies.json", "path to the companies JSON file")
	wipe := flag.Bool("wipe", false, "delete all companies and votes before seeding")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", "err", err)
	}

	db, err := postgresstorage.Open(ctx, cfg.PostgresDSN())
	if err != nil {
		logger.Fatal("postgres connection failed", "err", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("sql.DB retrieval failed", "err", err)
	}
	defer sqlDB.Close()

	// The seeder always migrates: it is the first binary to touch a fresh
	// database.
	if err := migrations.Run(db); err != nil {
		logger.Fatal("migration failed", "err", err)
	}

	companyRepo := postgresstorage.NewCompanyRepository(db)
	voteRepo := postgresstorage.NewVoteRepository(db)

	if *wipe {
		logger.Info("wiping votes and companies")
		if err := voteRepo.DeleteAll(ctx); err != nil {
			logger.Fatal("wipe votes failed", "err", err)
		}
		if err := companyRepo.DeleteAll(ctx); err != nil {
			logger.Fatal("wipe companies failed", "err", err)
		}
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		logger.Fatal("read companies file failed", "file", *file, "err", err)
	}

	var seeds []companySeed
	if err := json.Unmarshal(raw, &seeds); err != nil {
		logger.Fatal("invalid companies file", "file", *file, "err", err)
	}

	now := clock.NewSystemClock().Now()
	inserted := 0
	for _, seed := range seeds {
		id := slugify(seed.Name)
		if id == "" {
			logger.Error("skipping company without a usable name", "name", seed.Name)
			continue
		}

		company := domain.Company{
			ID:        id,
			Name:      seed.Name,
			Logo:      seed.Logo,
			Score:     domain.DefaultScore,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := companyRepo.Create(ctx, company); err != nil {
			logger.Fatal("insert company failed", "id", id, "err", err)
		}
		inserted++
	}

	logger.Info("seeding complete", "file", *file, "companies", inserted)
}

// slugify derives the stable company id from the display name: lowercase,
// alphanumerics kept, separators collapsed to dashes.
func slugify(name string) domain.CompanyID {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case r == ' ' || r == '-' || r == '_' || r == '.':
			if !lastDash {
				b.WriteRune('-')
				lastDash = true
			}
		}
	}
	return domain.CompanyID(strings.TrimSuffix(b.String(), "-"))
}
