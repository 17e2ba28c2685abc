package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Server captures process-level configuration.
type Server struct {
	Addr       string
	AdminToken string
	// Seed loads the deterministic mock dataset at startup. The portal has
	// no persistence layer, so a seeded store is the only way to demo the
	// dashboard with historical data.
	Seed bool
	// SeedValue fixes the mock dataset generator so restarts reproduce
	// the same archive.
	SeedValue int64
	// ReportYears is the ordered year window the dashboard trends over.
	ReportYears []int
}

// defaultReportYears matches the archive's historical window.
var defaultReportYears = []int{2023, 2024, 2025, 2026}

// FromEnv builds a Server config from environment variables so main stays
// lean. A local .env file is honored when present.
func FromEnv() Server {
	_ = godotenv.Load()

	addr := os.Getenv("SIPEKA_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	adminToken := os.Getenv("SIPEKA_ADMIN_TOKEN")
	if adminToken == "" {
		// Development default - must be overridden in any real deployment
		adminToken = "dev-admin-token"
	}

	seedValue := int64(20230101)
	if raw := os.Getenv("SIPEKA_SEED_VALUE"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			seedValue = v
		}
	}

	return Server{
		Addr:        addr,
		AdminToken:  adminToken,
		Seed:        os.Getenv("SIPEKA_SEED") == "true",
		SeedValue:   seedValue,
		ReportYears: parseYears(os.Getenv("SIPEKA_REPORT_YEARS")),
	}
}

// parseYears reads a comma-separated year list, ignoring entries that do
// not parse. An empty or fully invalid value falls back to the default
// window.
func parseYears(raw string) []int {
	if raw == "" {
		return defaultReportYears
	}
	var years []int
	for _, part := range strings.Split(raw, ",") {
		year, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		years = append(years, year)
	}
	if len(years) == 0 {
		return defaultReportYears
	}
	return years
}
