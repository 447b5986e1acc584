package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/ligafc/liga-engine/internal/database"
	"github.com/ligafc/liga-engine/internal/league"
	"github.com/ligafc/liga-engine/internal/schedule"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := map[string]string{
		"DB_NAME":        "liga.db",
		"MIGRATIONS_DIR": "migrations",
		"LEAGUE_ID":      "liga-demo",
		"SEASON":         "2025",
	}
	for key := range config {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		}
	}
	return config
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	season, err := strconv.Atoi(cfg["SEASON"])
	if err != nil {
		log.Fatalf("Invalid SEASON %q: %s", cfg["SEASON"], err)
	}

	db, teardown, err := database.InitDB(cfg["DB_NAME"], os.Getenv("TURSO_PRIMARY_URL"), os.Getenv("TURSO_AUTH_TOKEN"), cfg["MIGRATIONS_DIR"])
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	participants := make([]league.Participant, 0, 8)
	for i := 1; i <= 8; i++ {
		participants = append(participants, league.Participant{
			ID:       league.ParticipantID(fmt.Sprintf("time-%d", i)),
			EntityID: int64(i),
			Name:     fmt.Sprintf("Seeder Time %d", i),
			Active:   true,
		})
	}

	store := league.New(db)
	if err := store.UpsertParticipants(cfg["LEAGUE_ID"], season, participants); err != nil {
		log.Fatalf("Failed to seed participants: %s", err)
	}
	log.Info("Ensured dummy participants exist.", "count", len(participants))

	ids := make([]league.ParticipantID, len(participants))
	for i, p := range participants {
		ids[i] = p.ID
	}
	rounds := schedule.RoundRobin(ids)

	fixtureStore := schedule.NewStore(db)
	written, err := fixtureStore.GenerateOnce(cfg["LEAGUE_ID"], season, rounds)
	if err != nil {
		log.Fatalf("Failed to generate fixtures: %s", err)
	}
	if !written {
		log.Info("Fixtures already exist, left untouched")
	} else {
		log.Info("Generated round-robin schedule", "rounds", len(rounds))
	}

	log.Info("Seeding complete", "leagueID", cfg["LEAGUE_ID"], "season", season)
}
