package config

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	AdminToken    string
	ProjectID     string
	League        LeagueConfig
	Upstream      UpstreamConfig
	Turso         TursoConfig
}

// LeagueConfig identifies the league and season this instance manages.
type LeagueConfig struct {
	ID     string
	Season int
}

// UpstreamConfig points at the fantasy data provider.
type UpstreamConfig struct {
	BaseURL string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}
