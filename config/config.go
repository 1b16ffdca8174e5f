package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	Awards   Awards
	Grading  Grading
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// Awards holds the prize distribution settings. PrizeTable is ordered by
// rank position, 1st place first.
type Awards struct {
	PrizeTable []decimal.Decimal
	Delay      time.Duration
}

// Grading holds the open-ended similarity knobs. They are injected into the
// grader so tests can run with alternate values.
type Grading struct {
	SimilarityThreshold float64
	MinTokenLength      int
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("PRIZE_TABLE", "10,7,3")
	viper.SetDefault("AWARD_DELAY", "72h")
	viper.SetDefault("SIMILARITY_THRESHOLD", 0.6)
	viper.SetDefault("MIN_TOKEN_LENGTH", 2)

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	prizeTable, err := parsePrizeTable(viper.GetString("PRIZE_TABLE"))
	if err != nil {
		return nil, err
	}
	config.Awards.PrizeTable = prizeTable

	delay, err := time.ParseDuration(viper.GetString("AWARD_DELAY"))
	if err != nil {
		return nil, fmt.Errorf("invalid AWARD_DELAY %q: %w", viper.GetString("AWARD_DELAY"), err)
	}
	config.Awards.Delay = delay

	config.Grading.SimilarityThreshold = viper.GetFloat64("SIMILARITY_THRESHOLD")
	config.Grading.MinTokenLength = viper.GetInt("MIN_TOKEN_LENGTH")

	log.Info().
		Str("server_port", config.Server.Port).
		Str("award_delay", config.Awards.Delay.String()).
		Msg("Config loaded")
	return &config, nil
}

// parsePrizeTable parses a comma separated list of AZN amounts, e.g. "10,7,3".
func parsePrizeTable(raw string) ([]decimal.Decimal, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("PRIZE_TABLE must contain exactly 3 amounts, got %q", raw)
	}
	table := make([]decimal.Decimal, 0, len(parts))
	for _, p := range parts {
		amount, err := decimal.NewFromString(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid prize amount %q: %w", p, err)
		}
		if amount.IsNegative() {
			return nil, fmt.Errorf("prize amount %q must not be negative", p)
		}
		table = append(table, amount)
	}
	return table, nil
}
