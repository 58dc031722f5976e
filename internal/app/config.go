package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds application configuration
type Config struct {
	Format          string
	StartDate       time.Time
	EndDate         time.Time
	OutputFile      string
	CacheDBPath     string
	SpreadsheetID   string
	CredentialsFile string
	Workers         int
	RequestDelay    time.Duration
}

// SetupEnvironment loads .env file and configures zerolog output and log level.
func SetupEnvironment() {
	// Load .env file if it exists
	err := godotenv.Load()

	// Configure logging
	if os.Getenv("ENV") == "production" {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(os.Stderr)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	levelStr := strings.ToLower(os.Getenv("LOGLEVEL"))
	switch levelStr {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "panic":
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
	case "disabled":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	case "":
		// Default based on environment
		if os.Getenv("ENV") == "production" {
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Warn().Msgf("Unknown LOGLEVEL '%s', defaulting to info.", levelStr)
	}

	// wait until now to report on the .env file so we have the chance to set up logging first
	if err == nil {
		log.Debug().Msg("Loaded environment variables from .env file.")
	} else {
		log.Debug().Msg("No .env file found or error loading .env file; proceeding with existing environment variables.")
	}
}

// LoadConfig builds the application configuration. The format and date range
// come from command line flags; everything else comes from environment
// variables with sensible defaults.
func LoadConfig(format, startDate, endDate string) (*Config, error) {
	if format == "" {
		format = os.Getenv("SHOWDOWN_FORMAT")
	}
	if format == "" {
		format = "gen3ou"
	}

	start, err := ParseUTCDate(startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	end, err := ParseUTCDate(endDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", endDate, err)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("end date %s must be after start date %s", endDate, startDate)
	}

	outputFile := os.Getenv("OUTPUT_FILE")
	if outputFile == "" {
		outputFile = fmt.Sprintf("%s_replays.csv", format)
	}

	cacheDBPath := os.Getenv("REPLAY_CACHE_DB")
	if cacheDBPath == "" {
		cacheDBPath = "replay_cache.db"
	}

	credentialsFile := os.Getenv("GOOGLE_CREDENTIALS_FILE")
	if credentialsFile == "" {
		credentialsFile = "credentials.json"
	}

	return &Config{
		Format:          format,
		StartDate:       start,
		EndDate:         end,
		OutputFile:      outputFile,
		CacheDBPath:     cacheDBPath,
		SpreadsheetID:   os.Getenv("SPREADSHEET_ID"),
		CredentialsFile: credentialsFile,
	}, nil
}

// ParseUTCDate converts a YYYY-MM-DD date string to UTC midnight of that day.
func ParseUTCDate(dateStr string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// GetRequiredEnv gets an environment variable or panics if not found
func GetRequiredEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatal().Str("key", key).Msg("Required environment variable not set")
	}
	return value
}
