package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"CommandCore/pkg/datatype"
	"CommandCore/pkg/history"
	"CommandCore/pkg/resolver"
)

// TokenSecretEnv names the variable holding the bearer token signing secret.
const TokenSecretEnv = "JWT_ACCESS_TOKEN_SECRET"

// EngineConfig gathers every tunable of the resolution pipeline and the service around it.
type EngineConfig struct {
	Port          string
	CatalogDir    string
	Location      *time.Location
	Resolver      resolver.Config
	DataTypes     datatype.Config
	Retention     time.Duration
	PruneInterval time.Duration
	RatePerSecond float64
	RateBurst     int
	TokenSecret   string
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Port:          "3000",
		CatalogDir:    "configs/apps",
		Location:      time.Local,
		Resolver:      resolver.DefaultConfig(),
		DataTypes:     datatype.DefaultConfig(),
		Retention:     history.DefaultRetention,
		PruneInterval: time.Minute,
		RatePerSecond: 50,
		RateBurst:     100,
	}
}

// LoadEngineConfig reads the environment on top of DefaultEngineConfig. Unparsable values
// fall back to their default; only an unknown TIMEZONE is an error.
func LoadEngineConfig() (EngineConfig, error) {
	def := DefaultEngineConfig()

	cfg := EngineConfig{
		Port:       getenvDefault("APP_PORT", def.Port),
		CatalogDir: getenvDefault("CATALOG_DIR", def.CatalogDir),
		Location:   def.Location,
		Resolver: resolver.Config{
			TemplateCutoff: getenvFloatDefault("TEMPLATE_CUTOFF", def.Resolver.TemplateCutoff),
			AcceptCutoff:   getenvFloatDefault("ACCEPT_CUTOFF", def.Resolver.AcceptCutoff),
			MinLiterals:    getenvIntDefault("MIN_TEMPLATE_LITERALS", def.Resolver.MinLiterals),
		},
		DataTypes: datatype.Config{
			MatchCutoff:          getenvFloatDefault("TERM_MATCH_CUTOFF", def.DataTypes.MatchCutoff),
			PronounMaxScore:      getenvFloatDefault("PRONOUN_MAX_SCORE", def.DataTypes.PronounMaxScore),
			PronounObjectHorizon: getenvIntDefault("PRONOUN_OBJECT_HORIZON", def.DataTypes.PronounObjectHorizon),
			PronounTimeHorizon:   time.Duration(getenvIntDefault("PRONOUN_HORIZON_SECONDS", int(def.DataTypes.PronounTimeHorizon/time.Second))) * time.Second,
			FreeTextScore:        getenvFloatDefault("FREE_TEXT_SCORE", def.DataTypes.FreeTextScore),
		},
		Retention:     time.Duration(getenvIntDefault("HISTORY_RETENTION_MINUTES", int(def.Retention/time.Minute))) * time.Minute,
		PruneInterval: time.Duration(getenvIntDefault("HISTORY_PRUNE_SECONDS", int(def.PruneInterval/time.Second))) * time.Second,
		RatePerSecond: getenvFloatDefault("RATE_LIMIT_PER_SECOND", def.RatePerSecond),
		RateBurst:     getenvIntDefault("RATE_LIMIT_BURST", def.RateBurst),
		TokenSecret:   os.Getenv(TokenSecretEnv),
	}

	if tz := os.Getenv("TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return EngineConfig{}, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err)
		}
		cfg.Location = loc
	}

	return cfg, nil
}

func getenvDefault(key, val string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return val
}

func getenvIntDefault(key string, val int) int {
	v := os.Getenv(key)
	if v == "" {
		return val
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return val
	}
	return n
}

func getenvFloatDefault(key string, val float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return val
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return val
	}
	return f
}
