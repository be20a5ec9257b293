package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store       StoreConfig       `yaml:"store" mapstructure:"store"`
	CoinGecko   CoinGeckoConfig   `yaml:"coingecko" mapstructure:"coingecko"`
	Facts       FactsConfig       `yaml:"facts" mapstructure:"facts"`
	Entitlement EntitlementConfig `yaml:"entitlement" mapstructure:"entitlement"`
	Methodology Methodology       `yaml:"methodology" mapstructure:"methodology"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the screening record store.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // sqlite | postgres | memory
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// CoinGeckoConfig holds market data API settings.
type CoinGeckoConfig struct {
	Key         string  `yaml:"key" mapstructure:"key"`
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// FactsConfig configures the compliance facts catalog.
type FactsConfig struct {
	CatalogPath string `yaml:"catalog_path" mapstructure:"catalog_path"`
}

// EntitlementConfig configures free-tier screening limits.
type EntitlementConfig struct {
	FreeMonthlyScreenings int     `yaml:"free_monthly_screenings" mapstructure:"free_monthly_screenings"`
	AnonymousPerSec       float64 `yaml:"anonymous_per_sec" mapstructure:"anonymous_per_sec"`
	AnonymousBurst        int     `yaml:"anonymous_burst" mapstructure:"anonymous_burst"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Methodology is the compliance methodology table: every weight,
// penalty, and threshold the scoring engine uses. These values define
// the product's screening methodology and are the primary target of
// tuning and regression tests; nothing in the engine embeds a bare
// literal.
type Methodology struct {
	// Pillar weights; must sum to 1.0. Nature and token structure are
	// existential questions and carry the heaviest weight.
	NatureWeight     float64 `yaml:"nature_weight" mapstructure:"nature_weight"`
	TokenWeight      float64 `yaml:"token_weight" mapstructure:"token_weight"`
	RatiosWeight     float64 `yaml:"ratios_weight" mapstructure:"ratios_weight"`
	GovernanceWeight float64 `yaml:"governance_weight" mapstructure:"governance_weight"`

	// Three-band status thresholds shared by all pillars.
	CompliantThreshold    float64 `yaml:"compliant_threshold" mapstructure:"compliant_threshold"`
	NonCompliantThreshold float64 `yaml:"non_compliant_threshold" mapstructure:"non_compliant_threshold"`

	// Overall rating thresholds.
	HalalThreshold    float64 `yaml:"halal_threshold" mapstructure:"halal_threshold"`
	NonHalalThreshold float64 `yaml:"non_halal_threshold" mapstructure:"non_halal_threshold"`

	// Confidence spread bounds (max minus min pillar score).
	HighConfidenceSpread float64 `yaml:"high_confidence_spread" mapstructure:"high_confidence_spread"`
	LowConfidenceSpread  float64 `yaml:"low_confidence_spread" mapstructure:"low_confidence_spread"`

	// Nature & Purpose pillar.
	DisqualifierPenalty float64 `yaml:"disqualifier_penalty" mapstructure:"disqualifier_penalty"`

	// Token structure factor weights; must sum to 1.0.
	RibaAvoidanceWeight float64 `yaml:"riba_avoidance_weight" mapstructure:"riba_avoidance_weight"`
	GhararWeight        float64 `yaml:"gharar_weight" mapstructure:"gharar_weight"`
	SpeculationWeight   float64 `yaml:"speculation_weight" mapstructure:"speculation_weight"`
	AssetBackingWeight  float64 `yaml:"asset_backing_weight" mapstructure:"asset_backing_weight"`

	// Financial ratios pillar.
	UnknownRatioPenalty float64 `yaml:"unknown_ratio_penalty" mapstructure:"unknown_ratio_penalty"`
	FailedRatioPenalty  float64 `yaml:"failed_ratio_penalty" mapstructure:"failed_ratio_penalty"`

	// Governance pillar additive points.
	ShariahBoardPoints  float64 `yaml:"shariah_board_points" mapstructure:"shariah_board_points"`
	AdvisorPoints       float64 `yaml:"advisor_points" mapstructure:"advisor_points"`
	CertificationPoints float64 `yaml:"certification_points" mapstructure:"certification_points"`
	WhitepaperPoints    float64 `yaml:"whitepaper_points" mapstructure:"whitepaper_points"`
	AuditPoints         float64 `yaml:"audit_points" mapstructure:"audit_points"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("HALAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "halal-screener.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("coingecko.base_url", "https://api.coingecko.com/api/v3")
	v.SetDefault("coingecko.timeout_secs", 15)
	v.SetDefault("coingecko.rate_per_sec", 0.5)
	v.SetDefault("facts.catalog_path", "facts.yaml")
	v.SetDefault("entitlement.free_monthly_screenings", 5)
	v.SetDefault("entitlement.anonymous_per_sec", 1)
	v.SetDefault("entitlement.anonymous_burst", 3)

	setMethodologyDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// setMethodologyDefaults seeds the methodology table so a bare config
// file still yields a valid scoring setup.
func setMethodologyDefaults(v *viper.Viper) {
	v.SetDefault("methodology.nature_weight", 0.35)
	v.SetDefault("methodology.token_weight", 0.30)
	v.SetDefault("methodology.ratios_weight", 0.20)
	v.SetDefault("methodology.governance_weight", 0.15)
	v.SetDefault("methodology.compliant_threshold", 70)
	v.SetDefault("methodology.non_compliant_threshold", 40)
	v.SetDefault("methodology.halal_threshold", 70)
	v.SetDefault("methodology.non_halal_threshold", 40)
	v.SetDefault("methodology.high_confidence_spread", 15)
	v.SetDefault("methodology.low_confidence_spread", 40)
	v.SetDefault("methodology.disqualifier_penalty", 40)
	v.SetDefault("methodology.riba_avoidance_weight", 0.35)
	v.SetDefault("methodology.gharar_weight", 0.25)
	v.SetDefault("methodology.speculation_weight", 0.20)
	v.SetDefault("methodology.asset_backing_weight", 0.20)
	v.SetDefault("methodology.unknown_ratio_penalty", 15)
	v.SetDefault("methodology.failed_ratio_penalty", 35)
	v.SetDefault("methodology.shariah_board_points", 25)
	v.SetDefault("methodology.advisor_points", 15)
	v.SetDefault("methodology.certification_points", 15)
	v.SetDefault("methodology.whitepaper_points", 10)
	v.SetDefault("methodology.audit_points", 10)
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
