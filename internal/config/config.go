package config

import (
	"log"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"NewsEnricher/internal/fallback"
)

const (
	defaultTimezone   = "UTC"
	configPathEnv     = "NEWS_ENRICHER_CONFIG"
	databaseDSNEnv    = "DATABASE_DSN"
	dataDirEnv        = "DATA_DIR"
	logLevelEnv       = "LOG_LEVEL"
	openRouterKeyEnv  = "OPENROUTER_API_KEY"
	llmModelEnv       = "LLM_MODEL"
	pexelsKeyEnv      = "PEXELS_API_KEY"
	googleKeyEnv      = "GOOGLE_API_KEY"
	wikipediaURLEnv   = "WIKIPEDIA_API_URL"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Storage       StorageConfig      `yaml:"storage"`
	LLM           LLMConfig          `yaml:"llm"`
	Media         MediaConfig        `yaml:"media"`
	Context       ContextConfig      `yaml:"context"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Feeds         []FeedConfig       `yaml:"feeds"`
	Ingestion     IngestionConfig    `yaml:"ingestion"`
	Notifications NotificationConfig `yaml:"notifications"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// StorageConfig describes the remote store and the local fallback file.
type StorageConfig struct {
	DSN          string        `yaml:"dsn"`
	DataDir      string        `yaml:"dataDir"`
	FileName     string        `yaml:"fileName"`
	ProbeTimeout time.Duration `yaml:"probeTimeout"`
}

// LLMConfig defines how to contact the OpenAI-compatible completion API.
type LLMConfig struct {
	Endpoint    string        `yaml:"endpoint"`
	Model       string        `yaml:"model"`
	APIKey      string        `yaml:"apiKey"`
	Timeout     time.Duration `yaml:"timeout"`
	Temperature float64       `yaml:"temperature"`
	TopP        float64       `yaml:"topP"`
}

// MediaConfig groups the image and video search providers.
type MediaConfig struct {
	PexelsAPIKey  string            `yaml:"pexelsApiKey"`
	PexelsURL     string            `yaml:"pexelsUrl"`
	YouTubeAPIKey string            `yaml:"youtubeApiKey"`
	YouTubeURL    string            `yaml:"youtubeUrl"`
	Dailymotion   DailymotionConfig `yaml:"dailymotion"`
	Timeout       time.Duration     `yaml:"timeout"`
}

// DailymotionConfig toggles the keyless secondary video search.
type DailymotionConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
}

// ContextConfig groups the encyclopedia, sentiment and geocoding providers.
type ContextConfig struct {
	WikipediaURL     string        `yaml:"wikipediaUrl"`
	WikipediaEnabled bool          `yaml:"wikipediaEnabled"`
	GoogleAPIKey     string        `yaml:"googleApiKey"`
	SentimentURL     string        `yaml:"sentimentUrl"`
	GeocodeURL       string        `yaml:"geocodeUrl"`
	Region           string        `yaml:"region"`
	Timeout          time.Duration `yaml:"timeout"`
}

// SchedulerConfig defines when configured feeds are polled.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// FeedConfig describes one upstream polled by the scheduler.
type FeedConfig struct {
	Name  string `yaml:"name"`
	Kind  string `yaml:"kind"`
	URL   string `yaml:"url"`
	Limit int    `yaml:"limit"`
}

// IngestionConfig tunes the adapters and the feed worker pool.
type IngestionConfig struct {
	Workers   int           `yaml:"workers"`
	UserAgent string        `yaml:"userAgent"`
	Timeout   time.Duration `yaml:"timeout"`
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
	APIBase  string `yaml:"apiBase"`
}

// Enabled reports whether a digest can be delivered.
func (t TelegramConfig) Enabled() bool {
	return fallback.Usable(t.BotToken) && strings.TrimSpace(t.ChatID) != ""
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			fileCfg := defaultConfig()
			fileCfg.Feeds = nil
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = fileCfg
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.normalize()
	cfg.bindTimezone()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	overrides := []struct {
		env    string
		target *string
	}{
		{databaseDSNEnv, &c.Storage.DSN},
		{dataDirEnv, &c.Storage.DataDir},
		{logLevelEnv, &c.Logging.Level},
		{openRouterKeyEnv, &c.LLM.APIKey},
		{llmModelEnv, &c.LLM.Model},
		{pexelsKeyEnv, &c.Media.PexelsAPIKey},
		{googleKeyEnv, &c.Context.GoogleAPIKey},
		{wikipediaURLEnv, &c.Context.WikipediaURL},
		{telegramTokenEnv, &c.Notifications.Telegram.BotToken},
		{telegramChatIDEnv, &c.Notifications.Telegram.ChatID},
	}
	for _, o := range overrides {
		if v := strings.TrimSpace(os.Getenv(o.env)); v != "" {
			*o.target = v
		}
	}
}

// normalize fills gaps left by partial files and blanks placeholder credentials.
func (c *Config) normalize() {
	def := defaultConfig()

	if c.Media.YouTubeAPIKey == "" {
		c.Media.YouTubeAPIKey = c.Context.GoogleAPIKey
	}
	for _, key := range []*string{
		&c.LLM.APIKey,
		&c.Media.PexelsAPIKey,
		&c.Media.YouTubeAPIKey,
		&c.Context.GoogleAPIKey,
		&c.Notifications.Telegram.BotToken,
	} {
		if !fallback.Usable(*key) {
			*key = ""
		}
	}

	if c.Storage.DataDir == "" {
		c.Storage.DataDir = def.Storage.DataDir
	}
	if c.Storage.FileName == "" {
		c.Storage.FileName = def.Storage.FileName
	}
	if c.Storage.ProbeTimeout <= 0 {
		c.Storage.ProbeTimeout = def.Storage.ProbeTimeout
	}
	if c.LLM.Timeout <= 0 {
		c.LLM.Timeout = def.LLM.Timeout
	}
	if c.Media.Timeout <= 0 {
		c.Media.Timeout = def.Media.Timeout
	}
	if c.Context.Timeout <= 0 {
		c.Context.Timeout = def.Context.Timeout
	}
	if c.Ingestion.Workers <= 0 {
		c.Ingestion.Workers = def.Ingestion.Workers
	}
	if c.Ingestion.Timeout <= 0 {
		c.Ingestion.Timeout = def.Ingestion.Timeout
	}
	if c.Scheduler.CronExpression == "" {
		c.Scheduler.CronExpression = def.Scheduler.CronExpression
	}
	for i := range c.Feeds {
		if c.Feeds[i].Kind == "" {
			c.Feeds[i].Kind = "rss"
		}
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Storage: StorageConfig{
			DataDir:      "data",
			FileName:     "news.json",
			ProbeTimeout: 2 * time.Second,
		},
		LLM: LLMConfig{
			Endpoint:    "https://openrouter.ai/api/v1",
			Model:       "meta-llama/llama-3.2-3b-instruct:free",
			Timeout:     20 * time.Second,
			Temperature: 0.7,
			TopP:        0.9,
		},
		Media: MediaConfig{
			PexelsURL:   "https://api.pexels.com/v1/search",
			YouTubeURL:  "https://www.googleapis.com/youtube/v3/search",
			Dailymotion: DailymotionConfig{Enabled: true, Endpoint: "https://api.dailymotion.com/videos"},
			Timeout:     10 * time.Second,
		},
		Context: ContextConfig{
			WikipediaURL:     "https://en.wikipedia.org/api/rest_v1",
			WikipediaEnabled: true,
			SentimentURL:     "https://language.googleapis.com/v1/documents:analyzeSentiment",
			GeocodeURL:       "https://maps.googleapis.com/maps/api/geocode/json",
			Region:           "za",
			Timeout:          10 * time.Second,
		},
		Scheduler: SchedulerConfig{CronExpression: "0 */6 * * *", Timezone: defaultTimezone, location: tz},
		Feeds: []FeedConfig{
			{Name: "bbc-africa", Kind: "rss", URL: "https://feeds.bbci.co.uk/news/world/africa/rss.xml", Limit: 3},
		},
		Ingestion: IngestionConfig{
			Workers:   4,
			UserAgent: "NewsEnricher/1.0 (+https://github.com/newsenricher)",
			Timeout:   15 * time.Second,
		},
		Notifications: NotificationConfig{
			Telegram: TelegramConfig{APIBase: "https://api.telegram.org"},
		},
	}
}
