package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	FilePath     string        `yaml:"filePath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
	Compression  string        `yaml:"compression" validate:"in:none,zstd"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type MonitorConfig struct {
	Interval       time.Duration `yaml:"interval" validate:"required|min:1"`
	AlertThreshold int           `yaml:"alertThreshold"`
	AutoIdle       bool          `yaml:"autoIdle"`
	WebhookURL     string        `yaml:"webhookUrl"`
	AlertEmail     string        `yaml:"alertEmail"`
}

type WarmConfig struct {
	BaseURL        string        `yaml:"baseUrl" validate:"required"`
	Token          string        `yaml:"token"`
	CountryCode    string        `yaml:"countryCode"`
	RequestTimeout time.Duration `yaml:"requestTimeout"`
}

// CampaignSeed is a campaign registered automatically at startup.
type CampaignSeed struct {
	ID             string        `yaml:"id"`
	ArtistName     string        `yaml:"artistName"`
	StartDate      string        `yaml:"startDate"`
	Interval       time.Duration `yaml:"interval"`
	AlertThreshold int           `yaml:"alertThreshold"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	Monitor     MonitorConfig  `yaml:"monitor"`
	Warm        WarmConfig     `yaml:"warm"`
	Campaigns   []CampaignSeed `yaml:"campaigns"`
	WebServer   Server         `yaml:"webServer"`
	Persistence Persistence    `yaml:"persistence"`
	Logger      LoggerConfig   `yaml:"logger"`
	Cache       CacheConfig    `yaml:"cache"`
	Metrics     MetricsConfig  `yaml:"metrics"`
}

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}
