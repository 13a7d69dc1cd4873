package providers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"radiomon/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.SetDefault("monitor.interval", "120s")
	viper.SetDefault("monitor.alertThreshold", 1)
	viper.SetDefault("warm.baseUrl", "https://public-api.warmmusic.net/api/v1")
	viper.SetDefault("warm.countryCode", "GB")
	viper.SetDefault("warm.requestTimeout", "15s")
	viper.SetDefault("persistence.compression", "none")

	viper.BindEnv("logger.level", "RADIOMON_LOG_LEVEL")
	viper.BindEnv("monitor.interval", "RADIOMON_POLL_INTERVAL")
	viper.BindEnv("monitor.webhookUrl", "RADIOMON_WEBHOOK_URL")
	viper.BindEnv("warm.token", "RADIOMON_WARM_TOKEN")
	viper.BindEnv("warm.baseUrl", "RADIOMON_WARM_BASE_URL")
	viper.BindEnv("persistence.saveInterval", "RADIOMON_SAVE_INTERVAL")
	viper.BindEnv("cache.enabled", "RADIOMON_CACHE_ENABLED")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "RadioPlayMonitor"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
