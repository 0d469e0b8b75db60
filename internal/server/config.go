package server

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the server configuration.
type Config struct {
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	DataDir string `mapstructure:"data_dir"`
}

// Addr returns the listen address as host:port.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig(configPath string) (*viper.Viper, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.data_dir", "./data")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("database.path", "./data/printwatch.db")

	// Fleet plugin defaults. SNMP session parameters follow the reference
	// deployment: SNMPv2c, community "public", UDP port 1161, 5s timeout,
	// 3 retries, 15s poll cadence.
	v.SetDefault("plugins.fleet.enabled", true)
	v.SetDefault("plugins.fleet.poll_interval", "15s")
	v.SetDefault("plugins.fleet.max_workers", 0) // 0 = one goroutine per printer
	v.SetDefault("plugins.fleet.low_supply_threshold", 20)
	v.SetDefault("plugins.fleet.history_retention", "720h")
	v.SetDefault("plugins.fleet.maintenance_interval", "1h")
	v.SetDefault("plugins.fleet.ping_timeout", "2s")
	v.SetDefault("plugins.fleet.ping_count", 3)
	v.SetDefault("plugins.fleet.snmp.version", "2c")
	v.SetDefault("plugins.fleet.snmp.community", "public")
	v.SetDefault("plugins.fleet.snmp.port", 1161)
	v.SetDefault("plugins.fleet.snmp.timeout", "5000ms")
	v.SetDefault("plugins.fleet.snmp.retries", 3)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("printwatch")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/printwatch")
	}

	// Environment variable support: PW_SERVER_PORT=9090
	v.SetEnvPrefix("PW")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is fine -- use defaults
	}

	return v, nil
}
