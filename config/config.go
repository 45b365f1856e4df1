package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const keyEnv = "ENV"
const envLocal = "local"

const (
	defaultHost             = "0.0.0.0"
	defaultPort             = "8000"
	defaultMCPPath          = "/mcp"
	defaultServerName       = "Local Docs MCP"
	defaultInstructions     = "Local development MCP server with search/fetch tools for ChatGPT connector testing."
	defaultSessionStorePath = ".localdocs/sessions.db"
	defaultLogLevel         = "info"
)

type Config struct {
	config *viper.Viper
}

func Load(env string) (*Config, error) {

	if len(env) == 0 {
		if env = os.Getenv(keyEnv); len(env) == 0 {
			env = envLocal
		}
	}

	configPath, err := getConfigPath(env)

	viperConfig := viper.New()
	setDefaults(viperConfig)
	if err == nil {
		viperConfig.SetConfigFile(configPath)
		if err := viperConfig.ReadInConfig(); err != nil {
			slog.Warn(fmt.Sprintf("error reading config file, %s", err))
		}
	}
	viperConfig.AutomaticEnv()

	cfg := &Config{
		config: viperConfig,
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", defaultHost)
	v.SetDefault("server.port", defaultPort)
	v.SetDefault("mcp.path", defaultMCPPath)
	v.SetDefault("mcp.name", defaultServerName)
	v.SetDefault("mcp.instructions", defaultInstructions)
	v.SetDefault("mcp.stateless", false)
	v.SetDefault("session.store_path", defaultSessionStorePath)
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.bodies", false)
	v.SetDefault("metrics.enabled", true)
}

// Set overrides a config key, mostly useful in tests.
func (c *Config) Set(key string, value any) {
	c.config.Set(key, value)
}

func (c *Config) GetHost() string {
	return c.getString("SERVER_HOST", "server.host")
}

func (c *Config) GetPort() string {
	return c.getString("PORT", "server.port")
}

func (c *Config) GetAddress() string {
	return fmt.Sprintf("%s:%s", c.GetHost(), c.GetPort())
}

func (c *Config) GetMCPPath() string {
	return c.getString("MCP_PATH", "mcp.path")
}

func (c *Config) GetServerName() string {
	return c.getString("MCP_NAME", "mcp.name")
}

func (c *Config) GetInstructions() string {
	return c.getString("MCP_INSTRUCTIONS", "mcp.instructions")
}

func (c *Config) IsStateless() bool {
	return c.getBool("MCP_STATELESS", "mcp.stateless")
}

func (c *Config) GetSessionStorePath() string {
	return c.getString("SESSION_STORE_PATH", "session.store_path")
}

func (c *Config) GetLogLevel() string {
	return c.getString("LOG_LEVEL", "log.level")
}

func (c *Config) ShouldLogBodies() bool {
	return c.getBool("LOG_BODIES", "log.bodies")
}

func (c *Config) IsMetricsEnabled() bool {
	return c.getBool("METRICS_ENABLED", "metrics.enabled")
}

// getString prefers the environment variable over the config file key.
func (c *Config) getString(envKey string, fileKey string) string {
	value := c.config.GetString(envKey)
	if len(value) == 0 {
		value = c.config.GetString(fileKey)
	}

	return value
}

func (c *Config) getBool(envKey string, fileKey string) bool {
	if c.config.IsSet(envKey) {
		return c.config.GetBool(envKey)
	}

	return c.config.GetBool(fileKey)
}

func getProjectRoot() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}

	for {
		configDir := filepath.Join(currentDir, "config")
		if info, err := os.Stat(configDir); err == nil && info.IsDir() {
			return currentDir, nil
		}

		parent := filepath.Dir(currentDir)

		if parent == currentDir {
			break
		}

		currentDir = parent
	}

	return "", fmt.Errorf("could not find project root (directory containing 'config' folder)")
}

func getConfigPath(env string) (string, error) {
	configFile := fmt.Sprintf("config.%s.yaml", env)

	projectRoot, err := getProjectRoot()
	if err != nil {
		slog.Warn("failed to find project root with config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("failed to find project root: %w", err)
	}
	configPath := filepath.Join(projectRoot, "config", configFile)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		slog.Warn("failed to find config file within config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("config file does not exist: %s", configPath)
	}

	return configPath, nil
}
