package config

import (
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LogAdapterSpec configures one logging output adapter.
type LogAdapterSpec struct {
	Name    string                 `yaml:"name"`
	Type    string                 `yaml:"type"`
	Enabled bool                   `yaml:"enabled"`
	Options map[string]interface{} `yaml:"options"`
}

// Config represents the application configuration
type Config struct {
	Server struct {
		Port         int           `yaml:"port" default:"8080"`
		Host         string        `yaml:"host" default:"0.0.0.0"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"30s"`
		IdleTimeout  time.Duration `yaml:"idle_timeout" default:"60s"`
	} `yaml:"server"`

	Harvester struct {
		MaxRetries     int           `yaml:"max_retries" default:"3"`
		RetryDelay     time.Duration `yaml:"retry_delay" default:"2s"`
		RequestTimeout time.Duration `yaml:"request_timeout" default:"30s"`
		PageSize       int           `yaml:"page_size" default:"20"` // upstream API caps pages at 20
		MaxResults     int           `yaml:"max_results" default:"100"`
		RateLimit      int           `yaml:"rate_limit" default:"60"` // requests per minute
		MinPageDelay   time.Duration `yaml:"min_page_delay" default:"1s"`
		MaxPageDelay   time.Duration `yaml:"max_page_delay" default:"3s"`
	} `yaml:"harvester"`

	Naukri struct {
		BaseURL    string   `yaml:"base_url" default:"https://www.naukri.com"`
		SearchPath string   `yaml:"search_path" default:"/jobapi/v2/search"`
		UserAgents []string `yaml:"user_agents"`
	} `yaml:"naukri"`

	Export struct {
		OutputDir string   `yaml:"output_dir" default:"."`
		Formats   []string `yaml:"formats"`
	} `yaml:"export"`

	BackgroundTasks struct {
		MaxConcurrentTasks int           `yaml:"max_concurrent_tasks" default:"10"`
		QueueSize          int           `yaml:"queue_size" default:"100"`
		TaskTimeout        time.Duration `yaml:"task_timeout" default:"600s"`
		CleanupInterval    time.Duration `yaml:"cleanup_interval" default:"1h"`
		MaxTaskAge         time.Duration `yaml:"max_task_age" default:"24h"`
	} `yaml:"background_tasks"`

	Logging struct {
		Level    string           `yaml:"level" default:"info"`
		Format   string           `yaml:"format" default:"json"`
		Adapters []LogAdapterSpec `yaml:"adapters"`
	} `yaml:"logging"`

	Redis struct {
		Enabled  bool          `yaml:"enabled" default:"false"`
		URL      string        `yaml:"url" default:"redis://localhost:6379"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db" default:"0"`
		Timeout  time.Duration `yaml:"timeout" default:"5s"`
	} `yaml:"redis"`
}

// expandEnvVars expands environment variables in a string using ${VAR} or $VAR syntax
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	return s
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := &Config{}

	// Set defaults
	config.Server.Port = 8080
	config.Server.Host = "0.0.0.0"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 30 * time.Second
	config.Server.IdleTimeout = 60 * time.Second

	config.Harvester.MaxRetries = 3
	config.Harvester.RetryDelay = 2 * time.Second
	config.Harvester.RequestTimeout = 30 * time.Second
	config.Harvester.PageSize = 20
	config.Harvester.MaxResults = 100
	config.Harvester.RateLimit = 60
	config.Harvester.MinPageDelay = 1 * time.Second
	config.Harvester.MaxPageDelay = 3 * time.Second

	config.Naukri.BaseURL = "https://www.naukri.com"
	config.Naukri.SearchPath = "/jobapi/v2/search"
	config.Naukri.UserAgents = []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	}

	config.Export.OutputDir = "."
	config.Export.Formats = []string{"csv", "xlsx"}

	config.BackgroundTasks.MaxConcurrentTasks = 10
	config.BackgroundTasks.QueueSize = 100
	config.BackgroundTasks.TaskTimeout = 600 * time.Second
	config.BackgroundTasks.CleanupInterval = 1 * time.Hour
	config.BackgroundTasks.MaxTaskAge = 24 * time.Hour

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Redis.URL = "redis://localhost:6379"
	config.Redis.DB = 0
	config.Redis.Timeout = 5 * time.Second

	// Load from YAML file if it exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			// Expand environment variables in the YAML content
			yamlContent := expandEnvVars(string(data))

			if err := yaml.Unmarshal([]byte(yamlContent), config); err != nil {
				return nil, err
			}
		}
	}

	// Override with environment variables
	config.loadFromEnv()

	return config, nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}

	if baseURL := os.Getenv("NAUKRI_BASE_URL"); baseURL != "" {
		c.Naukri.BaseURL = baseURL
	}

	if searchPath := os.Getenv("NAUKRI_SEARCH_PATH"); searchPath != "" {
		c.Naukri.SearchPath = searchPath
	}

	if maxRetries := os.Getenv("HARVESTER_MAX_RETRIES"); maxRetries != "" {
		if retries, err := strconv.Atoi(maxRetries); err == nil {
			c.Harvester.MaxRetries = retries
		}
	}

	if retryDelay := os.Getenv("HARVESTER_RETRY_DELAY"); retryDelay != "" {
		if delay, err := time.ParseDuration(retryDelay); err == nil {
			c.Harvester.RetryDelay = delay
		}
	}

	if requestTimeout := os.Getenv("HARVESTER_REQUEST_TIMEOUT"); requestTimeout != "" {
		if timeout, err := time.ParseDuration(requestTimeout); err == nil {
			c.Harvester.RequestTimeout = timeout
		}
	}

	if rateLimit := os.Getenv("HARVESTER_RATE_LIMIT"); rateLimit != "" {
		if limit, err := strconv.Atoi(rateLimit); err == nil {
			c.Harvester.RateLimit = limit
		}
	}

	if maxResults := os.Getenv("HARVESTER_MAX_RESULTS"); maxResults != "" {
		if results, err := strconv.Atoi(maxResults); err == nil {
			c.Harvester.MaxResults = results
		}
	}

	if outputDir := os.Getenv("EXPORT_OUTPUT_DIR"); outputDir != "" {
		c.Export.OutputDir = outputDir
	}

	if redisEnabled := os.Getenv("REDIS_ENABLED"); redisEnabled != "" {
		c.Redis.Enabled = redisEnabled == "true" || redisEnabled == "1"
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.URL = redisURL
	}

	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		c.Redis.Password = redisPassword
	}

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			c.Redis.DB = db
		}
	}

	if redisTimeout := os.Getenv("REDIS_TIMEOUT"); redisTimeout != "" {
		if timeout, err := time.ParseDuration(redisTimeout); err == nil {
			c.Redis.Timeout = timeout
		}
	}
}
