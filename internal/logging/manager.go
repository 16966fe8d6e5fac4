package logging

import (
	"fmt"

	"jobharvest/internal/config"
)

// Manager manages the logging system initialization and configuration
type Manager struct {
	logger *MultiLogger
}

// NewManager creates a new logging manager
func NewManager() *Manager {
	return &Manager{logger: NewMultiLogger()}
}

// Initialize initializes the logging system from configuration
func (m *Manager) Initialize(cfg *config.Config) error {
	m.logger.SetLevel(ParseLogLevel(cfg.Logging.Level))

	if len(cfg.Logging.Adapters) == 0 {
		// No adapters configured, fall back to stdout
		return m.logger.AddAdapter(NewStdoutAdapter("stdout", cfg.Logging.Format))
	}

	for _, spec := range cfg.Logging.Adapters {
		if !spec.Enabled {
			continue
		}

		adapter, err := createAdapter(spec)
		if err != nil {
			return fmt.Errorf("failed to create adapter %s: %w", spec.Name, err)
		}
		if err := m.logger.AddAdapter(adapter); err != nil {
			return fmt.Errorf("failed to add adapter %s: %w", spec.Name, err)
		}
	}

	return nil
}

func createAdapter(spec config.LogAdapterSpec) (LogAdapter, error) {
	switch spec.Type {
	case "stdout":
		return NewStdoutAdapter(spec.Name, stringOption(spec.Options, "format", "json")), nil
	case "file":
		return NewFileAdapter(spec.Name,
			stringOption(spec.Options, "file_path", ""),
			stringOption(spec.Options, "format", "json"))
	default:
		return nil, fmt.Errorf("unsupported adapter type: %s", spec.Type)
	}
}

func stringOption(options map[string]interface{}, key, defaultValue string) string {
	if value, exists := options[key]; exists {
		if str, ok := value.(string); ok {
			return str
		}
	}
	return defaultValue
}

// GetLogger returns the initialized logger
func (m *Manager) GetLogger() Logger {
	return m.logger
}

// Close closes the logging system
func (m *Manager) Close() error {
	if m.logger != nil {
		return m.logger.Close()
	}
	return nil
}

// Global manager instance
var globalManager *Manager

// InitializeLogging initializes the global logging system
func InitializeLogging(cfg *config.Config) error {
	globalManager = NewManager()
	return globalManager.Initialize(cfg)
}

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() Logger {
	if globalManager == nil {
		// Fallback to a basic logger if not initialized
		manager := NewManager()
		manager.logger.AddAdapter(NewStdoutAdapter("fallback_stdout", "json"))
		globalManager = manager
	}
	return globalManager.GetLogger()
}

// CloseLogging closes the global logging system
func CloseLogging() error {
	if globalManager != nil {
		return globalManager.Close()
	}
	return nil
}

// LogWithRequestID creates a logger with request ID context
func LogWithRequestID(requestID string) Logger {
	return GetGlobalLogger().WithField("request_id", requestID)
}
