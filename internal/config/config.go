// Package config manages the JSON configuration file: loading with defaults,
// atomic persistence, and keyed updates from the admin surface.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Addr        string `json:"addr"`
	MaxUploadMB int    `json:"max_upload_mb"`
}

// ConvertConfig holds the document conversion settings.
type ConvertConfig struct {
	Canvas              string `json:"canvas"`
	RemoveClipPaths     bool   `json:"remove_clip_paths"`
	InlineCSS           bool   `json:"inline_css"`
	SimplifyIDs         bool   `json:"simplify_ids"`
	OptimizeCoordinates bool   `json:"optimize_coordinates"`
	ReplaceNonWebFonts  bool   `json:"replace_non_web_fonts"`
}

// Config is the full application configuration.
type Config struct {
	Server  ServerConfig  `json:"server"`
	Convert ConvertConfig `json:"convert"`
}

// defaultConfig returns the configuration written on first Load.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        ":8080",
			MaxUploadMB: 64,
		},
		Convert: ConvertConfig{
			Canvas:              "widescreen",
			RemoveClipPaths:     true,
			InlineCSS:           true,
			SimplifyIDs:         true,
			OptimizeCoordinates: true,
			ReplaceNonWebFonts:  true,
		},
	}
}

// ConfigManager loads and persists the configuration file.
type ConfigManager struct {
	mu     sync.RWMutex
	path   string
	config *Config
}

// NewConfigManager creates a manager for the config file at path.
func NewConfigManager(path string) *ConfigManager {
	return &ConfigManager{path: path}
}

// Load reads the configuration from disk. A missing file is created with
// defaults; unknown fields in an existing file are ignored.
func (cm *ConfigManager) Load() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	data, err := os.ReadFile(cm.path)
	if os.IsNotExist(err) {
		cm.config = defaultConfig()
		return cm.saveLocked()
	}
	if err != nil {
		return fmt.Errorf("读取配置文件失败: %w", err)
	}

	cfg := defaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("解析配置文件失败: %w", err)
	}
	cm.config = cfg
	return nil
}

// Save persists the current configuration.
func (cm *ConfigManager) Save() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return cm.saveLocked()
}

// saveLocked writes the config via a temp file and rename so a crash never
// leaves a half-written file. Caller holds the lock.
func (cm *ConfigManager) saveLocked() error {
	if err := os.MkdirAll(filepath.Dir(cm.path), 0755); err != nil {
		return fmt.Errorf("创建配置目录失败: %w", err)
	}
	data, err := json.MarshalIndent(cm.config, "", "  ")
	if err != nil {
		return err
	}
	tmp := cm.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}
	return os.Rename(tmp, cm.path)
}

// Get returns a copy of the current configuration.
func (cm *ConfigManager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	if cm.config == nil {
		return defaultConfig()
	}
	copied := *cm.config
	return &copied
}

// Update applies keyed updates and persists the result. Unknown keys are
// rejected before anything is changed.
func (cm *ConfigManager) Update(updates map[string]interface{}) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.config == nil {
		cm.config = defaultConfig()
	}

	for key := range updates {
		if !knownKey(key) {
			return fmt.Errorf("未知的配置项: %s", key)
		}
	}

	for key, value := range updates {
		switch key {
		case "server.addr":
			if s, ok := value.(string); ok {
				cm.config.Server.Addr = s
			}
		case "server.max_upload_mb":
			if n, ok := toInt(value); ok {
				cm.config.Server.MaxUploadMB = n
			}
		case "convert.canvas":
			if s, ok := value.(string); ok {
				cm.config.Convert.Canvas = s
			}
		case "convert.remove_clip_paths":
			if b, ok := value.(bool); ok {
				cm.config.Convert.RemoveClipPaths = b
			}
		case "convert.inline_css":
			if b, ok := value.(bool); ok {
				cm.config.Convert.InlineCSS = b
			}
		case "convert.simplify_ids":
			if b, ok := value.(bool); ok {
				cm.config.Convert.SimplifyIDs = b
			}
		case "convert.optimize_coordinates":
			if b, ok := value.(bool); ok {
				cm.config.Convert.OptimizeCoordinates = b
			}
		case "convert.replace_non_web_fonts":
			if b, ok := value.(bool); ok {
				cm.config.Convert.ReplaceNonWebFonts = b
			}
		}
	}
	return cm.saveLocked()
}

func knownKey(key string) bool {
	switch key {
	case "server.addr", "server.max_upload_mb",
		"convert.canvas", "convert.remove_clip_paths", "convert.inline_css",
		"convert.simplify_ids", "convert.optimize_coordinates",
		"convert.replace_non_web_fonts":
		return true
	}
	return false
}

// toInt accepts the numeric types JSON decoding produces.
func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	}
	return 0, false
}
