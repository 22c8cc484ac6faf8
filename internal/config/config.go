package config

import "fmt"

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Geofence GeofenceConfig `yaml:"geofence"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	ListenAddr    string `yaml:"listen_addr"`
	TemplatesGlob string `yaml:"templates_glob"`
}

// StorageConfig contains daily log storage configuration
type StorageConfig struct {
	Dir       string `yaml:"dir"`
	CSVPrefix string `yaml:"csv_prefix"`
}

// GeofenceConfig contains the geofence toggle and reference location.
// CourseLat and CourseLon are pointers so that an absent coordinate can be
// told apart from a legitimate zero.
type GeofenceConfig struct {
	Enabled             bool     `yaml:"enabled"`
	CourseLat           *float64 `yaml:"course_lat"`
	CourseLon           *float64 `yaml:"course_lon"`
	AllowedRadiusMeters float64  `yaml:"allowed_radius_meters"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// applyDefaults fills in defaults for options the file omits
func (c *Config) applyDefaults() {
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = ":8080"
	}
	if c.Server.TemplatesGlob == "" {
		c.Server.TemplatesGlob = "web/templates/*.html"
	}
	if c.Storage.Dir == "" {
		c.Storage.Dir = "."
	}
	if c.Storage.CSVPrefix == "" {
		c.Storage.CSVPrefix = "attendance"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server.listen_addr is required")
	}

	if c.Storage.CSVPrefix == "" {
		return fmt.Errorf("storage.csv_prefix is required")
	}

	if c.Geofence.Enabled {
		if c.Geofence.CourseLat == nil {
			return fmt.Errorf("geofence.course_lat is required when geofencing is enabled")
		}
		if c.Geofence.CourseLon == nil {
			return fmt.Errorf("geofence.course_lon is required when geofencing is enabled")
		}
		if *c.Geofence.CourseLat < -90 || *c.Geofence.CourseLat > 90 {
			return fmt.Errorf("geofence.course_lat must be between -90 and 90")
		}
		if *c.Geofence.CourseLon < -180 || *c.Geofence.CourseLon > 180 {
			return fmt.Errorf("geofence.course_lon must be between -180 and 180")
		}
		if c.Geofence.AllowedRadiusMeters <= 0 {
			return fmt.Errorf("geofence.allowed_radius_meters must be positive")
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	return nil
}
