// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Graphics      GraphicsConfig      `yaml:"graphics"`
	Fog           FogConfig           `yaml:"fog"`
	Stereographic StereographicConfig `yaml:"stereographic"`
	Export        ExportConfig        `yaml:"export"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	NbRayTube  int  `yaml:"nb_ray_tube"`
}

// FogConfig holds the distance fade settings.
type FogConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Inverted   bool    `yaml:"inverted"`
	Length     float32 `yaml:"length"`
	Radius     float32 `yaml:"radius"`
	FromCamera bool    `yaml:"from_camera"`
}

// StereographicConfig holds the sphere projection settings.
type StereographicConfig struct {
	Enabled bool    `yaml:"enabled"`
	Radius  float32 `yaml:"radius"`
	Zoom    float32 `yaml:"zoom"`
}

// ExportConfig holds mesh export settings.
type ExportConfig struct {
	OutputPath string `yaml:"output_path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			NbRayTube:  12,
		},
		Fog: FogConfig{
			Enabled:    false,
			Inverted:   false,
			Length:     40,
			Radius:     10,
			FromCamera: true,
		},
		Stereographic: StereographicConfig{
			Enabled: false,
			Radius:  30,
			Zoom:    1,
		},
		Export: ExportConfig{
			OutputPath: "design.stl",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
