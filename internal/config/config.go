package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Paths    PathsConfig  `mapstructure:"paths"`
	Output   OutputConfig `mapstructure:"output"`
	Mixer    MixerConfig  `mapstructure:"mixer"`
	LogLevel string       `mapstructure:"log_level"`
}

type PathsConfig struct {
	BaseSample string `mapstructure:"base_sample"`
	OutputDir  string `mapstructure:"output_dir"`
}

type OutputConfig struct {
	Prefix string `mapstructure:"prefix"`
	Format string `mapstructure:"format"`
}

type MixerConfig struct {
	Backend    string `mapstructure:"backend"`
	FFmpegPath string `mapstructure:"ffmpeg_path"`
	Quality    int    `mapstructure:"quality"`
	// Timeout bounds a single render in seconds; 0 waits indefinitely.
	Timeout int `mapstructure:"timeout"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

func DefaultConfig() Config {
	return Config{
		Paths: PathsConfig{
			BaseSample: "app/src/main/res/raw/chime_sound.mp3",
			OutputDir:  "app/src/main/res/raw",
		},
		Output: OutputConfig{
			Prefix: "chime",
			Format: FormatMP3,
		},
		Mixer: MixerConfig{
			Backend:    BackendFFmpeg,
			FFmpegPath: "ffmpeg",
			Quality:    2,
			Timeout:    0,
		},
		LogLevel: "info",
	}
}

// flagKeys maps each registered flag to the config key it overrides.
var flagKeys = map[string]string{
	"paths-base-sample": "paths.base_sample",
	"paths-output-dir":  "paths.output_dir",
	"output-prefix":     "output.prefix",
	"output-format":     "output.format",
	"mixer":             "mixer.backend",
	"ffmpeg-path":       "mixer.ffmpeg_path",
	"quality":           "mixer.quality",
	"mixer-timeout":     "mixer.timeout",
	"log-level":         "log_level",
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("paths-base-sample", defaults.Paths.BaseSample, "Path to the single-strike chime sample")
	fs.String("paths-output-dir", defaults.Paths.OutputDir, "Directory that receives the generated chime files")
	fs.String("output-prefix", defaults.Output.Prefix, "File name prefix for generated chimes")
	fs.String("output-format", defaults.Output.Format, "Output audio format (mp3|ogg|wav)")
	fs.String("mixer", defaults.Mixer.Backend, "Mixer backend (ffmpeg|native)")
	fs.String("ffmpeg-path", defaults.Mixer.FFmpegPath, "Path to the ffmpeg executable")
	fs.Int("quality", defaults.Mixer.Quality, "Encoder VBR quality passed as -q:a (lower is better)")
	fs.Int("mixer-timeout", defaults.Mixer.Timeout, "Per-file render timeout in seconds (0 disables)")
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := bindFlags(v, opts.Cmd.Flags()); err != nil {
			return Config{}, err
		}
	}

	v.SetEnvPrefix("CHIMEGEN")
	replacer := strings.NewReplacer("-", "_", ".", "_")
	v.SetEnvKeyReplacer(replacer)
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("chimegen")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate normalizes enum fields in place and rejects combinations the
// mixers cannot render.
func (c *Config) Validate() error {
	backend, err := NormalizeBackend(c.Mixer.Backend)
	if err != nil {
		return err
	}
	format, err := NormalizeFormat(c.Output.Format)
	if err != nil {
		return err
	}
	if backend == BackendNative && format != FormatWAV {
		return fmt.Errorf("mixer %q only renders %s output, got %q", BackendNative, FormatWAV, format)
	}
	if strings.TrimSpace(c.Output.Prefix) == "" {
		return fmt.Errorf("output prefix must not be empty")
	}
	if lo, hi, ok := QualityRange(format); ok && (c.Mixer.Quality < lo || c.Mixer.Quality > hi) {
		return fmt.Errorf("invalid quality %d for %s output (must be %d..%d)", c.Mixer.Quality, format, lo, hi)
	}
	if c.Mixer.Timeout < 0 {
		return fmt.Errorf("invalid mixer timeout %d (must be >= 0)", c.Mixer.Timeout)
	}

	c.Mixer.Backend = backend
	c.Output.Format = format

	return nil
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}

	return nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("paths.base_sample", c.Paths.BaseSample)
	v.SetDefault("paths.output_dir", c.Paths.OutputDir)
	v.SetDefault("output.prefix", c.Output.Prefix)
	v.SetDefault("output.format", c.Output.Format)
	v.SetDefault("mixer.backend", c.Mixer.Backend)
	v.SetDefault("mixer.ffmpeg_path", c.Mixer.FFmpegPath)
	v.SetDefault("mixer.quality", c.Mixer.Quality)
	v.SetDefault("mixer.timeout", c.Mixer.Timeout)
	v.SetDefault("log_level", c.LogLevel)
}
