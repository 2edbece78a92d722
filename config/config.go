package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// AutoplayParams holds the parameters for one autoplay profile (name and behavior).
type AutoplayParams struct {
	Name               string `json:"name"`
	UseKnownPairChance int    `json:"use_known_pair_chance"` // 0-100, probability to use a memorized pair when available
	ForgetChance       int    `json:"forget_chance"`         // 0-100, probability to forget each remembered card per move
	ThinkFrames        int    `json:"think_frames"`          // frames to wait between selections
}

// Config holds all configurable game parameters.
type Config struct {
	Symbols           []string `json:"symbols"`
	PairMultiplier    int      `json:"pair_multiplier"`
	ResolutionDelayMS int      `json:"resolution_delay_ms"`
	CardsPerRow       int      `json:"cards_per_row"`
	FrameRateHz       int      `json:"frame_rate_hz"`
	WSPort            int      `json:"ws_port"`
	LogLevel          string   `json:"log_level"`

	// AssetBaseURL prefixes every entry of Assets when sent to clients.
	AssetBaseURL string `json:"asset_base_url"`
	// Assets maps asset keys (lower-case symbol names, card_back, flip, ...) to files.
	// When empty, conventional names are derived from Symbols.
	Assets map[string]string `json:"assets"`

	// AutoplayProfiles lists bots used by the -simulate mode.
	AutoplayProfiles []AutoplayParams `json:"autoplay_profiles"`
}

// Defaults returns a Config with the desktop game's values: eight fruits in
// pairs, four cards per row, one second to look at a pair, 60 frames per second.
func Defaults() *Config {
	return &Config{
		Symbols:           []string{"Apple", "Banana", "Orange", "Mango", "Grape", "Pear", "Lemon", "Peach"},
		PairMultiplier:    2,
		ResolutionDelayMS: 1000,
		CardsPerRow:       4,
		FrameRateHz:       60,
		WSPort:            8080,
		LogLevel:          "info",
		AssetBaseURL:      "/assets",
		AutoplayProfiles: []AutoplayParams{
			{Name: "Mnemosyne", UseKnownPairChance: 90, ForgetChance: 5, ThinkFrames: 20},
		},
	}
}

// Load reads configuration from an optional config.json file,
// then applies environment variable overrides. Fields not set
// in either source retain their default values.
func Load() *Config {
	return LoadFile("config.json")
}

// LoadFile is Load with an explicit JSON path. A missing file is not an error.
func LoadFile(path string) *Config {
	cfg := Defaults()

	if f, err := os.Open(path); err == nil {
		defer f.Close()
		if err := json.NewDecoder(f).Decode(cfg); err != nil {
			slog.Warn("failed to parse config file", "tag", "config", "path", path, "err", err)
		}
	}

	// Environment variable overrides
	overrideStrings(&cfg.Symbols, "SYMBOLS")
	overrideInt(&cfg.PairMultiplier, "PAIR_MULTIPLIER")
	overrideInt(&cfg.ResolutionDelayMS, "RESOLUTION_DELAY_MS")
	overrideInt(&cfg.CardsPerRow, "CARDS_PER_ROW")
	overrideInt(&cfg.FrameRateHz, "FRAME_RATE_HZ")
	overrideInt(&cfg.WSPort, "WS_PORT")
	overrideString(&cfg.LogLevel, "LOG_LEVEL")
	overrideString(&cfg.AssetBaseURL, "ASSET_BASE_URL")
	if len(cfg.AutoplayProfiles) > 0 {
		overrideString(&cfg.AutoplayProfiles[0].Name, "AUTOPLAY_NAME")
		overrideInt(&cfg.AutoplayProfiles[0].UseKnownPairChance, "AUTOPLAY_USE_KNOWN_PAIR_CHANCE")
		overrideInt(&cfg.AutoplayProfiles[0].ForgetChance, "AUTOPLAY_FORGET_CHANCE")
		overrideInt(&cfg.AutoplayProfiles[0].ThinkFrames, "AUTOPLAY_THINK_FRAMES")
	}

	return cfg
}

// ResolutionDelay returns the pair resolution delay as a duration.
func (c *Config) ResolutionDelay() time.Duration {
	return time.Duration(c.ResolutionDelayMS) * time.Millisecond
}

// FramePeriod returns the host loop's frame interval. A non-positive frame
// rate falls back to 60 Hz.
func (c *Config) FramePeriod() time.Duration {
	hz := c.FrameRateHz
	if hz <= 0 {
		hz = 60
	}
	return time.Second / time.Duration(hz)
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to Info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func overrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*field = n
		} else {
			slog.Warn("invalid environment value", "tag", "config", "key", envKey, "value", val)
		}
	}
}

func overrideString(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

// overrideStrings splits a comma-separated list, dropping blank entries.
func overrideStrings(field *[]string, envKey string) {
	val := os.Getenv(envKey)
	if val == "" {
		return
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		slog.Warn("invalid environment value", "tag", "config", "key", envKey, "value", val)
		return
	}
	*field = out
}
