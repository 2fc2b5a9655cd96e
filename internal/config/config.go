package config

import (
	"errors"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	appDirName            = "lista"
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "lista.db"
)

type Keymap struct {
	Quit        string `toml:"quit"`
	Add         string `toml:"add"`
	Up          string `toml:"up"`
	Down        string `toml:"down"`
	Toggle      string `toml:"toggle"`
	Delete      string `toml:"delete"`
	Edit        string `toml:"edit"`
	Detail      string `toml:"detail"`
	Confirm     string `toml:"confirm"`
	Cancel      string `toml:"cancel"`
	Grab        string `toml:"grab"`
	SortManual  string `toml:"sort_manual"`
	SortDueAsc  string `toml:"sort_due_asc"`
	SortDueDesc string `toml:"sort_due_desc"`
	SortTitle   string `toml:"sort_title"`
}

type Config struct {
	DBPath string `toml:"db_path"`
	Keys   Keymap `toml:"keys"`
}

func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath()
	}
	return cfg, nil
}

// ResolveConfigPath places the config under the user config dir, falling
// back to the working directory when that is unavailable.
func ResolveConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, appDirName, DefaultConfigFileName)
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultDBName
	}
	return filepath.Join(dir, appDirName, DefaultDBName)
}

func defaultConfig() Config {
	return Config{
		DBPath: defaultDBPath(),
		Keys: Keymap{
			Quit:        "q",
			Add:         "a",
			Up:          "k",
			Down:        "j",
			Toggle:      " ",
			Delete:      "d",
			Edit:        "e",
			Detail:      "enter",
			Confirm:     "enter",
			Cancel:      "esc",
			Grab:        "g",
			SortManual:  "1",
			SortDueAsc:  "2",
			SortDueDesc: "3",
			SortTitle:   "4",
		},
	}
}
