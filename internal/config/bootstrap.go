package config

import (
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
)

const (
	UserConfigName = "config.yml"
	SelectorsName  = "selectors.yml"
)

// EnsureUserConfig copies defaultPath into dataDir on first start and returns
// the user's config path.
func EnsureUserConfig(dataDir string, defaultPath string) (string, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", err
	}
	userPath := filepath.Join(dataDir, UserConfigName)

	_, err := os.Stat(userPath)
	if err == nil {
		return userPath, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	// Copy defaultPath -> userPath
	src, err := os.Open(defaultPath)
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(userPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return userPath, nil
}

// LoadUser reads the user config, applies the selectors overlay sitting next
// to it and the env overrides, then validates. Warnings are logged.
func LoadUser(userPath string, logger *log.Logger) (Config, error) {
	if logger == nil {
		logger = log.Default()
	}
	cfg, err := Load(userPath)
	if err != nil {
		return cfg, err
	}
	if err := OverlaySelectors(&cfg, filepath.Join(filepath.Dir(userPath), SelectorsName)); err != nil {
		return cfg, err
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	if cfg.App.DataDir == "" {
		cfg.App.DataDir = filepath.Dir(userPath)
	}

	out, vr := NormalizeAndValidate(cfg)
	for _, w := range vr.Warnings {
		logger.Printf("[config] warning: %s", w)
	}
	return out, vr.Err()
}
