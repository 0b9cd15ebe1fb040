package main

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed defaults/config.yml
var defaultConfig []byte

// initConfig creates the config directory and writes the embedded default
// config, leaving an existing file alone.
func initConfig(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	dst := filepath.Join(dir, configFileName)
	if _, err := os.Stat(dst); err == nil {
		fmt.Printf("  skip %s (already exists)\n", configFileName)
		return nil
	}

	if err := os.WriteFile(dst, defaultConfig, 0644); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	fmt.Printf("  created %s\n", configFileName)
	return nil
}
