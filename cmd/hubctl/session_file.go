package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"neighborhub/internal/apiclient"
)

const defaultBaseURL = "http://localhost:8080"

// ~/.neighborhub/session.yaml の中身
type sessionFile struct {
	BaseURL string                  `yaml:"base_url"`
	Session *apiclient.SessionState `yaml:"session,omitempty"`
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".neighborhub-session.yaml"
	}
	return filepath.Join(home, ".neighborhub", "session.yaml")
}

// ファイルがなければ空の設定
func loadSessionFile(path string) (sessionFile, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return sessionFile{}, nil
	}
	if err != nil {
		return sessionFile{}, fmt.Errorf("read %s: %w", path, err)
	}
	var f sessionFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return sessionFile{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return f, nil
}

// トークンを含むので0600
func saveSessionFile(path string, f sessionFile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return os.WriteFile(path, b, 0o600)
}
