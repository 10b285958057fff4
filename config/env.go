// Package config resolves settings from, in increasing priority: built-in
// defaults, config/app.json, .env, the process environment, and runtime
// overrides made with Set.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

const (
	appJSONPath = "config/app.json"
	dotEnvPath  = ".env"
)

var (
	loadOnce sync.Once
	loadErr  error

	mu        sync.RWMutex
	fileLayer = map[string]string{}
	overrides = map[string]string{}
)

// Load reads config/app.json and .env once. Missing files are not an
// error; a malformed one is.
func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFromFiles(appJSONPath, dotEnvPath)
	})
	return loadErr
}

func loadFromFiles(jsonPath, envPath string) error {
	layer := map[string]string{}
	if err := readAppJSON(jsonPath, layer); err != nil {
		return err
	}
	if err := readDotEnv(envPath, layer); err != nil {
		return err
	}
	mu.Lock()
	fileLayer = layer
	mu.Unlock()
	return nil
}

func readAppJSON(path string, into map[string]string) error {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("config: %s: %w", path, err)
	}
	for k, v := range doc {
		var s string
		if json.Unmarshal(v, &s) != nil {
			// numbers and booleans keep their literal JSON text
			s = string(v)
			if s == "null" || strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
				continue
			}
		}
		put(into, k, s)
	}
	return nil
}

func readDotEnv(path string, into map[string]string) error {
	env, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("config: %s: %w", path, err)
	}
	for k, v := range env {
		put(into, k, v)
	}
	return nil
}

func put(m map[string]string, key, value string) {
	if k := normKey(key); k != "" {
		m[k] = strings.TrimSpace(value)
	}
}

func normKey(key string) string { return strings.ToUpper(strings.TrimSpace(key)) }

// lookup returns the highest-priority non-blank value for key.
func lookup(key string) (string, bool) {
	key = normKey(key)

	mu.RLock()
	defer mu.RUnlock()
	if v, ok := overrides[key]; ok {
		return v, v != ""
	}
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v, true
	}
	v := fileLayer[key]
	return v, v != ""
}

// Get returns key's value, or fallback when it is unset or blank.
func Get(key, fallback string) string {
	_ = Load()
	if v, ok := lookup(key); ok {
		return v
	}
	return fallback
}

// Int is Get for integer settings; malformed values yield fallback.
func Int(key string, fallback int) int {
	n, err := strconv.Atoi(Get(key, ""))
	if err != nil {
		return fallback
	}
	return n
}

// Set overrides key for the rest of the process. An empty value masks
// every other source so the default applies.
func Set(key, value string) {
	_ = Load()
	mu.Lock()
	overrides[normKey(key)] = strings.TrimSpace(value)
	mu.Unlock()
}

// Unset drops a Set override.
func Unset(key string) {
	mu.Lock()
	delete(overrides, normKey(key))
	mu.Unlock()
}
