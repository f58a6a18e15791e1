// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: Apache-2.0

package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"gopkg.in/yaml.v3"
)

// Section is the top-level key holding all lciochecks settings. It is also
// the default namespace for lookups.
const Section = "lcio_checks"

// FileName is the config file looked for in the working directory, its
// parents and the user config locations.
const FileName = "lciochecks.yaml"

//go:embed defaults.yaml
var defaults []byte

type Type struct {
	Source    string
	Namespace string
	Data      map[string]interface{}
}

var Config Type

func init() {
	_, _ = Load()
}

// Load discovers the config file, merges it over the shipped defaults and
// stores the result in Config. The optional namespace is prepended to lookups
// before falling back to the bare key. When no file is found Config still
// holds the defaults and the error says why.
func Load(namespace ...string) (Type, error) {
	ns := Section
	if len(namespace) == 1 && namespace[0] != "" {
		ns = Section + "." + namespace[0]
	}

	var data map[string]interface{}
	if err := yaml.Unmarshal(defaults, &data); err != nil {
		return Type{}, fmt.Errorf("failed to parse shipped defaults: %w", err)
	}

	Config = Type{Namespace: ns, Data: data}

	path, err := getConfigPath()
	if err != nil {
		return Config, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config, err
	}

	var file map[string]interface{}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return Config, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	Config.Source = path
	Config.Data = merge(data, file)
	return Config, nil
}

// Dir is the directory relative paths in the config are resolved against:
// the config file's directory, or the working directory without one.
func (cfg *Type) Dir() string {
	if cfg.Source != "" {
		return filepath.Dir(cfg.Source)
	}
	wd, _ := os.Getwd()
	return wd
}

// keys lists the dotted paths tried for kspec, most specific first.
func (cfg *Type) keys(kspec string) []string {
	if cfg.Namespace == "" {
		return []string{kspec}
	}
	return []string{cfg.Namespace + "." + kspec, Section + "." + kspec, kspec}
}

// get returns the value at the first of cfg.keys(kspec) present in the data.
func (cfg *Type) get(kspec string) (any, error) {
	if len(cfg.Data) == 0 {
		_, _ = Load()
	}

	candidates := cfg.keys(kspec)
	for _, key := range candidates {
		if v, ok := walk(cfg.Data, strings.Split(key, ".")); ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%s not set, tried %v", kspec, candidates)
}

func walk(node any, path []string) (any, bool) {
	for _, p := range path {
		m, ok := node.(map[string]interface{})
		if !ok {
			return nil, false
		}
		if node, ok = m[p]; !ok {
			return nil, false
		}
	}
	return node, true
}

// lookup fetches key and converts it with conv. A missing key yields def[0]
// when one is given.
func lookup[T any](key, kind string, conv func(any) (T, bool), def []T) (T, error) {
	var zero T
	val, err := Config.get(key)
	if err != nil {
		if len(def) == 1 {
			return def[0], nil
		}
		return zero, err
	}
	v, ok := conv(val)
	if !ok {
		return zero, fmt.Errorf("%s is not %s: %v", key, kind, val)
	}
	return v, nil
}

func GetString(key string, defaultValue ...string) (string, error) {
	return lookup(key, "a string", func(v any) (string, bool) {
		s, ok := v.(string)
		return s, ok
	}, defaultValue)
}

func GetInt(key string, defaultValue ...int) (int, error) {
	return lookup(key, "an int", func(v any) (int, bool) {
		f, ok := toNumber(v)
		return int(f), ok
	}, defaultValue)
}

func GetFloat(key string, defaultValue ...float64) (float64, error) {
	return lookup(key, "a number", toNumber, defaultValue)
}

// GetBool accepts YAML booleans as well as the "yes"/"no"/"1"/"0" strings
// people tend to write in ini-style configs.
func GetBool(key string, defaultValue ...bool) (bool, error) {
	return lookup(key, "a bool", func(v any) (bool, bool) {
		switch v := v.(type) {
		case bool:
			return v, true
		case int:
			return v != 0, true
		case string:
			switch strings.ToLower(v) {
			case "1", "yes", "true", "on":
				return true, true
			case "0", "no", "false", "off":
				return false, true
			}
		}
		return false, false
	}, defaultValue)
}

func GetStringSlice(key string) ([]string, error) {
	return lookup(key, "a list of strings", func(v any) ([]string, bool) {
		items, ok := v.([]interface{})
		if !ok {
			return nil, false
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}, nil)
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// getConfigPath honors LCIOCHECKS_CFG, then walks from the working directory
// up to the filesystem root looking for a file with a lcio_checks section,
// then tries the user config locations.
func getConfigPath() (string, error) {
	if p := os.Getenv("LCIOCHECKS_CFG"); p != "" {
		fi, err := os.Stat(p)
		switch {
		case err != nil:
			return "", fmt.Errorf("config file not found: %s", p)
		case fi.IsDir():
			return "", fmt.Errorf("LCIOCHECKS_CFG points to a directory: %s", p)
		}
		return p, nil
	}

	if file := findUpwards(); file != "" {
		log.Debugf("using config file: %s", file)
		return file, nil
	}

	for _, env := range []string{"XDG_CONFIG_HOME", "HOME"} {
		base := os.Getenv(env)
		if base == "" {
			continue
		}
		file := filepath.Join(base, FileName)
		if fi, err := os.Stat(file); err == nil && !fi.IsDir() {
			log.Debugf("using config file: %s", file)
			return file, nil
		}
	}
	return "", errors.New("no config file found in standard locations")
}

// findUpwards returns the nearest FileName with a lcio_checks section at or
// above the working directory, or "".
func findUpwards() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if file := filepath.Join(dir, FileName); hasSection(file) {
			return file
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// hasSection reports whether file is a readable YAML document with a
// top-level lcio_checks key.
func hasSection(file string) bool {
	raw, err := os.ReadFile(file)
	if err != nil {
		return false
	}
	var peek map[string]interface{}
	if err := yaml.Unmarshal(raw, &peek); err != nil {
		return false
	}
	_, ok := peek[Section]
	return ok
}

// merge overlays src onto dst recursively and returns dst.
func merge(dst, src map[string]interface{}) map[string]interface{} {
	if dst == nil {
		dst = map[string]interface{}{}
	}
	for k, v := range src {
		sm, sok := v.(map[string]interface{})
		dm, dok := dst[k].(map[string]interface{})
		if sok && dok {
			dst[k] = merge(dm, sm)
			continue
		}
		dst[k] = v
	}
	return dst
}
