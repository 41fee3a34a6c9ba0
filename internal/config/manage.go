package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// KeyInfo is one row of `lettervec config show`.
type KeyInfo struct {
	Key    string
	EnvVar string
	Value  string
}

// ShowAll lists every key with its effective value. Secret values are
// reduced to "(set)" or "(not set)".
func ShowAll(cfg Config) []KeyInfo {
	result := make([]KeyInfo, 0, len(specs))
	for _, s := range specs {
		value := fmt.Sprint(s.extract(cfg))
		if s.secret {
			value = maskSecret(value)
		}
		result = append(result, KeyInfo{Key: s.key, EnvVar: s.env, Value: value})
	}
	return result
}

func maskSecret(v string) string {
	if v == "" {
		return "(not set)"
	}
	return "(set)"
}

// enumKeys restricts keys whose value must be one of a fixed set.
var enumKeys = map[string][]string{
	"embedding.provider": {"openai", "ollama"},
	"store.driver":       {"sqlite", "postgres", "qdrant"},
	"chunk.mode":         {"fixed", "recursive"},
	"log.level":          {"debug", "info", "warn", "error"},
}

// SetKey persists a non-secret key to the config file.
func SetKey(key, value string) error {
	return setKeyWith(newPlatformBackend(), key, value)
}

// UnsetKey removes a key from the config file so the default applies again.
func UnsetKey(key string) error {
	s, err := lookupSpec(key)
	if err != nil {
		return err
	}
	return newPlatformBackend().Delete(s.key)
}

func lookupSpec(key string) (keySpec, error) {
	for _, s := range specs {
		if s.key == key {
			if s.secret {
				return keySpec{}, fmt.Errorf("%q is a secret; set it with the %s environment variable", key, s.env)
			}
			return s, nil
		}
	}
	return keySpec{}, fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(ValidKeys(), ", "))
}

func setKeyWith(b ConfigBackend, key, value string) error {
	s, err := lookupSpec(key)
	if err != nil {
		return err
	}
	if allowed, ok := enumKeys[key]; ok && !slices.Contains(allowed, value) {
		return fmt.Errorf("invalid value %q for %s (want one of %s)", value, key, strings.Join(allowed, ", "))
	}

	if s.typ == kInt {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %w", key, err)
		}
		if n < 0 {
			return fmt.Errorf("%s must not be negative", key)
		}
		return b.SetInt(key, n)
	}
	return b.SetString(key, value)
}

// ValidKeys returns the settable (non-secret) key names in table order.
func ValidKeys() []string {
	var keys []string
	for _, s := range specs {
		if !s.secret {
			keys = append(keys, s.key)
		}
	}
	return keys
}
