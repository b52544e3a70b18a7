package config

import (
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
)

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// getEnvAsInt returns the integer value of key, or fallback when unset or invalid.
func getEnvAsInt(key string, fallback int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return fallback
	}
	val, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Warn().Str("key", key).Str("value", valueStr).Int("default", fallback).Msg("invalid integer in environment, using default")
		return fallback
	}
	return val
}

// getEnvAsBool is getEnvAsInt for booleans (1, true, false, ...).
func getEnvAsBool(key string, fallback bool) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return fallback
	}
	val, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Warn().Str("key", key).Str("value", valueStr).Bool("default", fallback).Msg("invalid boolean in environment, using default")
		return fallback
	}
	return val
}
