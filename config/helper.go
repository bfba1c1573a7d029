package config

import (
	"log"
	"os"
	"strconv"

	"motoparts-backend/pkg/utils"
)

func getInt32Env(key string, fallback int32) int32 {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		if i, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(i)
		}
		log.Printf("Invalid int32 for %s, using fallback", key)
	}
	return fallback
}

func getFloatEnv(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		if f, ok := utils.ParseFloat(value); ok {
			return f
		}
		log.Printf("Invalid number for %s, using fallback", key)
	}
	return fallback
}
