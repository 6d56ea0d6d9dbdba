package config

import "time"

type EventsConfig struct {
	Enabled      bool
	Broker       string
	Topic        string
	Username     string
	Password     string
	WriteTimeout time.Duration
}

type BoardConfig struct {
	// Rate limit for the public job board apply endpoint, per client IP.
	ApplyLimit  int
	ApplyWindow time.Duration
	ListLimit   int
	ListWindow  time.Duration
}

type ActivityConfig struct {
	RetentionDays int
	PruneInterval time.Duration
}

func loadEventsConfig() EventsConfig {
	return EventsConfig{
		Enabled:      getEnvBool("EVENTS_ENABLED", false),
		Broker:       getEnv("KAFKA_BROKER", "localhost:9092"),
		Topic:        getEnv("KAFKA_TOPIC", "ats.pipeline"),
		Username:     getEnv("KAFKA_USERNAME", ""),
		Password:     getEnv("KAFKA_PASSWORD", ""),
		WriteTimeout: getEnvDuration("KAFKA_WRITE_TIMEOUT", 10*time.Second),
	}
}

func loadBoardConfig() BoardConfig {
	return BoardConfig{
		ApplyLimit:  getEnvInt("BOARD_APPLY_LIMIT", 5),
		ApplyWindow: getEnvDuration("BOARD_APPLY_WINDOW", 1*time.Hour),
		ListLimit:   getEnvInt("BOARD_LIST_LIMIT", 120),
		ListWindow:  getEnvDuration("BOARD_LIST_WINDOW", 1*time.Minute),
	}
}

func loadActivityConfig() ActivityConfig {
	return ActivityConfig{
		RetentionDays: getEnvInt("ACTIVITY_RETENTION_DAYS", 365),
		PruneInterval: getEnvDuration("ACTIVITY_PRUNE_INTERVAL", 24*time.Hour),
	}
}
