package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	DatabaseURL     string
	LogLevel        string
	Debug           bool
	ServiceName     string
	Environment     string
	Hostname        string
	ServerPort      string
	AllowedOrigins  []string
	VerifyToken     string
	AppSecret       string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	OpenAIModel     string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	DefaultTimezone string
	WorkerCount     int
}

func LoadConfig() (*Config, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	verifyToken := os.Getenv("WEBHOOK_VERIFY_TOKEN")
	if verifyToken == "" {
		return nil, errors.New("WEBHOOK_VERIFY_TOKEN is required")
	}

	openAIKey := os.Getenv("OPENAI_API_KEY")
	if openAIKey == "" {
		return nil, errors.New("OPENAI_API_KEY is required")
	}

	openAIModel := os.Getenv("OPENAI_MODEL")
	if openAIModel == "" {
		openAIModel = "gpt-4o-mini"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	debug := os.Getenv("DEBUG")
	if debug == "" {
		debug = "false"
	}

	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "whatsflow"
	}

	hostname := os.Getenv("HOSTNAME")
	if hostname == "" {
		hostname = "whatsflow"
	}

	environment := os.Getenv("ENVIRONMENT")
	if environment == "" {
		environment = "development"
	}

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	allowedOrigins := []string{"*"}
	if ao := os.Getenv("ALLOWED_ORIGINS"); ao != "" {
		allowedOrigins = allowedOrigins[:0]
		for _, origin := range strings.Split(ao, ",") {
			if o := strings.TrimSpace(origin); o != "" {
				allowedOrigins = append(allowedOrigins, o)
			}
		}
	}

	defaultTimezone := os.Getenv("DEFAULT_TIMEZONE")
	if defaultTimezone == "" {
		defaultTimezone = "UTC"
	}

	redisDB := 0
	if db := os.Getenv("REDIS_DB"); db != "" {
		if parsed, err := strconv.Atoi(db); err == nil {
			redisDB = parsed
		}
	}

	workerCount := 10 // default value
	if wc := os.Getenv("WORKER_COUNT"); wc != "" {
		if parsed, err := strconv.Atoi(wc); err == nil {
			workerCount = parsed
		}
	}

	return &Config{
		DatabaseURL:     databaseURL,
		LogLevel:        logLevel,
		Debug:           debug == "true",
		ServiceName:     serviceName,
		Environment:     environment,
		Hostname:        hostname,
		ServerPort:      serverPort,
		AllowedOrigins:  allowedOrigins,
		VerifyToken:     verifyToken,
		AppSecret:       os.Getenv("META_APP_SECRET"),
		OpenAIAPIKey:    openAIKey,
		OpenAIBaseURL:   os.Getenv("OPENAI_BASE_URL"),
		OpenAIModel:     openAIModel,
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         redisDB,
		DefaultTimezone: defaultTimezone,
		WorkerCount:     workerCount,
	}, nil
}
