package config

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	util "github.com/saulo-duarte/chronos-habits/internal/utils"
)

var (
	Log      = logrus.New()
	location = util.DefaultLocation()
)

// Init loads the optional .env file and configures the global logger and timezone.
func Init() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		Log.WithError(err).Warn("Failed to load .env file")
	}

	Log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})

	level, err := logrus.ParseLevel(Getenv("LOG_LEVEL", "info"))
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	var out io.Writer = os.Stdout
	if file := os.Getenv("LOG_FILE"); file != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   file,
			MaxSize:    50,
			MaxBackups: 7,
			MaxAge:     14,
			Compress:   true,
		})
	}
	Log.SetOutput(out)

	if tz := os.Getenv("APP_TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			Log.WithError(err).Warnf("Unknown APP_TIMEZONE %q, keeping %s", tz, location)
		} else {
			location = loc
		}
	}
}

// WithContext returns a log entry tagged with the request id carried by ctx, if any.
func WithContext(ctx context.Context) *logrus.Entry {
	entry := logrus.NewEntry(Log)
	if ctx == nil {
		return entry
	}
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		entry = entry.WithField("request_id", reqID)
	}
	return entry
}

// Location is the zone in which "today" is decided.
func Location() *time.Location {
	return location
}

func Today() util.Date {
	return util.Today(location)
}

func Getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// GetenvList splits a comma separated variable, dropping blanks.
func GetenvList(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
