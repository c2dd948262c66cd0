package sentry

import (
	"fmt"
	"os"
	"time"

	sentrygo "github.com/getsentry/sentry-go"
)

type SentryInfoData map[string]interface{}

type Level = sentrygo.Level

const (
	LevelWarning = sentrygo.LevelWarning
	LevelError   = sentrygo.LevelError
)

var inited = false

func init() {
	dsn := os.Getenv("SENTRY_DSN")
	if dsn == "" {
		return
	}
	err := sentrygo.Init(sentrygo.ClientOptions{
		Dsn:              dsn,
		TracesSampleRate: 1.0,
	})
	if err != nil {
		fmt.Printf("failed to sentry init: %s", err)
		return
	}
	inited = true
}

// Send reports a panel failure asynchronously. It is a no-op without SENTRY_DSN.
func Send(title string, data SentryInfoData, logLevel Level) {
	if !inited {
		return
	}

	go func(localHub *sentrygo.Hub) {
		localHub.ConfigureScope(func(scope *sentrygo.Scope) {
			scope.SetLevel(logLevel)
			scope.SetExtras(data)
		})
		localHub.CaptureMessage(title)
	}(sentrygo.CurrentHub().Clone())
}

// Flush waits for buffered events before shutdown.
func Flush(timeout time.Duration) {
	if !inited {
		return
	}
	sentrygo.Flush(timeout)
}
