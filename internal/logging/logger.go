package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/2beens/trainingtracker/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const defaultMaxSizeMB = 50

type LoggerSetupParams struct {
	LogFileName string
	// LogToStdout keeps console logging on next to the log file
	LogToStdout bool
	// Console receives console logs, stderr if nil; stdout carries the tracker views
	Console          io.Writer
	LogLevel         string
	LogFormatJSON    bool
	MaxSizeMB        int
	Environment      string
	SentryEnabled    bool
	SentryDSN        string
	SentryServerName string
}

// Setup configures the package level logrus logger.
// The returned func closes the log file, if there is one.
func Setup(params LoggerSetupParams) func() error {
	logrus.SetLevel(GetLevel(params.LogLevel))
	if params.LogFormatJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if params.SentryEnabled {
		setupSentry(params)
	}

	console := params.Console
	if console == nil {
		console = os.Stderr
	}

	if params.LogFileName == "" {
		logrus.SetOutput(console)
		return func() error { return nil }
	}

	fileName := params.LogFileName
	if !strings.HasSuffix(fileName, ".log") {
		fileName += ".log"
	}
	maxSize := params.MaxSizeMB
	if maxSize <= 0 {
		maxSize = defaultMaxSizeMB
	}

	// rotated files are kept, no MaxBackups / MaxAge
	logFile := &lumberjack.Logger{
		Filename:  fileName,
		MaxSize:   maxSize, // megabytes
		LocalTime: false,   // UTC file names
		Compress:  true,
	}

	if params.LogToStdout {
		logrus.SetOutput(pkg.NewCombinedWriter(console, logFile))
	} else {
		logrus.SetOutput(logFile)
	}
	logrus.Debugf("logging to [%s], console: %t", fileName, params.LogToStdout)

	return logFile.Close
}

func setupSentry(params LoggerSetupParams) {
	if err := sentry.Init(sentry.ClientOptions{
		Environment:      params.Environment,
		Dsn:              params.SentryDSN,
		TracesSampleRate: 1.0,
		ServerName:       params.SentryServerName,
	}); err != nil {
		logrus.Errorf("sentry.Init: %s", err)
		return
	}

	logrus.AddHook(NewSentryHook([]logrus.Level{
		logrus.PanicLevel,
		logrus.FatalLevel,
		logrus.ErrorLevel,
	}))
	logrus.Debugln("sentry hook added")
}

// GetLevel parses a level name, falling back to info.
func GetLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}
