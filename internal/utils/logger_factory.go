package utils

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	logLevelDebugStringConstant          = "debug"
	logLevelInfoStringConstant           = "info"
	logLevelWarnStringConstant           = "warn"
	logLevelErrorStringConstant          = "error"
	logFormatStructuredStringConstant    = "structured"
	logFormatConsoleStringConstant       = "console"
	jsonZapEncodingStringConstant        = "json"
	consoleZapEncodingStringConstant     = "console"
	unsupportedLogLevelTemplateConstant  = "unsupported log level: %s"
	unsupportedLogFormatTemplateConstant = "unsupported log format: %s"
)

// LogLevel enumerates supported logging granularities.
type LogLevel string

// Exported log level constants for reuse across packages.
const (
	LogLevelDebug LogLevel = LogLevel(logLevelDebugStringConstant)
	LogLevelInfo  LogLevel = LogLevel(logLevelInfoStringConstant)
	LogLevelWarn  LogLevel = LogLevel(logLevelWarnStringConstant)
	LogLevelError LogLevel = LogLevel(logLevelErrorStringConstant)
)

// LogFormat enumerates supported logger output encodings.
type LogFormat string

// Exported log format constants for reuse across packages.
const (
	LogFormatStructured LogFormat = LogFormat(logFormatStructuredStringConstant)
	LogFormatConsole    LogFormat = LogFormat(logFormatConsoleStringConstant)
)

// ParseLogLevel normalizes a textual level into a LogLevel, rejecting
// values outside the supported set.
func ParseLogLevel(levelText string) (LogLevel, error) {
	normalizedLevel := LogLevel(strings.ToLower(strings.TrimSpace(levelText)))
	switch normalizedLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return normalizedLevel, nil
	default:
		return "", fmt.Errorf(unsupportedLogLevelTemplateConstant, levelText)
	}
}

// ParseLogFormat normalizes a textual format into a LogFormat, rejecting
// values outside the supported set.
func ParseLogFormat(formatText string) (LogFormat, error) {
	normalizedFormat := LogFormat(strings.ToLower(strings.TrimSpace(formatText)))
	switch normalizedFormat {
	case LogFormatStructured, LogFormatConsole:
		return normalizedFormat, nil
	default:
		return "", fmt.Errorf(unsupportedLogFormatTemplateConstant, formatText)
	}
}

// LoggerFactory builds zap.Logger instances with consistent configuration.
type LoggerFactory struct{}

// NewLoggerFactory constructs a new logger factory.
func NewLoggerFactory() *LoggerFactory {
	return &LoggerFactory{}
}

// CreateLogger produces a zap.Logger honoring the requested log level and format.
func (factory *LoggerFactory) CreateLogger(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (*zap.Logger, error) {
	var zapLogLevel zapcore.Level
	switch requestedLogLevel {
	case LogLevelDebug:
		zapLogLevel = zapcore.DebugLevel
	case LogLevelInfo:
		zapLogLevel = zapcore.InfoLevel
	case LogLevelWarn:
		zapLogLevel = zapcore.WarnLevel
	case LogLevelError:
		zapLogLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf(unsupportedLogLevelTemplateConstant, requestedLogLevel)
	}

	var encoding string
	switch requestedLogFormat {
	case LogFormatStructured:
		encoding = jsonZapEncodingStringConstant
	case LogFormatConsole:
		encoding = consoleZapEncodingStringConstant
	default:
		return nil, fmt.Errorf(unsupportedLogFormatTemplateConstant, requestedLogFormat)
	}

	configuration := zap.NewProductionConfig()
	configuration.Level = zap.NewAtomicLevelAt(zapLogLevel)
	configuration.Encoding = encoding

	return configuration.Build()
}
