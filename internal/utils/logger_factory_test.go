package utils_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/checkout/internal/utils"
)

const testLogMessageConstant = "logger_factory_test_message"

func TestParseLogLevel(testInstance *testing.T) {
	testCases := []struct {
		name          string
		input         string
		expectedLevel utils.LogLevel
		expectError   bool
	}{
		{name: "Debug", input: "debug", expectedLevel: utils.LogLevelDebug},
		{name: "UppercaseInfo", input: "INFO", expectedLevel: utils.LogLevelInfo},
		{name: "PaddedWarn", input: " warn ", expectedLevel: utils.LogLevelWarn},
		{name: "Error", input: "error", expectedLevel: utils.LogLevelError},
		{name: "Unsupported", input: "verbose", expectError: true},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			parsedLevel, parseError := utils.ParseLogLevel(testCase.input)
			if testCase.expectError {
				require.Error(testInstance, parseError)
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expectedLevel, parsedLevel)
		})
	}
}

func TestParseLogFormat(testInstance *testing.T) {
	parsedFormat, parseError := utils.ParseLogFormat("console")
	require.NoError(testInstance, parseError)
	require.Equal(testInstance, utils.LogFormatConsole, parsedFormat)

	parsedFormat, parseError = utils.ParseLogFormat(" STRUCTURED ")
	require.NoError(testInstance, parseError)
	require.Equal(testInstance, utils.LogFormatStructured, parsedFormat)

	_, parseError = utils.ParseLogFormat("logfmt")
	require.Error(testInstance, parseError)
}

func TestLoggerFactoryCreateLogger(testInstance *testing.T) {
	testCases := []struct {
		name                string
		requestedLogLevel   utils.LogLevel
		requestedLogFormat  utils.LogFormat
		expectError         bool
		expectStructuredLog bool
	}{
		{
			name:                "DebugStructured",
			requestedLogLevel:   utils.LogLevelDebug,
			requestedLogFormat:  utils.LogFormatStructured,
			expectStructuredLog: true,
		},
		{
			name:                "InfoStructured",
			requestedLogLevel:   utils.LogLevelInfo,
			requestedLogFormat:  utils.LogFormatStructured,
			expectStructuredLog: true,
		},
		{
			name:               "InfoConsole",
			requestedLogLevel:  utils.LogLevelInfo,
			requestedLogFormat: utils.LogFormatConsole,
		},
		{
			name:               "UnsupportedLevel",
			requestedLogLevel:  utils.LogLevel("invalid"),
			requestedLogFormat: utils.LogFormatStructured,
			expectError:        true,
		},
		{
			name:               "UnsupportedFormat",
			requestedLogLevel:  utils.LogLevelInfo,
			requestedLogFormat: utils.LogFormat("invalid"),
			expectError:        true,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			loggerFactory := utils.NewLoggerFactory()

			pipeReader, pipeWriter, pipeError := os.Pipe()
			require.NoError(testInstance, pipeError)

			originalStderr := os.Stderr
			os.Stderr = pipeWriter

			logger, creationError := loggerFactory.CreateLogger(testCase.requestedLogLevel, testCase.requestedLogFormat)

			os.Stderr = originalStderr

			if testCase.expectError {
				require.Error(testInstance, creationError)
				require.Nil(testInstance, logger)

				require.NoError(testInstance, pipeWriter.Close())
				require.NoError(testInstance, pipeReader.Close())
				return
			}

			require.NoError(testInstance, creationError)
			require.NotNil(testInstance, logger)

			logger.Info(testLogMessageConstant)
			syncError := logger.Sync()
			if syncError != nil {
				require.True(testInstance, errors.Is(syncError, syscall.ENOTSUP) || errors.Is(syncError, syscall.EINVAL))
			}

			require.NoError(testInstance, pipeWriter.Close())

			capturedOutput, readError := io.ReadAll(pipeReader)
			require.NoError(testInstance, readError)
			require.NoError(testInstance, pipeReader.Close())

			trimmedOutput := bytes.TrimSpace(capturedOutput)
			require.NotEmpty(testInstance, trimmedOutput)
			require.Contains(testInstance, string(trimmedOutput), testLogMessageConstant)

			isJSONLog := json.Valid(trimmedOutput)
			require.Equal(testInstance, testCase.expectStructuredLog, isJSONLog)
		})
	}
}
