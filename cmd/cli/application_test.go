package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/temirov/checkout/cmd/cli"
	"github.com/temirov/checkout/internal/converge"
)

const (
	testConfigurationFileNameConstant = "config.yaml"
	testEmbeddedConfigurationType     = "yaml"
)

func decodeEmbeddedApplicationConfiguration(testingInstance testing.TB) cli.ApplicationConfiguration {
	testingInstance.Helper()

	viperInstance := viper.New()
	viperInstance.SetConfigType(testEmbeddedConfigurationType)
	require.NoError(testingInstance, viperInstance.ReadConfig(bytes.NewReader(cli.EmbeddedDefaultConfiguration())))

	var configuration cli.ApplicationConfiguration
	require.NoError(testingInstance, viperInstance.Unmarshal(&configuration))
	return configuration
}

func decodeConfigurationSection(testingInstance testing.TB, section map[string]any, target any) {
	testingInstance.Helper()

	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "mapstructure", Result: target})
	require.NoError(testingInstance, decoderError)
	require.NoError(testingInstance, decoder.Decode(section))
}

func TestEmbeddedDefaultsProvideLoggingConfiguration(testInstance *testing.T) {
	configuration := decodeEmbeddedApplicationConfiguration(testInstance)
	require.Equal(testInstance, "info", configuration.Common.LogLevel)
	require.Equal(testInstance, "structured", configuration.Common.LogFormat)
}

func TestEmbeddedDefaultsProvideSyncConfiguration(testInstance *testing.T) {
	viperInstance := viper.New()
	viperInstance.SetConfigType(testEmbeddedConfigurationType)
	require.NoError(testInstance, viperInstance.ReadConfig(bytes.NewReader(cli.EmbeddedDefaultConfiguration())))

	syncSection, sectionExists := viperInstance.AllSettings()["sync"].(map[string]any)
	require.True(testInstance, sectionExists)

	var syncConfiguration converge.CommandConfiguration
	decodeConfigurationSection(testInstance, syncSection, &syncConfiguration)

	require.Equal(testInstance, "HEAD", syncConfiguration.Revision)
	require.Equal(testInstance, "origin", syncConfiguration.RemoteName)
	require.True(testInstance, syncConfiguration.Force)
	require.True(testInstance, syncConfiguration.Update)
}

func TestNewApplicationRegistersCommands(testInstance *testing.T) {
	application := cli.NewApplication()
	rootCommand := application.RootCommand()
	require.NotNil(testInstance, rootCommand)
	require.Equal(testInstance, "checkout", rootCommand.Use)

	commandNames := make([]string, 0, len(rootCommand.Commands()))
	for _, registeredCommand := range rootCommand.Commands() {
		commandNames = append(commandNames, registeredCommand.Name())
	}
	require.Contains(testInstance, commandNames, "sync")
	require.Contains(testInstance, commandNames, "version")

	for _, flagName := range []string{"config", "log-level", "log-format"} {
		require.NotNil(testInstance, rootCommand.PersistentFlags().Lookup(flagName))
	}
}

func TestVersionCommandPrintsApplicationName(testInstance *testing.T) {
	application := cli.NewApplication()
	rootCommand := application.RootCommand()

	outputBuffer := &bytes.Buffer{}
	rootCommand.SetOut(outputBuffer)
	rootCommand.SetErr(&bytes.Buffer{})
	rootCommand.SetArgs([]string{"version"})

	require.NoError(testInstance, application.Execute())
	require.Contains(testInstance, outputBuffer.String(), "checkout ")
}

func TestInitializeConfigurationRejectsUnsupportedLogLevel(testInstance *testing.T) {
	application := cli.NewApplication()
	rootCommand := application.RootCommand()
	rootCommand.SetOut(&bytes.Buffer{})
	rootCommand.SetErr(&bytes.Buffer{})
	rootCommand.SetArgs([]string{"--log-level", "verbose", "version"})

	executionError := application.Execute()
	require.ErrorContains(testInstance, executionError, "unable to create logger")
}

func TestConfigurationFileOverridesEmbeddedDefaults(testInstance *testing.T) {
	temporaryDirectory := testInstance.TempDir()
	configurationPath := filepath.Join(temporaryDirectory, testConfigurationFileNameConstant)
	configurationContent := "common:\n  log_level: debug\n  log_format: console\n"
	require.NoError(testInstance, os.WriteFile(configurationPath, []byte(configurationContent), 0o600))

	application := cli.NewApplication()
	rootCommand := application.RootCommand()
	rootCommand.SetOut(&bytes.Buffer{})
	rootCommand.SetErr(&bytes.Buffer{})
	rootCommand.SetArgs([]string{"--config", configurationPath, "version"})

	require.NoError(testInstance, application.Execute())
}
