package converge

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/checkout/internal/fsio"
	"github.com/temirov/checkout/internal/utils/flags"
)

const (
	commandUseConstant                = "sync"
	commandShortDescriptionConstant   = "Converge a working copy onto a repository revision"
	commandLongDescriptionConstant    = "sync clones or updates a destination working copy until it matches the requested repository revision, reporting the before and after commits and whether anything changed."
	repositoryFlagNameConstant        = "repo"
	repositoryFlagUsageConstant       = "URL of the repository to converge against"
	destinationFlagNameConstant       = "dest"
	destinationFlagUsageConstant      = "Path of the working copy to converge"
	revisionFlagNameConstant          = "revision"
	revisionFlagUsageConstant         = "Revision to converge onto: HEAD, a branch, a tag, or a commit id"
	remoteFlagNameConstant            = "remote"
	remoteFlagUsageConstant           = "Name recorded for the upstream remote"
	depthFlagNameConstant             = "depth"
	depthFlagUsageConstant            = "Limit clone and fetch history to this many commits"
	forceFlagNameConstant             = "force"
	forceFlagUsageConstant            = "Discard local modifications before converging"
	updateFlagNameConstant            = "update"
	updateFlagUsageConstant           = "Fetch and converge an existing destination"
	dryRunFlagNameConstant            = "dry-run"
	dryRunFlagUsageConstant           = "Predict the outcome without mutating anything"
	missingRepositoryMessageConstant  = "repository url is required; supply --repo"
	missingDestinationMessageConstant = "destination path is required; supply --dest"
	convergedMessageTemplateConstant  = "CONVERGED: %s (%s -> %s)\n"
	unchangedMessageTemplateConstant  = "UNCHANGED: %s (%s)\n"
	absentCommitLabelConstant         = "none"
	outcomeLogMessageConstant         = "convergence completed"
	logFieldDestinationConstant       = "destination"
	logFieldBeforeCommitConstant      = "before"
	logFieldAfterCommitConstant       = "after"
	logFieldChangedConstant           = "changed"
	logFieldDryRunConstant            = "dry_run"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the sync command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	GitExecutor                  GitExecutor
	Inspector                    RepositoryInspector
	FileSystem                   fsio.FileSystem
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration

	repositoryFlagValue  string
	destinationFlagValue string
	revisionFlagValue    string
	remoteFlagValue      string
	depthFlagValue       int
	forceFlagValue       bool
	updateFlagValue      bool
	dryRunFlagValue      bool
}

// Build constructs the sync command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	defaults := DefaultCommandConfiguration()
	command.Flags().StringVar(&builder.repositoryFlagValue, repositoryFlagNameConstant, "", repositoryFlagUsageConstant)
	command.Flags().StringVar(&builder.destinationFlagValue, destinationFlagNameConstant, "", destinationFlagUsageConstant)
	command.Flags().StringVar(&builder.revisionFlagValue, revisionFlagNameConstant, defaults.Revision, revisionFlagUsageConstant)
	command.Flags().StringVar(&builder.remoteFlagValue, remoteFlagNameConstant, defaults.RemoteName, remoteFlagUsageConstant)
	command.Flags().IntVar(&builder.depthFlagValue, depthFlagNameConstant, 0, depthFlagUsageConstant)
	flags.AddToggleFlag(command.Flags(), &builder.forceFlagValue, forceFlagNameConstant, defaults.Force, forceFlagUsageConstant)
	flags.AddToggleFlag(command.Flags(), &builder.updateFlagValue, updateFlagNameConstant, defaults.Update, updateFlagUsageConstant)
	flags.AddToggleFlag(command.Flags(), &builder.dryRunFlagValue, dryRunFlagNameConstant, false, dryRunFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, _ []string) error {
	options := builder.resolveOptions(command)

	if len(options.RepositoryURL) == 0 {
		if command != nil {
			_ = command.Help()
		}
		return errors.New(missingRepositoryMessageConstant)
	}
	if len(options.DestinationPath) == 0 {
		if command != nil {
			_ = command.Help()
		}
		return errors.New(missingDestinationMessageConstant)
	}

	logger := builder.resolveLogger()
	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}

	gitExecutor, executorError := ResolveGitExecutor(builder.GitExecutor, logger, humanReadableLogging)
	if executorError != nil {
		return executorError
	}

	fileSystem := ResolveFileSystem(builder.FileSystem)

	inspector, inspectorError := ResolveRepositoryInspector(builder.Inspector, gitExecutor, fileSystem)
	if inspectorError != nil {
		return inspectorError
	}

	service, serviceCreationError := NewService(Dependencies{
		GitExecutor: gitExecutor,
		Inspector:   inspector,
		FileSystem:  fileSystem,
	})
	if serviceCreationError != nil {
		return serviceCreationError
	}

	outcome, convergeError := service.Converge(command.Context(), options)
	if convergeError != nil {
		return convergeError
	}

	logger.Debug(
		outcomeLogMessageConstant,
		zap.String(logFieldDestinationConstant, options.DestinationPath),
		zap.String(logFieldBeforeCommitConstant, outcome.BeforeCommit),
		zap.String(logFieldAfterCommitConstant, outcome.AfterCommit),
		zap.Bool(logFieldChangedConstant, outcome.Changed),
		zap.Bool(logFieldDryRunConstant, options.DryRun),
	)

	beforeLabel := outcome.BeforeCommit
	if len(beforeLabel) == 0 {
		beforeLabel = absentCommitLabelConstant
	}
	if outcome.Changed {
		fmt.Fprintf(command.OutOrStdout(), convergedMessageTemplateConstant, options.DestinationPath, beforeLabel, outcome.AfterCommit)
	} else {
		fmt.Fprintf(command.OutOrStdout(), unchangedMessageTemplateConstant, options.DestinationPath, outcome.AfterCommit)
	}

	return nil
}

// resolveOptions merges persisted configuration with explicit flag overrides.
func (builder *CommandBuilder) resolveOptions(command *cobra.Command) Options {
	configuration := builder.resolveConfiguration()

	options := Options{
		RepositoryURL:   configuration.RepositoryURL,
		DestinationPath: configuration.DestinationPath,
		Revision:        configuration.Revision,
		RemoteName:      configuration.RemoteName,
		Depth:           configuration.Depth,
		Force:           configuration.Force,
		Update:          configuration.Update,
		DryRun:          configuration.DryRun,
	}

	commandFlags := command.Flags()
	if commandFlags.Changed(repositoryFlagNameConstant) || len(options.RepositoryURL) == 0 {
		options.RepositoryURL = builder.repositoryFlagValue
	}
	if commandFlags.Changed(destinationFlagNameConstant) || len(options.DestinationPath) == 0 {
		options.DestinationPath = builder.destinationFlagValue
	}
	if commandFlags.Changed(revisionFlagNameConstant) || len(options.Revision) == 0 {
		options.Revision = builder.revisionFlagValue
	}
	if commandFlags.Changed(remoteFlagNameConstant) || len(options.RemoteName) == 0 {
		options.RemoteName = builder.remoteFlagValue
	}
	if commandFlags.Changed(depthFlagNameConstant) {
		options.Depth = builder.depthFlagValue
	}
	if commandFlags.Changed(forceFlagNameConstant) {
		options.Force = builder.forceFlagValue
	}
	if commandFlags.Changed(updateFlagNameConstant) {
		options.Update = builder.updateFlagValue
	}
	if commandFlags.Changed(dryRunFlagNameConstant) {
		options.DryRun = builder.dryRunFlagValue
	}

	return options
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
