package execshell

import "go.uber.org/zap"

// CommandEventObserver receives lifecycle notifications for shell command execution.
type CommandEventObserver interface {
	// CommandStarted notifies observers that command execution is beginning.
	CommandStarted(command ShellCommand)
	// CommandCompleted notifies observers that command execution finished and supplies the result.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed reports unexpected failures prior to receiving an execution result.
	CommandExecutionFailed(command ShellCommand, failure error)
}

// structuredCommandEventObserver emits machine-readable zap fields for every event.
type structuredCommandEventObserver struct {
	logger *zap.Logger
}

// CommandStarted logs the command and its invocation details.
func (observer structuredCommandEventObserver) CommandStarted(command ShellCommand) {
	observer.logger.Debug(
		commandStartedMessageConstant,
		zap.String(logFieldCommandConstant, string(command.Name)),
		zap.Strings(logFieldArgumentsConstant, command.Details.Arguments),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	)
}

// CommandCompleted logs the exit code and captured standard error.
func (observer structuredCommandEventObserver) CommandCompleted(command ShellCommand, result ExecutionResult) {
	observer.logger.Debug(
		commandCompletedMessageConstant,
		zap.String(logFieldCommandConstant, string(command.Name)),
		zap.Strings(logFieldArgumentsConstant, command.Details.Arguments),
		zap.Int(logFieldExitCodeConstant, result.ExitCode),
		zap.String(logFieldStandardErrorConstant, result.StandardError),
	)
}

// CommandExecutionFailed logs failures that produced no execution result.
func (observer structuredCommandEventObserver) CommandExecutionFailed(command ShellCommand, failure error) {
	observer.logger.Error(
		commandFailedMessageConstant,
		zap.String(logFieldCommandConstant, string(command.Name)),
		zap.Strings(logFieldArgumentsConstant, command.Details.Arguments),
		zap.Error(failure),
	)
}

// consoleCommandEventObserver renders human-readable progress messages.
type consoleCommandEventObserver struct {
	logger *zap.Logger
}

// CommandStarted logs a human-readable start message.
func (observer consoleCommandEventObserver) CommandStarted(command ShellCommand) {
	observer.logger.Debug(startMessageForCommand(command))
}

// CommandCompleted logs a human-readable completion or failure message.
func (observer consoleCommandEventObserver) CommandCompleted(command ShellCommand, result ExecutionResult) {
	if result.ExitCode != 0 {
		observer.logger.Debug(failureMessageForCommand(command, result))
		return
	}
	observer.logger.Debug(successMessageForCommand(command))
}

// CommandExecutionFailed logs a human-readable execution failure message.
func (observer consoleCommandEventObserver) CommandExecutionFailed(command ShellCommand, failure error) {
	observer.logger.Error(executionFailureMessageForCommand(command, failure))
}
