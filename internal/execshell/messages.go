package execshell

import (
	"fmt"
	"strings"
)

const (
	commandTokenSeparatorConstant          = " "
	genericStartTemplateConstant           = "Running %s"
	genericSuccessTemplateConstant         = "Completed %s"
	genericFailureTemplateConstant         = "%s failed with exit code %d%s"
	genericExecutionFailureTemplate        = "%s failed: %s"
	workingDirectorySuffixTemplateConstant = " (in %s)"
	unknownFailureMessageConstant          = "unknown error"
	defaultWorkingDirectoryLabelConstant   = "current directory"
)

const (
	gitCloneSubcommandNameConstant     = "clone"
	gitFetchSubcommandNameConstant     = "fetch"
	gitCheckoutSubcommandNameConstant  = "checkout"
	gitResetSubcommandNameConstant     = "reset"
	gitStatusSubcommandNameConstant    = "status"
	gitRevParseSubcommandNameConstant  = "rev-parse"
	gitSymbolicRefSubcommandConstant   = "symbolic-ref"
	gitLSRemoteSubcommandNameConstant  = "ls-remote"
	gitSubmoduleSubcommandNameConstant = "submodule"
)

var gitSubcommandActionLabels = map[string]string{
	gitCloneSubcommandNameConstant:     "Cloning repository",
	gitFetchSubcommandNameConstant:     "Fetching from remote",
	gitCheckoutSubcommandNameConstant:  "Switching working tree",
	gitResetSubcommandNameConstant:     "Resetting working tree",
	gitStatusSubcommandNameConstant:    "Reviewing working tree status",
	gitRevParseSubcommandNameConstant:  "Resolving revision",
	gitSymbolicRefSubcommandConstant:   "Reading symbolic reference",
	gitLSRemoteSubcommandNameConstant:  "Querying remote references",
	gitSubmoduleSubcommandNameConstant: "Updating submodules",
}

func commandLabel(command ShellCommand) string {
	if command.Name == CommandGit && len(command.Details.Arguments) > 0 {
		if actionLabel, labelExists := gitSubcommandActionLabels[command.Details.Arguments[0]]; labelExists {
			return actionLabel
		}
	}
	return describeCommand(command)
}

func workingDirectorySuffix(command ShellCommand) string {
	workingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(workingDirectory) == 0 {
		workingDirectory = defaultWorkingDirectoryLabelConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, workingDirectory)
}

func startMessageForCommand(command ShellCommand) string {
	return fmt.Sprintf(genericStartTemplateConstant, commandLabel(command)) + workingDirectorySuffix(command)
}

func successMessageForCommand(command ShellCommand) string {
	return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel(command)) + workingDirectorySuffix(command)
}

func failureMessageForCommand(command ShellCommand, result ExecutionResult) string {
	diagnosticSuffix := ""
	trimmedStandardError := strings.TrimSpace(result.StandardError)
	if len(trimmedStandardError) > 0 {
		diagnosticSuffix = fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
	}
	return fmt.Sprintf(genericFailureTemplateConstant, commandLabel(command), result.ExitCode, diagnosticSuffix)
}

func executionFailureMessageForCommand(command ShellCommand, failure error) string {
	failureText := unknownFailureMessageConstant
	if failure != nil {
		failureText = failure.Error()
	}
	return fmt.Sprintf(genericExecutionFailureTemplate, commandLabel(command), failureText)
}
