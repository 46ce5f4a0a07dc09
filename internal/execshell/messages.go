package execshell

import (
	"fmt"
	"strings"
)

const (
	failureMessageTemplateConstant         = "%s failed with exit code %d%s"
	commandLabelTemplateConstant           = "%s %s"
	workingDirectorySuffixTemplateConstant = " (in %s)"
	commandArgumentsJoinSeparatorConstant  = " "
	standardErrorSuffixTemplateConstant    = ": %s"
	emptyStringConstant                    = ""
)

// CommandMessageFormatter builds human-readable descriptions of shell command outcomes.
type CommandMessageFormatter struct{}

// FormatFailure describes a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) FormatFailure(command ShellCommand, result ExecutionResult) string {
	baseMessage := fmt.Sprintf(failureMessageTemplateConstant, formatter.FormatCommandLabel(command), result.ExitCode, formatter.formatWorkingDirectorySuffix(command))
	trimmedStandardError := strings.TrimSpace(result.StandardError)
	if len(trimmedStandardError) == 0 {
		return baseMessage
	}
	return baseMessage + fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

// FormatCommandLabel renders the executable name together with its arguments.
func (formatter CommandMessageFormatter) FormatCommandLabel(command ShellCommand) string {
	if len(command.Details.Arguments) == 0 {
		return string(command.Name)
	}
	joinedArguments := strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant)
	return fmt.Sprintf(commandLabelTemplateConstant, string(command.Name), joinedArguments)
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	if len(command.Details.WorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, command.Details.WorkingDirectory)
}
