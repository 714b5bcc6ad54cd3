package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/coi-exe/qrforge/internal/modes"
	"github.com/mattn/go-isatty"
)

// ErrCancelled is returned when the user aborts a prompt
var ErrCancelled = errors.New("cancelled")

// Prompter asks the user for a field value
type Prompter interface {
	Ask(field modes.Field) (string, error)
}

// SurveyPrompter prompts on the terminal
type SurveyPrompter struct{}

// Ask prompts for one field using a control matching its kind
func (SurveyPrompter) Ask(field modes.Field) (string, error) {
	var opts []survey.AskOpt
	if field.Required {
		opts = append(opts, survey.WithValidator(survey.Required))
	}

	var out string
	var err error
	switch field.Kind {
	case modes.KindSecret:
		err = survey.AskOne(&survey.Password{Message: field.Label + ":"}, &out, opts...)

	case modes.KindChoice:
		labels := make([]string, len(field.Choices))
		def := ""
		for i, c := range field.Choices {
			labels[i] = c.Label
			if c.Value == field.Default {
				def = c.Label
			}
		}
		prompt := &survey.Select{Message: field.Label + ":", Options: labels}
		if def != "" {
			prompt.Default = def
		}
		var idx int
		if err = survey.AskOne(prompt, &idx); err == nil {
			out = field.Choices[idx].Value
		}

	default:
		err = survey.AskOne(&survey.Input{
			Message: field.Label + ":",
			Help:    field.Placeholder,
			Default: field.Default,
		}, &out, opts...)
	}

	if err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrCancelled
	}
	return fmt.Errorf("prompt failed: %w", err)
}

// IsInteractive reports whether stdin is a terminal (not piped)
func IsInteractive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// IsTerminalOutput reports whether stdout is a terminal
func IsTerminalOutput() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
