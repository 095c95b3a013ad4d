// Package color styles terminal output for the CLI. Styling is dropped
// automatically when stdout is not a terminal.
package color

import (
	"github.com/fatih/color"

	"lawzo/lawzo/utils/types"
)

var (
	promptStyle  = color.New(color.FgCyan, color.Bold)
	infoStyle    = color.New(color.FgGreen)
	warningStyle = color.New(color.FgYellow, color.Bold)
	errorStyle   = color.New(color.FgRed, color.Bold)
	sourceStyle  = color.New(color.FgHiBlack)

	answerStyles = map[types.MessageType]*color.Color{
		types.MessageAnswer:         color.New(color.FgHiYellow, color.Bold),
		types.MessageGreeting:       color.New(color.FgHiGreen),
		types.MessageAcknowledgment: color.New(color.FgHiGreen),
		types.MessageHelp:           color.New(color.FgHiCyan),
		types.MessageSuggestion:     color.New(color.FgMagenta, color.Bold),
		types.MessageError:          warningStyle,
	}
)

func ColorPrompt(s string) string {
	return promptStyle.Sprint(s)
}

func ColorInfo(s string) string {
	return infoStyle.Sprint(s)
}

func ColorError(s string) string {
	return errorStyle.Sprint(s)
}

func ColorSource(s string) string {
	return sourceStyle.Sprint(s)
}

// ColorAnswer styles an assistant reply according to its message type.
func ColorAnswer(mt types.MessageType, s string) string {
	style, ok := answerStyles[mt]
	if !ok {
		return s
	}
	return style.Sprint(s)
}
