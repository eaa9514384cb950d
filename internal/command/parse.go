package command

import (
	"errors"

	apperrors "github.com/greenroomhq/greenroom/internal/errors"
)

// ErrUnknownCommand marks input whose first token is not in the grammar.
// Unknown commands are ignored, not reported, so a shared prefix with an
// unrelated bot stays quiet.
var ErrUnknownCommand = errors.New("unknown command")

// Intent is the parsed form of one command invocation.
type Intent struct {
	// Command is the grammar entry name.
	Command string
	// Word is the single positional token: a project name, an application
	// id, or a list scope. Empty when the shape has no arguments.
	Word string
	// Tail is the free-text capture (description or bio) with internal
	// spaces preserved.
	Tail string
	// URL is the trailing URL token of the add shape.
	URL string
}

func usageError(e Entry) error {
	return apperrors.WithMetadata(apperrors.CodeValidation, "usage: "+e.Usage(),
		map[string]string{"usage": e.Usage()})
}

// Parse turns command text (after the prefix is stripped) into an Intent.
// Shape violations fail with a validation error carrying the usage string;
// a first token outside the grammar fails with ErrUnknownCommand.
func Parse(text string) (Intent, error) {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return Intent{Command: "help"}, nil
	}

	entry, ok := Lookup(tokens[0].text)
	if !ok {
		return Intent{}, ErrUnknownCommand
	}
	intent := Intent{Command: entry.Name}
	args := tokens[1:]

	switch entry.Shape {
	case ShapeNone:
		// Trailing text is tolerated and ignored.
	case ShapeWord:
		if len(args) != 1 {
			return intent, usageError(entry)
		}
		intent.Word = args[0].text
	case ShapeOptionalWord:
		if len(args) > 1 {
			return intent, usageError(entry)
		}
		if len(args) == 1 {
			intent.Word = args[0].text
		}
	case ShapeWordTail:
		if len(args) < 2 {
			return intent, usageError(entry)
		}
		intent.Word = args[0].text
		intent.Tail = text[args[1].start:]
	case ShapeWordTailURL:
		if len(args) < 3 {
			return intent, usageError(entry)
		}
		last := args[len(args)-1]
		intent.Word = args[0].text
		intent.Tail = text[args[1].start:args[len(args)-2].end]
		intent.URL = last.text
	}
	return intent, nil
}
