package forms

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/uengine-oss/robo-data-fabric/internal/client"
)

// Prompter collects field values interactively, dispatching on the field
// kind: plain line input for text, parsed integers for number, hidden input
// for secret.
type Prompter struct {
	In  io.Reader
	Out io.Writer

	// readSecret is swappable for tests; defaults to term.ReadPassword on
	// stdin.
	readSecret func() (string, error)
}

func NewPrompter() *Prompter {
	return &Prompter{
		In:  os.Stdin,
		Out: os.Stdout,
		readSecret: func() (string, error) {
			b, err := term.ReadPassword(int(os.Stdin.Fd()))
			if err != nil {
				return "", err
			}
			return string(b), nil
		},
	}
}

// PromptFields walks the descriptor list in order and returns the collected
// parameter map. Empty input keeps the descriptor default when one exists;
// optional fields with no value are omitted from the map.
func (p *Prompter) PromptFields(fields []client.FieldDescriptor) (map[string]interface{}, error) {
	reader := bufio.NewReader(p.In)
	values := make(map[string]interface{})

	for _, f := range fields {
		kind, _ := ParseFieldKind(f.Type)

		label := f.Label
		if hint := promptHint(f); hint != "" {
			label = fmt.Sprintf("%s %s", label, hint)
		}
		fmt.Fprintf(p.Out, "%s: ", label)

		var raw string
		var err error
		if kind == KindSecret {
			raw, err = p.readSecret()
			fmt.Fprintln(p.Out)
		} else {
			raw, err = reader.ReadString('\n')
		}
		if err != nil && err != io.EOF {
			return nil, err
		}
		raw = strings.TrimSpace(raw)

		if raw == "" {
			if f.Default != nil {
				values[f.Name] = f.Default
			}
			continue
		}

		switch kind {
		case KindNumber:
			n, convErr := strconv.Atoi(raw)
			if convErr != nil {
				return nil, fmt.Errorf("field %q expects a number, got %q", f.Name, raw)
			}
			values[f.Name] = n
		default:
			values[f.Name] = raw
		}
	}

	return values, nil
}

func promptHint(f client.FieldDescriptor) string {
	if f.Default != nil {
		return fmt.Sprintf("[%v]", f.Default)
	}
	if strings.TrimSpace(f.Placeholder) != "" {
		return fmt.Sprintf("(%s)", f.Placeholder)
	}
	if !f.Required {
		return "(optional)"
	}
	return ""
}
