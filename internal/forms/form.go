// Package forms drives the connection-creation wizard: the per-engine form
// is generated from server-supplied field descriptors and validated before
// submission.
package forms

import (
	"fmt"
	"strings"

	"github.com/uengine-oss/robo-data-fabric/internal/client"
)

// FieldKind is the closed set of input-field kinds a descriptor can carry.
type FieldKind int

const (
	KindText FieldKind = iota
	KindNumber
	KindSecret
)

func (k FieldKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindSecret:
		return "secret"
	default:
		return "text"
	}
}

// ParseFieldKind maps a descriptor's wire type onto the closed kind set.
// The backend uses "password" for secret fields.
func ParseFieldKind(wire string) (FieldKind, bool) {
	switch strings.ToLower(strings.TrimSpace(wire)) {
	case "text":
		return KindText, true
	case "number":
		return KindNumber, true
	case "password", "secret":
		return KindSecret, true
	default:
		return KindText, false
	}
}

// MissingRequired returns the labels of required fields that have no value,
// in descriptor order.
func MissingRequired(fields []client.FieldDescriptor, values map[string]interface{}) []string {
	var missing []string
	for _, f := range fields {
		if !f.Required {
			continue
		}
		v, ok := values[f.Name]
		if !ok || v == nil {
			missing = append(missing, f.Label)
			continue
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			missing = append(missing, f.Label)
		}
	}
	return missing
}

// WizardState models the connection-creation modal lifecycle.
type WizardState int

const (
	StateClosed WizardState = iota
	StateTypeSelection
	StateFieldEntry
	StateSubmitting
	StateSuccess
)

func (s WizardState) String() string {
	switch s {
	case StateTypeSelection:
		return "type-selection"
	case StateFieldEntry:
		return "field-entry"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	default:
		return "closed"
	}
}

// Wizard walks closed → type-selection → field-entry → submitting →
// {success | field-entry-with-error}. Success is transient; the view closes
// the wizard after its display delay.
type Wizard struct {
	state  WizardState
	types  []client.DataSourceType
	chosen *client.DataSourceType
	errMsg string
}

func NewWizard() *Wizard {
	return &Wizard{state: StateClosed}
}

func (w *Wizard) State() WizardState { return w.state }
func (w *Wizard) Err() string        { return w.errMsg }

func (w *Wizard) ChosenType() (client.DataSourceType, bool) {
	if w.chosen == nil {
		return client.DataSourceType{}, false
	}
	return *w.chosen, true
}

// Open starts the wizard over the given type catalog.
func (w *Wizard) Open(types []client.DataSourceType) {
	w.types = types
	w.chosen = nil
	w.errMsg = ""
	w.state = StateTypeSelection
}

// ChooseType picks an engine by type id and moves to field entry.
func (w *Wizard) ChooseType(typeID string) error {
	if w.state != StateTypeSelection {
		return fmt.Errorf("wizard is not selecting a type (state: %s)", w.state)
	}
	for i := range w.types {
		if w.types[i].Type == typeID {
			w.chosen = &w.types[i]
			w.state = StateFieldEntry
			return nil
		}
	}
	return fmt.Errorf("unknown data source type: %s", typeID)
}

// Submit validates required fields and runs the submit function. A false
// outcome returns the wizard to field entry with the reported error so the
// operator can correct the form.
func (w *Wizard) Submit(name string, values map[string]interface{}, submit func(name, engine string, parameters map[string]interface{}) (bool, string)) bool {
	if w.state != StateFieldEntry {
		w.errMsg = fmt.Sprintf("wizard is not entering fields (state: %s)", w.state)
		return false
	}
	if strings.TrimSpace(name) == "" {
		w.errMsg = "Connection name is required"
		return false
	}
	if missing := MissingRequired(w.chosen.Fields, values); len(missing) > 0 {
		w.errMsg = fmt.Sprintf("Required fields missing: %s", strings.Join(missing, ", "))
		return false
	}

	w.state = StateSubmitting
	ok, errMsg := submit(name, w.chosen.Type, values)
	if !ok {
		w.errMsg = errMsg
		if w.errMsg == "" {
			w.errMsg = "Failed to create data source"
		}
		w.state = StateFieldEntry
		return false
	}
	w.errMsg = ""
	w.state = StateSuccess
	return true
}

// Close returns the wizard to the closed state.
func (w *Wizard) Close() {
	w.state = StateClosed
	w.chosen = nil
	w.errMsg = ""
}
