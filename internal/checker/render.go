package checker

import (
	"strings"
	"sync"
	"unicode/utf8"
)

// Field is the display mode of the password input.
type Field struct {
	mu      sync.Mutex
	visible bool
}

// ToggleVisibility flips the mode and returns true when the field is now shown.
func (f *Field) ToggleVisibility() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visible = !f.visible
	return f.visible
}

func (f *Field) Visible() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visible
}

// View is what a page or terminal draws for a State.
type View struct {
	Loading       bool
	ShowResult    bool
	Message       string
	Severity      Severity
	CSSClass      string
	FieldType     string
	ToggleShowing bool
}

// Render is a pure projection of state and field mode.
func Render(st State, visible bool) View {
	v := View{
		Loading:       st.Phase == PhaseLoading,
		FieldType:     "password",
		ToggleShowing: visible,
		CSSClass:      "result",
	}
	if visible {
		v.FieldType = "text"
	}
	if st.Phase == PhaseResult {
		v.ShowResult = true
		v.Message = st.Message
		v.Severity = st.Severity
		v.CSSClass = "result show " + string(st.Severity)
	}
	return v
}

// Mask returns value as the password field would show it.
func Mask(value string, visible bool) string {
	if visible {
		return value
	}
	return strings.Repeat("•", utf8.RuneCountInString(value))
}
