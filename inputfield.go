package tabletop

import (
	"fmt"
	"strconv"
	"unicode/utf8"
)

// InputKind constrains what an InputField accepts.
type InputKind uint8

const (
	InputText InputKind = iota
	InputNumber
	InputAlphanumeric
)

// InputField is a single-line text entry. It gains focus when clicked and
// loses it on a click elsewhere or on enter. While focused it consumes every
// key press.
type InputField struct {
	Button

	Kind      InputKind
	MaxLength int
	// Placeholder is shown while the buffer is empty and unfocused.
	Placeholder string
	// OnSubmit runs when enter is pressed while focused.
	OnSubmit func(value string)

	buffer  []rune
	focused bool
}

// NewInputField creates an empty input field.
func NewInputField(name string, r Rect, z float64, kind InputKind) *InputField {
	f := &InputField{Kind: kind, MaxLength: 16}
	InitButton(&f.Button, f, name, r, z, ButtonConfig{Colors: ButtonColors{
		Normal:  ColorBlack,
		Hover:   ColorPressed,
		Pressed: ColorPressed,
	}})
	f.LeftClick = f.Focus
	f.UpdateText = f.displayText
	return f
}

// Value returns the current buffer.
func (f *InputField) Value() string { return string(f.buffer) }

// SetValue replaces the buffer, dropping characters the kind does not accept.
func (f *InputField) SetValue(s string) {
	f.buffer = f.buffer[:0]
	for _, r := range s {
		f.insert(r)
	}
}

// insert appends r if the kind accepts it and there is room.
func (f *InputField) insert(r rune) {
	if f.accepts(r) && (f.MaxLength <= 0 || len(f.buffer) < f.MaxLength) {
		f.buffer = append(f.buffer, r)
	}
}

// Number parses the buffer as an integer.
func (f *InputField) Number() (int, error) {
	n, err := strconv.Atoi(string(f.buffer))
	if err != nil {
		return 0, fmt.Errorf("tabletop: input %q: %w", f.Name, err)
	}
	return n, nil
}

// Focused reports whether the field receives key presses.
func (f *InputField) Focused() bool { return f.focused }

// Focus starts routing key presses to the field.
func (f *InputField) Focus() { f.focused = true }

// Blur stops routing key presses to the field.
func (f *InputField) Blur() { f.focused = false }

// Process handles focus changes, typed characters and editing keys.
func (f *InputField) Process() {
	f.Button.Process()
	s := f.scene
	if s == nil || f.destroyed {
		return
	}
	env := s.Env()
	if f.focused && (env.LeftClicked() || env.RightClicked()) && !f.Hovering() {
		f.focused = false
	}
	if !f.focused {
		return
	}
	chars := env.Chars()
	for _, r := range chars {
		f.insert(r)
	}
	key := env.Key()
	if key == "" {
		return
	}
	env.ConsumeKey()
	switch key {
	case "backspace":
		if len(f.buffer) > 0 {
			f.buffer = f.buffer[:len(f.buffer)-1]
		}
	case "enter", "numpadenter":
		f.focused = false
		if f.OnSubmit != nil {
			f.OnSubmit(f.Value())
		}
	case "escape":
		f.focused = false
	default:
		// Sources without typed characters only report key names.
		if len(chars) > 0 {
			return
		}
		if r, ok := keyRune(key); ok {
			f.insert(r)
		}
	}
}

func (f *InputField) accepts(r rune) bool {
	isDigit := r >= '0' && r <= '9'
	isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
	switch f.Kind {
	case InputNumber:
		return isDigit || (r == '-' && len(f.buffer) == 0)
	case InputAlphanumeric:
		return isDigit || isLetter
	default:
		return r >= ' ' && r != utf8.RuneError
	}
}

func (f *InputField) displayText() string {
	if f.focused {
		return string(f.buffer) + "|"
	}
	if len(f.buffer) == 0 {
		return f.Placeholder
	}
	return string(f.buffer)
}

// keyRune maps a key name to the character it types on an unshifted
// keyboard.
func keyRune(key string) (rune, bool) {
	if utf8.RuneCountInString(key) == 1 {
		r, _ := utf8.DecodeRuneInString(key)
		return r, true
	}
	switch key {
	case "space":
		return ' ', true
	case "minus", "numpadsubtract":
		return '-', true
	case "period", "numpaddecimal":
		return '.', true
	case "comma":
		return ',', true
	}
	return 0, false
}
