// Package payload holds lenient JSON scalar types for request bodies whose
// fields are only presence-checked.
package payload

import (
	"bytes"
	"strings"

	"github.com/bytedance/sonic"
)

// Text accepts any JSON scalar. Strings are kept as sent, numbers and
// booleans keep their literal text, and null, objects and arrays read as empty.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		*t = ""
		return nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := sonic.ConfigStd.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*t = Text(s)
	case '{', '[', 'n':
		*t = ""
	default:
		*t = Text(trimmed)
	}
	return nil
}

func (t Text) String() string { return string(t) }

// Flag accepts the boolean spellings a document store casts to a boolean:
// true, "true", 1, "1", "yes" and their false counterparts. Anything else is false.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	var raw Text
	if err := raw.UnmarshalJSON(data); err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(string(raw))) {
	case "true", "1", "yes":
		*f = true
	default:
		*f = false
	}
	return nil
}

func (f Flag) Bool() bool { return bool(f) }
