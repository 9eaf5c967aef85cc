package events

import (
	"crypto/sha256"
	"encoding/hex"
)

const fieldSeparator = "\x1f"

// Hash identifies an event by title, url and location. Nil fields hash as "".
// The separator keeps ("ab", "c") and ("a", "bc") apart.
func Hash(title, url, location *string) string {
	h := sha256.New()
	for i, f := range []*string{title, url, location} {
		if i > 0 {
			h.Write([]byte(fieldSeparator))
		}
		if f != nil {
			h.Write([]byte(*f))
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
