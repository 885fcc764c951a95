// Package util provides small stateless helpers shared across layers.
package util

import (
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// digitalIDAlphabet is Crockford base32: no I, L, O, or U, so IDs survive
// being read aloud over the phone or typed from a parcel label.
const digitalIDAlphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// DigitalIDGroups is the number of hyphen-separated groups in a digital ID.
const DigitalIDGroups = 3

// DigitalIDGroupLen is the number of characters in each group.
const DigitalIDGroupLen = 4

// GenerateDigitalID produces a random digital address ID of the form
// "XXXX-XXXX-XXXX". Uniqueness is enforced by the database constraint,
// not here.
func GenerateDigitalID() (string, error) {
	raw := make([]byte, DigitalIDGroups*DigitalIDGroupLen)
	if _, err := rand.Read(raw); err != nil {
		return "", errors.Wrap(err, "failed to read random bytes for digital ID")
	}

	var sb strings.Builder
	for i, b := range raw {
		if i > 0 && i%DigitalIDGroupLen == 0 {
			sb.WriteByte('-')
		}
		sb.WriteByte(digitalIDAlphabet[int(b)%len(digitalIDAlphabet)])
	}

	return sb.String(), nil
}

// NormalizeDigitalID upper-cases a digital ID and maps the easily confused
// letters back onto their canonical characters so lookups are forgiving.
func NormalizeDigitalID(digitalID string) string {
	normalized := strings.ToUpper(strings.TrimSpace(digitalID))
	replacer := strings.NewReplacer("I", "1", "L", "1", "O", "0", "U", "V")

	return replacer.Replace(normalized)
}

// IsValidDigitalID reports whether a string has the canonical digital ID shape.
func IsValidDigitalID(digitalID string) bool {
	groups := strings.Split(digitalID, "-")
	if len(groups) != DigitalIDGroups {
		return false
	}

	for _, group := range groups {
		if len(group) != DigitalIDGroupLen {
			return false
		}
		for _, c := range group {
			if !strings.ContainsRune(digitalIDAlphabet, c) {
				return false
			}
		}
	}

	return true
}

// FormatCoordinate renders a latitude or longitude with enough precision for
// street-level accuracy in logs and notifications.
func FormatCoordinate(value float64) string {
	return fmt.Sprintf("%.6f", value)
}
