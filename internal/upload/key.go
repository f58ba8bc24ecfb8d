package upload

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// KeyFunc derives the object key for an upload received at now.
type KeyFunc func(now time.Time, filename string) string

// whitespaceRun matches runs of ASCII and Unicode whitespace.
var whitespaceRun = regexp.MustCompile(`[\s\v\p{Z}\x{FEFF}]+`)

// SanitizeName replaces every run of whitespace in name with a single hyphen.
func SanitizeName(name string) string {
	return whitespaceRun.ReplaceAllString(name, "-")
}

// TimestampKey returns "<unix-millis>-<sanitized name>". Two uploads of the
// same name in the same millisecond get the same key.
func TimestampKey(now time.Time, filename string) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), SanitizeName(filename))
}

// RandomKey returns "<uuid>-<sanitized name>".
func RandomKey(_ time.Time, filename string) string {
	return uuid.NewString() + "-" + SanitizeName(filename)
}

// KeyFuncFor maps a configured scheme name to its KeyFunc, defaulting to TimestampKey.
func KeyFuncFor(scheme string) KeyFunc {
	if scheme == "random" {
		return RandomKey
	}
	return TimestampKey
}
