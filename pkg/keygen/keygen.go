package keygen

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	lowerAlphaNumeric = "abcdefghijklmnopqrstuvwxyz0123456789"

	// maxExtLen bounds the extension copied from a client-supplied filename
	maxExtLen = 10
)

// UploadFilename returns a unique on-disk name for an uploaded file.
// Format: <unix nanos>-<8 random chars><ext>, e.g. 1712345678901234567-k3x9a0qz.png
// The extension is taken from original, lowercased and stripped of anything
// that is not alphanumeric.
func UploadFilename(original string, now time.Time) (string, error) {
	suffix, err := randomString(8, lowerAlphaNumeric)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d-%s%s", now.UnixNano(), suffix, Extension(original)), nil
}

// Extension returns the sanitized extension of a filename, including the dot,
// or "" if there is none.
func Extension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if ext == "" {
		return ""
	}

	var b strings.Builder
	b.WriteByte('.')
	for _, r := range ext[1:] {
		if strings.ContainsRune(lowerAlphaNumeric, r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 1 {
		return ""
	}
	out := b.String()
	if len(out) > maxExtLen+1 {
		out = out[:maxExtLen+1]
	}
	return out
}

// TokenID returns a random identifier for a bearer token (its jti claim)
func TokenID() string {
	return uuid.New().String()
}

// randomString generates a random string of given length from the given charset
func randomString(length int, charset string) (string, error) {
	result := make([]byte, length)
	charsetLen := big.NewInt(int64(len(charset)))

	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			return "", err
		}
		result[i] = charset[num.Int64()]
	}

	return string(result), nil
}
