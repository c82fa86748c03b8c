package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/Kirah-Dev/honoriel-solucoes-site/errs"
	"golang.org/x/text/unicode/norm"
)

// ErrNotFound is returned by Open when no file has the given name.
var ErrNotFound = errors.New("stored file not found")

// Store keeps uploaded files in a flat namespace addressed by name.
type Store interface {
	// Save writes a new file. It fails if the name is already taken.
	Save(ctx context.Context, name string, content io.Reader) error
	// Open returns ErrNotFound for unknown names. The returned reader may
	// also implement io.ReadSeeker.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// Delete removes a file; deleting a missing file is not an error.
	Delete(ctx context.Context, name string) error
}

const (
	PrefixResume     = "cv"
	PrefixSpecialist = "especialista"
	PrefixPost       = "post"

	timestampLayout = "20060102150405"
	maxNameLength   = 255
)

var (
	ResumeExtensions = []string{"pdf"}
	ImageExtensions  = []string{"png", "jpg", "jpeg", "gif", "webp"}
)

// Extension returns the lower-cased text after the last dot, or "" when there is none.
func Extension(filename string) string {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(filename[i+1:])
}

// Allowed reports whether filename's extension is in the allow-list.
func Allowed(filename string, allowed []string) bool {
	ext := Extension(filename)
	if ext == "" {
		return false
	}
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SanitizeFilename reduces a client supplied name to ASCII letters, digits,
// dots, dashes and underscores. Directory parts are dropped, accents are
// stripped and whitespace becomes an underscore. It may return "".
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	if name == "." || name == "/" {
		return ""
	}

	var b strings.Builder
	for _, r := range norm.NFKD.String(name) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	name = strings.Join(strings.Fields(b.String()), "_")
	name = unsafeChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}

// BuildName composes the stored name of an upload:
// <prefix>[_<ownerID>]_<YYYYmmddHHMMSS>_<sanitized original name>.
// ownerID is omitted when zero.
func BuildName(prefix string, ownerID uint, at time.Time, original string) (string, error) {
	clean := SanitizeFilename(original)
	if clean == "" {
		return "", errs.NewInvalidFilenameError(original, "nothing left after sanitizing")
	}

	var name string
	if ownerID != 0 {
		name = fmt.Sprintf("%s_%d_%s_%s", prefix, ownerID, at.UTC().Format(timestampLayout), clean)
	} else {
		name = fmt.Sprintf("%s_%s_%s", prefix, at.UTC().Format(timestampLayout), clean)
	}
	if len(name) > maxNameLength {
		if ext := Extension(clean); ext != "" {
			name = name[:maxNameLength-len(ext)-1] + "." + ext
		} else {
			name = name[:maxNameLength]
		}
	}
	return name, nil
}

// ValidateName checks a name taken from a URL before it reaches a Store.
func ValidateName(name string) error {
	switch {
	case name == "":
		return errs.NewInvalidFilenameError(name, "empty")
	case len(name) > maxNameLength:
		return errs.NewInvalidFilenameError(name, "too long")
	case strings.HasPrefix(name, "."):
		return errs.NewInvalidFilenameError(name, "hidden file")
	case strings.ContainsAny(name, `/\`):
		return errs.NewInvalidFilenameError(name, "path separators are not allowed")
	case strings.Contains(name, ".."):
		return errs.NewInvalidFilenameError(name, "parent references are not allowed")
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return errs.NewInvalidFilenameError(name, "control characters are not allowed")
		}
	}
	return nil
}

// IsResume reports whether a stored name belongs to a candidate résumé.
func IsResume(name string) bool {
	return strings.HasPrefix(name, PrefixResume+"_")
}
