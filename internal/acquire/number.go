// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"
)

// MaxNumber is the largest RFC number accepted.
const MaxNumber = 99999

// ErrInvalidNumber is returned for identifiers that do not name an RFC.
var ErrInvalidNumber = errors.New("invalid RFC number")

// numberPattern matches "6455", "RFC6455", "rfc 6455", "RFC-6455" and
// file names such as "rfc6455.xml".
var numberPattern = regexp.MustCompile(`(?i)^(?:rfc[\s-]?)?0*(\d{1,5})(?:\.(?:txt|xml|html|json|pdf))?$`)

// ParseNumber resolves an identifier to an RFC number. URLs are reduced to
// the last path element, so links to rfc-editor.org and datatracker work.
func ParseNumber(identifier string) (int, error) {
	identifier = strings.TrimSpace(identifier)
	if u, err := url.Parse(identifier); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		identifier = path.Base(strings.TrimSuffix(u.Path, "/"))
	}
	m := numberPattern.FindStringSubmatch(identifier)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, identifier)
	}
	n, _ := strconv.Atoi(m[1])
	if err := ValidNumber(n); err != nil {
		return 0, err
	}
	return n, nil
}

// ValidNumber checks that n is within 1..MaxNumber.
func ValidNumber(n int) error {
	if n < 1 || n > MaxNumber {
		return fmt.Errorf("%w: %d (must be 1-%d)", ErrInvalidNumber, n, MaxNumber)
	}
	return nil
}

// Slug returns the filename stem for an RFC ("rfc6455").
func Slug(n int) string {
	return "rfc" + strconv.Itoa(n)
}
