package validation

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/asaskevich/govalidator"
)

// MaxTitleLen is the longest title accepted for a content item.
const MaxTitleLen = 100

// ValidateTitle checks a trimmed content title.
func ValidateTitle(title string) error {
	if title == "" {
		return errors.New("title is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLen {
		return fmt.Errorf("title cannot exceed %d characters", MaxTitleLen)
	}
	return nil
}

var (
	errInvalidLink = errors.New("invalid URL format")

	linkProtocols = map[string]bool{"http": true, "https": true, "ftp": true}
)

// ValidateLink accepts http, https and ftp URLs. The scheme may be left out
// ("example.com/path"), but a named host needs a top-level domain, so
// "localhost" and single-label hosts are rejected. IP hosts are accepted.
func ValidateLink(link string) error {
	if link == "" {
		return errors.New("link is required")
	}
	if strings.ContainsAny(link, " \t\r\n") || !govalidator.IsURL(link) {
		return errInvalidLink
	}

	target := link
	if i := strings.Index(link, "://"); i >= 0 {
		if !linkProtocols[strings.ToLower(link[:i])] {
			return errInvalidLink
		}
	} else if strings.HasPrefix(link, "//") {
		target = "http:" + link
	} else {
		target = "http://" + link
	}

	u, err := url.Parse(target)
	if err != nil {
		return errInvalidLink
	}
	host := u.Hostname()
	if govalidator.IsIP(host) {
		return nil
	}
	if !isFQDN(host) {
		return errInvalidLink
	}
	return nil
}

func isFQDN(host string) bool {
	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if label == "" || len(label) > 63 ||
			strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return false
		}
		for _, r := range label {
			if r != '-' && r <= unicode.MaxASCII && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				return false
			}
		}
	}

	tld := strings.ToLower(labels[len(labels)-1])
	if strings.HasPrefix(tld, "xn--") && len(tld) > 4 {
		return true
	}
	if utf8.RuneCountInString(tld) < 2 {
		return false
	}
	for _, r := range tld {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// NormalizeTags trims tags, drops empties and keeps the first occurrence of
// each value in its original order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
