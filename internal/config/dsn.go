package config

import (
	"fmt"
	"net/url"
	"strings"
)

// DSN is the parsed endpoint descriptor for the ingest service, in the form
// scheme://key@host/projectID. Parsing happens at configuration time so a
// malformed descriptor surfaces before the first dispatch, not during it.
type DSN struct {
	scheme    string
	key       string
	host      string
	projectID string
}

// ParseDSN parses and validates an endpoint descriptor.
func ParseDSN(s string) (DSN, error) {
	if s == "" {
		return DSN{}, fmt.Errorf("config: DSN is empty")
	}
	u, err := url.Parse(s)
	if err != nil {
		return DSN{}, fmt.Errorf("config: invalid DSN: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return DSN{}, fmt.Errorf("config: invalid DSN %q: scheme must be http or https", redact(s))
	}
	if u.Host == "" {
		return DSN{}, fmt.Errorf("config: invalid DSN %q: missing host", redact(s))
	}
	if u.User == nil || u.User.Username() == "" {
		return DSN{}, fmt.Errorf("config: invalid DSN %q: missing key", redact(s))
	}
	project := strings.Trim(u.Path, "/")
	if project == "" || strings.Contains(project, "/") {
		return DSN{}, fmt.Errorf("config: invalid DSN %q: path must be a single project id", redact(s))
	}
	return DSN{
		scheme:    u.Scheme,
		key:       u.User.Username(),
		host:      u.Host,
		projectID: project,
	}, nil
}

// StoreURL returns the ingest endpoint events are POSTed to.
func (d DSN) StoreURL() string {
	return fmt.Sprintf("%s://%s/api/%s/store/", d.scheme, d.host, d.projectID)
}

// Key returns the authentication key embedded in the descriptor.
func (d DSN) Key() string { return d.key }

// ProjectID returns the project identifier embedded in the descriptor.
func (d DSN) ProjectID() string { return d.projectID }

// IsZero reports whether the DSN is unset.
func (d DSN) IsZero() bool { return d == DSN{} }

// String returns the descriptor with the key removed, safe for logs.
func (d DSN) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s://%s/%s", d.scheme, d.host, d.projectID)
}

// redact strips the userinfo section from a raw DSN string so error messages
// never leak the key.
func redact(s string) string {
	if i := strings.Index(s, "@"); i >= 0 {
		if j := strings.Index(s, "://"); j >= 0 && j < i {
			return s[:j+3] + "...@" + s[i+1:]
		}
	}
	return s
}
