// connection/options.go
package connection

import (
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/mongoconn/config"
)

// Safety defaults applied as a floor under every connection. Callers can
// raise or lower any of them through ConnectionConfig.Options; defaults are
// a floor, not a ceiling.
const (
	defaultConnectTimeoutMS = "1500"
	defaultSocketTimeoutMS  = "5000"
	defaultWriteConcern     = "majority"
	defaultWTimeoutMS       = "500"
	defaultReadPreference   = "primaryPreferred"
)

func defaultOptions() map[string]string {
	return map[string]string{
		"connectTimeoutMS": defaultConnectTimeoutMS,
		"socketTimeoutMS":  defaultSocketTimeoutMS,
		"w":                defaultWriteConcern,
		"wTimeoutMS":       defaultWTimeoutMS,
		"readPreference":   defaultReadPreference,
	}
}

// mergeOptions combines, in increasing precedence, the safety defaults, the
// user-supplied options, and the credentials from cfg. Credentials are
// overlaid last so a user options blob that happens to define "username" or
// "password" can never silently drop them. Empty credentials never appear as
// keys in the result.
func mergeOptions(cfg *config.ConnectionConfig) map[string]string {
	merged := defaultOptions()
	for k, v := range cfg.Options {
		merged[k] = v
	}
	if cfg.Username != "" {
		merged["username"] = cfg.Username
	}
	if cfg.Password != "" {
		merged["password"] = cfg.Password
	}
	return merged
}

// splitCredentials removes the credential keys from merged and returns them
// as a driver Credential. Credentials travel as options rather than inside
// the DSN, which sidesteps URI escaping of special characters in passwords.
// The returned Credential is nil when no username is present.
func splitCredentials(merged map[string]string) (map[string]string, *options.Credential) {
	uriOpts := make(map[string]string, len(merged))
	for k, v := range merged {
		if k == "username" || k == "password" {
			continue
		}
		uriOpts[k] = v
	}

	user, ok := merged["username"]
	if !ok || user == "" {
		return uriOpts, nil
	}
	cred := &options.Credential{
		Username: user,
		Password: merged["password"],
	}
	if cred.Password != "" {
		cred.PasswordSet = true
	}
	return uriOpts, cred
}

// buildURI appends uriOpts to dsn as query parameters. Parameters already
// present in the DSN win over uriOpts: a pre-built connection string is the
// most specific statement of intent the caller can make. Keys are encoded in
// sorted order, so the result is deterministic.
func buildURI(dsn string, uriOpts map[string]string) string {
	if len(uriOpts) == 0 {
		return dsn
	}

	base, rawQuery, _ := strings.Cut(dsn, "?")
	existing, err := url.ParseQuery(rawQuery)
	if err != nil {
		// Unparseable query in a caller-supplied connection string; leave
		// it untouched rather than guess.
		return dsn
	}

	for k, v := range uriOpts {
		if !existing.Has(k) {
			existing.Set(k, v)
		}
	}

	// A bare "mongodb://host,host" with no path needs a "/" before "?" so
	// the driver parses the query as options, not as part of the host list.
	// Cut at "://" rather than assuming the scheme, so mongodb+srv DSNs get
	// the same treatment.
	rest := base
	if _, after, ok := strings.Cut(base, "://"); ok {
		rest = after
	}
	if !strings.Contains(rest, "/") {
		base += "/"
	}

	return base + "?" + existing.Encode()
}
