// connection/dsn.go
package connection

import (
	"net"
	"strconv"
	"strings"

	"github.com/dalemusser/mongoconn/config"
)

// Scheme is the URI scheme this adapter speaks.
const Scheme = "mongodb"

// ResolveDSN turns a ConnectionConfig into the connection string handed to
// the driver. A pre-built ConnectionString is returned verbatim with no
// further assembly or validation. Otherwise the hosts are joined with commas
// and the configured port, if any, is applied to every host uniformly:
//
//	mongodb://host1:port,host2:port/database
//
// Options and credentials never appear in the DSN; they are applied
// separately at connect time. Precondition: cfg has passed Validate, so the
// database name is present.
func ResolveDSN(cfg *config.ConnectionConfig) string {
	if cfg.ConnectionString != "" {
		return cfg.ConnectionString
	}

	hosts := make([]string, 0, len(cfg.Hosts))
	for _, h := range cfg.Hosts {
		switch {
		case cfg.Port > 0:
			h = net.JoinHostPort(h, strconv.Itoa(cfg.Port))
		case strings.Contains(h, ":") && net.ParseIP(h) != nil:
			// Bare IPv6 literal with no port configured; bracket it so the
			// colons are not read as a port separator. Host:port strings
			// don't parse as IPs and pass through untouched.
			h = "[" + h + "]"
		}
		hosts = append(hosts, h)
	}

	return Scheme + "://" + strings.Join(hosts, ",") + "/" + cfg.Database
}

// DatabaseFromURI extracts the database segment of a connection string, or
// "" when the URI carries none.
func DatabaseFromURI(uri string) string {
	_, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return ""
	}
	_, path, ok := strings.Cut(rest, "/")
	if !ok {
		return ""
	}
	db, _, _ := strings.Cut(path, "?")
	return db
}
