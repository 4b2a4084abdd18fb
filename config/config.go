// config/config.go
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// ConnectionConfig holds everything needed to reach a MongoDB deployment.
// Fields are accessed explicitly; nothing is pulled out of an untyped bag
// at connect time.
type ConnectionConfig struct {
	// Hosts is the ordered list of server addresses. A scalar "host" value
	// in a config file, env var, or flag is normalized into a one-element
	// list by Load.
	Hosts []string `mapstructure:"hosts"`

	// Port, when non-zero, is appended to every host uniformly. There is
	// no per-host port override; put the port in the host string instead
	// if you need one.
	Port int `mapstructure:"port"`

	// Database is the database to select after connecting. Required unless
	// ConnectionString is set.
	Database string `mapstructure:"database"`

	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`

	// ConnectionString, when set, is used verbatim as the connection DSN
	// and takes absolute precedence over Hosts/Port assembly.
	ConnectionString string `mapstructure:"connection_string"`

	// Options holds driver URI options by name (e.g. "replicaSet",
	// "maxPoolSize"). Values here override the built-in safety defaults.
	Options map[string]string `mapstructure:"options"`
}

// ValidationError describes a configuration field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: invalid %s: %s", e.Field, e.Reason)
}

// Validate checks the caller-side preconditions for connecting.
// A missing database name is reported here with a clear error rather than
// surfacing later as a malformed DSN.
func (c *ConnectionConfig) Validate() error {
	if c.ConnectionString != "" {
		return nil
	}
	if len(c.Hosts) == 0 {
		return &ValidationError{Field: "hosts", Reason: "at least one host is required"}
	}
	for _, h := range c.Hosts {
		if strings.TrimSpace(h) == "" {
			return &ValidationError{Field: "hosts", Reason: "host entries must be non-empty"}
		}
	}
	if c.Database == "" {
		return &ValidationError{Field: "database", Reason: "database name is required"}
	}
	if c.Port < 0 || c.Port > 65535 {
		return &ValidationError{Field: "port", Reason: "port must be between 0 and 65535"}
	}
	return nil
}

// Dump returns a pretty, redacted JSON string of the config for debugging.
// Never logs secrets; use at debug level only.
func (c ConnectionConfig) Dump() string {
	s := c.redactedCopy()
	b, _ := json.MarshalIndent(s, "", "  ")
	return string(b)
}

func (c ConnectionConfig) redactedCopy() ConnectionConfig {
	cp := c
	if cp.Password != "" {
		cp.Password = "[redacted]"
	}
	if cp.ConnectionString != "" {
		// The connection string may embed credentials.
		cp.ConnectionString = "[redacted]"
	}
	return cp
}

// Load merges defaults → config.* file(s) → env vars → explicit flags into one
// ConnectionConfig. Final precedence (highest wins): flags(explicit) > env >
// config > defaults. Env vars are prefixed MONGOCONN (e.g. MONGOCONN_DATABASE).
func Load(logger *zap.Logger) (*ConnectionConfig, error) {
	// 0) Optionally load .env (safe: real env still wins over .env)
	if err := godotenv.Load(); err == nil && logger != nil {
		logger.Info("Loaded .env file")
	}

	// 1) Define flags (only *explicitly set* flags will override)
	pflag.String("host", "localhost", `Server host, or JSON array of hosts, e.g. '["a","b"]'`)
	pflag.Int("port", 27017, "Server port, applied to every host")
	pflag.String("database", "", "Database to select after connecting")
	pflag.String("username", "", "Auth username")
	pflag.String("password", "", "Auth password")
	pflag.String("connection_string", "", "Pre-built connection string (overrides host/port)")
	pflag.String("options", "", `JSON object of driver URI options, e.g. '{"replicaSet":"rs0"}'`)
	pflag.Parse()

	// 2) Viper + env
	v := viper.New()
	v.SetEnvPrefix("MONGOCONN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Bind env for all keys so Unmarshal sees them.
	for _, k := range allKeys() {
		_ = v.BindEnv(k)
	}

	// 3) Optional config.* files (yaml|yml|json|toml)
	for _, ext := range [...]string{"yaml", "yml", "json", "toml"} {
		file := "config." + ext
		if _, err := os.Stat(file); err != nil {
			continue
		}
		b, err := os.ReadFile(file)
		if err != nil {
			if logger != nil {
				logger.Warn("cannot read config file", zap.String("file", file), zap.Error(err))
			}
			continue
		}
		v.SetConfigType(ext)
		if err := v.MergeConfig(bytes.NewReader(b)); err != nil {
			if logger != nil {
				logger.Warn("cannot decode config file", zap.String("file", file), zap.Error(err))
			}
			continue
		}
		if logger != nil {
			logger.Info("Loaded config file", zap.String("file", file))
		}
	}

	// 4) Defaults (lowest precedence)
	setDefaults(v)

	// 5) Apply *explicit* flags (highest precedence)
	pflag.CommandLine.VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			_ = v.BindPFlag(f.Name, f)
		}
	})

	// 6) Build struct
	var cfg ConnectionConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode connection config: %w", err)
	}

	// 7) Normalize the host key: scalar, comma list, JSON array, or real
	// slice all become Hosts.
	cfg.Hosts = NormalizeHosts(v.Get("host"))

	// 8) Options may arrive as a JSON string from a flag or env var.
	if opts, err := normalizeOptions(v.Get("options")); err != nil {
		if logger != nil {
			logger.Warn("invalid options value; ignoring", zap.Any("value", v.Get("options")), zap.Error(err))
		}
	} else if opts != nil {
		cfg.Options = opts
	}

	// 9) Validate
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func allKeys() []string {
	return []string{
		"host", "port", "database",
		"username", "password",
		"connection_string", "options",
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "localhost")
	v.SetDefault("port", 27017)
	v.SetDefault("database", "")
	v.SetDefault("username", "")
	v.SetDefault("password", "")
	v.SetDefault("connection_string", "")
}

// NormalizeHosts accepts the shapes a "host" key can arrive in (a scalar
// string, a comma-separated string, a JSON array string, or a real slice)
// and returns an ordered []string. Empty entries are dropped.
func NormalizeHosts(raw any) []string {
	var hosts []string
	switch val := raw.(type) {
	case nil:
		return nil
	case []string:
		hosts = val
	case []any:
		for _, item := range val {
			hosts = append(hosts, fmt.Sprint(item))
		}
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return nil
		}
		if strings.HasPrefix(s, "[") {
			var arr []string
			if err := json.Unmarshal([]byte(s), &arr); err == nil {
				hosts = arr
				break
			}
			// Not valid JSON; treat it as a plain host below.
		}
		hosts = strings.Split(s, ",")
	default:
		hosts = []string{fmt.Sprint(val)}
	}

	out := make([]string, 0, len(hosts))
	for _, h := range hosts {
		h = strings.TrimSpace(h)
		if h != "" {
			out = append(out, h)
		}
	}
	return out
}

// normalizeOptions accepts a map (from a config file) or a JSON object string
// (from a flag or env var) and returns driver URI options by name.
func normalizeOptions(raw any) (map[string]string, error) {
	switch val := raw.(type) {
	case nil:
		return nil, nil
	case map[string]string:
		return val, nil
	case map[string]any:
		out := make(map[string]string, len(val))
		for k, item := range val {
			out[k] = fmt.Sprint(item)
		}
		return out, nil
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return nil, nil
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(s), &m); err != nil {
			return nil, fmt.Errorf("options must be a JSON object: %w", err)
		}
		out := make(map[string]string, len(m))
		for k, item := range m {
			out[k] = fmt.Sprint(item)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported options type %T", raw)
	}
}
