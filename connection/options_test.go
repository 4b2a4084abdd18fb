package connection

import (
	"testing"

	"github.com/dalemusser/mongoconn/config"
)

func TestMergeOptions_Defaults(t *testing.T) {
	merged := mergeOptions(&config.ConnectionConfig{})

	want := map[string]string{
		"connectTimeoutMS": "1500",
		"socketTimeoutMS":  "5000",
		"w":                "majority",
		"wTimeoutMS":       "500",
		"readPreference":   "primaryPreferred",
	}
	for k, v := range want {
		if merged[k] != v {
			t.Errorf("merged[%q] = %q, want %q", k, merged[k], v)
		}
	}
	if _, ok := merged["username"]; ok {
		t.Error("empty username must not appear in merged options")
	}
	if _, ok := merged["password"]; ok {
		t.Error("empty password must not appear in merged options")
	}
}

func TestMergeOptions_UserOverridesDefaults(t *testing.T) {
	merged := mergeOptions(&config.ConnectionConfig{
		Options: map[string]string{
			"w":                "1",
			"connectTimeoutMS": "250",
			"replicaSet":       "rs0",
		},
	})

	if merged["w"] != "1" {
		t.Errorf("w = %q, want user value %q", merged["w"], "1")
	}
	if merged["connectTimeoutMS"] != "250" {
		t.Errorf("connectTimeoutMS = %q, want user value %q", merged["connectTimeoutMS"], "250")
	}
	if merged["replicaSet"] != "rs0" {
		t.Errorf("replicaSet = %q, want %q", merged["replicaSet"], "rs0")
	}
	// Untouched defaults survive.
	if merged["socketTimeoutMS"] != "5000" {
		t.Errorf("socketTimeoutMS = %q, want default %q", merged["socketTimeoutMS"], "5000")
	}
}

func TestMergeOptions_CredentialsWinLast(t *testing.T) {
	merged := mergeOptions(&config.ConnectionConfig{
		Username: "alice",
		Password: "s3cret",
		Options: map[string]string{
			"username": "mallory",
			"password": "stolen",
		},
	})

	if merged["username"] != "alice" {
		t.Errorf("username = %q, want %q", merged["username"], "alice")
	}
	if merged["password"] != "s3cret" {
		t.Errorf("password = %q, want %q", merged["password"], "s3cret")
	}
}

func TestSplitCredentials(t *testing.T) {
	uriOpts, cred := splitCredentials(map[string]string{
		"w":        "majority",
		"username": "alice",
		"password": "s3cret",
	})

	if cred == nil {
		t.Fatal("expected a credential")
	}
	if cred.Username != "alice" || cred.Password != "s3cret" || !cred.PasswordSet {
		t.Errorf("credential = %+v, want alice/s3cret with PasswordSet", cred)
	}
	if _, ok := uriOpts["username"]; ok {
		t.Error("username must not leak into URI options")
	}
	if _, ok := uriOpts["password"]; ok {
		t.Error("password must not leak into URI options")
	}
	if uriOpts["w"] != "majority" {
		t.Errorf("w = %q, want %q", uriOpts["w"], "majority")
	}
}

func TestSplitCredentials_NoUsername(t *testing.T) {
	uriOpts, cred := splitCredentials(map[string]string{"w": "majority"})
	if cred != nil {
		t.Errorf("expected nil credential, got %+v", cred)
	}
	if len(uriOpts) != 1 {
		t.Errorf("uriOpts = %v, want only w", uriOpts)
	}
}

func TestBuildURI(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		opts map[string]string
		want string
	}{
		{
			name: "no options returns dsn unchanged",
			dsn:  "mongodb://localhost:27017/app",
			opts: nil,
			want: "mongodb://localhost:27017/app",
		},
		{
			name: "options encode in sorted key order",
			dsn:  "mongodb://localhost:27017/app",
			opts: map[string]string{"w": "majority", "connectTimeoutMS": "1500"},
			want: "mongodb://localhost:27017/app?connectTimeoutMS=1500&w=majority",
		},
		{
			name: "existing dsn parameters win",
			dsn:  "mongodb://x/y?w=1",
			opts: map[string]string{"w": "majority", "readPreference": "primaryPreferred"},
			want: "mongodb://x/y?readPreference=primaryPreferred&w=1",
		},
		{
			name: "missing path gains a slash before the query",
			dsn:  "mongodb://a:27017,b:27017",
			opts: map[string]string{"w": "majority"},
			want: "mongodb://a:27017,b:27017/?w=majority",
		},
		{
			name: "srv scheme without path gains a slash too",
			dsn:  "mongodb+srv://cluster0.example.net",
			opts: map[string]string{"w": "majority"},
			want: "mongodb+srv://cluster0.example.net/?w=majority",
		},
		{
			name: "srv scheme with path is left alone",
			dsn:  "mongodb+srv://cluster0.example.net/app",
			opts: map[string]string{"w": "majority"},
			want: "mongodb+srv://cluster0.example.net/app?w=majority",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildURI(tt.dsn, tt.opts)
			if got != tt.want {
				t.Errorf("buildURI(%q) = %q, want %q", tt.dsn, got, tt.want)
			}
		})
	}
}
