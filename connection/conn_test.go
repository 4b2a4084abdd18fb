package connection

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/mongoconn/config"
)

func TestDriverName(t *testing.T) {
	var c Conn
	if got := c.DriverName(); got != "mongodb" {
		t.Errorf("DriverName() = %q, want %q", got, "mongodb")
	}
}

func TestDisconnectedConnFailsEverything(t *testing.T) {
	ctx := context.Background()
	var c Conn

	if _, err := c.Collection("users"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Collection: err = %v, want ErrNotConnected", err)
	}
	if _, err := c.Table("users"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Table: err = %v, want ErrNotConnected", err)
	}
	if _, err := c.MongoCollection("users"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("MongoCollection: err = %v, want ErrNotConnected", err)
	}
	if _, err := c.Schema(); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Schema: err = %v, want ErrNotConnected", err)
	}
	if _, err := c.Database(); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Database: err = %v, want ErrNotConnected", err)
	}
	if _, err := c.Client(); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Client: err = %v, want ErrNotConnected", err)
	}
	if err := c.Ping(ctx); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Ping: err = %v, want ErrNotConnected", err)
	}
	if _, err := c.RunCommand(ctx, nil); !errors.Is(err, ErrNotConnected) {
		t.Errorf("RunCommand: err = %v, want ErrNotConnected", err)
	}
	if _, err := c.Aggregate(ctx, nil); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Aggregate: err = %v, want ErrNotConnected", err)
	}
	if _, err := c.ListCollectionNames(ctx, nil); !errors.Is(err, ErrNotConnected) {
		t.Errorf("ListCollectionNames: err = %v, want ErrNotConnected", err)
	}
	if err := c.Drop(ctx); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Drop: err = %v, want ErrNotConnected", err)
	}
	if err := c.Disconnect(ctx); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Disconnect: err = %v, want ErrNotConnected", err)
	}
}

func TestConnect_InvalidConfig(t *testing.T) {
	conn, err := Connect(context.Background(), &config.ConnectionConfig{
		Hosts: []string{"localhost"},
		Port:  27017,
		// Database missing.
	})
	if conn != nil {
		t.Fatal("expected no connection handle")
	}
	var verr *config.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *config.ValidationError", err)
	}
	if verr.Field != "database" {
		t.Errorf("Field = %q, want %q", verr.Field, "database")
	}
}

func TestConnect_ConnectionStringWithoutDatabase(t *testing.T) {
	// A pre-built connection string that names no database cannot select a
	// handle; construction must fail before any network activity.
	conn, err := Connect(context.Background(), &config.ConnectionConfig{
		ConnectionString: "mongodb://localhost:27017",
	})
	if conn != nil {
		t.Fatal("expected no connection handle")
	}
	var verr *config.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *config.ValidationError", err)
	}
}

func TestConnect_UnreachableHost(t *testing.T) {
	if testing.Short() {
		t.Skip("dials a closed local port")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Port 1 is never a mongod; selection is bounded so the failure is fast.
	conn, err := Connect(ctx, &config.ConnectionConfig{
		Hosts:    []string{"127.0.0.1"},
		Port:     1,
		Database: "app",
		Options: map[string]string{
			"connectTimeoutMS":         "300",
			"serverSelectionTimeoutMS": "300",
		},
	})
	if err == nil {
		_ = conn.Disconnect(ctx)
		t.Fatal("expected connect to fail against a closed port")
	}
	if conn != nil {
		t.Error("failed connect must not return a handle")
	}
}

func TestDatabaseName(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.ConnectionConfig
		want string
	}{
		{
			name: "explicit field wins",
			cfg:  config.ConnectionConfig{Database: "app", ConnectionString: "mongodb://x/other"},
			want: "app",
		},
		{
			name: "fallback to connection string path",
			cfg:  config.ConnectionConfig{ConnectionString: "mongodb://x/other?w=1"},
			want: "other",
		},
		{
			name: "nothing to select",
			cfg:  config.ConnectionConfig{ConnectionString: "mongodb://x"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := databaseName(&tt.cfg); got != tt.want {
				t.Errorf("databaseName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConnStateString(t *testing.T) {
	if stateDisconnected.String() != "disconnected" ||
		stateConnecting.String() != "connecting" ||
		stateConnected.String() != "connected" {
		t.Error("connState.String() mapping is wrong")
	}
}
