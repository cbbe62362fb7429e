package main

import (
	"os"
	"path/filepath"
	"testing"

	gosvn "github.com/gosvn/gosvn"
	"github.com/gosvn/gosvn/client"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
libraries:
  dir: /opt/svn/lib
  client: /opt/svn/lib/libsvn_client-1.so.0
auth:
  username: harry
  password: secret
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path, true)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Libraries.Dir != "/opt/svn/lib" {
		t.Fatalf("dir = %q", cfg.Libraries.Dir)
	}
	if cfg.Libraries.Client != "/opt/svn/lib/libsvn_client-1.so.0" {
		t.Fatalf("client = %q", cfg.Libraries.Client)
	}
	if cfg.Auth.Username != "harry" || cfg.Auth.Password != "secret" {
		t.Fatalf("auth = %+v", cfg.Auth)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	cfg, err := loadConfig(missing, false)
	if err != nil {
		t.Fatalf("implicit missing config: %v", err)
	}
	if cfg.Auth.Username != "" {
		t.Fatalf("cfg = %+v", cfg)
	}

	if _, err := loadConfig(missing, true); err == nil {
		t.Fatal("explicit missing config accepted")
	}
}

func TestLoadConfigRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("libraries: [not a map"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(path, true); err == nil {
		t.Fatal("bad yaml accepted")
	}
}

func TestNotifyLetter(t *testing.T) {
	cases := map[gosvn.NotifyAction]string{
		gosvn.NotifyUpdateAdd:       "A",
		gosvn.NotifyUpdateDelete:    "D",
		gosvn.NotifyUpdateUpdate:    "U",
		gosvn.NotifySkip:            "S",
		gosvn.NotifyUpdateCompleted: "",
	}
	for action, want := range cases {
		if got := notifyLetter(action); got != want {
			t.Errorf("notifyLetter(%v) = %q, want %q", action, got, want)
		}
	}
}

func TestStatusCode(t *testing.T) {
	if code, _ := statusCode(client.Status{Conflicted: true, NodeStatus: gosvn.StatusModified}); code != "C" {
		t.Fatalf("conflict code = %q", code)
	}
	if code, _ := statusCode(client.Status{NodeStatus: gosvn.StatusAdded}); code != "A" {
		t.Fatalf("added code = %q", code)
	}
	if code, _ := statusCode(client.Status{NodeStatus: gosvn.StatusUnversioned}); code != "?" {
		t.Fatalf("unversioned code = %q", code)
	}
}

func TestFormatBytes(t *testing.T) {
	if got := formatBytes(512); got != "512 B" {
		t.Fatalf("formatBytes(512) = %q", got)
	}
	if got := formatBytes(2048); got != "2.0 KiB" {
		t.Fatalf("formatBytes(2048) = %q", got)
	}
	if got := formatBytes(3 << 20); got != "3.0 MiB" {
		t.Fatalf("formatBytes(3MiB) = %q", got)
	}
}
