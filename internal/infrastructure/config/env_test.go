package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func mapLookup(vars map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(mapLookup(map[string]string{
		"VDRREMOTE_HOST":        "vdr.lan",
		"VDRREMOTE_PORT":        "2001",
		"VDRREMOTE_TIMEOUT":     "3s",
		"VDRREMOTE_LOG_LEVEL":   "debug",
		"VDRREMOTE_LISTEN_PORT": "9090",
	}))
	if err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.VDR.Host != "vdr.lan" || cfg.VDR.Port != 2001 || cfg.VDR.Timeout != 3*time.Second {
		t.Errorf("VDR = %+v", cfg.VDR)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d", cfg.Server.Port)
	}
}

func TestApplyEnv_RejectsMalformed(t *testing.T) {
	for _, vars := range []map[string]string{
		{"VDRREMOTE_PORT": "abc"},
		{"VDRREMOTE_TIMEOUT": "10"},
		{"VDRREMOTE_LISTEN_PORT": "http"},
	} {
		if err := Default().ApplyEnv(mapLookup(vars)); err == nil {
			t.Errorf("ApplyEnv(%v) succeeded", vars)
		}
	}
}

func TestEnvLookup_FileFillsGaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "VDRREMOTE_HOST=from-file\nVDRREMOTE_PORT=2001\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VDRREMOTE_HOST", "from-process")

	lookup, err := EnvLookup(path)
	if err != nil {
		t.Fatalf("EnvLookup: %v", err)
	}
	if v, _ := lookup("VDRREMOTE_HOST"); v != "from-process" {
		t.Errorf("HOST = %q, process environment should win", v)
	}
	if v, _ := lookup("VDRREMOTE_PORT"); v != "2001" {
		t.Errorf("PORT = %q", v)
	}
}

func TestEnvLookup_MissingFile(t *testing.T) {
	if _, err := EnvLookup(filepath.Join(t.TempDir(), "absent.env")); err == nil {
		t.Fatal("expected error for missing env file")
	}
}
