package uservo

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{}.withDefaults()

	if cfg.BaudRate != 115200 {
		t.Errorf("baud rate: got %d, want 115200", cfg.BaudRate)
	}
	if cfg.Timeout != 100*time.Millisecond {
		t.Errorf("timeout: got %v, want 100ms", cfg.Timeout)
	}
}

func TestConfig_ExplicitValuesKept(t *testing.T) {
	cfg := Config{BaudRate: 1000000, Timeout: time.Second}.withDefaults()

	if cfg.BaudRate != 1000000 {
		t.Errorf("baud rate: got %d, want 1000000", cfg.BaudRate)
	}
	if cfg.Timeout != time.Second {
		t.Errorf("timeout: got %v, want 1s", cfg.Timeout)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bus.toml")
	content := `
port = "/dev/ttyUSB0"
baud_rate = 230400
timeout_ms = 250
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	cfg = cfg.withDefaults()
	if cfg.Port != "/dev/ttyUSB0" {
		t.Errorf("port: got %q, want /dev/ttyUSB0", cfg.Port)
	}
	if cfg.BaudRate != 230400 {
		t.Errorf("baud rate: got %d, want 230400", cfg.BaudRate)
	}
	if cfg.Timeout != 250*time.Millisecond {
		t.Errorf("timeout: got %v, want 250ms", cfg.Timeout)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}
