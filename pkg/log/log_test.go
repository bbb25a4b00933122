package log

import (
	"testing"
)

// TestSetDefaults verifies default logger configuration.
func TestSetDefaults(t *testing.T) {
	conf := SetDefaults()
	if conf.Output != "stdout" {
		t.Fatalf("expected output stdout, got %s", conf.Output)
	}
	if conf.Level != "INFO" {
		t.Fatalf("expected level INFO, got %s", conf.Level)
	}
	if conf.Filename == "" {
		t.Fatal("expected default filename to be set")
	}
}

// TestConfValidate verifies config validation and normalization.
func TestConfValidate(t *testing.T) {
	conf := &Conf{Output: "file", Path: t.TempDir()}
	if err := conf.Validate(); err != nil {
		t.Fatalf("validate should pass: %v", err)
	}
	if conf.RotateSize <= 0 || conf.RotateNum <= 0 || conf.KeepDays <= 0 {
		t.Fatal("expected file rotation values to be auto-filled")
	}

	var nilConf *Conf
	if err := nilConf.Validate(); err == nil {
		t.Fatal("nil config should not validate")
	}
}

// TestNewUpdatesGlobal verifies New replaces the package-level logger.
func TestNewUpdatesGlobal(t *testing.T) {
	l, err := New(&Conf{Output: "stdout", Level: "DEBUG"})
	if err != nil {
		t.Fatalf("New() should not fail: %v", err)
	}
	if logger() != l {
		t.Fatal("expected global logger to be replaced")
	}
	Infow("global logger test", "key", "value")
}

func TestParseLevel(t *testing.T) {
	cases := map[string]string{
		"debug":   "debug",
		"WARNING": "warn",
		"error":   "error",
		"bogus":   "info",
		"":        "info",
	}
	for in, want := range cases {
		if got := parseLevel(in).String(); got != want {
			t.Fatalf("parseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
