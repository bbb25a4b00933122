package env

import (
	"reflect"
	"testing"
	"time"
)

func TestGetEnvString(t *testing.T) {
	t.Setenv("QUICKDECK_TEST_STRING", "value")
	if got := GetEnvString("QUICKDECK_TEST_STRING", "def"); got != "value" {
		t.Fatalf("GetEnvString set value = %q, want %q", got, "value")
	}

	t.Setenv("QUICKDECK_TEST_STRING", "")
	if got := GetEnvString("QUICKDECK_TEST_STRING", "def"); got != "def" {
		t.Fatalf("GetEnvString empty value = %q, want %q", got, "def")
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("QUICKDECK_TEST_INT", "42")
	if got := GetEnvInt("QUICKDECK_TEST_INT", 7); got != 42 {
		t.Fatalf("GetEnvInt valid value = %d, want 42", got)
	}

	t.Setenv("QUICKDECK_TEST_INT", "not-int")
	if got := GetEnvInt("QUICKDECK_TEST_INT", 7); got != 7 {
		t.Fatalf("GetEnvInt invalid value = %d, want 7", got)
	}

	t.Setenv("QUICKDECK_TEST_INT", "")
	if got := GetEnvInt("QUICKDECK_TEST_INT", 7); got != 7 {
		t.Fatalf("GetEnvInt empty value = %d, want 7", got)
	}
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("QUICKDECK_TEST_BOOL", "true")
	if got := GetEnvBool("QUICKDECK_TEST_BOOL", false); got != true {
		t.Fatalf("GetEnvBool true = %v, want true", got)
	}

	t.Setenv("QUICKDECK_TEST_BOOL", "FALSE")
	if got := GetEnvBool("QUICKDECK_TEST_BOOL", true); got != false {
		t.Fatalf("GetEnvBool false = %v, want false", got)
	}

	t.Setenv("QUICKDECK_TEST_BOOL", "not-bool")
	if got := GetEnvBool("QUICKDECK_TEST_BOOL", true); got != true {
		t.Fatalf("GetEnvBool invalid = %v, want true", got)
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("QUICKDECK_TEST_DURATION", "1h2m3s")
	want := time.Hour + 2*time.Minute + 3*time.Second
	if got := GetEnvDuration("QUICKDECK_TEST_DURATION", 5*time.Second); got != want {
		t.Fatalf("GetEnvDuration valid = %v, want %v", got, want)
	}

	t.Setenv("QUICKDECK_TEST_DURATION", "not-duration")
	if got := GetEnvDuration("QUICKDECK_TEST_DURATION", 5*time.Second); got != 5*time.Second {
		t.Fatalf("GetEnvDuration invalid = %v, want 5s", got)
	}
}

func TestGetEnvStringSlice(t *testing.T) {
	t.Setenv("QUICKDECK_TEST_SLICE", "a,b,c")
	if got := GetEnvStringSlice("QUICKDECK_TEST_SLICE", nil); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("GetEnvStringSlice valid = %v, want [a b c]", got)
	}

	t.Setenv("QUICKDECK_TEST_SLICE", "")
	def := []string{"x"}
	if got := GetEnvStringSlice("QUICKDECK_TEST_SLICE", def); !reflect.DeepEqual(got, def) {
		t.Fatalf("GetEnvStringSlice empty = %v, want %v", got, def)
	}
}
