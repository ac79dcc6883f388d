package logger

import "testing"

func TestInitAcceptsKnownLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		if err := Init(level, "text"); err != nil {
			t.Fatalf("Init(%q) err: %v", level, err)
		}
	}
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	if err := Init("loud", "text"); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
}

func TestInitJSONFormat(t *testing.T) {
	if err := Init("info", "json"); err != nil {
		t.Fatalf("Init err: %v", err)
	}
}
