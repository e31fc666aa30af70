package obs

import "testing"

func TestRedactFields_MasksSensitiveKeys(t *testing.T) {
	fields := map[string]any{
		"hop":        1,
		"error":      "boom",
		"api_key":    "sk-secret",
		"authorization": "Bearer xyz",
	}
	out := redactFields(fields)
	if out["api_key"] != "[REDACTED]" {
		t.Fatalf("expected api_key redacted, got %v", out["api_key"])
	}
	if out["authorization"] != "[REDACTED]" {
		t.Fatalf("expected authorization redacted, got %v", out["authorization"])
	}
	if out["error"] != "boom" {
		t.Fatalf("expected non-sensitive field untouched, got %v", out["error"])
	}
}

func TestRedactFields_EmptyIsNoop(t *testing.T) {
	if out := redactFields(nil); out != nil {
		t.Fatalf("expected nil passthrough, got %v", out)
	}
}
