package formz

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestJSONCodec_Unmarshal(t *testing.T) {
	var v any
	if err := (JSONCodec{}).Unmarshal([]byte(`{"street": "Main", "number": 4}`), &v); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	want := map[string]any{"street": "Main", "number": float64(4)}
	if diff := cmp.Diff(want, v); diff != "" {
		t.Errorf("value mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONCodec_Invalid(t *testing.T) {
	var v any
	if err := (JSONCodec{}).Unmarshal([]byte(`{invalid`), &v); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestYAMLCodec_Unmarshal(t *testing.T) {
	var v any
	if err := (YAMLCodec{}).Unmarshal([]byte("street: Main\nnumber: 4\n"), &v); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	want := map[string]any{"street": "Main", "number": 4}
	if diff := cmp.Diff(want, v); diff != "" {
		t.Errorf("value mismatch (-want +got):\n%s", diff)
	}
}

func TestTextCodec_Unmarshal(t *testing.T) {
	var v any
	if err := (TextCodec{}).Unmarshal([]byte("  a@b.com\n"), &v); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if v != "a@b.com" {
		t.Errorf("expected a@b.com, got %v", v)
	}

	var s string
	if err := (TextCodec{}).Unmarshal([]byte("x"), &s); err != nil || s != "x" {
		t.Errorf("expected x, got %q (%v)", s, err)
	}

	var n int
	if err := (TextCodec{}).Unmarshal([]byte("1"), &n); err == nil {
		t.Error("expected error for unsupported target")
	}
}

func TestCodec_ContentType(t *testing.T) {
	tests := []struct {
		codec Codec
		want  string
	}{
		{JSONCodec{}, "application/json"},
		{YAMLCodec{}, "application/x-yaml"},
		{TextCodec{}, "text/plain"},
	}

	for _, tt := range tests {
		if got := tt.codec.ContentType(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestCodecFor(t *testing.T) {
	tests := []struct {
		path string
		want Codec
	}{
		{"email.json", JSONCodec{}},
		{"address.YAML", YAMLCodec{}},
		{"address.yml", YAMLCodec{}},
		{"name.txt", TextCodec{}},
		{"name", TextCodec{}},
	}

	for _, tt := range tests {
		if got := CodecFor(tt.path); got != tt.want {
			t.Errorf("CodecFor(%q): expected %T, got %T", tt.path, tt.want, got)
		}
	}
}
