package exceptions

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		target   string
		want     bool
	}{
		{"empty list never matches", nil, "nvidia", false},
		{"prefix glob", []string{"nvidia*"}, "nvidia_drm", true},
		{"prefix glob misses other names", []string{"nvidia*"}, "nouveau", false},
		{"glob anchored at start", []string{"nvidia*"}, "xnvidia", false},
		{"literal anchored at both ends", []string{"foo"}, "foobar", false},
		{"literal match", []string{"foo"}, "foo", true},
		{"question mark", []string{"eth?"}, "eth0", true},
		{"question mark needs a char", []string{"eth?"}, "eth", false},
		{"character class", []string{"sd[ab]"}, "sdb", true},
		{"character class miss", []string{"sd[ab]"}, "sdc", false},
		{"negated class", []string{"sd[!ab]"}, "sdc", true},
		{"any of several patterns", []string{"nvidia*", "fglrx*"}, "fglrx_core", true},
		{"star crosses separators", []string{"pci:*"}, "pci:v00008086d00001533sv", true},
		{"dot is literal", []string{"a.b"}, "axb", false},
		{"unterminated class is literal", []string{"abc["}, "abc[", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Compile(tt.patterns)
			if err != nil {
				t.Fatalf("Compile(%v): %v", tt.patterns, err)
			}
			if got := m.Match(tt.target); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.target, got, tt.want)
			}
		})
	}
}

func TestMatcherZeroValue(t *testing.T) {
	var m Matcher
	if m.Match("anything") {
		t.Error("zero-value matcher matched")
	}
}

func TestLoad(t *testing.T) {
	t.Run("patterns file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "exc.json")
		if err := os.WriteFile(path, []byte(`["nvidia*", "floppy"]`), 0644); err != nil {
			t.Fatal(err)
		}
		m, err := Load(path)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if !m.Match("nvidia0") || !m.Match("floppy") {
			t.Error("patterns not applied")
		}
		if m.Match("e1000e") {
			t.Error("unrelated name matched")
		}
	})

	t.Run("empty array", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "exc.json")
		if err := os.WriteFile(path, []byte(`[]`), 0644); err != nil {
			t.Fatal(err)
		}
		m, err := Load(path)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if m.Match("anything") {
			t.Error("empty exception list matched")
		}
	})

	t.Run("malformed JSON is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "exc.json")
		if err := os.WriteFile(path, []byte(`{"not": "an array"}`), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("missing file is an error", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
			t.Fatal("expected error")
		}
	})
}
