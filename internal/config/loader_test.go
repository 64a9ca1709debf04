package config

import (
	"encoding/json"
	"testing"
)

func TestLoadersJSONShapes(t *testing.T) {
	t.Run("single string", func(t *testing.T) {
		var l Loaders
		if err := json.Unmarshal([]byte(`"fabric"`), &l); err != nil {
			t.Fatalf("Unmarshal failed: %v", err)
		}
		if l.Client != "fabric" || l.Server != "fabric" {
			t.Errorf("Loaders = %+v, want fabric on both sides", l)
		}

		data, _ := json.Marshal(l)
		if string(data) != `"fabric"` {
			t.Errorf("Marshal = %s, want \"fabric\"", data)
		}
	})

	t.Run("split sides", func(t *testing.T) {
		var l Loaders
		if err := json.Unmarshal([]byte(`{"client": "fabric@0.15", "server": "paper"}`), &l); err != nil {
			t.Fatalf("Unmarshal failed: %v", err)
		}
		if l.Client != "fabric@0.15" || l.Server != "paper" {
			t.Errorf("Loaders = %+v", l)
		}

		data, _ := json.Marshal(l)
		var out map[string]string
		if err := json.Unmarshal(data, &out); err != nil {
			t.Fatalf("split sides did not marshal to an object: %s", data)
		}
		if out["client"] != "fabric@0.15" || out["server"] != "paper" {
			t.Errorf("Marshal = %v", out)
		}
	})
}

func TestLoadersMergeCollapsesWhenSidesAgree(t *testing.T) {
	l := Loaders{Client: "fabric", Server: "paper"}
	l.Merge(Loaders{Client: "paper"})

	data, _ := json.Marshal(l)
	if string(data) != `"paper"` {
		t.Errorf("Marshal = %s, want collapsed \"paper\"", data)
	}
}

func TestParseLoader(t *testing.T) {
	tests := []struct {
		in          string
		wantName    string
		wantVersion string
	}{
		{"fabric", "fabric", ""},
		{"fabric@0.15.3", "fabric", "0.15.3"},
		{"quilt@latest", "quilt", "latest"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseLoader(tt.in)
			if got.Name != tt.wantName || got.Version != tt.wantVersion {
				t.Errorf("ParseLoader(%q) = %+v", tt.in, got)
			}
			if got.String() != tt.in {
				t.Errorf("String() = %q, want %q", got.String(), tt.in)
			}
		})
	}
}
