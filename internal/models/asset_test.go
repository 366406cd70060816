package models

import "testing"

func TestParseAssetSymbol(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"btc", "BTC", false},
		{" eth ", "ETH", false},
		{"USDT", "USDT", false},
		{"1INCH", "1INCH", false},
		{"b", "", true},
		{"", "", true},
		{"TOOLONGSYMBOL", "", true},
		{"BTC-USD", "", true},
		{"bt c", "", true},
	}
	for _, tt := range tests {
		got, err := ParseAssetSymbol(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseAssetSymbol(%q) = %q, want error", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAssetSymbol(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("ParseAssetSymbol(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestAssetSymbol_UnmarshalJSONValidates(t *testing.T) {
	var sym AssetSymbol
	if err := sym.UnmarshalJSON([]byte(`"sol"`)); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if sym != "SOL" {
		t.Errorf("sym = %q, want SOL", sym)
	}

	if err := sym.UnmarshalJSON([]byte(`"x"`)); err == nil {
		t.Error("expected error for one-character symbol")
	}
}
