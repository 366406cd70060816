// Package models defines data structures for Reckon
package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AssetSymbol is a normalized exchange ticker: uppercase, 2-10 characters,
// A-Z and 0-9 only. Construct via ParseAssetSymbol; malformed input is
// rejected at construction, never coerced.
type AssetSymbol string

// ParseAssetSymbol normalizes and validates a raw ticker string.
func ParseAssetSymbol(raw string) (AssetSymbol, error) {
	sym := strings.ToUpper(strings.TrimSpace(raw))
	if len(sym) < 2 || len(sym) > 10 {
		return "", fmt.Errorf("invalid asset symbol %q: length must be between 2 and 10", raw)
	}
	for _, r := range sym {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return "", fmt.Errorf("invalid asset symbol %q: unexpected character %q", raw, r)
		}
	}
	return AssetSymbol(sym), nil
}

// MustAssetSymbol is ParseAssetSymbol that panics on error. Test helper.
func MustAssetSymbol(raw string) AssetSymbol {
	sym, err := ParseAssetSymbol(raw)
	if err != nil {
		panic(err)
	}
	return sym
}

func (a AssetSymbol) String() string { return string(a) }

// UnmarshalJSON validates symbols arriving through JSON input files.
func (a *AssetSymbol) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	sym, err := ParseAssetSymbol(raw)
	if err != nil {
		return err
	}
	*a = sym
	return nil
}
