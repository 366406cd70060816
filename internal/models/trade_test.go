package models

import (
	"testing"
	"time"
)

func ts(day, hour int) time.Time {
	return time.Date(2025, 1, day, hour, 0, 0, 0, time.UTC)
}

func TestSortTradesChronological(t *testing.T) {
	trades := []Trade{
		{ID: "c", Timestamp: ts(2, 0), Seq: 3},
		{ID: "b", Timestamp: ts(1, 0), Seq: 2},
		{ID: "a", Timestamp: ts(1, 0), Seq: 1},
	}

	SortTradesChronological(trades)

	want := []string{"a", "b", "c"}
	for i, id := range want {
		if trades[i].ID != id {
			t.Errorf("trades[%d].ID = %q, want %q", i, trades[i].ID, id)
		}
	}
}

func TestValidateChronology(t *testing.T) {
	asset := MustAssetSymbol("BTC")

	tests := []struct {
		name    string
		trades  []Trade
		wantErr bool
	}{
		{
			name: "ordered",
			trades: []Trade{
				{ID: "a", Timestamp: ts(1, 0), Seq: 1},
				{ID: "b", Timestamp: ts(2, 0), Seq: 2},
			},
		},
		{
			name: "equal timestamps distinct seq",
			trades: []Trade{
				{ID: "a", Timestamp: ts(1, 0), Seq: 1},
				{ID: "b", Timestamp: ts(1, 0), Seq: 2},
			},
		},
		{
			name: "duplicate timestamp and seq",
			trades: []Trade{
				{ID: "a", Timestamp: ts(1, 0), Seq: 1},
				{ID: "b", Timestamp: ts(1, 0), Seq: 1},
			},
			wantErr: true,
		},
		{
			name: "missing timestamp",
			trades: []Trade{
				{ID: "a", Seq: 1},
			},
			wantErr: true,
		},
		{
			name: "out of order",
			trades: []Trade{
				{ID: "a", Timestamp: ts(2, 0), Seq: 1},
				{ID: "b", Timestamp: ts(1, 0), Seq: 2},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		err := ValidateChronology(asset, tt.trades)
		if tt.wantErr && err == nil {
			t.Errorf("%s: expected error, got nil", tt.name)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("%s: unexpected error: %v", tt.name, err)
		}
	}
}
