package fifo

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/reckon/internal/common"
	"github.com/bobmcallan/reckon/internal/models"
)

var testAsset = models.MustAssetSymbol("BTC")

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func at(day int) time.Time {
	return time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC)
}

func trade(id string, day int, seq int64, side models.TradeSide, qty, price string) models.Trade {
	return models.Trade{
		ID:        id,
		Timestamp: at(day),
		Asset:     testAsset,
		Side:      side,
		Quantity:  dec(qty),
		Price:     dec(price),
		Seq:       seq,
	}
}

func newTestMatcher() *Matcher {
	return NewMatcher("USD", common.NewSilentLogger())
}

func TestProcessTrades_PartialFill(t *testing.T) {
	// Lots [1.0 @ 10, 2.0 @ 20]; sell 1.5 @ 30 consumes the first lot fully
	// and half a unit of the second.
	ledger := models.NewAssetLedger(testAsset)
	trades := []models.Trade{
		trade("b1", 1, 1, models.SideBuy, "1.0", "10"),
		trade("b2", 2, 2, models.SideBuy, "2.0", "20"),
		trade("s1", 3, 3, models.SideSell, "1.5", "30"),
	}

	result, err := newTestMatcher().ProcessTrades(ledger, trades)
	if err != nil {
		t.Fatalf("ProcessTrades: %v", err)
	}

	// realized = (30-10)*1.0 + (30-20)*0.5 = 25
	if len(result.Sells) != 1 {
		t.Fatalf("sells = %d, want 1", len(result.Sells))
	}
	if !result.Sells[0].PnL.Equal(dec("25")) {
		t.Errorf("PnL = %s, want 25", result.Sells[0].PnL)
	}

	// remaining ledger = [1.5 @ 20]
	if len(ledger.Lots) != 1 {
		t.Fatalf("lots = %d, want 1", len(ledger.Lots))
	}
	if !ledger.Lots[0].Quantity.Equal(dec("1.5")) || !ledger.Lots[0].UnitCost.Equal(dec("20")) {
		t.Errorf("remaining lot = %s @ %s, want 1.5 @ 20", ledger.Lots[0].Quantity, ledger.Lots[0].UnitCost)
	}
}

func TestProcessTrades_EndToEnd(t *testing.T) {
	// buy 2 @ 20000, buy 1 @ 25000, sell 2.5 @ 30000
	ledger := models.NewAssetLedger(testAsset)
	trades := []models.Trade{
		trade("b1", 1, 1, models.SideBuy, "2", "20000"),
		trade("b2", 2, 2, models.SideBuy, "1", "25000"),
		trade("s1", 3, 3, models.SideSell, "2.5", "30000"),
	}

	result, err := newTestMatcher().ProcessTrades(ledger, trades)
	if err != nil {
		t.Fatalf("ProcessTrades: %v", err)
	}

	// realized = (30000-20000)*2 + (30000-25000)*0.5 = 22500
	if !ledger.CumulativeRealizedPnL.Equal(dec("22500")) {
		t.Errorf("realized = %s, want 22500", ledger.CumulativeRealizedPnL)
	}

	// remaining lot = 0.5 @ 25000
	if len(ledger.Lots) != 1 {
		t.Fatalf("lots = %d, want 1", len(ledger.Lots))
	}
	if !ledger.Lots[0].Quantity.Equal(dec("0.5")) || !ledger.Lots[0].UnitCost.Equal(dec("25000")) {
		t.Errorf("remaining lot = %s @ %s, want 0.5 @ 25000", ledger.Lots[0].Quantity, ledger.Lots[0].UnitCost)
	}

	if !CheckConservation(ledger, trades, result) {
		t.Error("conservation violated")
	}
}

func TestProcessTrades_BuyFeeInQuoteCurrencyRaisesUnitCost(t *testing.T) {
	ledger := models.NewAssetLedger(testAsset)
	trades := []models.Trade{
		{
			ID: "b1", Timestamp: at(1), Asset: testAsset, Side: models.SideBuy,
			Quantity: dec("2"), Price: dec("100"), Fee: dec("10"), FeeCurrency: "USD", Seq: 1,
		},
	}

	_, err := newTestMatcher().ProcessTrades(ledger, trades)
	if err != nil {
		t.Fatalf("ProcessTrades: %v", err)
	}

	// unit cost = (100*2 + 10) / 2 = 105
	if !ledger.Lots[0].UnitCost.Equal(dec("105")) {
		t.Errorf("unit cost = %s, want 105", ledger.Lots[0].UnitCost)
	}
	if !ledger.Lots[0].FeeAllocated.Equal(dec("10")) {
		t.Errorf("fee allocated = %s, want 10", ledger.Lots[0].FeeAllocated)
	}
}

func TestProcessTrades_ForeignFeeExcludedFromCostBasis(t *testing.T) {
	ledger := models.NewAssetLedger(testAsset)
	trades := []models.Trade{
		{
			ID: "b1", Timestamp: at(1), Asset: testAsset, Side: models.SideBuy,
			Quantity: dec("2"), Price: dec("100"), Fee: dec("0.001"), FeeCurrency: "BNB", Seq: 1,
		},
	}

	result, err := newTestMatcher().ProcessTrades(ledger, trades)
	if err != nil {
		t.Fatalf("ProcessTrades: %v", err)
	}

	if !ledger.Lots[0].UnitCost.Equal(dec("100")) {
		t.Errorf("unit cost = %s, want 100 (foreign fee must not be prorated)", ledger.Lots[0].UnitCost)
	}
	if !ledger.ForeignFees.Equal(dec("0.001")) {
		t.Errorf("foreign fees = %s, want 0.001", ledger.ForeignFees)
	}

	found := false
	for _, f := range result.Flags {
		if f == models.FlagForeignFee {
			found = true
		}
	}
	if !found {
		t.Error("expected foreign_fee_excluded flag")
	}
}

func TestProcessTrades_SellFeeReducesPnL(t *testing.T) {
	ledger := models.NewAssetLedger(testAsset)
	trades := []models.Trade{
		trade("b1", 1, 1, models.SideBuy, "1", "100"),
		{
			ID: "s1", Timestamp: at(2), Asset: testAsset, Side: models.SideSell,
			Quantity: dec("1"), Price: dec("150"), Fee: dec("5"), FeeCurrency: "USD", Seq: 2,
		},
	}

	result, err := newTestMatcher().ProcessTrades(ledger, trades)
	if err != nil {
		t.Fatalf("ProcessTrades: %v", err)
	}

	// pnl = 150 - 100 - 5 = 45
	if !result.Sells[0].PnL.Equal(dec("45")) {
		t.Errorf("PnL = %s, want 45", result.Sells[0].PnL)
	}
}

func TestProcessTrades_ShortfallFlaggedNotFatal(t *testing.T) {
	ledger := models.NewAssetLedger(testAsset)
	trades := []models.Trade{
		trade("b1", 1, 1, models.SideBuy, "1", "100"),
		trade("s1", 2, 2, models.SideSell, "3", "120"),
	}

	result, err := newTestMatcher().ProcessTrades(ledger, trades)
	if err != nil {
		t.Fatalf("ProcessTrades: %v", err)
	}

	if !result.TotalShortfall.Equal(dec("2")) {
		t.Errorf("shortfall = %s, want 2", result.TotalShortfall)
	}
	if !result.Sells[0].ShortfallQuantity.Equal(dec("2")) {
		t.Errorf("sell shortfall = %s, want 2", result.Sells[0].ShortfallQuantity)
	}

	// covered slice: (120-100)*1; uncovered slice: 120*2 at zero cost basis
	if !result.Sells[0].PnL.Equal(dec("260")) {
		t.Errorf("PnL = %s, want 260", result.Sells[0].PnL)
	}

	found := false
	for _, f := range result.Flags {
		if f == models.FlagInsufficientLot {
			found = true
		}
	}
	if !found {
		t.Error("expected insufficient_lot flag")
	}

	// expected balance goes negative so reconciliation sees the gap
	if !ExpectedBalance(ledger, result).Equal(dec("-2")) {
		t.Errorf("expected balance = %s, want -2", ExpectedBalance(ledger, result))
	}

	if !CheckConservation(ledger, trades, result) {
		t.Error("conservation violated")
	}
}

func TestProcessTrades_EqualTimestampsOrderBySeq(t *testing.T) {
	// Two buys at the same instant: seq order decides which lot is oldest.
	ledger := models.NewAssetLedger(testAsset)
	trades := []models.Trade{
		trade("b2", 1, 2, models.SideBuy, "1", "200"),
		trade("b1", 1, 1, models.SideBuy, "1", "100"),
		trade("s1", 2, 3, models.SideSell, "1", "300"),
	}

	result, err := newTestMatcher().ProcessTrades(ledger, trades)
	if err != nil {
		t.Fatalf("ProcessTrades: %v", err)
	}

	// seq 1 (cost 100) is consumed first
	if !result.Sells[0].PnL.Equal(dec("200")) {
		t.Errorf("PnL = %s, want 200 (lot with seq 1 first)", result.Sells[0].PnL)
	}
	if !ledger.Lots[0].UnitCost.Equal(dec("200")) {
		t.Errorf("remaining lot cost = %s, want 200", ledger.Lots[0].UnitCost)
	}
}

func TestProcessTrades_AmbiguousOrderingFailsAsset(t *testing.T) {
	ledger := models.NewAssetLedger(testAsset)
	trades := []models.Trade{
		trade("b1", 1, 1, models.SideBuy, "1", "100"),
		trade("b2", 1, 1, models.SideBuy, "1", "200"), // same timestamp and seq
	}

	_, err := newTestMatcher().ProcessTrades(ledger, trades)
	var ncErr *models.NonChronologicalDataError
	if !errors.As(err, &ncErr) {
		t.Fatalf("err = %v, want NonChronologicalDataError", err)
	}
}

func TestProcessTrades_Deterministic(t *testing.T) {
	trades := []models.Trade{
		trade("b1", 1, 1, models.SideBuy, "2", "20000"),
		trade("s1", 2, 2, models.SideSell, "0.7", "21000"),
		trade("b2", 3, 3, models.SideBuy, "1.3", "19000"),
		trade("s2", 4, 4, models.SideSell, "1.1", "22000"),
	}

	run := func() (*models.AssetLedger, *Result) {
		ledger := models.NewAssetLedger(testAsset)
		result, err := newTestMatcher().ProcessTrades(ledger, trades)
		if err != nil {
			t.Fatalf("ProcessTrades: %v", err)
		}
		return ledger, result
	}

	l1, r1 := run()
	l2, r2 := run()

	if !l1.CumulativeRealizedPnL.Equal(l2.CumulativeRealizedPnL) {
		t.Errorf("realized differs across runs: %s vs %s", l1.CumulativeRealizedPnL, l2.CumulativeRealizedPnL)
	}
	if len(l1.Lots) != len(l2.Lots) {
		t.Fatalf("lot count differs across runs: %d vs %d", len(l1.Lots), len(l2.Lots))
	}
	for i := range l1.Lots {
		if !l1.Lots[i].Quantity.Equal(l2.Lots[i].Quantity) || !l1.Lots[i].UnitCost.Equal(l2.Lots[i].UnitCost) {
			t.Errorf("lot %d differs across runs", i)
		}
	}
	if len(r1.Sells) != len(r2.Sells) {
		t.Fatalf("sell count differs across runs: %d vs %d", len(r1.Sells), len(r2.Sells))
	}
	for i := range r1.Sells {
		if !r1.Sells[i].PnL.Equal(r2.Sells[i].PnL) {
			t.Errorf("sell %d PnL differs across runs", i)
		}
	}
}

func TestProcessTrades_InputOrderIrrelevant(t *testing.T) {
	a := []models.Trade{
		trade("b1", 1, 1, models.SideBuy, "1", "10"),
		trade("b2", 2, 2, models.SideBuy, "1", "20"),
		trade("s1", 3, 3, models.SideSell, "1.5", "30"),
	}
	b := []models.Trade{a[2], a[0], a[1]}

	la := models.NewAssetLedger(testAsset)
	lb := models.NewAssetLedger(testAsset)

	if _, err := newTestMatcher().ProcessTrades(la, a); err != nil {
		t.Fatal(err)
	}
	if _, err := newTestMatcher().ProcessTrades(lb, b); err != nil {
		t.Fatal(err)
	}

	if !la.CumulativeRealizedPnL.Equal(lb.CumulativeRealizedPnL) {
		t.Errorf("realized depends on input order: %s vs %s", la.CumulativeRealizedPnL, lb.CumulativeRealizedPnL)
	}
}
