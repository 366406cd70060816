package transfer

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/reckon/internal/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestAggregate(t *testing.T) {
	btc := models.MustAssetSymbol("BTC")
	eth := models.MustAssetSymbol("ETH")
	day := func(d int) time.Time { return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC) }

	transfers := []models.Transfer{
		{ID: "w1", Timestamp: day(5), Asset: btc, Direction: models.DirectionWithdrawal, Quantity: dec("0.2")},
		{ID: "d1", Timestamp: day(1), Asset: btc, Direction: models.DirectionDeposit, Quantity: dec("1.5")},
		{ID: "d2", Timestamp: day(3), Asset: btc, Direction: models.DirectionDeposit, Quantity: dec("0.5")},
		{ID: "dx", Timestamp: day(2), Asset: eth, Direction: models.DirectionDeposit, Quantity: dec("10")},
	}

	summary := Aggregate(btc, transfers)

	// net = 1.5 + 0.5 - 0.2 = 1.8
	if !summary.NetExternalTransfer.Equal(dec("1.8")) {
		t.Errorf("net = %s, want 1.8", summary.NetExternalTransfer)
	}
	if summary.DepositCount != 2 || summary.WithdrawalCount != 1 {
		t.Errorf("counts = %d/%d, want 2/1", summary.DepositCount, summary.WithdrawalCount)
	}

	// deposits sorted oldest-first for the classifier
	if summary.Deposits[0].ID != "d1" || summary.Deposits[1].ID != "d2" {
		t.Errorf("deposits out of order: %s, %s", summary.Deposits[0].ID, summary.Deposits[1].ID)
	}
}

func TestAggregate_Empty(t *testing.T) {
	summary := Aggregate(models.MustAssetSymbol("BTC"), nil)
	if !summary.NetExternalTransfer.IsZero() {
		t.Errorf("net = %s, want 0", summary.NetExternalTransfer)
	}
	if summary.DepositCount != 0 || summary.WithdrawalCount != 0 {
		t.Errorf("counts = %d/%d, want 0/0", summary.DepositCount, summary.WithdrawalCount)
	}
}
