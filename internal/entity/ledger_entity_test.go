package entity

import "testing"

func TestLedgerTotalsBalance(t *testing.T) {
	tests := []struct {
		name   string
		totals LedgerTotals
		want   int64
	}{
		{"empty ledger", LedgerTotals{}, 0},
		{"income only", LedgerTotals{Income: 9700}, 9700},
		{"income and expense", LedgerTotals{Income: 9700, Expense: 3000}, 6700},
		{"withdrawal takes amount and fee", LedgerTotals{Income: 50000, WithdrawAmount: 20000, WithdrawFee: 600}, 29400},
		{"overdrawn goes negative", LedgerTotals{Income: 1000, Expense: 3000}, -2000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.totals.Balance(); got != tt.want {
				t.Errorf("Balance() = %d, want %d", got, tt.want)
			}
		})
	}
}
