package service

import (
	"context"
	"sort"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestMarkPaidIdempotent verifies that any sequence of payments leaves the
// ledger holding exactly the distinct indices paid, sorted ascending.
func TestMarkPaidIdempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("ledger is the sorted set of paid indices", prop.ForAll(
		func(indices []int) bool {
			f := newFixture(t)
			ctx := context.Background()
			c := createContract(t, f, "111", 6)

			want := map[int]struct{}{}
			for _, i := range indices {
				if _, err := f.payments.MarkPaid(ctx, c.ID, i); err != nil {
					return false
				}
				want[i] = struct{}{}
			}

			rec, err := f.repos.Ledger.Get(ctx, c.ID, "111")
			if len(indices) == 0 {
				return err != nil
			}
			if err != nil || len(rec.ParcelasPagas) != len(want) {
				return false
			}
			if !sort.IntsAreSorted(rec.ParcelasPagas) {
				return false
			}
			for _, i := range rec.ParcelasPagas {
				if _, ok := want[i]; !ok {
					return false
				}
			}
			return rec.Concluido == (len(want) == 6)
		},
		gen.SliceOf(gen.IntRange(0, 5)),
	))

	properties.TestingRun(t)
}
