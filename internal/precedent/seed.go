package precedent

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Kofibk/icomplain.ai-sub000/internal/model"
)

// seedPrecedents is a starter set of anonymised successful outcomes so a
// fresh deployment retrieves something useful before real cases are
// loaded.
var seedPrecedents = []Precedent{
	{
		Category: model.CategoryMotorFinance,
		Summary:  "Customer took a PCP agreement in 2018 where the dealer set the interest rate under a discretionary commission arrangement without telling the customer. The ombudsman directed the lender to rework the agreement at the rate the customer would have received without the commission.",
		SuccessfulArguments: []string{
			"The dealer acted as the customer's credit broker and owed a duty of disclosure",
			"The commission model incentivised the dealer to inflate the interest rate",
			"The customer could not consent to an arrangement that was never disclosed",
		},
		LegalReferences: []string{"CONC 4.5.3R", "FCA PS24/11", "Johnson v FirstRand Bank Ltd"},
		Successful:      true,
		DecidedAt:       time.Date(2024, 11, 4, 0, 0, 0, 0, time.UTC),
	},
	{
		Category: model.CategoryMotorFinance,
		Summary:  "Hire purchase customer found the dealer received a fixed-plus-variable commission that was described as 'may receive a commission' in small print. Partial disclosure was held insufficient to make the arrangement fair.",
		SuccessfulArguments: []string{
			"Generic small-print wording is not informed consent",
			"The size of the commission relative to the credit charge made disclosure material",
		},
		LegalReferences: []string{"Consumer Credit Act 1974 s140A", "CONC 3.3.1R"},
		Successful:      true,
		DecidedAt:       time.Date(2025, 2, 17, 0, 0, 0, 0, time.UTC),
	},
	{
		Category: model.CategorySection75,
		Summary:  "Customer paid a kitchen supplier's deposit on a credit card; the supplier ceased trading before delivery. The card issuer was held jointly liable for the full contract loss, not just the deposit paid on the card.",
		SuccessfulArguments: []string{
			"The debtor-creditor-supplier chain was intact",
			"Liability under section 75 extends to the whole breach, not the card-paid amount",
		},
		LegalReferences: []string{"Consumer Credit Act 1974 s75", "Consumer Rights Act 2015 s49"},
		Successful:      true,
		DecidedAt:       time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC),
	},
	{
		Category: model.CategoryUnaffordableLending,
		Summary:  "Customer held six concurrent high-cost loans while persistently at their overdraft limit. The lender's checks relied on stated income alone. All interest and charges on the later loans were refunded with 8% simple interest.",
		SuccessfulArguments: []string{
			"Repeat lending into visible financial difficulty required fuller checks",
			"Bank statements available to the lender showed the lending was unsustainable",
		},
		LegalReferences: []string{"CONC 5.2A.12R", "CONC 5.2A.20R"},
		Successful:      true,
		DecidedAt:       time.Date(2024, 9, 12, 0, 0, 0, 0, time.UTC),
	},
	{
		Category: model.CategoryHolidayPark,
		Summary:  "Purchasers of a lodge were promised guaranteed sublet income that the park never operated. The sale was unwound and the finance agreement cancelled on the basis of misrepresentation at the point of sale.",
		SuccessfulArguments: []string{
			"The income projections were a statement of existing fact, not opinion",
			"The purchasers relied on the projections in entering both the sale and the finance",
		},
		LegalReferences: []string{"Misrepresentation Act 1967 s2(1)", "Consumer Credit Act 1974 s75"},
		Successful:      true,
		DecidedAt:       time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC),
	},
}

// Seed inserts the starter precedents into an empty store. A store that
// already has rows is left untouched.
func Seed(ctx context.Context, store Store) (int, error) {
	n, err := store.Count(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "precedent: count before seed")
	}
	if n > 0 {
		zap.L().Info("precedent store already populated, skipping seed",
			zap.Int("existing", n),
		)
		return 0, nil
	}

	inserted := 0
	for i := range seedPrecedents {
		p := seedPrecedents[i]
		if err := store.Add(ctx, &p); err != nil {
			return inserted, eris.Wrapf(err, "precedent: seed insert %d", i)
		}
		inserted++
	}

	zap.L().Info("seeded precedent store", zap.Int("inserted", inserted))
	return inserted, nil
}
