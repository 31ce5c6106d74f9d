package listview_test

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/aarondl/sqlboiler/v4/queries/qm"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	listview "github.com/reliefops/go-listview"
	"github.com/reliefops/go-listview/project"
	"github.com/reliefops/go-listview/sqlboiler"
	"github.com/reliefops/go-listview/tests/models"
	"github.com/reliefops/go-listview/view"
	"github.com/reliefops/go-listview/workflow"
)

func householdFetcher(db *sql.DB) listview.Fetcher[*models.Household] {
	cols := sqlboiler.NewColumns().
		Searchable("head_name", "barangay").
		Sortable("headName", "head_name").
		Sortable("members", "member_count").
		DefaultOrder("created_at DESC")

	return sqlboiler.NewFetcher(
		func(ctx context.Context, mods ...qm.QueryMod) ([]*models.Household, error) {
			return models.Households(mods...).All(ctx, db)
		},
		func(ctx context.Context, mods ...qm.QueryMod) (int64, error) {
			return models.Households(mods...).Count(ctx, db)
		},
		cols,
	)
}

var _ = Describe("Server-paginated household list", func() {
	BeforeEach(func() {
		Expect(CleanupTables(ctx, container.DB)).To(Succeed())

		_, err := SeedHouseholds(ctx, container.DB, 25)
		Expect(err).ToNot(HaveOccurred())
	})

	Describe("fetcher", func() {
		It("returns the first page with the pagination envelope", func() {
			res, err := householdFetcher(container.DB).Fetch(ctx, listview.ListRequest{
				Page:  1,
				Limit: 10,
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(res.Rows).To(HaveLen(10))
			Expect(res.Meta).ToNot(BeNil())
			Expect(res.Meta.TotalItems).To(Equal(25))
			Expect(res.Meta.TotalPages).To(Equal(3))
			Expect(res.Meta.CurrentPage).To(Equal(1))
		})

		It("returns a short final page", func() {
			res, err := householdFetcher(container.DB).Fetch(ctx, listview.ListRequest{
				Page:  3,
				Limit: 10,
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(res.Rows).To(HaveLen(5))
			Expect(res.Meta.CurrentPage).To(Equal(3))
		})

		It("filters case-insensitively across searchable columns", func() {
			res, err := householdFetcher(container.DB).Fetch(ctx, listview.ListRequest{
				Search: "rivera",
				Page:   1,
				Limit:  25,
			})

			Expect(err).ToNot(HaveOccurred())
			// Head names cycle through six entries; 25 rows give
			// ceil(25/6)=5 Riveras.
			Expect(res.Rows).To(HaveLen(5))
			Expect(res.Meta.TotalItems).To(Equal(5))

			for _, h := range res.Rows {
				Expect(h.HeadName).To(ContainSubstring("Rivera"))
			}
		})

		It("matches a barangay search too", func() {
			res, err := householdFetcher(container.DB).Fetch(ctx, listview.ListRequest{
				Search: "roque",
				Page:   1,
				Limit:  25,
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(res.Meta.TotalItems).To(Equal(9))
		})

		It("sorts by a whitelisted column in both directions", func() {
			asc, err := householdFetcher(container.DB).Fetch(ctx, listview.ListRequest{
				Page: 1, Limit: 25, SortBy: "members", SortOrder: listview.SortAsc,
			})
			Expect(err).ToNot(HaveOccurred())

			counts := make([]int, len(asc.Rows))
			for i, h := range asc.Rows {
				counts[i] = h.MemberCount
			}
			expected := append([]int(nil), counts...)
			sort.Ints(expected)
			Expect(counts).To(Equal(expected))

			desc, err := householdFetcher(container.DB).Fetch(ctx, listview.ListRequest{
				Page: 1, Limit: 25, SortBy: "members", SortOrder: listview.SortDesc,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(desc.Rows[0].MemberCount).To(Equal(7))
		})

		It("ignores a non-whitelisted sort key", func() {
			res, err := householdFetcher(container.DB).Fetch(ctx, listview.ListRequest{
				Page:   1,
				Limit:  5,
				SortBy: "head_name; DROP TABLE households",
			})

			Expect(err).ToNot(HaveOccurred())
			// Default order is newest first.
			Expect(res.Rows[0].CreatedAt.After(res.Rows[4].CreatedAt)).To(BeTrue())
		})
	})

	Describe("controller over the fetcher", func() {
		It("serves search, sort, and paging end to end", func() {
			proj := project.New[*models.Household]().Mode(project.ModeServer)

			ctrl := view.New(ctx, householdFetcher(container.DB), proj,
				view.WithSettleDelay[*models.Household](30*time.Millisecond))
			defer ctrl.Close()

			ctrl.Refresh()
			Eventually(func() int { return len(ctrl.Page().Rows) },
				5*time.Second, 20*time.Millisecond).Should(Equal(10))
			Expect(ctrl.Page().PageCount).To(Equal(3))

			ctrl.SetPage(3)
			Eventually(func() int { return ctrl.Page().PageIndex },
				5*time.Second, 20*time.Millisecond).Should(Equal(3))
			Expect(ctrl.Page().Rows).To(HaveLen(5))

			// Narrowing the search resets to page 1 server-side.
			ctrl.SetSearch("rivera")
			Eventually(func() int { return ctrl.Page().TotalCount },
				5*time.Second, 20*time.Millisecond).Should(Equal(5))
			Expect(ctrl.Page().PageIndex).To(Equal(1))
			Expect(ctrl.Page().PageCount).To(Equal(1))
		})
	})
})

var _ = Describe("Distribution workflow against the database", func() {
	BeforeEach(func() {
		Expect(CleanupTables(ctx, container.DB)).To(Succeed())

		_, err := SeedHouseholds(ctx, container.DB, 6)
		Expect(err).ToNot(HaveOccurred())

		_, err = SeedAidItems(ctx, container.DB, 4)
		Expect(err).ToNot(HaveOccurred())
	})

	It("records one distribution row per selected item and decrements stock", func() {
		households, err := models.Households().All(ctx, container.DB)
		Expect(err).ToNot(HaveOccurred())

		items, err := models.AidItems().All(ctx, container.DB)
		Expect(err).ToNot(HaveOccurred())
		Expect(items).ToNot(BeEmpty())

		m := workflow.New(
			func(h *models.Household) string { return h.ID },
			func(a *models.AidItem) string { return a.ID },
			func(a *models.AidItem) int { return a.QuantityAvailable },
			workflow.WithTargetText[*models.Household, *models.AidItem](
				func(h *models.Household) string { return h.HeadName },
			),
		)

		m.SetSearch("rivera")
		shortlist := m.Shortlist(households)
		Expect(shortlist).ToNot(BeEmpty())
		Expect(m.PickTarget(shortlist[0])).To(Succeed())

		Expect(m.ToggleItem(items[0])).To(Succeed())
		Expect(m.ToggleItem(items[1])).To(Succeed())
		Expect(m.SetQuantity(items[0].ID, "3")).To(Succeed())

		res, err := m.Submit(ctx, distributionSubmitter(container.DB))
		Expect(err).ToNot(HaveOccurred())
		Expect(res.Success).To(BeTrue())
		Expect(m.Phase()).To(Equal(workflow.PhaseSucceeded))

		var rows int
		Expect(container.DB.QueryRowContext(ctx,
			"SELECT count(*) FROM distributions").Scan(&rows)).To(Succeed())
		Expect(rows).To(Equal(2))

		var remaining int
		Expect(container.DB.QueryRowContext(ctx,
			"SELECT quantity_available FROM aid_items WHERE id = $1",
			items[0].ID).Scan(&remaining)).To(Succeed())
		Expect(remaining).To(Equal(items[0].QuantityAvailable - 3))
	})

	It("fails the submission when stock is insufficient and preserves state", func() {
		households, err := models.Households().All(ctx, container.DB)
		Expect(err).ToNot(HaveOccurred())

		items, err := models.AidItems().All(ctx, container.DB)
		Expect(err).ToNot(HaveOccurred())

		m := workflow.New(
			func(h *models.Household) string { return h.ID },
			func(a *models.AidItem) string { return a.ID },
			func(a *models.AidItem) int { return a.QuantityAvailable },
		)

		Expect(m.PickTarget(households[0])).To(Succeed())
		Expect(m.ToggleItem(items[0])).To(Succeed())

		// Drain the stock behind the machine's back so the guarded
		// update fails server-side.
		_, err = container.DB.ExecContext(ctx,
			"UPDATE aid_items SET quantity_available = 0 WHERE id = $1", items[0].ID)
		Expect(err).ToNot(HaveOccurred())

		res, err := m.Submit(ctx, distributionSubmitter(container.DB))
		Expect(err).ToNot(HaveOccurred())
		Expect(res.Success).To(BeFalse())
		Expect(m.Phase()).To(Equal(workflow.PhaseFailed))
		Expect(m.Selected()).To(HaveLen(1))

		var rows int
		Expect(container.DB.QueryRowContext(ctx,
			"SELECT count(*) FROM distributions").Scan(&rows)).To(Succeed())
		Expect(rows).To(BeZero())
	})
})

// distributionSubmitter persists a workflow payload transactionally:
// one distributions row per item, with a stock decrement guarded against
// going negative.
func distributionSubmitter(db *sql.DB) listview.Submitter[workflow.Payload] {
	return listview.SubmitterFunc[workflow.Payload](
		func(ctx context.Context, p workflow.Payload) (*listview.SubmitResult, error) {
			tx, err := db.BeginTx(ctx, nil)
			if err != nil {
				return nil, err
			}
			defer tx.Rollback()

			for _, item := range p.Items {
				res, err := tx.ExecContext(ctx, `
					UPDATE aid_items
					SET quantity_available = quantity_available - $1, updated_at = now()
					WHERE id = $2 AND quantity_available >= $1
				`, item.Quantity, item.ID)
				if err != nil {
					return nil, err
				}

				affected, err := res.RowsAffected()
				if err != nil {
					return nil, err
				}
				if affected == 0 {
					return &listview.SubmitResult{
						Success: false,
						Message: fmt.Sprintf("Cannot distribute item %s: insufficient stock", item.ID),
					}, nil
				}

				_, err = tx.ExecContext(ctx, `
					INSERT INTO distributions (reference, household_id, item_id, quantity)
					VALUES ($1, $2, $3, $4)
				`, p.Reference, p.TargetID, item.ID, item.Quantity)
				if err != nil {
					return nil, err
				}
			}

			if err := tx.Commit(); err != nil {
				return nil, err
			}

			return &listview.SubmitResult{Success: true, Message: "Distribution saved"}, nil
		})
}
