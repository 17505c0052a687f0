package actions

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sortfin/sortfin/internal/accounts"
	"github.com/sortfin/sortfin/internal/assets"
	"github.com/sortfin/sortfin/internal/session"
)

var (
	jan = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	feb = time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	mar = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
)

func newSession(t *testing.T) (*session.Session, Cursor) {
	t.Helper()
	s, err := session.Initialize(assets.New("USD", "$"), jan, accounts.ChartEmpty)
	require.NoError(t, err)
	return s, Cursor{Branch: session.WorkingBranch, Date: jan}
}

// requireOK and requireRefused take an operation's results directly:
//
//	requireOK(t)(Commit(s, cur))
func requireOK(t *testing.T) func(Outcome, error) {
	t.Helper()
	return func(out Outcome, err error) {
		t.Helper()
		require.NoError(t, err)
		require.True(t, out.OK, out.Message)
	}
}

func requireRefused(t *testing.T) func(Outcome, error) {
	t.Helper()
	return func(out Outcome, err error) {
		t.Helper()
		require.NoError(t, err)
		require.False(t, out.OK, out.Message)
		require.NotEmpty(t, out.Message)
	}
}

func TestEuropeBankScenario(t *testing.T) {
	s, cur := newSession(t)

	out, err := AddAsset(s, cur, AssetParams{Name: "EUR", Symbol: "€", Decimals: -1, Pair: "EUR/USD", Rate: 1.05})
	requireOK(t)(out, err)
	out, err = AddAccount(s, cur, AccountParams{Name: "europe", Folder: true, Unit: "EUR"})
	requireOK(t)(out, err)
	out, err = AddAccount(s, cur, AccountParams{Parent: accounts.MustParsePath("europe"), Name: "bank"})
	requireOK(t)(out, err)
	out, err = ChangeAccountValue(s, cur, accounts.MustParsePath("europe/bank"), 1000)
	requireOK(t)(out, err)
	assert.Equal(t, "Account europe/bank Value: 0 -> 1000.", out.Message)

	st, err := s.Statement(cur.Date, cur.Branch)
	require.NoError(t, err)
	bank, err := st.Find(accounts.MustParsePath("europe/bank"))
	require.NoError(t, err)
	assert.Equal(t, "EUR", bank.Unit, "unit defaults to the parent's")

	v, err := st.Root.Total(st.Market, s.Assets, "USD")
	require.NoError(t, err)
	assert.InDelta(t, 1050.0, v, 1e-6)

	out, err = Commit(s, cur)
	requireOK(t)(out, err)
	diff, err := s.Diff(jan, session.MainBranch, jan, session.WorkingBranch)
	require.NoError(t, err)
	assert.Empty(t, diff)

	out, err = Commit(s, cur)
	requireRefused(t)(out, err)
}

func TestSingleValueDiff(t *testing.T) {
	s, cur := newSession(t)
	requireOK(t)(AddAccount(s, cur, AccountParams{Name: "bank", Value: 1000}))
	requireOK(t)(Commit(s, cur))
	requireOK(t)(ChangeAccountValue(s, cur, accounts.MustParsePath("bank"), 2000))

	diff, err := s.Diff(jan, session.MainBranch, jan, session.WorkingBranch)
	require.NoError(t, err)
	assert.Equal(t, "Account Structure Differences:\nAccount Differences for root/bank:\nValue: 1000 -> 2000\n", diff)
}

func TestAddDate(t *testing.T) {
	s, cur := newSession(t)
	requireOK(t)(AddAccount(s, cur, AccountParams{Name: "bank", Value: 10}))
	requireOK(t)(Commit(s, cur))

	out, err := AddDate(s, mar)
	requireOK(t)(out, err)
	assert.Contains(t, out.Message, "copied from 2025-01-01")
	diff, err := s.Diff(jan, session.MainBranch, mar, session.MainBranch)
	require.NoError(t, err)
	assert.Equal(t, "Date: 2025-01-01 -> 2025-03-01\n", diff, "new dates inherit their neighbour's data")

	// Nearest earlier wins over a later neighbour.
	st, err := s.Statement(mar, session.MainBranch)
	require.NoError(t, err)
	_, err = st.SetValue(accounts.MustParsePath("bank"), 30)
	require.NoError(t, err)
	out, err = AddDate(s, feb)
	requireOK(t)(out, err)
	assert.Contains(t, out.Message, "copied from 2025-01-01")

	// With nothing earlier, the nearest later statement is used.
	out, err = AddDate(s, jan.AddDate(-1, 0, 0))
	requireOK(t)(out, err)
	assert.Contains(t, out.Message, "copied from 2025-01-01")

	out, err = AddDate(s, feb)
	requireRefused(t)(out, err)
	assert.Len(t, s.Dates(session.MainBranch), 4)
}

func TestDeleteDate(t *testing.T) {
	s, cur := newSession(t)
	requireOK(t)(AddDate(s, feb))

	out, err := DeleteDate(s, cur, session.MainBranch, jan)
	requireRefused(t)(out, err)
	assert.Contains(t, out.Message, "current date")

	out, err = DeleteDate(s, cur, session.MainBranch, mar)
	requireRefused(t)(out, err)
	assert.Contains(t, out.Message, "not found")

	out, _, err = Checkout(s, cur, feb)
	requireOK(t)(out, err)
	cur = Cursor{Branch: session.WorkingBranch, Date: feb}

	out, err = DeleteDate(s, cur, session.MainBranch, feb)
	requireRefused(t)(out, err)

	out, err = DeleteDate(s, cur, session.MainBranch, jan)
	requireOK(t)(out, err)
	assert.Equal(t, []time.Time{feb}, s.Dates(session.MainBranch))
}

func TestDeleteDate_PendingWorkingCopy(t *testing.T) {
	s, _ := newSession(t)
	requireOK(t)(AddDate(s, feb))
	cur := Cursor{Branch: session.WorkingBranch, Date: feb}
	require.NoError(t, s.Copy(feb, session.MainBranch, feb, session.WorkingBranch))

	out, err := DeleteDate(s, cur, session.MainBranch, jan)
	requireRefused(t)(out, err)
	assert.Contains(t, out.Message, "not fully merged")

	out, err = DeleteDate(s, cur, session.WorkingBranch, jan)
	requireOK(t)(out, err)
	out, err = DeleteDate(s, cur, session.MainBranch, jan)
	requireOK(t)(out, err)
}

func TestCheckout(t *testing.T) {
	s, cur := newSession(t)
	requireOK(t)(AddDate(s, mar))

	out, next, err := Checkout(s, cur, mar.AddDate(0, 0, 10))
	requireOK(t)(out, err)
	assert.Equal(t, Cursor{Branch: session.WorkingBranch, Date: mar}, next)
	assert.Contains(t, out.Message, "Deleted working branch at date 2025-01-01.")
	assert.Contains(t, out.Message, "Created working branch at date 2025-03-01.")
	assert.False(t, s.Has(jan, session.WorkingBranch), "identical working copies are cleaned up")
	assert.True(t, s.Has(mar, session.WorkingBranch))

	// Between main dates resolves to the earlier one.
	out, next, err = Checkout(s, next, feb)
	requireOK(t)(out, err)
	assert.Equal(t, jan, next.Date)

	_, _, err = Checkout(s, next, jan.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, session.ErrNoDate)
}

func TestCheckout_PendingChanges(t *testing.T) {
	s, cur := newSession(t)
	requireOK(t)(AddDate(s, feb))
	requireOK(t)(AddAccount(s, cur, AccountParams{Name: "bank", Value: 1}))

	out, next, err := Checkout(s, cur, feb)
	requireRefused(t)(out, err)
	assert.Equal(t, cur, next)
	assert.True(t, s.Has(jan, session.WorkingBranch))
	assert.False(t, s.Has(feb, session.WorkingBranch))

	requireOK(t)(Discard(s, cur))
	out, _, err = Checkout(s, cur, feb)
	requireOK(t)(out, err)
}

func TestCheckout_OrphanedWorkingCopy(t *testing.T) {
	s, cur := newSession(t)
	requireOK(t)(AddDate(s, feb))
	requireOK(t)(AddAccount(s, cur, AccountParams{Name: "bank", Value: 1}))
	s.Delete(jan, session.MainBranch)

	out, next, err := Checkout(s, cur, feb)
	requireRefused(t)(out, err)
	assert.Contains(t, out.Message, "has no main statement")
	assert.Equal(t, cur, next)
	assert.True(t, s.Has(jan, session.WorkingBranch), "the working copy survives the refusal")
	assert.False(t, s.Has(feb, session.WorkingBranch))

	out, err = Commit(s, cur)
	requireOK(t)(out, err)
	assert.Contains(t, out.Message, "Restored main branch at date 2025-01-01")
	assert.True(t, s.Has(jan, session.MainBranch))

	out, next, err = Checkout(s, cur, feb)
	requireOK(t)(out, err)
	assert.Equal(t, feb, next.Date)
	assert.False(t, s.Has(jan, session.WorkingBranch))
}

func TestCheckout_SameDateKeepsWork(t *testing.T) {
	s, cur := newSession(t)
	requireOK(t)(AddAccount(s, cur, AccountParams{Name: "bank", Value: 1}))

	out, next, err := Checkout(s, cur, jan.Add(time.Hour))
	requireOK(t)(out, err)
	assert.Equal(t, cur, next)
	different, err := s.IsDifferent(jan, session.MainBranch, jan, session.WorkingBranch)
	require.NoError(t, err)
	assert.True(t, different)
}

func TestCommitAndDiscard_OffWorking(t *testing.T) {
	s, _ := newSession(t)
	main := Cursor{Branch: session.MainBranch, Date: jan}
	requireRefused(t)(Commit(s, main))
	requireRefused(t)(Discard(s, main))
}

func TestAddAsset(t *testing.T) {
	s, _ := newSession(t)
	requireOK(t)(AddDate(s, feb))
	requireOK(t)(AddDate(s, mar))
	cur := Cursor{Branch: session.MainBranch, Date: feb}

	out, err := AddAsset(s, cur, AssetParams{Name: "JPY", Decimals: -1, Pair: "USD/JPY", Rate: 150})
	requireOK(t)(out, err)

	jpy, err := s.Assets.Lookup("JPY")
	require.NoError(t, err)
	assert.Equal(t, 0, jpy.Decimals, "currency defaults apply without a symbol")

	for _, d := range []time.Time{feb, mar} {
		st, err := s.Statement(d, session.MainBranch)
		require.NoError(t, err)
		r, found, err := st.Market.Quote(s.Assets, "JPY", "USD")
		require.NoError(t, err)
		require.True(t, found)
		assert.InDelta(t, 1.0/150, r, 1e-9)
	}
	st, err := s.Statement(jan, session.MainBranch)
	require.NoError(t, err)
	assert.Equal(t, 0, st.Market.Len(), "earlier statements are untouched")
}

func TestAddAsset_CountsQuotedStatements(t *testing.T) {
	s, _ := newSession(t)
	requireOK(t)(AddDate(s, feb))

	// jan still carries a EUR quote from an asset that was later removed.
	require.NoError(t, s.Assets.Add(assets.New("EUR", "€")))
	st, err := s.Statement(jan, session.MainBranch)
	require.NoError(t, err)
	added, err := st.Market.AddQuote(s.Assets, "EUR", "USD", 1.05)
	require.NoError(t, err)
	require.True(t, added)
	s.Assets.Remove("EUR")

	cur := Cursor{Branch: session.MainBranch, Date: jan}
	out, err := AddAsset(s, cur, AssetParams{Name: "EUR", Symbol: "€", Decimals: -1, Pair: "EUR/USD", Rate: 1.1})
	requireOK(t)(out, err)
	assert.Contains(t, out.Message, "(1 statements)")

	r, _, err := st.Market.Quote(s.Assets, "EUR", "USD")
	require.NoError(t, err)
	assert.Equal(t, 1.05, r, "a market that already resolves the pair keeps its rate")

	next, err := s.Statement(feb, session.MainBranch)
	require.NoError(t, err)
	r, _, err = next.Market.Quote(s.Assets, "EUR", "USD")
	require.NoError(t, err)
	assert.Equal(t, 1.1, r)
}

func TestAddAsset_Refusals(t *testing.T) {
	s, cur := newSession(t)

	tests := []struct {
		name string
		p    AssetParams
	}{
		{"bad pair", AssetParams{Name: "EUR", Pair: "EURUSD", Rate: 1}},
		{"too many sides", AssetParams{Name: "EUR", Pair: "EUR/USD/GBP", Rate: 1}},
		{"pair without new asset", AssetParams{Name: "EUR", Pair: "GBP/USD", Rate: 1}},
		{"unknown other side", AssetParams{Name: "EUR", Pair: "EUR/GBP", Rate: 1}},
		{"existing asset", AssetParams{Name: "USD", Pair: "USD/USD", Rate: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := AddAsset(s, cur, tt.p)
			requireRefused(t)(out, err)
		})
	}

	_, err := AddAsset(s, cur, AssetParams{Name: "EUR", Symbol: "€", Pair: "EUR/USD", Rate: -1})
	assert.Error(t, err)
	assert.False(t, s.Assets.Exists("EUR"), "failed quotes roll back the asset")
}

func TestQuotes(t *testing.T) {
	s, cur := newSession(t)
	requireOK(t)(AddAsset(s, cur, AssetParams{Name: "EUR", Symbol: "€", Pair: "EUR/USD", Rate: 1.05}))
	requireOK(t)(AddAsset(s, cur, AssetParams{Name: "GBP", Symbol: "£", Pair: "GBP/USD", Rate: 1.3}))

	out, err := AddQuote(s, cur, "EUR", "GBP", 0.8)
	requireRefused(t)(out, err)
	assert.Contains(t, out.Message, "already resolves")

	out, err = ChangeQuote(s, cur, "USD", "EUR", 0.5)
	requireOK(t)(out, err)
	assert.Contains(t, out.Message, "-> 0.5.")

	out, err = ChangeQuote(s, cur, "EUR", "GBP", 0.5)
	requireRefused(t)(out, err)

	_, err = AddQuote(s, cur, "EUR", "XAU", 1)
	assert.ErrorIs(t, err, assets.ErrUnknownAsset)
}

func TestAccounts(t *testing.T) {
	s, cur := newSession(t)
	requireOK(t)(AddAccount(s, cur, AccountParams{Name: "bank", Folder: true}))
	requireOK(t)(AddAccount(s, cur, AccountParams{Parent: accounts.MustParsePath("bank"), Name: "checking", Value: 5}))

	requireRefused(t)(AddAccount(s, cur, AccountParams{Parent: accounts.MustParsePath("bank/checking"), Name: "x"}))
	_, err := AddAccount(s, cur, AccountParams{Parent: accounts.MustParsePath("bank"), Name: "CHECKING"})
	assert.ErrorIs(t, err, accounts.ErrDuplicateAccount)

	requireRefused(t)(ChangeAccountValue(s, cur, accounts.MustParsePath("bank"), 1))
	requireRefused(t)(ChangeAccountValue(s, cur, accounts.MustParsePath("bank/checking"), 5))
	_, err = ChangeAccountValue(s, cur, accounts.MustParsePath("bank/checking"), math.NaN())
	assert.ErrorIs(t, err, accounts.ErrInvalidAccount)
	_, err = AddAccount(s, cur, AccountParams{Parent: accounts.MustParsePath("bank"), Name: "huge", Value: math.Inf(1)})
	assert.ErrorIs(t, err, accounts.ErrInvalidAccount)
	requireRefused(t)(ChangeAccountUnit(s, cur, accounts.MustParsePath("bank"), "USD"))
	_, err = ChangeAccountUnit(s, cur, accounts.MustParsePath("bank"), "XAU")
	assert.ErrorIs(t, err, assets.ErrUnknownAsset)

	requireRefused(t)(DeleteAccount(s, cur, accounts.MustParsePath("bank")))
	requireOK(t)(DeleteAccount(s, cur, accounts.MustParsePath("bank/checking")))
	requireOK(t)(DeleteAccount(s, cur, accounts.MustParsePath("bank")))
	_, err = DeleteAccount(s, cur, accounts.MustParsePath("bank"))
	assert.ErrorIs(t, err, accounts.ErrAccountNotFound)
}

func TestImportValues(t *testing.T) {
	s, cur := newSession(t)
	requireOK(t)(AddAccount(s, cur, AccountParams{Name: "bank", Folder: true}))
	requireOK(t)(AddAccount(s, cur, AccountParams{Parent: accounts.MustParsePath("bank"), Name: "checking", Value: 5}))

	leaves := []accounts.LeafRecord{
		{Path: accounts.MustParsePath("bank/checking"), Unit: "USD", Value: 7},
		{Path: accounts.MustParsePath("bank/savings"), Unit: "USD", Value: 100},
	}
	out, err := ImportValues(s, cur, leaves)
	requireOK(t)(out, err)
	assert.Equal(t, "Imported 2 rows: 1 changed, 1 created.", out.Message)

	out, err = ImportValues(s, cur, leaves)
	requireRefused(t)(out, err)

	_, err = ImportValues(s, cur, []accounts.LeafRecord{{Path: accounts.MustParsePath("bank"), Unit: "USD", Value: 1}})
	assert.ErrorIs(t, err, accounts.ErrFolderAccount)
	_, err = ImportValues(s, cur, []accounts.LeafRecord{{Path: accounts.MustParsePath("nope/x"), Unit: "USD", Value: 1}})
	assert.ErrorIs(t, err, accounts.ErrAccountNotFound)
	_, err = ImportValues(s, cur, []accounts.LeafRecord{{Path: accounts.MustParsePath("bank/x"), Unit: "XAU", Value: 1}})
	assert.ErrorIs(t, err, assets.ErrUnknownAsset)
}
