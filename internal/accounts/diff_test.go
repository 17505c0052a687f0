package accounts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func europeTree(t *testing.T, bank float64) *Account {
	t.Helper()
	return folder(t, "root", "EUR",
		folder(t, "europe", "EUR",
			leaf(t, "my_bank", "EUR", bank),
			leaf(t, "my_loan", "EUR", -100),
		),
		folder(t, "usa", "USD",
			leaf(t, "my_bank", "USD", 250),
			leaf(t, "my_investment", "USD", 145600.2),
		),
	)
}

func TestDiff_Identical(t *testing.T) {
	assert.Empty(t, europeTree(t, 1000).Diff(europeTree(t, 1000)))
}

func TestDiff_SingleValue(t *testing.T) {
	got := europeTree(t, 1000).Diff(europeTree(t, 2000))
	assert.Equal(t, "Account Differences for root/europe/my_bank:\nValue: 1000 -> 2000\n", got)
}

func TestDiff_UnitAndValue(t *testing.T) {
	a := europeTree(t, 1000)
	b := europeTree(t, 1000)
	inv, err := b.Find(MustParsePath("usa/my_investment"))
	require.NoError(t, err)
	inv.Unit = "JPY"
	require.NoError(t, inv.SetValue(123456))

	assert.Equal(t,
		"Account Differences for root/usa/my_investment:\nUnit: USD -> JPY\nValue: 145600.2 -> 123456\n",
		a.Diff(b))
}

func TestDiff_FolderUnit(t *testing.T) {
	a := europeTree(t, 1000)
	b := europeTree(t, 1000)
	eu, err := b.Find(MustParsePath("europe"))
	require.NoError(t, err)
	eu.Unit = "BTC"

	assert.Equal(t, "Account Differences for root/europe:\nUnit: EUR -> BTC\n", a.Diff(b))
}

func TestDiff_MissingAndNew(t *testing.T) {
	a := europeTree(t, 1000)
	b := europeTree(t, 1000)
	require.NoError(t, b.Remove(MustParsePath("europe/my_loan")))
	require.NoError(t, b.Add(MustParsePath("europe"), folder(t, "brokerage", "EUR", leaf(t, "etf", "EUR", 5))))

	assert.Equal(t,
		"Account Differences for root/europe:\nMissing Sub-Account my_loan\nNew Sub-Account brokerage\n",
		a.Diff(b), "one-sided subtrees are not descended into")
}

func TestDiff_TypeChange(t *testing.T) {
	a := folder(t, "root", "EUR", leaf(t, "x", "EUR", 1))
	b := folder(t, "root", "EUR", folder(t, "x", "EUR"))

	assert.Equal(t, "Account Differences for root/x:\nType: Terminal -> Folder\n", a.Diff(b))
}

func TestDiff_CaseOnlyRename(t *testing.T) {
	a := folder(t, "root", "EUR", leaf(t, "bank", "EUR", 1))
	b := folder(t, "root", "EUR", leaf(t, "Bank", "EUR", 1))

	assert.Equal(t, "Account Differences for root/bank:\nName: bank -> Bank\n", a.Diff(b))
}

func TestDiff_NestedAndOwnChanges(t *testing.T) {
	a := europeTree(t, 1000)
	b := europeTree(t, 2000)
	require.NoError(t, b.Add(Path{}, folder(t, "asia", "JPY")))

	assert.Equal(t,
		"Account Differences for root:\nNew Sub-Account asia\n"+
			"Account Differences for root/europe/my_bank:\nValue: 1000 -> 2000\n",
		a.Diff(b))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "1000", FormatNumber(1000))
	assert.Equal(t, "145600.2", FormatNumber(145600.2))
	assert.Equal(t, "1.05", FormatNumber(1.05))
	assert.Equal(t, "-100", FormatNumber(-100))
}
