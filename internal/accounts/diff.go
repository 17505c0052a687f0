package accounts

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Diff reports the structural differences between a and other. Children are
// paired by name without regard to case, like Find; a case-only rename shows
// up as a Name change. Subtrees that exist on one side only are reported once
// and not descended into. The result is empty when nothing differs.
func (a *Account) Diff(other *Account) string {
	return a.diff(other, "")
}

func (a *Account) diff(other *Account, prefix string) string {
	var own, nested strings.Builder

	if a.Name != other.Name {
		fmt.Fprintf(&own, "Name: %s -> %s\n", a.Name, other.Name)
	}
	if a.folder != other.folder {
		fmt.Fprintf(&own, "Type: %s -> %s\n", kind(a), kind(other))
	}
	if a.Unit != other.Unit {
		fmt.Fprintf(&own, "Unit: %s -> %s\n", a.Unit, other.Unit)
	}
	if !a.folder && !other.folder && a.value != other.value {
		fmt.Fprintf(&own, "Value: %s -> %s\n", FormatNumber(a.value), FormatNumber(other.value))
	}

	if a.folder && other.folder {
		childPrefix := prefix + a.Name + "/"
		for _, c := range a.children {
			match := other.child(c.Name)
			if match == nil {
				fmt.Fprintf(&own, "Missing Sub-Account %s\n", c.Name)
				continue
			}
			nested.WriteString(c.diff(match, childPrefix))
		}
		for _, c := range other.children {
			if a.child(c.Name) == nil {
				fmt.Fprintf(&own, "New Sub-Account %s\n", c.Name)
			}
		}
	}

	if own.Len() > 0 {
		return "Account Differences for " + prefix + a.Name + ":\n" + own.String() + nested.String()
	}
	return nested.String()
}

func kind(a *Account) string {
	if a.folder {
		return "Folder"
	}
	return "Terminal"
}

// FormatNumber renders a balance or rate with the shortest exact decimal
// representation ("1000", "145600.2", "1.05").
func FormatNumber(v float64) string {
	return decimal.NewFromFloat(v).String()
}
