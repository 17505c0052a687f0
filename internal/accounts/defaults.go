package accounts

// Chart templates accepted by DefaultChart.
const (
	ChartEmpty    = "empty"
	ChartPersonal = "personal"
)

// DefaultChart returns the accounts a new root folder starts with. Unknown
// templates fall back to the empty chart.
func DefaultChart(template, unit string) []*Account {
	switch template {
	case ChartPersonal:
		return personalChart(unit)
	default:
		return nil
	}
}

func personalChart(unit string) []*Account {
	names := []string{"bank", "savings", "investments", "loans"}
	chart := make([]*Account, 0, len(names))
	for _, n := range names {
		chart = append(chart, &Account{Name: n, Unit: unit, folder: true})
	}
	return chart
}
