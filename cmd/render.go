package cmd

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"wealth-planner/domain"
	"wealth-planner/service"
)

var (
	colorBorder = lipgloss.Color("#282726")
	colorText   = lipgloss.Color("#FFFCF0")
	colorDim    = lipgloss.Color("#575653")
	colorAccent = lipgloss.Color("#3AA99F")
	colorGreen  = lipgloss.Color("#879A39")
	colorRed    = lipgloss.Color("#D14D41")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	valueStyle = lipgloss.NewStyle().Foreground(colorText)
	dimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	goodStyle  = lipgloss.NewStyle().Foreground(colorGreen)
	badStyle   = lipgloss.NewStyle().Foreground(colorRed)
)

type table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

func renderTitle(title string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(titleStyle.Render(title))
}

// renderTable draws a bordered table. The first column is left aligned and
// the rest are right aligned.
func renderTable(t table) string {
	numCols := len(t.Headers)
	if numCols == 0 {
		return ""
	}

	widths := make([]int, numCols)
	for i, h := range t.Headers {
		widths[i] = len(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < numCols && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	rule := func(left, mid, right string) string {
		var b strings.Builder
		b.WriteString(left)
		for i, w := range widths {
			b.WriteString(strings.Repeat("─", w+2))
			if i < numCols-1 {
				b.WriteString(mid)
			}
		}
		b.WriteString(right)
		return dimStyle.Render(b.String()) + "\n"
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  " + headerStyle.Render(t.Title) + "\n")
	}

	b.WriteString(rule("╭", "┬", "╮"))
	b.WriteString(dimStyle.Render("│"))
	for i, h := range t.Headers {
		b.WriteString(headerStyle.Render(fmt.Sprintf(" %-*s ", widths[i], h)))
		b.WriteString(dimStyle.Render("│"))
	}
	b.WriteString("\n")
	b.WriteString(rule("├", "┼", "┤"))

	for _, row := range t.Rows {
		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			var padded string
			if i == 0 {
				padded = fmt.Sprintf(" %-*s ", widths[i], cell)
			} else {
				padded = fmt.Sprintf(" %*s ", widths[i], cell)
			}
			b.WriteString(valueStyle.Render(padded))
			b.WriteString(dimStyle.Render("│"))
		}
		b.WriteString("\n")
	}

	b.WriteString(rule("╰", "┴", "╯"))
	return b.String()
}

// formatMoney rounds to whole units and adds comma separators.
// e.g., 1234567.8 -> "1,234,568"
func formatMoney(v float64) string {
	n := int64(math.Round(v))
	if n < 0 {
		return "-" + groupDigits(strconv.FormatInt(-n, 10))
	}
	return groupDigits(strconv.FormatInt(n, 10))
}

func groupDigits(s string) string {
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

func formatSigned(v float64) string {
	s := formatMoney(v)
	if v < 0 {
		return badStyle.Render(s)
	}
	return goodStyle.Render(s)
}

// projectionRows keeps every twelfth month plus the final one.
func projectionRows(result domain.SimulationResult) [][]string {
	n := result.Len()
	rows := make([][]string, 0, n/12+1)
	for m := 0; m < n; m++ {
		if (m+1)%12 != 0 && m != n-1 {
			continue
		}
		rows = append(rows, []string{
			result.Labels[m],
			formatMoney(result.DebtPath[m]),
			formatMoney(result.InvestmentPath[m]),
			formatMoney(result.NetWorthPath[m]),
		})
	}
	return rows
}

func allocationRows(allocations domain.AllocationSet) [][]string {
	total := allocations.Sum()
	rows := make([][]string, 0, len(allocations))
	for _, k := range allocations.Keys() {
		share := ""
		if total > 0 {
			share = fmt.Sprintf("%.1f%%", allocations[k]/total*100)
		}
		rows = append(rows, []string{k, formatMoney(allocations[k]), share})
	}
	return rows
}

func comparisonRows(c domain.StrategyComparison) [][]string {
	rows := [][]string{outcomeRow(c.Baseline)}
	for _, name := range service.ComparedStrategies {
		if o, ok := c.Strategies[name]; ok {
			rows = append(rows, outcomeRow(o))
		}
	}
	return rows
}

func outcomeRow(o domain.StrategyOutcome) []string {
	return []string{
		o.Strategy,
		o.DebtFreeLabel,
		formatMoney(o.TotalInterest),
		formatMoney(o.InterestSaved),
		strconv.Itoa(o.MonthsSaved),
		formatMoney(o.FinalNetWorth),
	}
}
