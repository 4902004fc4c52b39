package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dmitrijs2005/streamstock/internal/client/models"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// renderTable lays rows out under headers with a thin border.
func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...).
		Render()
}

func (a *App) printTable(headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(a.out, "Nothing to show.")
		return
	}
	fmt.Fprintln(a.out, renderTable(headers, rows))
}

func (a *App) printPageFooter(number, total int) {
	if total > 1 {
		fmt.Fprintf(a.out, "Page %d of %d\n", number+1, total)
	}
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func money(v models.Amount) string {
	return "$" + v.String()
}

func categoryRows(list []models.Category) [][]string {
	rows := make([][]string, 0, len(list))
	for _, c := range list {
		rows = append(rows, []string{id(c.ID), c.Name, c.Status})
	}
	return rows
}

func productRows(list []models.Product) [][]string {
	rows := make([][]string, 0, len(list))
	for _, p := range list {
		days := ""
		if p.DaysRemaining != nil {
			days = strconv.Itoa(*p.DaysRemaining)
		}
		rows = append(rows, []string{
			id(p.ID), p.Name, p.CategoryName, money(p.SalePrice),
			strconv.Itoa(p.Days), strconv.Itoa(p.InStock()), yesNo(p.IsRenewable), days,
		})
	}
	return rows
}

var productHeaders = []string{"ID", "Name", "Category", "Price", "Days", "Stock", "Renewable", "Days left"}

func stockRows(list []models.Stock) [][]string {
	rows := make([][]string, 0, len(list))
	for _, s := range list {
		profile := ""
		if s.NumeroPerfil != nil {
			profile = strconv.Itoa(*s.NumeroPerfil)
		}
		rows = append(rows, []string{
			id(s.ID), s.ProductName, string(s.Tipo), profile, s.Username, s.Status,
		})
	}
	return rows
}

var stockHeaders = []string{"ID", "Product", "Type", "Profile", "Username", "Status"}

func transactionRows(list []models.Transaction) [][]string {
	rows := make([][]string, 0, len(list))
	for _, t := range list {
		rows = append(rows, []string{
			id(t.ID), t.Username, t.Type, money(t.Amount), t.Status, t.CreatedAt,
		})
	}
	return rows
}

var transactionHeaders = []string{"ID", "User", "Type", "Amount", "Status", "Created"}
