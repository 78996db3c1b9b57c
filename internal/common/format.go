package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"ppob-wallet-go/internal/history"
	"ppob-wallet-go/internal/models"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// Default separator widths
	DefaultWidth = 80
	WideWidth    = 100
)

var rupiahPrinter = message.NewPrinter(language.Indonesian)

// FormatRupiah renders an amount as "Rp 10.000" with Indonesian grouping.
func FormatRupiah(amount int64) string {
	return "Rp " + rupiahPrinter.Sprintf("%d", amount)
}

// FormatDate renders a timestamp as "2 Januari 2006 15:04 WIB".
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d %02d:%02d WIB",
		t.Day(), history.MonthOf(t), t.Year(), t.Hour(), t.Minute())
}

// ParseAmount parses user-entered amounts, tolerating Indonesian grouping
// separators ("15.000" and "15000" both parse to 15000).
func ParseAmount(raw string) (int64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ".", "")
	if cleaned == "" {
		return 0, fmt.Errorf("amount cannot be empty")
	}
	amount, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	return amount, nil
}

// TransactionSign returns the display sign for a record: "+" for credits,
// "-" for debits.
func TransactionSign(transactionType string) string {
	if transactionType == models.TransactionTypeTopUp {
		return "+"
	}
	return "-"
}

// PrintSeparator prints a separator line with the specified character and width
func PrintSeparator(char string, width int) {
	fmt.Println(strings.Repeat(char, width))
}

// PrintSeparatorNewline prints a separator with a newline before it
func PrintSeparatorNewline(char string, width int) {
	fmt.Println("\n" + strings.Repeat(char, width))
}

// PrintHeader prints a formatted header with title and separators
func PrintHeader(title string, width int) {
	PrintSeparatorNewline("=", width)
	fmt.Println(title)
	PrintSeparator("=", width)
}

// PrintFooter prints a formatted footer with message and separators
func PrintFooter(message string, width int) {
	PrintSeparatorNewline("=", width)
	fmt.Println(message)
	fmt.Println(strings.Repeat("=", width) + "\n")
}

// PrintBoxSeparator prints a box-drawing separator line (for sub-sections)
func PrintBoxSeparator(width int) {
	fmt.Println("├" + strings.Repeat("─", width))
}

// BoxPrefix returns the appropriate box-drawing prefix for list items
func BoxPrefix(isLast bool) string {
	if isLast {
		return "└  "
	}
	return "│  "
}
