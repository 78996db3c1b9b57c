package history

import "time"

// Months are the twelve canonical month names used for bucketing, in
// calendar order.
var Months = [12]string{
	"Januari",
	"Februari",
	"Maret",
	"April",
	"Mei",
	"Juni",
	"Juli",
	"Agustus",
	"September",
	"Oktober",
	"November",
	"Desember",
}

// MonthOf derives a record's bucket purely from its timestamp's calendar
// month.
func MonthOf(t time.Time) string {
	return Months[int(t.Month())-1]
}
