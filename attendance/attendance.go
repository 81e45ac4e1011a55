package attendance

import (
	"context"
	"time"
)

const (
	DateFormat = "02/01/2006"
	TimeFormat = "15:04:05"
)

// Record is a single attendance row: identifier, date, time and activity label.
type Record struct {
	ID    string
	Date  string
	Time  string
	Label string
}

// Appends is the spreadsheet append capability used to record attendance.
type Appends interface {
	Append(ctx context.Context, area string, rows [][]any) error
}

type Appender struct {
	sheet Appends
	area  string
}

func NewRecord(id string, timestamp time.Time, label string) Record {
	return Record{
		ID:    id,
		Date:  timestamp.Format(DateFormat),
		Time:  timestamp.Format(TimeFormat),
		Label: label,
	}
}

func (r Record) Row() []any {
	return []any{r.ID, r.Date, r.Time, r.Label}
}

func NewAppender(sheet Appends, area string) *Appender {
	return &Appender{
		sheet: sheet,
		area:  area,
	}
}

// Append adds the record as a new row in the attendance range.
func (a *Appender) Append(ctx context.Context, record Record) error {
	return a.sheet.Append(ctx, a.area, [][]any{record.Row()})
}
