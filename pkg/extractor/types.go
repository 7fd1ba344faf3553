// Package extractor turns logical chat messages into structured records.
package extractor

import (
	"strconv"
	"time"
)

// DateTimeLayout is the layout DateTime is rendered with in tabular exports.
const DateTimeLayout = "2006-01-02 15:04:05"

// Columns lists the exported column names in order, excluding the row index.
var Columns = []string{
	"Date", "Time", "Name", "Content",
	"DateTime", "Year", "Weekday", "Hour", "LetterCount", "WordCount",
}

// Fields is the raw decomposition of one logical message.
type Fields struct {
	Date    string
	Time    string
	Name    string
	Content string
}

// Record is one parsed message with its derived attributes.
type Record struct {
	Date        string    `json:"date" yaml:"date"`
	Time        string    `json:"time" yaml:"time"`
	Name        string    `json:"name" yaml:"name"`
	Content     string    `json:"content" yaml:"content"`
	DateTime    time.Time `json:"datetime" yaml:"datetime"`
	Year        string    `json:"year" yaml:"year"`
	Weekday     string    `json:"weekday" yaml:"weekday"`
	Hour        int       `json:"hour" yaml:"hour"`
	LetterCount int       `json:"letter_count" yaml:"letter_count"`
	WordCount   int       `json:"word_count" yaml:"word_count"`
}

// Row renders the record as string cells in Columns order.
func (r *Record) Row() []string {
	return []string{
		r.Date,
		r.Time,
		r.Name,
		r.Content,
		r.DateTime.Format(DateTimeLayout),
		r.Year,
		r.Weekday,
		strconv.Itoa(r.Hour),
		strconv.Itoa(r.LetterCount),
		strconv.Itoa(r.WordCount),
	}
}

// Table is the ordered set of records ready for export. Records keep the order
// of the source; the row index of a record is its position in Records.
type Table struct {
	Records []Record

	// Strategy names the extractor that produced the table.
	Strategy string

	// DateOrder is the date order used to build DateTime.
	DateOrder DateOrder

	// Messages is the number of logical messages given to the builder.
	Messages int

	// Dropped counts messages skipped because their content was missing.
	Dropped int
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Records)
}
