// Package document turns a (bill, breakdown) pair into a printable sales
// invoice. The content model is shared by every output format; only the
// encoding differs. Building is deterministic: all embedded dates come from
// the bill itself, never from the wall clock.
package document

import "errors"

// Format selects the output encoding.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

func (f Format) Valid() bool {
	return f == FormatPDF || f == FormatDOCX
}

var ErrUnknownFormat = errors.New("unknown_document_format")

// Issuer identifies the selling dealership on the document header.
type Issuer struct {
	Name    string
	Address string
	Phone   string
}

// Row is one line of the financial table.
type Row struct {
	Label string
	Value string
	// Emphasis marks the total row for bold rendering.
	Emphasis bool
}

// Document is the full logical content of a rendered bill.
type Document struct {
	Issuer    Issuer
	Title     string
	Number    string
	IssueDate string

	CustomerName    string
	CustomerNIC     string
	CustomerAddress string

	ModelName string
	MotorNo   string
	ChassisNo string
	BasePrice string

	Rows  []Row
	Terms []string
	// Footer holds the static signature lines.
	Footer []string
}
