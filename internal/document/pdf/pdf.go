// Package pdf encodes bill documents with maroto.
package pdf

import (
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/ridewell/motorbill/internal/document"
)

type Encoder struct{}

func NewEncoder() *Encoder {
	return &Encoder{}
}

func (e *Encoder) Encode(doc document.Document) ([]byte, error) {
	cfg := config.NewBuilder().
		WithLeftMargin(15).
		WithRightMargin(15).
		Build()

	m := maroto.New(cfg)

	// Header
	m.AddRow(12,
		text.NewCol(12, doc.Issuer.Name, props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Align: align.Center,
		}),
	)
	m.AddRow(6,
		text.NewCol(12, doc.Issuer.Address, props.Text{Size: 9, Align: align.Center}),
	)
	m.AddRow(6,
		text.NewCol(12, doc.Issuer.Phone, props.Text{Size: 9, Align: align.Center}),
	)
	m.AddRow(4, line.NewCol(12))

	m.AddRow(10,
		text.NewCol(12, doc.Title, props.Text{
			Size:  13,
			Style: fontstyle.Bold,
			Align: align.Center,
			Top:   2,
		}),
	)

	m.AddRow(12,
		col.New(6).Add(
			text.New("Bill No: "+doc.Number, props.Text{Size: 9, Top: 0}),
			text.New("Date: "+doc.IssueDate, props.Text{Size: 9, Top: 5}),
		),
		col.New(6),
	)

	// Customer block
	m.AddRow(18,
		col.New(12).Add(
			text.New("Customer", props.Text{Size: 9, Style: fontstyle.Bold}),
			text.New(doc.CustomerName, props.Text{Size: 9, Top: 5}),
			text.New("NIC: "+doc.CustomerNIC, props.Text{Size: 9, Top: 9}),
			text.New(doc.CustomerAddress, props.Text{Size: 9, Top: 13}),
		),
	)

	// Vehicle block
	m.AddRow(18,
		col.New(12).Add(
			text.New("Vehicle", props.Text{Size: 9, Style: fontstyle.Bold}),
			text.New("Model: "+doc.ModelName, props.Text{Size: 9, Top: 5}),
			text.New("Motor No: "+doc.MotorNo+"   Chassis No: "+doc.ChassisNo, props.Text{Size: 9, Top: 9}),
			text.New("Base Price: "+doc.BasePrice, props.Text{Size: 9, Top: 13}),
		),
	)

	m.AddRow(4, line.NewCol(12))

	// Financial table
	for _, row := range doc.Rows {
		style := fontstyle.Normal
		if row.Emphasis {
			style = fontstyle.Bold
		}
		m.AddRow(8,
			text.NewCol(8, row.Label, props.Text{Size: 10, Style: style}),
			text.NewCol(4, row.Value, props.Text{Size: 10, Style: style, Align: align.Right}),
		)
	}

	m.AddRow(4, line.NewCol(12))

	// Terms
	m.AddRow(7,
		text.NewCol(12, "Terms & Conditions", props.Text{Size: 9, Style: fontstyle.Bold}),
	)
	for _, term := range doc.Terms {
		m.AddRow(6,
			text.NewCol(12, "- "+term, props.Text{Size: 8}),
		)
	}

	// Signature block
	m.AddRow(14, col.New(12))
	for _, sig := range doc.Footer {
		m.AddRow(5,
			text.NewCol(12, sig, props.Text{Size: 9, Align: align.Right}),
		)
	}

	out, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return out.GetBytes(), nil
}
