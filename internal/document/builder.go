package document

import (
	billdomain "github.com/ridewell/motorbill/internal/bill/domain"
	"github.com/ridewell/motorbill/internal/document/format"
	"github.com/ridewell/motorbill/internal/pricing"
)

const financierSettledMarker = "Settled by financier"

var boilerplateTerms = []string{
	"Goods once sold are not returnable or exchangeable.",
	"The vehicle is sold with the manufacturer's standard warranty only.",
	"Ownership transfers to the purchaser on settlement of the full amount stated above.",
}

var signatureFooter = []string{
	"...............................",
	"Authorized Signature",
}

// Builder assembles the content model for a bill. It holds only the issuer
// identity; everything else comes from the immutable (bill, breakdown) pair.
type Builder struct {
	issuer Issuer
}

func NewBuilder(issuer Issuer) *Builder {
	return &Builder{issuer: issuer}
}

// Build derives the document content. Pure: identical inputs produce an
// identical Document, and the issue date is the bill's own creation time.
func (b *Builder) Build(bill billdomain.Bill, breakdown pricing.Breakdown) Document {
	doc := Document{
		Issuer:    b.issuer,
		Title:     "SALES INVOICE",
		Number:    bill.DisplayNumber,
		IssueDate: format.Date(bill.CreatedAt),

		CustomerName:    bill.CustomerName,
		CustomerNIC:     bill.CustomerNIC,
		CustomerAddress: bill.CustomerAddress,

		ModelName: bill.ModelName,
		MotorNo:   bill.MotorNo,
		ChassisNo: bill.ChassisNo,
		BasePrice: format.Money(bill.BasePrice),

		Rows:   buildRows(bill, breakdown),
		Terms:  buildTerms(bill),
		Footer: signatureFooter,
	}
	return doc
}

func buildRows(bill billdomain.Bill, breakdown pricing.Breakdown) []Row {
	exempt := bill.Snapshot().Exempt()
	total := Row{Label: "Total", Value: format.Money(breakdown.TotalAmount), Emphasis: true}

	switch bill.Channel {
	case pricing.ChannelAdvance:
		rows := make([]Row, 0, 5)
		if bill.Settlement == pricing.SettlementLease {
			rows = append(rows, Row{Label: "Down Payment", Value: format.Money(bill.DownPayment)})
		} else {
			rows = append(rows, Row{Label: "Base Price", Value: format.Money(bill.BasePrice)})
		}
		rows = append(rows,
			Row{Label: "Advance Paid", Value: format.Money(bill.AdvanceAmount)},
			Row{Label: "Balance Due", Value: format.Money(breakdown.BalanceAmount)},
		)
		if bill.EstimatedDeliveryDate != nil {
			rows = append(rows, Row{Label: "Estimated Delivery", Value: format.Date(*bill.EstimatedDeliveryDate)})
		}
		return append(rows, total)

	case pricing.ChannelLease:
		rows := []Row{{Label: "Down Payment", Value: format.Money(bill.DownPayment)}}
		if !exempt {
			rows = append(rows, Row{Label: "Registration", Value: financierSettledMarker})
		}
		return append(rows, total)

	default: // cash
		rows := []Row{{Label: "Base Price", Value: format.Money(bill.BasePrice)}}
		// The registration row is omitted entirely for exempt vehicles,
		// never shown as zero.
		if !exempt {
			rows = append(rows, Row{Label: "Registration Charge", Value: format.Money(breakdown.RegistrationCharge)})
		}
		return append(rows, total)
	}
}

func buildTerms(bill billdomain.Bill) []string {
	terms := make([]string, 0, len(boilerplateTerms)+1)
	terms = append(terms, boilerplateTerms...)

	switch bill.Channel {
	case pricing.ChannelLease:
		terms = append(terms, "The outstanding balance of the vehicle price is settled by the leasing company.")
	case pricing.ChannelAdvance:
		clause := "The balance amount is payable in full on delivery of the vehicle."
		if bill.EstimatedDeliveryDate != nil {
			clause += " Estimated delivery: " + format.Date(*bill.EstimatedDeliveryDate) + "."
		}
		terms = append(terms, clause)
	default:
		// Cash sales of registrable vehicles carry the registration clause;
		// exempt-class vehicles need no registration at all.
		if !bill.Snapshot().Exempt() {
			terms = append(terms, "Registration with the licensing authority will be completed by the dealership within 14 working days.")
		}
	}
	return terms
}
