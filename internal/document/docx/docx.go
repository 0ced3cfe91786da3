// Package docx encodes bill documents as minimal WordprocessingML.
//
// The writer is deliberately hand-rolled on archive/zip: rendered bills are
// legal records and must be byte-identical for identical inputs, so the
// archive carries zeroed timestamps, a fixed part order, and no revision
// identifiers.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/ridewell/motorbill/internal/document"
)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

type Encoder struct{}

func NewEncoder() *Encoder {
	return &Encoder{}
}

func (e *Encoder) Encode(doc document.Document) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	parts := []struct {
		name string
		body string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", relsXML},
		{"word/document.xml", buildDocumentXML(doc)},
	}

	for _, part := range parts {
		// Zero Modified keeps the archive byte-stable across invocations.
		f, err := w.CreateHeader(&zip.FileHeader{
			Name:   part.name,
			Method: zip.Deflate,
		})
		if err != nil {
			return nil, err
		}
		if _, err := f.Write([]byte(part.body)); err != nil {
			return nil, err
		}
	}

	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func buildDocumentXML(doc document.Document) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)

	writePara(&b, doc.Issuer.Name, true, 32, "center")
	writePara(&b, doc.Issuer.Address, false, 18, "center")
	writePara(&b, doc.Issuer.Phone, false, 18, "center")
	writePara(&b, doc.Title, true, 26, "center")
	writePara(&b, "Bill No: "+doc.Number, false, 18, "")
	writePara(&b, "Date: "+doc.IssueDate, false, 18, "")

	writePara(&b, "Customer", true, 18, "")
	writePara(&b, doc.CustomerName, false, 18, "")
	writePara(&b, "NIC: "+doc.CustomerNIC, false, 18, "")
	writePara(&b, doc.CustomerAddress, false, 18, "")

	writePara(&b, "Vehicle", true, 18, "")
	writePara(&b, "Model: "+doc.ModelName, false, 18, "")
	writePara(&b, "Motor No: "+doc.MotorNo+"   Chassis No: "+doc.ChassisNo, false, 18, "")
	writePara(&b, "Base Price: "+doc.BasePrice, false, 18, "")

	writeTable(&b, doc.Rows)

	writePara(&b, "Terms & Conditions", true, 18, "")
	for _, term := range doc.Terms {
		writePara(&b, "- "+term, false, 16, "")
	}

	writePara(&b, "", false, 18, "")
	for _, sig := range doc.Footer {
		writePara(&b, sig, false, 18, "right")
	}

	b.WriteString(`</w:body></w:document>`)
	return b.String()
}

func writePara(b *strings.Builder, textValue string, bold bool, halfPoints int, align string) {
	b.WriteString(`<w:p>`)
	if align != "" {
		b.WriteString(`<w:pPr><w:jc w:val="` + align + `"/></w:pPr>`)
	}
	writeRun(b, textValue, bold, halfPoints)
	b.WriteString(`</w:p>`)
}

func writeRun(b *strings.Builder, textValue string, bold bool, halfPoints int) {
	b.WriteString(`<w:r><w:rPr>`)
	if bold {
		b.WriteString(`<w:b/>`)
	}
	b.WriteString(`<w:sz w:val="` + strconv.Itoa(halfPoints) + `"/>`)
	b.WriteString(`</w:rPr><w:t xml:space="preserve">`)
	b.WriteString(escape(textValue))
	b.WriteString(`</w:t></w:r>`)
}

func writeTable(b *strings.Builder, rows []document.Row) {
	b.WriteString(`<w:tbl><w:tblPr><w:tblW w:w="5000" w:type="pct"/><w:tblBorders>` +
		`<w:top w:val="single" w:sz="4"/><w:bottom w:val="single" w:sz="4"/>` +
		`<w:insideH w:val="single" w:sz="4"/></w:tblBorders></w:tblPr>`)
	for _, row := range rows {
		b.WriteString(`<w:tr>`)
		writeCell(b, row.Label, row.Emphasis, "")
		writeCell(b, row.Value, row.Emphasis, "right")
		b.WriteString(`</w:tr>`)
	}
	b.WriteString(`</w:tbl>`)
}

func writeCell(b *strings.Builder, textValue string, bold bool, align string) {
	b.WriteString(`<w:tc><w:tcPr><w:tcW w:w="2500" w:type="pct"/></w:tcPr>`)
	writePara(b, textValue, bold, 20, align)
	b.WriteString(`</w:tc>`)
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

