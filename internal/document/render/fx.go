package render

import (
	"go.uber.org/fx"

	"github.com/ridewell/motorbill/internal/config"
	"github.com/ridewell/motorbill/internal/document"
	"github.com/ridewell/motorbill/internal/document/docx"
	"github.com/ridewell/motorbill/internal/document/pdf"
)

var Module = fx.Module("document.render",
	fx.Provide(func(cfg config.Config) *document.Builder {
		return document.NewBuilder(document.Issuer{
			Name:    cfg.IssuerName,
			Address: cfg.IssuerAddress,
			Phone:   cfg.IssuerPhone,
		})
	}),
	fx.Provide(func(p Params) *Renderer {
		return New(p, map[document.Format]Encoder{
			document.FormatPDF:  pdf.NewEncoder(),
			document.FormatDOCX: docx.NewEncoder(),
		})
	}),
)
