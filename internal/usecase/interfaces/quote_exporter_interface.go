package interfaces

import (
	"io"

	"weld_quote/internal/domain/entities"
)

// IQuoteExporter renders quotes into an operator-facing document.
type IQuoteExporter interface {
	Export(w io.Writer, quotes []entities.Quote) error
	ContentType() string
	FileExtension() string
}
