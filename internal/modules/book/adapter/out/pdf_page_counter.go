package out

import (
	"context"
	"fmt"

	"rsc.io/pdf"

	bookout "readlog/internal/modules/book/port/out"
	apperrors "readlog/internal/platform/errors"
)

type PDFPageCounter struct{}

func NewPDFPageCounter() bookout.PageCounter {
	return PDFPageCounter{}
}

func (PDFPageCounter) CountPages(_ context.Context, path string) (int, error) {
	doc, err := pdf.Open(path)
	if err != nil {
		return 0, &apperrors.Error{
			Kind:    apperrors.ErrInvalidInput,
			Code:    apperrors.CodeInvalidBook,
			Field:   "file",
			Message: fmt.Sprintf("cannot read page count from %s", path),
			Err:     err,
		}
	}
	return doc.NumPage(), nil
}
