package dataset

import (
	"errors"
	"fmt"
	"os"

	"github.com/rebeliceyang/lazysheet/internal/util"
)

// LoadFailed converts a loader error into the structured error shown
// full-screen when the dataset cannot be loaded.
func LoadFailed(source string, err error) *util.Error {
	if se, ok := util.AsError(err); ok {
		return se
	}

	e := util.NewError("Cannot load dataset").
		WithContext(fmt.Sprintf("Loading %s", source)).
		Wrap(err)

	switch {
	case errors.Is(err, os.ErrNotExist):
		e.WithMessage("The data file does not exist").
			WithCauses("The path is wrong or the file was moved").
			WithSuggestions(
				"lazysheet --file path/to/data.xlsx",
				"lazysheet --file path/to/data.csv",
			)
	case errors.Is(err, os.ErrPermission):
		e.WithMessage("The data file is not readable").
			WithCauses("The file permissions do not allow reading it")
	case errors.Is(err, ErrEmptyDataset), errors.Is(err, ErrNoColumns):
		e.WithMessage("The data source contains no data").
			WithCauses("The sheet is empty", "Only a header row is present").
			WithSuggestions("lazysheet --file data.xlsx --sheet <name>")
	case errors.Is(err, ErrDuplicateColumn):
		e.WithMessage("Two columns share the same header").
			WithCauses("The header row repeats a column name")
	case errors.Is(err, ErrRowWidth):
		e.WithMessage("A row has a different number of cells than the header").
			WithCauses("The CSV file is malformed", "The delimiter is not a comma")
	case errors.Is(err, ErrSheetNotFound):
		e.WithMessage("The requested sheet does not exist").
			WithSuggestions("lazysheet --sheet <name>")
	default:
		e.WithMessage("The data source could not be read").
			WithCauses("The file is corrupted or not in the expected format")
	}

	return e
}
