package output

import (
	"encoding/json"
	"fmt"
	"io"

	"tick/internal/apperr"
)

// RenderJSON writes r as indented JSON followed by a newline. If r cannot be
// encoded, a failure envelope is written instead and the encoding error is returned.
func RenderJSON(w io.Writer, r Result) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err == nil {
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	}

	encErr := apperr.Wrap(apperr.ServerError, err, "failed to encode result")
	data, ferr := json.MarshalIndent(FromError(encErr), "", "  ")
	if ferr == nil {
		fmt.Fprintf(w, "%s\n", data)
	}
	return encErr
}
