package export

import (
	"encoding/json"
	"io"

	"catalog-kit/internal/domain"
	"catalog-kit/internal/tabular"
)

// WriteJSON writes {qualified name -> [row records]} as indented JSON.
func WriteJSON(w io.Writer, frames map[domain.TableRef]*tabular.Frame) error {
	out := make(map[string][]map[string]any, len(frames))
	for ref, f := range frames {
		out[ref.QualifiedName()] = f.Records()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
