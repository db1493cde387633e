package extract

import "github.com/lyft/sysexconv/table"

type IFace interface {
	// Scan source text and collect every delay entry in the order it appears.
	// @param source supplies the full text of the source listing.
	// @return the extracted table, or an error matching ErrMalformedEntry (or ErrEmptyTable when
	//         empty results are rejected). No partial table is returned with an error.
	Extract(source string) (*table.Table, error)
}
