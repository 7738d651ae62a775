package reportpdf

import (
	"fmt"
	"time"

	"github.com/alnah/go-reportpdf/internal/dateutil"
)

// ResolveDate expands date values for covers and footers:
//   - "auto" gives t as YYYY-MM-DD;
//   - "auto:FORMAT" uses tokens YYYY, YY, MMMM, MMM, MM, M, DD, D and
//     [literal] text, e.g. "auto:DD [de] MMMM [de] YYYY";
//   - "auto:PRESET" uses a preset: iso, european, us, long, es-long, stamp.
//
// Month names follow locale, a BCP 47 tag; empty means Spanish. Any other
// value is returned unchanged.
func ResolveDate(value string, t time.Time, locale string) (string, error) {
	loc, err := dateutil.ResolveLocale(locale)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidDate, err)
	}
	s, err := dateutil.ResolveDate(value, t, loc)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidDate, err)
	}
	return s, nil
}
