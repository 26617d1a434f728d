package videos

import (
	"fmt"
	"strings"

	"github.com/anagmk/Reel/internal/models"
)

// OptionTexts resolves the four option texts for an edit. Each slot takes
// the submitted value (trimmed), then the stored text, then "Option n".
//
// The edit form names slots option0..option3. A form carrying option4 and
// no option0 uses the upload form's option1..option4 names instead.
func OptionTexts(submitted map[string]string, stored []models.Option) []string {
	base := 0
	if _, ok := submitted["option4"]; ok {
		if _, zero := submitted["option0"]; !zero {
			base = 1
		}
	}
	texts := make([]string, models.OptionCount)
	for i := range texts {
		if v := strings.TrimSpace(submitted[fmt.Sprintf("option%d", i+base)]); v != "" {
			texts[i] = v
			continue
		}
		if i < len(stored) && strings.TrimSpace(stored[i].Text) != "" {
			texts[i] = stored[i].Text
			continue
		}
		texts[i] = fmt.Sprintf("Option %d", i+1)
	}
	return texts
}
