// internal/app/features/finances/types.go
package finances

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// decimal accepts an amount written either as a JSON number (12.5) or a
// string ("12.50", "12,50").
type decimal string

func (d *decimal) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = decimal(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("amount must be a number or a decimal string")
	}
	*d = decimal(n.String())
	return nil
}

type entryInput struct {
	Kind        string  `json:"kind"`
	Amount      decimal `json:"amount"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	OtherDetail string  `json:"other_detail"`
	Date        string  `json:"date"`
}

type toggleInput struct {
	MemberID string `json:"member_id"`
	Month    *int   `json:"month"`
	Year     int    `json:"year"`
}

type rateInput struct {
	Rate decimal `json:"rate"`
}

type rateResponse struct {
	Rate    int64  `json:"rate"`    // cents
	Display string `json:"display"` // "15.00"
}
