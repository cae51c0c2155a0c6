// Package intent turns a spoken or typed payment command into a structured intent.
package intent

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type Kind string

const (
	MakePayment  Kind = "make_payment"
	CheckBalance Kind = "check_balance"
	CheckHistory Kind = "check_history"
)

func (k Kind) Valid() bool {
	switch k {
	case MakePayment, CheckBalance, CheckHistory:
		return true
	}
	return false
}

// Amount is a payment amount where zero means "not given".
// It is written as a JSON number when set and as "" otherwise.
type Amount float64

func (a Amount) IsSet() bool {
	return a != 0
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.IsSet() {
		return []byte(`""`), nil
	}
	return []byte(strconv.FormatFloat(float64(a), 'f', -1, 64)), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*a = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid amount %q", s)
		}
		*a = Amount(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	*a = Amount(v)
	return nil
}

type Parameters struct {
	Name   string `json:"name"`
	Amount Amount `json:"amount"`
}

type TranscriptIntent struct {
	Intent               Kind       `json:"intent"`
	Parameters           Parameters `json:"parameters"`
	ClarificationMessage string     `json:"clarification_message"`
}

// Validate reports whether a result received from outside the process honours the output contract.
func (t TranscriptIntent) Validate() error {
	if !t.Intent.Valid() {
		return fmt.Errorf("unknown intent %q", t.Intent)
	}
	if t.Parameters.Amount < 0 {
		return fmt.Errorf("negative amount %v", float64(t.Parameters.Amount))
	}
	return nil
}
