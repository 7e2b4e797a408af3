package history

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// BalanceUnit is appended to every formatted balance.
const BalanceUnit = "DOGE"

// AddressRecord is one row of search history.
type AddressRecord struct {
	Address          string     `json:"address"`
	Balance          Balance    `json:"balance"`
	Timestamp        int64      `json:"timestamp"` // epoch milliseconds
	FormattedBalance string     `json:"formattedBalance"`
	SourceInfo       SourceInfo `json:"sourceInfo"`
}

// SourceInfo describes where an address came from when it was translated
// from another chain. Its contents are opaque to the store. A nil SourceInfo
// means "none supplied"; an empty non-nil map is a real value.
//
// Values are stored as JSON and read back in decoded form: numbers are
// json.Number, arrays are []any and objects are map[string]any, whatever Go
// types were saved.
type SourceInfo map[string]any

// Balance is a last-known balance as either a number or a string. It keeps
// the text that is shown to the user and whether it was numeric, so JSON
// output reproduces the original kind.
type Balance struct {
	text    string
	numeric bool
	value   float64
}

// NumberBalance returns a numeric balance rendered in shortest form
// (12.50 becomes "12.5"). Magnitudes of 1e21 and above or below 1e-6 use
// exponent notation, as in "1e+21" and "1.5e-7".
func NumberBalance(v float64) Balance {
	return Balance{
		text:    formatNumber(v),
		numeric: true,
		value:   v,
	}
}

func formatNumber(v float64) string {
	switch {
	case v == 0:
		// Covers negative zero.
		return "0"
	case math.IsNaN(v) || math.IsInf(v, 0):
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	if abs := math.Abs(v); abs < 1e21 && abs >= 1e-6 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	// strconv pads the exponent to two digits ("1e-07").
	mantissa, exp, _ := strings.Cut(strconv.FormatFloat(v, 'e', -1, 64), "e")
	return mantissa + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0")
}

// StringBalance returns a balance stored exactly as given.
func StringBalance(s string) Balance {
	return Balance{text: s}
}

// ParseBalance returns a numeric balance if s is a finite number and a
// string balance otherwise.
func ParseBalance(s string) Balance {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return StringBalance(s)
	}
	return NumberBalance(v)
}

// String returns the display text of the balance.
func (b Balance) String() string {
	return b.text
}

// IsNumber reports whether the balance was supplied as a number.
func (b Balance) IsNumber() bool {
	return b.numeric
}

// Float64 returns the numeric value. ok is false for string balances.
func (b Balance) Float64() (v float64, ok bool) {
	return b.value, b.numeric
}

// Formatted returns "<balance> DOGE".
func (b Balance) Formatted() string {
	return b.text + " " + BalanceUnit
}

func (b Balance) finite() bool {
	return !b.numeric || !(math.IsNaN(b.value) || math.IsInf(b.value, 0))
}

// MarshalJSON encodes numeric balances as JSON numbers and the rest as strings.
func (b Balance) MarshalJSON() ([]byte, error) {
	if !b.numeric {
		return json.Marshal(b.text)
	}
	if !b.finite() {
		return nil, fmt.Errorf("marshal balance: %s is not a finite number", b.text)
	}
	return []byte(b.text), nil
}

// UnmarshalJSON accepts a JSON number or string.
func (b *Balance) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("unmarshal balance: %w", err)
		}
		*b = StringBalance(s)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal balance: %w", err)
	}
	*b = NumberBalance(v)
	return nil
}

// newRecord builds the full row for a save, deriving FormattedBalance.
func newRecord(address string, balance Balance, timestamp int64, info SourceInfo) AddressRecord {
	return AddressRecord{
		Address:          address,
		Balance:          balance,
		Timestamp:        timestamp,
		FormattedBalance: balance.Formatted(),
		SourceInfo:       info,
	}
}

// mergeSourceInfo applies sticky provenance: a nil incoming value keeps
// whatever the existing record carries.
func mergeSourceInfo(existing *AddressRecord, incoming SourceInfo) SourceInfo {
	if incoming == nil && existing != nil && existing.SourceInfo != nil {
		return existing.SourceInfo
	}
	return incoming
}
