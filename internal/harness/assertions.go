package harness

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/roach88/addrhist/internal/history"
)

// compareRecords checks the final listing against the expected records
// and returns one message per mismatch.
func compareRecords(expected []ExpectedRecord, actual []history.AddressRecord, unordered bool) []string {
	var errs []string

	if len(expected) != len(actual) {
		errs = append(errs, fmt.Sprintf("record count: expected %d, got %d (%v)",
			len(expected), len(actual), addressesOf(actual)))
		return errs
	}

	if unordered {
		expected = append([]ExpectedRecord(nil), expected...)
		actual = append([]history.AddressRecord(nil), actual...)
		sort.Slice(expected, func(i, j int) bool { return expected[i].Address < expected[j].Address })
		sort.Slice(actual, func(i, j int) bool { return actual[i].Address < actual[j].Address })
	}

	for i := range expected {
		errs = append(errs, compareRecord(i, expected[i], actual[i])...)
	}
	return errs
}

func compareRecord(i int, exp ExpectedRecord, got history.AddressRecord) []string {
	var errs []string
	fail := func(field string, want, have interface{}) {
		errs = append(errs, fmt.Sprintf("record %d (%s): %s: expected %v, got %v",
			i, got.Address, field, want, have))
	}

	if exp.Address != got.Address {
		fail("address", exp.Address, got.Address)
		return errs
	}

	if exp.Balance != nil {
		want, err := toBalance(exp.Balance)
		if err != nil {
			errs = append(errs, fmt.Sprintf("record %d: %v", i, err))
		} else if want.String() != got.Balance.String() || want.IsNumber() != got.Balance.IsNumber() {
			fail("balance", describeBalance(want), describeBalance(got.Balance))
		}
	}

	if got.FormattedBalance != got.Balance.Formatted() {
		fail("formattedBalance consistency", got.Balance.Formatted(), got.FormattedBalance)
	}
	if exp.FormattedBalance != "" && exp.FormattedBalance != got.FormattedBalance {
		fail("formattedBalance", exp.FormattedBalance, got.FormattedBalance)
	}

	if exp.Timestamp != nil && *exp.Timestamp != got.Timestamp {
		fail("timestamp", *exp.Timestamp, got.Timestamp)
	}

	if exp.NoSourceInfo && got.SourceInfo != nil {
		fail("sourceInfo", "none", canonical(got.SourceInfo))
	}
	if exp.SourceInfo != nil {
		want, have := canonical(exp.SourceInfo), canonical(got.SourceInfo)
		if want != have {
			fail("sourceInfo", want, have)
		}
	}

	return errs
}

// canonical renders a value as JSON with sorted keys for comparison.
// YAML integers and stored json.Number values render identically.
func canonical(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("<unencodable: %v>", err)
	}
	return string(data)
}

func describeBalance(b history.Balance) string {
	if b.IsNumber() {
		return b.String() + " (number)"
	}
	return fmt.Sprintf("%q (string)", b.String())
}

func addressesOf(records []history.AddressRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Address
	}
	return out
}
