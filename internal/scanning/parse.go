package scanning

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// dateFormats are the non-ISO layouts extractors are known to emit.
var dateFormats = []string{
	"2006/01/02",
	"01/02/2006",
	"02-01-2006",
}

// parseReceiptJSON parses the extraction service's text response.
// The response is not trusted to be strictly well-formed: markdown code
// fences and surrounding prose are tolerated, but a body that is not JSON
// or is missing any required field fails with ErrParseFailure.
func parseReceiptJSON(text string) (*ReceiptData, error) {
	text = strings.TrimSpace(text)

	// Remove markdown code blocks if present
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	// Find the JSON object boundaries - look for first { and last }
	startIdx := strings.Index(text, "{")
	if startIdx == -1 {
		return nil, fmt.Errorf("%w: no JSON object found in response", ErrParseFailure)
	}
	endIdx := strings.LastIndex(text, "}")
	if endIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("%w: invalid JSON object in response", ErrParseFailure)
	}
	text = text[startIdx : endIdx+1]

	// Check key presence before binding so a missing field is reported as
	// such rather than silently zeroed.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("%w: unmarshaling json: %v", ErrParseFailure, err)
	}
	for _, key := range []string{"merchantName", "date", "totalAmount", "category"} {
		if _, ok := raw[key]; !ok {
			return nil, fmt.Errorf("%w: missing required field %q", ErrParseFailure, key)
		}
	}

	var data ReceiptData
	if err := json.Unmarshal([]byte(text), &data); err != nil {
		return nil, fmt.Errorf("%w: unmarshaling json: %v", ErrParseFailure, err)
	}

	data.MerchantName = strings.TrimSpace(data.MerchantName)
	if data.MerchantName == "" {
		return nil, fmt.Errorf("%w: empty merchant name", ErrParseFailure)
	}
	data.Category = strings.TrimSpace(data.Category)
	if data.Category == "" {
		return nil, fmt.Errorf("%w: empty category", ErrParseFailure)
	}
	if data.TotalAmount < 0 {
		return nil, fmt.Errorf("%w: negative total amount %v", ErrParseFailure, data.TotalAmount)
	}

	data.Date = strings.TrimSpace(data.Date)
	if data.Date == "" {
		return nil, fmt.Errorf("%w: empty date", ErrParseFailure)
	}
	data.Date = normalizeDate(data.Date)

	return &data, nil
}

// normalizeDate converts common extractor date layouts to YYYY-MM-DD.
// A value that matches no known layout is returned verbatim; the analytics
// layer skips unparsable dates rather than failing.
func normalizeDate(date string) string {
	if d, err := time.Parse("2006-01-02", date); err == nil {
		return d.Format("2006-01-02")
	}
	for _, format := range dateFormats {
		if d, err := time.Parse(format, date); err == nil {
			return d.Format("2006-01-02")
		}
	}
	return date
}
