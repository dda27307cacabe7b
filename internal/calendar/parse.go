package calendar

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// decodeRawEvents parses strategy stdout into raw records.
//
// Expected input is a UTF-8 JSON array of records. Three PowerShell quirks
// are tolerated: a leading BOM, ConvertTo-Json collapsing a one-element
// array into a bare object, and `ConvertTo-Json @($null)` emitting "[null]"
// when a Restrict window matches nothing. Null elements are skipped, so an
// empty window decodes to an empty result rather than a zero-value record.
// Empty stdout is a parse failure, distinct from "[]" which is a valid
// empty result.
func decodeRawEvents(stdout string) ([]RawEvent, error) {
	payload := strings.TrimSpace(strings.TrimPrefix(stdout, "\ufeff"))
	if payload == "" {
		return nil, errors.New("empty output")
	}

	var elements []*RawEvent
	if err := json.Unmarshal([]byte(payload), &elements); err == nil {
		records := make([]RawEvent, 0, len(elements))
		for _, el := range elements {
			if el != nil {
				records = append(records, *el)
			}
		}
		return records, nil
	}

	if strings.HasPrefix(payload, "{") {
		var single RawEvent
		if err := json.Unmarshal([]byte(payload), &single); err != nil {
			return nil, fmt.Errorf("invalid JSON object: %w", err)
		}
		return []RawEvent{single}, nil
	}

	return nil, errors.New("output is not a JSON array")
}
