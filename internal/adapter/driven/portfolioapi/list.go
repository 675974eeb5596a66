package portfolioapi

import (
	"encoding/json"
	"fmt"
)

// listOf decodes a DRF list endpoint that may or may not be paginated.
type listOf[T any] []T

// UnmarshalJSON implements json.Unmarshaler.
func (l *listOf[T]) UnmarshalJSON(data []byte) error {
	var plain []T
	if err := json.Unmarshal(data, &plain); err == nil {
		*l = plain
		return nil
	}

	var page struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(data, &page); err != nil {
		return fmt.Errorf("decode list: %w", err)
	}
	*l = page.Results
	return nil
}

// items returns the decoded elements, never nil.
func (l listOf[T]) items() []T {
	if l == nil {
		return []T{}
	}
	return []T(l)
}
