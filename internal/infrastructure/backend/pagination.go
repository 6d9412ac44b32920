package backend

import (
	"encoding/json"
	"fmt"

	"github.com/netondemand/portal/internal/core/domain"
)

// springPage is the page shape of the backend's Spring Data endpoints.
type springPage[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Size          int   `json:"size"`
	Number        int   `json:"number"` // 0-based
}

// NormalizePage decodes either a Spring page or an already normalized
// {data, pagination} page into a domain.Page with a 1-based page number.
func NormalizePage[T any](raw json.RawMessage) (*domain.Page[T], error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode page: %w", err)
	}

	_, hasContent := fields["content"]
	_, hasTotal := fields["totalElements"]
	if hasContent && hasTotal {
		var sp springPage[T]
		if err := json.Unmarshal(raw, &sp); err != nil {
			return nil, fmt.Errorf("decode spring page: %w", err)
		}
		data := sp.Content
		if data == nil {
			data = []T{}
		}
		return &domain.Page[T]{
			Data: data,
			Pagination: domain.Pagination{
				Page:       sp.Number + 1,
				Limit:      sp.Size,
				Total:      sp.TotalElements,
				TotalPages: sp.TotalPages,
			},
		}, nil
	}

	var page domain.Page[T]
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, fmt.Errorf("decode page: %w", err)
	}
	if page.Data == nil {
		page.Data = []T{}
	}
	return &page, nil
}

func decodePage[T any](raw json.RawMessage, err error) (*domain.Page[T], error) {
	if err != nil {
		return nil, err
	}
	return NormalizePage[T](raw)
}
