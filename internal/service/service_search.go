package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/o-dots/backend/internal/store"
	"github.com/o-dots/backend/models"
)

// searchService implements SearchService over the cross-table keyword
// search repository.
type searchService struct {
	searchRepository store.SearchRepository
}

// NewSearchService constructs a SearchService over the given repository.
func NewSearchService(searchRepository store.SearchRepository) SearchService {
	return &searchService{searchRepository: searchRepository}
}

// Search runs a case-insensitive substring search across content titles
// and bodies. An empty keyword is rejected rather than matching everything.
func (s *searchService) Search(ctx context.Context, keyword string, limit int) ([]models.SearchResult, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, ErrInvalidDataProvided
	}

	results, err := s.searchRepository.Search(ctx, keyword, limit)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	return results, nil
}
