package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cobbinma/portfolio/internal/apperror"
	"github.com/cobbinma/portfolio/internal/model"
	"github.com/cobbinma/portfolio/internal/raw"
	"github.com/cobbinma/portfolio/internal/repository"
)

// compile-time check that *StoreFetcher implements Fetcher
var _ Fetcher = (*StoreFetcher)(nil)

// StoreFetcher serves entries from a repository.EntryRepository, resolving
// links with further repository reads.
type StoreFetcher struct {
	repo   repository.EntryRepository
	logger *slog.Logger
}

// NewStoreFetcher wraps repo.
func NewStoreFetcher(repo repository.EntryRepository, logger *slog.Logger) *StoreFetcher {
	return &StoreFetcher{repo: repo, logger: logger}
}

// FetchEntry loads the entry and inlines its links up to opts.Depth().
func (s *StoreFetcher) FetchEntry(ctx context.Context, id string, opts Options) (raw.Value, error) {
	root, err := s.load(ctx, model.KindEntry, id)
	if err != nil {
		return raw.Absent(), err
	}
	if !root.Present() {
		s.logger.Debug("entry not in store", "id", id)
		return root, nil
	}

	// A page links the same technology from many projects; read each record once.
	seen := make(map[string]raw.Value)
	lookup := func(ctx context.Context, linkType, id string) (raw.Value, error) {
		key := linkType + "/" + id
		if v, ok := seen[key]; ok {
			return v, nil
		}
		v, err := s.load(ctx, linkType, id)
		if err != nil {
			return raw.Absent(), err
		}
		seen[key] = v
		return v, nil
	}

	return Resolve(ctx, root, opts.Depth(), lookup)
}

func (s *StoreFetcher) load(ctx context.Context, kind, id string) (raw.Value, error) {
	entry, err := s.repo.Get(ctx, kind, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return raw.Absent(), nil
		}
		return raw.Absent(), fmt.Errorf("content: loading %s %s: %w", kind, id, err)
	}

	v, err := raw.Parse(entry.Payload)
	if err != nil {
		return raw.Absent(), fmt.Errorf("content: decoding %s %s: %w", kind, id, err)
	}
	return v, nil
}
