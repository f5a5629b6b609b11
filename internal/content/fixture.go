package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/xid"
	"gopkg.in/yaml.v3"

	"github.com/cobbinma/portfolio/internal/apperror"
	"github.com/cobbinma/portfolio/internal/model"
	"github.com/cobbinma/portfolio/internal/repository"
)

// Fixture is a set of content records written by hand in YAML, in the same
// shape the Contentful delivery API uses:
//
//	entries:
//	  - id: 12oQYUyzJOGG8He6aPUMJN
//	    contentType: homePage
//	    fields:
//	      firstName: Matt
//	      avatar: {sys: {type: Link, linkType: Asset, id: avatar}}
//	assets:
//	  - id: avatar
//	    fields:
//	      file: {url: //images.ctfassets.net/avatar.png}
type Fixture struct {
	Entries []Record `yaml:"entries"`
	Assets  []Record `yaml:"assets"`
}

// Record is one entry or asset in a Fixture.
type Record struct {
	ID          string         `yaml:"id"`
	ContentType string         `yaml:"contentType"`
	Fields      map[string]any `yaml:"fields"`
}

// LoadFixture decodes a YAML fixture. Unknown top-level or record keys are
// rejected so a typo does not silently drop content.
func LoadFixture(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f Fixture
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("content: decoding fixture: %w", err)
	}
	return &f, nil
}

// LoadFixtureFile reads and decodes the fixture at path.
func LoadFixtureFile(path string) (*Fixture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("content: opening fixture: %w", err)
	}
	defer file.Close()

	return LoadFixture(file)
}

// Records converts the fixture to stored entries. Records without an id get
// a generated xid, which is also written into the payload's sys.id.
func (f *Fixture) Records() ([]model.Entry, error) {
	out := make([]model.Entry, 0, len(f.Entries)+len(f.Assets))
	for _, group := range []struct {
		kind    string
		records []Record
	}{
		{model.KindEntry, f.Entries},
		{model.KindAsset, f.Assets},
	} {
		for _, rec := range group.records {
			e, err := rec.entry(group.kind)
			if err != nil {
				return nil, err
			}
			out = append(out, e)
		}
	}
	return out, nil
}

func (r Record) entry(kind string) (model.Entry, error) {
	id := r.ID
	if id == "" {
		id = xid.New().String()
	}

	sys := map[string]any{"id": id, "type": kind}
	if r.ContentType != "" {
		sys["contentType"] = map[string]any{
			"sys": map[string]any{"type": "Link", "linkType": "ContentType", "id": r.ContentType},
		}
	}
	fields := r.Fields
	if fields == nil {
		fields = map[string]any{}
	}

	payload, err := json.Marshal(map[string]any{"sys": sys, "fields": fields})
	if err != nil {
		return model.Entry{}, fmt.Errorf("content: encoding %s %s: %w", kind, id, err)
	}

	return model.Entry{
		ID:          id,
		Kind:        kind,
		ContentType: r.ContentType,
		Payload:     payload,
	}, nil
}

// pruneBatch is the page size used to walk the store when pruning. It is
// the largest limit the repository accepts.
const pruneBatch = 100

// SeedOptions controls Seed.
type SeedOptions struct {
	// Prune deletes stored records the fixture does not contain, so the store
	// ends up holding exactly the fixture.
	Prune bool
}

// SeedResult counts what Seed changed.
type SeedResult struct {
	Stored int
	Pruned int
}

// Seed writes every record of f into repo and, with opts.Prune, removes the
// records f no longer contains.
func Seed(ctx context.Context, repo repository.EntryRepository, f *Fixture, opts SeedOptions) (SeedResult, error) {
	var res SeedResult

	records, err := f.Records()
	if err != nil {
		return res, err
	}

	for i := range records {
		if err := repo.Put(ctx, &records[i]); err != nil {
			return res, fmt.Errorf("content: seeding %s %s: %w", records[i].Kind, records[i].ID, err)
		}
		res.Stored++
	}

	if opts.Prune {
		res.Pruned, err = prune(ctx, repo, records)
		if err != nil {
			return res, err
		}
	}
	return res, nil
}

// prune deletes every stored record that is not in keep. Stale records are
// collected before any is deleted so the offsets stay valid while listing.
func prune(ctx context.Context, repo repository.EntryRepository, keep []model.Entry) (int, error) {
	wanted := make(map[string]struct{}, len(keep))
	for _, e := range keep {
		wanted[e.Kind+"/"+e.ID] = struct{}{}
	}

	var stale []model.Entry
	for offset := 0; ; offset += pruneBatch {
		batch, err := repo.List(ctx, repository.ListOptions{Limit: pruneBatch, Offset: offset})
		if err != nil {
			return 0, fmt.Errorf("content: listing stored records: %w", err)
		}
		for _, e := range batch {
			if _, ok := wanted[e.Kind+"/"+e.ID]; !ok {
				stale = append(stale, e)
			}
		}
		if len(batch) < pruneBatch {
			break
		}
	}

	pruned := 0
	for _, e := range stale {
		err := repo.Delete(ctx, e.Kind, e.ID)
		if err != nil && !errors.Is(err, apperror.ErrNotFound) {
			return pruned, fmt.Errorf("content: pruning %s %s: %w", e.Kind, e.ID, err)
		}
		if err == nil {
			pruned++
		}
	}
	return pruned, nil
}
