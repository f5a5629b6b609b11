package content

import (
	"context"

	"github.com/cobbinma/portfolio/internal/model"
	"github.com/cobbinma/portfolio/internal/raw"
)

// Lookup returns the record a link points at. linkType is "Entry" or
// "Asset". A record that cannot be found is reported as raw.Absent() with a
// nil error.
type Lookup func(ctx context.Context, linkType, id string) (raw.Value, error)

// Resolve returns a copy of root in which link objects
//
//	{"sys": {"type": "Link", "linkType": "Entry", "id": "..."}}
//
// are replaced by their targets, following links up to depth levels deep.
// Links that lookup cannot find, or that lie deeper than depth, are left in
// place; the normalizer reads them as records without fields. Only Entry and
// Asset links are followed; sys.contentType links are metadata.
//
// root is never modified. Targets are copied as they are inlined, so the same
// included asset can appear in several places without sharing nodes.
func Resolve(ctx context.Context, root raw.Value, depth int, lookup Lookup) (raw.Value, error) {
	if !root.Present() {
		return root, nil
	}
	r := resolver{lookup: lookup}
	node, err := r.walk(ctx, root.Interface(), depth)
	if err != nil {
		return raw.Absent(), err
	}
	return raw.Of(node), nil
}

type resolver struct {
	lookup Lookup
}

func (r resolver) walk(ctx context.Context, node any, depth int) (any, error) {
	switch n := node.(type) {
	case map[string]any:
		if linkType, id, ok := raw.Of(n).LinkTarget(); ok && depth > 0 && resolvable(linkType) {
			return r.follow(ctx, n, linkType, id, depth)
		}
		out := make(map[string]any, len(n))
		for k, v := range n {
			resolved, err := r.walk(ctx, v, depth)
			if err != nil {
				return nil, err
			}
			out[k] = resolved
		}
		return out, nil

	case []any:
		out := make([]any, len(n))
		for i, v := range n {
			resolved, err := r.walk(ctx, v, depth)
			if err != nil {
				return nil, err
			}
			out[i] = resolved
		}
		return out, nil

	default:
		return node, nil
	}
}

func (r resolver) follow(ctx context.Context, link map[string]any, linkType, id string, depth int) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	target, err := r.lookup(ctx, linkType, id)
	if err != nil {
		return nil, err
	}
	if !target.Present() {
		return r.walk(ctx, link, 0)
	}
	return r.walk(ctx, target.Interface(), depth-1)
}

func resolvable(linkType string) bool {
	return linkType == model.KindEntry || linkType == model.KindAsset
}
