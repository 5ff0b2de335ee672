package locations

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// FindByName looks a location up by display name.
//
// A case-insensitive substring match is tried first. Several substring hits
// resolve to the one whose name equals the query (ignoring case), otherwise
// ErrAmbiguous. With no substring hit, names are ranked with fuzzy matching
// and a unique best rank wins.
func (s *Store) FindByName(ctx context.Context, name string) (*Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrNotFound)
	}

	hits, err := queryLocations(ctx, s.db,
		selectLocations+` WHERE lower(l.name) LIKE '%' || lower(?) || '%' ESCAPE '\' ORDER BY l.name COLLATE NOCASE`,
		likeEscaper.Replace(name))
	if err != nil {
		return nil, err
	}

	switch len(hits) {
	case 1:
		return hits[0], nil
	case 0:
		return s.fuzzyFind(ctx, name)
	}

	for _, loc := range hits {
		if strings.EqualFold(loc.Name, name) {
			return loc, nil
		}
	}
	return nil, fmt.Errorf("%w: %q matches %s", ErrAmbiguous, name, describe(hits))
}

func (s *Store) fuzzyFind(ctx context.Context, name string) (*Location, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(all))
	for i, loc := range all {
		names[i] = loc.Name
	}

	ranks := fuzzy.RankFindFold(name, names)
	if len(ranks) == 0 {
		return nil, fmt.Errorf("%w: no location named like %q", ErrNotFound, name)
	}
	sort.Sort(ranks)

	if len(ranks) > 1 && ranks[0].Distance == ranks[1].Distance {
		tied := make([]*Location, 0, len(ranks))
		for _, r := range ranks {
			if r.Distance != ranks[0].Distance {
				break
			}
			tied = append(tied, all[r.OriginalIndex])
		}
		return nil, fmt.Errorf("%w: %q matches %s", ErrAmbiguous, name, describe(tied))
	}
	return all[ranks[0].OriginalIndex], nil
}

func describe(locs []*Location) string {
	parts := make([]string, len(locs))
	for i, loc := range locs {
		parts[i] = fmt.Sprintf("%s (%s)", loc.Name, loc.ID)
	}
	return strings.Join(parts, ", ")
}
