package schema

import (
	"fmt"
	"sort"
)

// Strata partitions tables into dependency tiers computed from their
// declared foreign keys: a table's stratum is zero when it references
// nothing, otherwise one more than the deepest table it references.
// Creating tables stratum by stratum therefore always defines a parent
// before any child that references it. Within a stratum, tables are
// sorted by name so the creation order is deterministic.
func Strata(tables []*Table) ([][]*Table, error) {
	byName := make(map[string]*Table, len(tables))
	for _, t := range tables {
		if _, dup := byName[t.Name()]; dup {
			return nil, fmt.Errorf("duplicate table definition %q", t.Name())
		}
		byName[t.Name()] = t
	}

	depth := make(map[string]int, len(tables))
	var resolve func(t *Table, trail map[string]bool) (int, error)
	resolve = func(t *Table, trail map[string]bool) (int, error) {
		if d, ok := depth[t.Name()]; ok {
			return d, nil
		}
		if trail[t.Name()] {
			return 0, fmt.Errorf("cyclic foreign-key dependency through table %q", t.Name())
		}
		trail[t.Name()] = true
		defer delete(trail, t.Name())

		d := 0
		for _, fk := range t.ForeignKeys() {
			ref, ok := byName[fk.RefTable]
			if !ok {
				return 0, fmt.Errorf("table %q references undeclared table %q", t.Name(), fk.RefTable)
			}
			refDepth, err := resolve(ref, trail)
			if err != nil {
				return 0, err
			}
			if refDepth+1 > d {
				d = refDepth + 1
			}
		}
		depth[t.Name()] = d
		return d, nil
	}

	maxDepth := 0
	for _, t := range tables {
		d, err := resolve(t, map[string]bool{})
		if err != nil {
			return nil, err
		}
		if d > maxDepth {
			maxDepth = d
		}
	}

	strata := make([][]*Table, maxDepth+1)
	for _, t := range tables {
		d := depth[t.Name()]
		strata[d] = append(strata[d], t)
	}
	for _, stratum := range strata {
		sort.Slice(stratum, func(i, j int) bool { return stratum[i].Name() < stratum[j].Name() })
	}
	return strata, nil
}
