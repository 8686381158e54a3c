package matcher

// Relation is the outcome of one source element.
type Relation[E comparable, D any] struct {
	Element E
	// Data is the associated datum of a OneToOne match.
	Data D
	// List holds the associated data of OneToMany and ManyToMany matches.
	// Nil means no data was found.
	List []D
	// Matched reports whether the element counts as matched.
	Matched bool
}

// Result is the outcome of a successful match, in source order.
// It is immutable.
type Result[E comparable, D any] struct {
	cardinality Cardinality
	relations   []Relation[E, D]
	matched     int
}

func newResult[E comparable, D any](c Cardinality, emptyAsUnmatched bool, relations []Relation[E, D]) *Result[E, D] {
	res := &Result[E, D]{cardinality: c, relations: relations}
	for i := range relations {
		r := &relations[i]
		if c != OneToOne {
			r.Matched = r.List != nil && (len(r.List) > 0 || !emptyAsUnmatched)
		}
		if r.Matched {
			res.matched++
		}
	}
	return res
}

// Cardinality returns the cardinality the result was produced with.
func (r *Result[E, D]) Cardinality() Cardinality {
	return r.cardinality
}

// Len returns the number of source elements.
func (r *Result[E, D]) Len() int {
	return len(r.relations)
}

// MatchedCount returns the number of matched elements.
func (r *Result[E, D]) MatchedCount() int {
	return r.matched
}

// Relations returns a copy of every relation in source order.
func (r *Result[E, D]) Relations() []Relation[E, D] {
	out := make([]Relation[E, D], len(r.relations))
	copy(out, r.relations)
	return out
}

func (r *Result[E, D]) require(op string, c Cardinality) error {
	if r.cardinality != c {
		return &UsageError{Op: op, Reason: "result was produced by a " + r.cardinality.String() + " match"}
	}
	return nil
}

// OneToOneRelations maps every element to its datum. Unmatched elements map
// to the zero datum and are left out unless includeUnmatched is set.
func (r *Result[E, D]) OneToOneRelations(includeUnmatched bool) (map[E]D, error) {
	if err := r.require("OneToOneRelations", OneToOne); err != nil {
		return nil, err
	}
	out := make(map[E]D, len(r.relations))
	for _, rel := range r.relations {
		if rel.Matched || includeUnmatched {
			out[rel.Element] = rel.Data
		}
	}
	return out, nil
}

// OneToManyRelations maps every element to its data list. Unmatched elements
// are left out unless includeUnmatched is set.
func (r *Result[E, D]) OneToManyRelations(includeUnmatched bool) (map[E][]D, error) {
	if err := r.require("OneToManyRelations", OneToMany); err != nil {
		return nil, err
	}
	return r.lists(includeUnmatched), nil
}

// ManyToManyRelations maps every element to the concatenated data of its keys.
func (r *Result[E, D]) ManyToManyRelations(includeUnmatched bool) (map[E][]D, error) {
	if err := r.require("ManyToManyRelations", ManyToMany); err != nil {
		return nil, err
	}
	return r.lists(includeUnmatched), nil
}

func (r *Result[E, D]) lists(includeUnmatched bool) map[E][]D {
	out := make(map[E][]D, len(r.relations))
	for _, rel := range r.relations {
		if rel.Matched || includeUnmatched {
			out[rel.Element] = rel.List
		}
	}
	return out
}

// OneToOne is OneToOneRelations(false).
func (r *Result[E, D]) OneToOne() (map[E]D, error) {
	return r.OneToOneRelations(false)
}

// OneToMany is OneToManyRelations(false).
func (r *Result[E, D]) OneToMany() (map[E][]D, error) {
	return r.OneToManyRelations(false)
}

// ManyToMany is ManyToManyRelations(false).
func (r *Result[E, D]) ManyToMany() (map[E][]D, error) {
	return r.ManyToManyRelations(false)
}

// ProcessOneToOne calls matched for every matched element and unmatched, when
// not nil, for the others, in source order.
func (r *Result[E, D]) ProcessOneToOne(matched func(E, D), unmatched func(E)) error {
	if err := r.require("ProcessOneToOne", OneToOne); err != nil {
		return err
	}
	for _, rel := range r.relations {
		switch {
		case rel.Matched:
			matched(rel.Element, rel.Data)
		case unmatched != nil:
			unmatched(rel.Element)
		}
	}
	return nil
}

// ProcessOneToMany calls matched for every matched element and unmatched, when
// not nil, for the others, in source order.
func (r *Result[E, D]) ProcessOneToMany(matched func(E, []D), unmatched func(E)) error {
	if err := r.require("ProcessOneToMany", OneToMany); err != nil {
		return err
	}
	r.processLists(matched, unmatched)
	return nil
}

// ProcessManyToMany calls matched for every matched element and unmatched, when
// not nil, for the others, in source order.
func (r *Result[E, D]) ProcessManyToMany(matched func(E, []D), unmatched func(E)) error {
	if err := r.require("ProcessManyToMany", ManyToMany); err != nil {
		return err
	}
	r.processLists(matched, unmatched)
	return nil
}

func (r *Result[E, D]) processLists(matched func(E, []D), unmatched func(E)) {
	for _, rel := range r.relations {
		switch {
		case rel.Matched:
			matched(rel.Element, rel.List)
		case unmatched != nil:
			unmatched(rel.Element)
		}
	}
}
