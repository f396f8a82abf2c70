package search

// NavigationIntent asks one collection's host to show a target. For albums
// Target is a page number; for decks it is a slide index.
type NavigationIntent struct {
	Kind         CollectionKind `json:"kind"`
	CollectionID uint           `json:"collection_id"`
	Target       int            `json:"target"`
}

// Result is the outcome of one filter pass.
type Result struct {
	Query         string             `json:"query"`
	Keywords      []string           `json:"keywords"`
	Reset         bool               `json:"reset"`
	VisibleAlbums map[uint]bool      `json:"visible_albums"`
	VisibleDecks  map[uint]bool      `json:"visible_decks"`
	Highlighted   []CardKey          `json:"highlighted"`
	Navigation    []NavigationIntent `json:"navigation"`
	AnyVisible    bool               `json:"any_visible"`
}

// IsHighlighted reports whether a card was flagged by this pass.
func (r Result) IsHighlighted(key CardKey) bool {
	for _, k := range r.Highlighted {
		if k == key {
			return true
		}
	}
	return false
}

// Search runs one filter pass. An empty keyword set resets: everything is
// visible and nothing is highlighted. Each collection yields at most one
// navigation intent, pointing at its first matching card; a collection
// visible only through its title does not navigate.
func Search(query string, corpus *Corpus) Result {
	keywords := Tokenize(query)
	r := Result{
		Query:         query,
		Keywords:      keywords,
		VisibleAlbums: make(map[uint]bool),
		VisibleDecks:  make(map[uint]bool),
	}

	if len(keywords) == 0 {
		r.Reset = true
		for _, a := range corpus.albums {
			r.VisibleAlbums[a.id] = true
		}
		for _, d := range corpus.decks {
			r.VisibleDecks[d.id] = true
		}
		r.AnyVisible = true
		return r
	}

	for _, a := range corpus.albums {
		r.VisibleAlbums[a.id] = r.apply(a, keywords)
	}
	for _, d := range corpus.decks {
		r.VisibleDecks[d.id] = r.apply(d, keywords)
	}

	return r
}

func (r *Result) apply(doc collectionDoc, keywords []string) bool {
	var first *CardKey
	for i := range doc.cards {
		c := &doc.cards[i]
		if !matchesLowered(c.name, keywords) {
			continue
		}
		r.Highlighted = append(r.Highlighted, c.key)
		if first == nil {
			first = &c.key
		}
	}

	visible := matchesLowered(doc.title, keywords) || first != nil
	if !visible {
		return false
	}
	r.AnyVisible = true

	if first != nil {
		target := first.Index
		if doc.kind == KindAlbum {
			target = first.Page
		}
		r.Navigation = append(r.Navigation, NavigationIntent{
			Kind:         doc.kind,
			CollectionID: doc.id,
			Target:       target,
		})
	}
	return true
}
