package index

// postings maps a term to the files containing it, remembering the order in
// which terms were first added. Snapshot export and search iteration both rely
// on that order.
type postings struct {
	terms []string
	files map[string][]string
}

func newPostings() *postings {
	return &postings{files: make(map[string][]string)}
}

// add appends path to term's list, keeping duplicates.
func (p *postings) add(term string, path string) {
	if _, exists := p.files[term]; !exists {
		p.terms = append(p.terms, term)
	}
	p.files[term] = append(p.files[term], path)
}

// addUnique appends path unless it is already the most recent entry for term.
// Files are added one at a time, so this deduplicates per file.
func (p *postings) addUnique(term string, path string) {
	if list := p.files[term]; len(list) > 0 && list[len(list)-1] == path {
		return
	}
	p.add(term, path)
}

// set replaces term's list.
func (p *postings) set(term string, paths []string) {
	if _, exists := p.files[term]; !exists {
		p.terms = append(p.terms, term)
	}
	p.files[term] = paths
}

func (p *postings) has(term string) bool {
	_, ok := p.files[term]
	return ok
}

func (p *postings) get(term string) []string {
	return p.files[term]
}

func (p *postings) len() int {
	return len(p.terms)
}

// each visits terms in insertion order until fn returns false.
func (p *postings) each(fn func(term string, paths []string) bool) {
	for _, term := range p.terms {
		if !fn(term, p.files[term]) {
			return
		}
	}
}
