package models

// StandaloneCategory is the sentinel category used in folders mode for
// entries that could not be grouped. It is informational only and is
// never materialized as a directory.
const StandaloneCategory = "_standalone"

// Plan maps category names to ordered, de-duplicated member paths.
// Categories keep insertion order; within a category each path appears
// once, in first-seen order. Accessors return copies so a plan can be
// rendered or inspected without being mutated.
type Plan struct {
	categories []string
	members    map[string][]string
	seen       map[string]map[string]struct{}
}

// NewPlan returns an empty plan.
func NewPlan() *Plan {
	return &Plan{
		members: make(map[string][]string),
		seen:    make(map[string]map[string]struct{}),
	}
}

// Add appends path to category unless the category already contains it.
func (p *Plan) Add(category, path string) {
	if category == "" || path == "" {
		return
	}
	set, ok := p.seen[category]
	if !ok {
		set = make(map[string]struct{})
		p.seen[category] = set
		p.categories = append(p.categories, category)
	}
	if _, dup := set[path]; dup {
		return
	}
	set[path] = struct{}{}
	p.members[category] = append(p.members[category], path)
}

// Categories returns the category names in insertion order.
func (p *Plan) Categories() []string {
	out := make([]string, len(p.categories))
	copy(out, p.categories)
	return out
}

// Members returns the paths of one category in insertion order.
func (p *Plan) Members(category string) []string {
	src := p.members[category]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// Has reports whether the plan contains the category.
func (p *Plan) Has(category string) bool {
	_, ok := p.seen[category]
	return ok
}

// Len returns the total number of member references across categories.
func (p *Plan) Len() int {
	n := 0
	for _, m := range p.members {
		n += len(m)
	}
	return n
}

// IsEmpty reports whether the plan holds no member references at all.
func (p *Plan) IsEmpty() bool {
	return p.Len() == 0
}
