package result

// Budget is the error cap shared by every level of one read. Errors are
// admitted in the order they are offered; once the cap is reached further
// errors are only counted.
type Budget struct {
	max     int
	used    int
	omitted int
}

// NewBudget returns a budget admitting at most max errors; max <= 0 means
// unlimited.
func NewBudget(max int) *Budget {
	return &Budget{max: max}
}

// Admit returns the errors that fit in the budget. Errors that were already
// admitted at a deeper level pass through without being counted again.
func (b *Budget) Admit(errs []*ValueError) []*ValueError {
	if b == nil {
		return errs
	}

	var out []*ValueError

	for _, e := range errs {
		switch {
		case e.admitted:
			out = append(out, e)
		case b.max <= 0 || b.used < b.max:
			c := *e
			c.admitted = true
			b.used++
			out = append(out, &c)
		default:
			b.omitted++
		}
	}

	return out
}

// Exhausted reports whether the cap has been reached.
func (b *Budget) Exhausted() bool {
	return b != nil && b.max > 0 && b.used >= b.max
}

func (b *Budget) Used() int {
	if b == nil {
		return 0
	}

	return b.used
}

func (b *Budget) Omitted() int {
	if b == nil {
		return 0
	}

	return b.omitted
}
