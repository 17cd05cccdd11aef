package vs

// state is one version of an object's payload, tagged with the transaction
// nesting level that produced it. Chains are singly linked, newest first.
type state[P any] struct {
	next    *state[P]
	level   int
	valid   bool
	payload P
}

// chain is the version history shared by packages and variables. At most one
// state exists per nesting level; the head is the version visible to readers.
type chain[P any] struct {
	head *state[P]
}

func (c *chain[P]) push(level int, valid bool, payload P) {
	c.head = &state[P]{next: c.head, level: level, valid: valid, payload: payload}
}

// pop drops the newest version and reports whether the chain emptied.
func (c *chain[P]) pop() (popped *state[P], empty bool) {
	popped = c.head
	c.head = c.head.next
	return popped, c.head == nil
}

// dropBeneathHead removes the version directly under the head, if any.
func (c *chain[P]) dropBeneathHead() {
	if c.head.next != nil {
		c.head.next = c.head.next.next
	}
}

func (c *chain[P]) hasPrev() bool {
	return c.head != nil && c.head.next != nil
}

// changedAt reports whether the newest version was produced at the given
// nesting level.
func (c *chain[P]) changedAt(level int) bool {
	return c.head != nil && c.head.level == level
}

// changedBeneath reports whether a version exists directly at the parent of
// the given nesting level.
func (c *chain[P]) changedBeneath(level int) bool {
	return c.head != nil && c.head.next != nil && c.head.next.level == level-1
}

// depth returns the number of versions in the chain.
func (c *chain[P]) depth() int {
	n := 0
	for s := c.head; s != nil; s = s.next {
		n++
	}
	return n
}
