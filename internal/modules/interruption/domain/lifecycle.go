package domain

// TrimMemoryUIHidden is the trim level a host reports once none of its
// windows are visible any more.
const TrimMemoryUIHidden = 20

// ActivityCounter tracks how many foreground screens the process has.
type ActivityCounter struct {
	count int
}

func (c *ActivityCounter) Started() {
	c.count++
}

// Stopped reports whether the process just went to the background. A stop
// caused by a configuration change (rotation, resize) is followed by a
// restart and never counts as backgrounding.
func (c *ActivityCounter) Stopped(changingConfig bool) bool {
	c.count--
	backgrounded := c.count <= 0 && !changingConfig
	if c.count < 0 {
		c.count = 0
	}
	return backgrounded
}

func (c *ActivityCounter) Count() int {
	return c.count
}
