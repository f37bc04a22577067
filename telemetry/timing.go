package telemetry

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// TimingCollector records wall-clock durations as a tree of phases.
type TimingCollector struct {
	mu      sync.Mutex
	root    *node
	current *node
}

type node struct {
	name     string
	start    time.Time
	end      time.Time
	parent   *node
	children []*node
}

// NewTimingCollector creates an empty collector. The first Start
// becomes the root of the tree.
func NewTimingCollector() *TimingCollector {
	return &TimingCollector{}
}

// Start begins timing an operation nested under the most recently
// started one.
func (c *TimingCollector) Start(name string) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := &node{name: name, start: time.Now()}
	if c.root == nil {
		c.root = n
	} else {
		n.parent = c.current
		c.current.children = append(c.current.children, n)
	}
	c.current = n
	return &timer{collector: c, node: n}
}

// Report writes the timing tree, one phase per line, children
// indented under their parent.
func (c *TimingCollector) Report(w io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.root == nil {
		return
	}
	report(w, c.root, 0)
}

func report(w io.Writer, n *node, depth int) {
	end := n.end
	if end.IsZero() {
		end = time.Now()
	}
	fmt.Fprintf(w, "%s%s  %s\n",
		strings.Repeat("  ", depth),
		n.name,
		end.Sub(n.start).Round(time.Microsecond))
	for _, child := range n.children {
		report(w, child, depth+1)
	}
}

type timer struct {
	collector *TimingCollector
	node      *node
}

func (t *timer) End() {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	t.node.end = time.Now()
	if t.node.parent != nil {
		t.collector.current = t.node.parent
	}
}

func (t *timer) Child(name string) Timer {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	n := &node{name: name, start: time.Now(), parent: t.node}
	t.node.children = append(t.node.children, n)
	return &timer{collector: t.collector, node: n}
}
