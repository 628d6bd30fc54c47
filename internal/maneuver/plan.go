package maneuver

import (
	"fmt"
	"sort"
)

// Plan is an ordered list of nodes with one optional selection. It is meant
// to be owned by a single goroutine such as the UI loop.
type Plan struct {
	nodes    []*Node
	nextID   int
	selected int
}

func NewPlan() *Plan {
	return &Plan{nextID: 1}
}

// Add assigns an ID, inserts the node in time order and selects it.
func (p *Plan) Add(n *Node) int {
	n.ID = p.nextID
	p.nextID++
	p.nodes = append(p.nodes, n)
	sort.SliceStable(p.nodes, func(i, j int) bool { return p.nodes[i].Time.Before(p.nodes[j].Time) })
	p.selected = n.ID
	return n.ID
}

func (p *Plan) Remove(id int) error {
	for i, n := range p.nodes {
		if n.ID == id {
			p.nodes = append(p.nodes[:i], p.nodes[i+1:]...)
			if p.selected == id {
				p.selected = 0
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %d", ErrUnknownNode, id)
}

func (p *Plan) Select(id int) error {
	if p.find(id) == nil {
		return fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	p.selected = id
	return nil
}

// Selected returns the selected node, or nil.
func (p *Plan) Selected() *Node {
	return p.find(p.selected)
}

// Nodes returns the nodes in time order.
func (p *Plan) Nodes() []*Node {
	out := make([]*Node, len(p.nodes))
	copy(out, p.nodes)
	return out
}

// TotalDeltaV sums node magnitudes.
func (p *Plan) TotalDeltaV() float64 {
	total := 0.0
	for _, n := range p.nodes {
		total += n.Magnitude()
	}
	return total
}

func (p *Plan) find(id int) *Node {
	for _, n := range p.nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}
