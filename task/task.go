// Package task defines the behavior/task tree that a treescript program
// evaluates to. A Node is always one of the four structural kinds —
// And, Or, Then, Behavior — never a meta-construct: @if, @if/else, @for
// and @load are expanded away during tree construction (see treebuilder),
// so a Pseudo-node placeholder never needs to exist as a type at all.
package task

type Kind int

const (
	KindAnd Kind = iota
	KindOr
	KindThen
	KindBehavior
)

func (k Kind) String() string {
	switch k {
	case KindAnd:
		return "And"
	case KindOr:
		return "Or"
	case KindThen:
		return "Then"
	case KindBehavior:
		return "Behavior"
	default:
		return "Unknown"
	}
}

// Node is one node of the emitted task tree. Behavior nodes carry Args
// (already rendered via Value.ToString) and no Children; composite nodes
// carry Children and no Args.
type Node struct {
	Kind     Kind
	Args     []string
	Children []Node
}

// MarshalYAML renders a Kind by name rather than its underlying int, so
// --dump-forest output is readable.
func (k Kind) MarshalYAML() (any, error) {
	return k.String(), nil
}

func And(children ...Node) Node  { return Node{Kind: KindAnd, Children: children} }
func Or(children ...Node) Node   { return Node{Kind: KindOr, Children: children} }
func Then(children ...Node) Node { return Node{Kind: KindThen, Children: children} }
func Behavior(args ...string) Node {
	return Node{Kind: KindBehavior, Args: args}
}
