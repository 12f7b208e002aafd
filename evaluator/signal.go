package evaluator

import "github.com/dogukanakkaya/treescript/value"

// SignalKind classifies the non-local control flow a statement produced.
type SignalKind int

const (
	SigNone SignalKind = iota
	SigReturn
	SigBreak
	SigContinue
)

// Signal is returned alongside an error by every statement evaluation; it
// replaces exceptions/panics as the vehicle for return/break/continue,
// per the language's "control flow is data" design.
type Signal struct {
	Kind  SignalKind
	Value value.Value // meaningful only when Kind == SigReturn
}

var normal = Signal{Kind: SigNone}
