package operad

// Kind is the closed set of operator variants Apply dispatches on.
type Kind uint8

const (
	KindIdentity Kind = iota
	KindSeq
	KindPar
	KindBranch
	KindFix
	KindTrace
	KindDomain
)

func (k Kind) String() string {
	switch k {
	case KindIdentity:
		return "identity"
	case KindSeq:
		return "seq"
	case KindPar:
		return "par"
	case KindBranch:
		return "branch"
	case KindFix:
		return "fix"
	case KindTrace:
		return "trace"
	case KindDomain:
		return "domain"
	}
	return "unknown"
}

// Law names an algebraic law an operator satisfies.
type Law string

const (
	LawAssociativity Law = "associativity"
	LawIdentity      Law = "identity"
	LawInterchange   Law = "interchange"
	LawProjection    Law = "projection"
	LawObservation   Law = "observation"
)
