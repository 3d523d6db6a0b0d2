package derive

import (
	"invmap-generator/internal/decl"
	"invmap-generator/internal/diagnostic"
	"invmap-generator/internal/typeexpr"
)

// EtaReduce validates a family instance head for derivation at the
// given arity and splits it: the trailing arity arguments become the
// active binders, the remaining prefix stays in the derived head.
//
// The trailing arguments must be distinct bare type variables that do
// not occur anywhere in the prefix; otherwise dropping them would
// change which values the instance covers.
func EtaReduce(family string, inst decl.FamilyInstance, arity int) (
	active []typeexpr.Binder, prefix []typeexpr.Expr, derr *diagnostic.DerivationError,
) {
	n := len(inst.Args)
	if n < arity {
		return nil, nil, diagnostic.Errorf(diagnostic.ArityMismatch, family,
			"instance head has %d arguments, %s needs %d", n, opName(arity), arity)
	}

	declared := make(map[string]typeexpr.Kind, len(inst.Binders))
	for _, b := range inst.Binders {
		declared[b.Name] = b.Kind
	}

	seen := map[string]bool{}

	for _, arg := range inst.Args[n-arity:] {
		name, bare := typeexpr.IsBareVar(arg)
		if !bare {
			return nil, nil, diagnostic.Errorf(diagnostic.InvalidEtaReduction, family,
				"trailing instance argument %s is not a bare type variable", arg)
		}

		if seen[name] {
			return nil, nil, diagnostic.Errorf(diagnostic.InvalidEtaReduction, family,
				"type variable %s repeats in the trailing instance arguments", name)
		}

		seen[name] = true

		active = append(active, typeexpr.Binder{Name: name, Kind: declared[name]})
	}

	prefix = inst.Args[:n-arity]

	for _, arg := range prefix {
		if typeexpr.Mentions(arg, seen) {
			return nil, nil, diagnostic.Errorf(diagnostic.InvalidEtaReduction, family,
				"trailing type variable also occurs in the instance head prefix %s", arg)
		}
	}

	return active, prefix, nil
}
