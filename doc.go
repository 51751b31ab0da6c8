/*
Package weave is a composition engine for agents modeled as polynomial state machines.

An agent is a set of positions, the inputs each position accepts (its directions) and a transition from a position and an accepted input to the next position and an output. Agents are immutable; the caller owns the position and threads it through every invocation.

# Concept

Agents are assembled by applying operators from an operad: seq, par, branch, fix, trace and the identity. Domains extend the catalog with their own operators without touching the base ones. The composite of any operator is an agent again, with a position space that is the structural product of its operands.

Local agents that each understand one context are unified with a sheaf. A site declares the contexts, the inputs each one covers and how they overlap; a family of agents that agrees on every overlap glues into one global agent.

# Key Features

  - Typed Boundaries: wiring checks the output type of one agent against the input type of the next at construction time.
  - Direction Guards: an input outside the current directions is rejected before the transition runs, leaving the position untouched.
  - Offline Laws: associativity, identity, interchange and projection are verified by replaying samples (see pkg/laws).
  - Durable Positions: positions encode to bytes and can be persisted per session (see pkg/session).

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/weave"
		"github.com/aretw0/weave/pkg/operad"
		"github.com/aretw0/weave/pkg/poly"
	)

	func main() {
		engine, err := weave.New()
		if err != nil {
			log.Fatal(err)
		}

		double := poly.Lift("double", func(x int) int { return 2 * x })
		inc := poly.Lift("increment", func(x int) int { return x + 1 })

		a, err := engine.Compose("seq", []operad.Operand{operad.Of(double), operad.Of(inc)})
		if err != nil {
			log.Fatal(err)
		}

		_, out, err := engine.Invoke(context.Background(), a, a.Initial(), 5)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(out) // 11
	}

# Sub-packages

  - pkg/poly: agent construction, lifting and invocation.
  - pkg/operad: operator catalog, registry and base operators.
  - pkg/sheaf: sites, restriction, compatibility and gluing.
  - pkg/laws: offline law verification.
  - pkg/observe: trace events and observers.
  - pkg/session: persisted positions keyed by session.
*/
package weave
