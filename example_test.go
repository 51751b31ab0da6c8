package weave_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/weave"
	"github.com/aretw0/weave/pkg/operad"
	"github.com/aretw0/weave/pkg/poly"
)

// ExampleEngine_Compose wires two lifted functions in sequence.
func ExampleEngine_Compose() {
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
	fmt.Println(a.Name(), out)
	// Output: seq(double, increment) 11
}

// ExampleEngine_Compose_fix doubles until the value reaches 100.
func ExampleEngine_Compose_fix() {
	engine, err := weave.New(weave.WithFixCap(10))
	if err != nil {
		log.Fatal(err)
	}

	double := poly.Lift("double", func(x int) int { return 2 * x })
	atLeast100 := operad.Is(func(x int) bool { return x >= 100 })

	a, err := engine.Compose("fix", []operad.Operand{operad.When(atLeast100), operad.Of(double)})
	if err != nil {
		log.Fatal(err)
	}

	_, out, err := engine.Invoke(context.Background(), a, a.Initial(), 1)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(out)
	// Output: 128
}
