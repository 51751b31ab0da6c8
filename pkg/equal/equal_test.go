package equal_test

import (
	"math"
	"testing"

	"github.com/aretw0/weave/pkg/equal"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
)

type reading struct {
	Meters float64
	Unit   string
}

func TestDeep(t *testing.T) {
	eq := equal.Deep()
	assert.True(t, eq(reading{1, "m"}, reading{1, "m"}))
	assert.False(t, eq(reading{1, "m"}, reading{1, "km"}))
	assert.False(t, eq(1, int64(1)))
}

type opaque struct {
	n     int
	label string
}

func TestDeep_Unexported(t *testing.T) {
	eq := equal.Deep()
	assert.NotPanics(t, func() { eq(opaque{1, "a"}, opaque{1, "a"}) })
	assert.True(t, eq(opaque{1, "a"}, opaque{1, "a"}))
	assert.False(t, eq(opaque{1, "a"}, opaque{2, "a"}))

	ignoring := equal.Deep(cmpopts.IgnoreUnexported(opaque{}))
	assert.True(t, ignoring(opaque{1, "a"}, opaque{2, "b"}))

	assert.Contains(t, equal.Diff(opaque{1, "a"}, opaque{2, "a"}), "n")
}

func TestApprox(t *testing.T) {
	eq := equal.Approx(0, 1e-9)
	assert.True(t, eq(0.1+0.2, 0.3))
	assert.True(t, eq(reading{0.1 + 0.2, "m"}, reading{0.3, "m"}))
	assert.True(t, eq(math.NaN(), math.NaN()))
	assert.False(t, eq(1.0, 1.1))
}

func TestDiff(t *testing.T) {
	assert.Empty(t, equal.Diff(reading{1, "m"}, reading{1, "m"}))
	assert.Contains(t, equal.Diff(reading{1, "m"}, reading{1, "km"}), "Unit")
}
