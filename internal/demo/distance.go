package demo

import (
	"context"
	"fmt"

	"github.com/aretw0/weave/pkg/poly"
	"github.com/aretw0/weave/pkg/sheaf"
)

// Contexts of the distance scenario.
const (
	Metric    sheaf.Context = "metric"
	Imperial  sheaf.Context = "imperial"
	Universal sheaf.Context = "universal"
)

// Event is an input of an odometer.
type Event interface {
	odometer()
}

// Move advances the odometer.
type Move struct {
	Meters float64 `mapstructure:"meters" yaml:"meters"`
}

// Report asks for the total distance in Unit.
type Report struct {
	Unit string `mapstructure:"unit" yaml:"unit"`
}

func (Move) odometer()   {}
func (Report) odometer() {}

func (m Move) String() string   { return fmt.Sprintf("move %gm", m.Meters) }
func (r Report) String() string { return "report " + r.Unit }

var perMeter = map[string]float64{
	"m":  1,
	"km": 0.001,
	"mi": 1 / 1609.344,
	"ft": 1 / 0.3048,
}

// Observes accepts moves plus reports in the given units.
func Observes(units ...string) poly.Directions {
	set := make(map[string]bool, len(units))
	for _, u := range units {
		set[u] = true
	}
	return poly.Accept(func(e Event) bool {
		switch v := e.(type) {
		case Move:
			return v.Meters >= 0
		case Report:
			return set[v.Unit]
		}
		return false
	})
}

// Odometer tracks meters travelled. Moves output the new total in meters,
// reports output the total converted to the requested unit.
func Odometer(name string, units ...string) *poly.Agent {
	dirs := Observes(units...)
	return poly.MustNew(name, 0.0, poly.Where(func(m float64) bool { return m >= 0 }),
		func(float64) poly.Directions { return dirs },
		func(_ context.Context, total float64, e Event) (float64, float64, error) {
			switch v := e.(type) {
			case Move:
				total += v.Meters
				return total, total, nil
			case Report:
				return total, total * perMeter[v.Unit], nil
			}
			return total, 0, fmt.Errorf("odometer %s: unexpected input %T", name, e)
		})
}

// DistanceSite declares metric and imperial, meeting at universal.
func DistanceSite() (sheaf.Site, error) {
	return sheaf.NewCover().
		Add(Metric, Observes("m", "km")).
		Add(Imperial, Observes("m", "mi")).
		Add(Universal, Observes("m")).
		Meet(Metric, Imperial, Universal).
		Build()
}

// DistanceFamily holds the metric and imperial local odometers.
func DistanceFamily() sheaf.Family {
	return sheaf.Family{
		Metric:   Odometer("metric-odometer", "m", "km"),
		Imperial: Odometer("imperial-odometer", "m", "mi"),
	}
}

// DistanceSamples are traces mixing moves and reports in every unit.
func DistanceSamples() [][]any {
	return [][]any{
		{Move{Meters: 1000}, Report{Unit: "m"}, Report{Unit: "km"}, Report{Unit: "mi"}},
		{Move{Meters: 1609.344}, Move{Meters: 390.656}, Report{Unit: "m"}, Report{Unit: "mi"}},
		{Report{Unit: "m"}, Move{Meters: 0}, Report{Unit: "km"}},
	}
}
