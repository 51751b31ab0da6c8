// Package sheaf glues context-local agents into one global agent.
//
// A Site says which inputs each observation context can see (its domain) and
// how two contexts intersect. Restrict projects an agent onto one context by
// narrowing its directions to the context's domain. A Family assigns a local
// agent to each context; it is compatible when, for every pair of contexts with
// an overlap, both locals restricted to the overlap behave identically on the
// sheaf's sample traces under a caller-supplied comparator.
//
// Glue turns a compatible family into a global agent whose directions are the
// union of the members' directions and whose transition dispatches each input to
// the members that accept it, combining their outputs with an explicit Merge.
//
//	site, err := sheaf.NewCover().
//		Add("metric", metricInputs).
//		Add("imperial", imperialInputs).
//		Add("universal", sharedInputs).
//		Meet("metric", "imperial", "universal").
//		Build()
//	s := sheaf.New(site, samples)
//	global, err := s.Glue(ctx, family, sheaf.FirstMatch(), equal.Deep())
package sheaf
