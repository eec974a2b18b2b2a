/*
Package dsl builds decision graphs in Go with a fluent builder, for maps
drawn up front rather than discovered step by step.

Example usage:

	b := dsl.New()

	b.Add("Hall").
		Tag("lit", true).
		Both("stairs", "Cellar", "up").
		Branch("door", "Yard", "key|lockpick")

	b.Add("Cellar").
		Do("search", domain.Gain("key")).
		Unexplored("crack")

	b.Zone("house", 0, "Hall", "Cellar")

	g, err := b.Build()
	// ... pass g as exploration.StartOptions.Map
*/
package dsl
