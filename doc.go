/*
Package journey records and replays the exploration of a decision graph.

A decision graph holds decisions (places where a choice was made) joined by
named transitions. Each transition may carry a requirement over the
explorer's powers and tokens, effects applied when it is taken, tags and
annotations. Decisions can be grouped into hierarchical zones. An
exploration is the append-only history of situations (graph, state and
position) produced by traversal steps such as explore, retrace or warp.

The Engine keeps explorations in a pluggable store, one per session, and
drives them with small command scripts. Concurrent access to one session is
serialised, optionally across processes through a distributed lock.

# Usage

	eng := journey.New()

	ctx := context.Background()
	id, _, err := eng.Start(ctx, "", "Hall", exploration.StartOptions{Exits: []string{"stairs"}})
	if err != nil {
		log.Fatal(err)
	}

	res, err := eng.Exec(ctx, id, `
	val stairs
	assign transition
	val Cellar
	assign destination
	call explore
	`)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.Position) // Cellar

Scripts see the exploration through the methods listed by
exploration.Exploration.Target, plus the interpreter builtins. Graphs can
be exchanged as JSON (package format/codec) or Graphviz DOT (package
format/dot).
*/
package journey
