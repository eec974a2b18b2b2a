package journey_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/journey"
	"github.com/aretw0/journey/pkg/exploration"
)

func ExampleEngine_Exec() {
	eng := journey.New()
	ctx := context.Background()

	id, _, err := eng.Start(ctx, "demo", "Hall", exploration.StartOptions{Exits: []string{"stairs"}})
	if err != nil {
		log.Fatal(err)
	}

	res, err := eng.Exec(ctx, id, `
val stairs
assign transition
val Cellar
assign destination
call explore
empty list
append "Cellar is dark"
assign values
call print
`)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(res.Output)
	fmt.Println(res.Steps, res.Position)
	// Output:
	// Cellar is dark
	// 2 Cellar
}
