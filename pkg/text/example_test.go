package text_test

import (
	"fmt"

	"github.com/matzehuels/setgrid/pkg/text"
)

func ExampleVariations() {
	name := "Dorian Gray (Dorian) [the youth, Mr Gray]"
	fmt.Printf("%q\n", text.Variations(name))
	fmt.Println(text.DisplayName(name))
	// Output:
	// ["Dorian Gray" "Dorian" "the youth" "Mr Gray"]
	// Dorian Gray (Dorian)
}

func ExampleWrap() {
	// Every rune is 5px wide; lines must stay under 50px.
	for _, line := range text.Wrap("the quick brown fox", 50, text.FixedMeasurer(5)) {
		fmt.Println(line)
	}
	// Output:
	// the quick
	// brown fox
}
