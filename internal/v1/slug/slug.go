// Package slug generates short, human-memorable room identifiers of the
// form "<adjective>-<noun>-<number>", e.g. "hot-espresso-42".
package slug

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var adjectives = []string{
	"hot", "cold", "iced", "dark", "light", "sweet", "bitter", "frothy", "milky", "roasted",
	"decaf", "strong", "smooth", "creamy", "fresh", "bold", "rich", "steaming", "foamy", "tasty",
}

var nouns = []string{
	"coffee", "bean", "espresso", "latte", "mocha", "cappuccino", "brew", "roast", "cup", "mug",
	"barista", "aroma", "steam", "filter", "press", "macchiato", "americano", "cortado", "grind", "pour",
}

// Generate returns a new random slug. The random source is crypto/rand, so
// slugs are unpredictable even across process restarts.
func Generate() string {
	adj := adjectives[randInt(len(adjectives))]
	noun := nouns[randInt(len(nouns))]
	// The trailing number drastically reduces collision probability:
	// 20 * 20 * 1000 = 400k combinations.
	num := randInt(1000)

	return fmt.Sprintf("%s-%s-%d", adj, noun, num)
}

// randInt returns a uniform random int in [0, n).
func randInt(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand only fails if the OS entropy source is broken.
		panic(fmt.Sprintf("slug: rand failed: %v", err))
	}
	return int(v.Int64())
}
