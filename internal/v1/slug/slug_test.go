package slug

import (
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var slugPattern = regexp.MustCompile(`^[a-z]+-[a-z]+-[0-9]{1,3}$`)

func TestGenerate_Format(t *testing.T) {
	for i := 0; i < 200; i++ {
		s := Generate()
		assert.Regexp(t, slugPattern, s)
	}
}

func TestGenerate_UsesVocabularies(t *testing.T) {
	adjSet := make(map[string]bool, len(adjectives))
	for _, a := range adjectives {
		adjSet[a] = true
	}
	nounSet := make(map[string]bool, len(nouns))
	for _, n := range nouns {
		nounSet[n] = true
	}

	for i := 0; i < 100; i++ {
		parts := strings.Split(Generate(), "-")
		require.Len(t, parts, 3)

		assert.True(t, adjSet[parts[0]], "unknown adjective %q", parts[0])
		assert.True(t, nounSet[parts[1]], "unknown noun %q", parts[1])

		num, err := strconv.Atoi(parts[2])
		require.NoError(t, err)
		assert.GreaterOrEqual(t, num, 0)
		assert.Less(t, num, 1000)
	}
}

func TestGenerate_Varies(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[Generate()] = true
	}
	// 400k combinations; 50 draws all landing on one value means the RNG
	// is broken.
	assert.Greater(t, len(seen), 1)
}

func TestRandInt_Bounds(t *testing.T) {
	for i := 0; i < 1000; i++ {
		v := randInt(7)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 7)
	}
}
