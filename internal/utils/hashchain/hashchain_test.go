package hashchain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Oss53pa/atlas-finance/internal/utils/hashchain"
)

func buildChain(payloads ...string) []hashchain.Link {
	links := make([]hashchain.Link, len(payloads))
	prev := hashchain.GenesisHash
	for i, p := range payloads {
		h := hashchain.Compute(p, prev)
		links[i] = hashchain.Link{Payload: p, PreviousHash: prev, Hash: h}
		prev = h
	}
	return links
}

func TestComputeIsDeterministic(t *testing.T) {
	h1 := hashchain.Compute("payload", hashchain.GenesisHash)
	h2 := hashchain.Compute("payload", hashchain.GenesisHash)
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)

	assert.NotEqual(t, h1, hashchain.Compute("payload2", hashchain.GenesisHash))
	assert.NotEqual(t, h1, hashchain.Compute("payload", h1))
}

func TestVerifyIntactChain(t *testing.T) {
	assert.Equal(t, -1, hashchain.Verify(nil))
	assert.Equal(t, -1, hashchain.Verify(buildChain("a", "b", "c")))
}

func TestVerifyDetectsTamperedPayload(t *testing.T) {
	links := buildChain("a", "b", "c", "d")
	links[1].Payload = "b-modified"
	assert.Equal(t, 1, hashchain.Verify(links))
}

func TestVerifyDetectsBrokenLinkage(t *testing.T) {
	links := buildChain("a", "b", "c")
	links[2].PreviousHash = hashchain.GenesisHash
	assert.Equal(t, 2, hashchain.Verify(links))
}
