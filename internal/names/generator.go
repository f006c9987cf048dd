// Package names generates human-readable "adjective-noun" instance names
// such as "steady-theta" or "lucid-cortex".
//
// Each bridge process picks one at startup. It shows up in the logs and as
// the AMQP connection name, which makes several bridges attached to the same
// broker easy to tell apart in the RabbitMQ management UI.
package names

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var adjectives = []string{
	"agile", "bright", "calm", "clever", "curious",
	"eager", "focused", "gentle", "keen", "lucid",
	"mellow", "nimble", "patient", "quick", "quiet",
	"serene", "sharp", "steady", "swift", "vivid",
	"wakeful", "alert", "dreamy", "vigilant", "attentive",
}

var nouns = []string{
	// Brain rhythms
	"alpha", "beta", "gamma", "delta", "theta", "mu",
	// Anatomy
	"cortex", "neuron", "axon", "synapse", "dendrite",
	"thalamus", "cerebellum", "hippocampus", "amygdala", "lobe",
	// Signal processing
	"spike", "wave", "pulse", "signal", "epoch", "channel",
}

// Generate returns a random "adjective-noun" name.
func Generate() string {
	return fmt.Sprintf("%s-%s", adjectives[randomIndex(len(adjectives))], nouns[randomIndex(len(nouns))])
}

// randomIndex picks an index in [0, max) using crypto/rand, falling back to 0.
func randomIndex(max int) int {
	if max <= 0 {
		return 0
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0
	}
	return int(n.Int64())
}
