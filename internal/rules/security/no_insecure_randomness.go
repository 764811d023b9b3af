package security

import (
	"github.com/grayline/vetjs/internal/diagnostic"
	"github.com/grayline/vetjs/internal/dfg"
	"github.com/grayline/vetjs/internal/file"
	"github.com/grayline/vetjs/internal/rules"
	"github.com/grayline/vetjs/internal/taint"
)

// NoInsecureRandomness is S011: flags Math.random() used directly or
// indirectly as an argument to a sink tagged CryptoSensitive (cipher
// key/iv, JWT signing secret, token/id generators).
type NoInsecureRandomness struct {
	Sinks *taint.SinksRegistry
}

func NewNoInsecureRandomness(sinks *taint.SinksRegistry) NoInsecureRandomness {
	return NoInsecureRandomness{Sinks: sinks}
}

func (NoInsecureRandomness) Metadata() rules.Metadata {
	return rules.Metadata{
		ID:              "S011",
		Name:            "no-insecure-randomness",
		Description:     "disallow Math.random() reaching a cryptographically sensitive sink",
		Category:        rules.Security,
		DefaultSeverity: diagnostic.Error,
		MinTier:         rules.Free,
	}
}

func (r NoInsecureRandomness) Check(f *file.ParsedFile) []diagnostic.Diagnostic {
	g := dfg.Build(f.Tree.Root, f.Semantic.Scopes.Root())

	var randomNodes []dfg.NodeID
	for _, node := range g.Nodes() {
		if node.Kind == dfg.CallNode && node.Name == "random" && len(node.ObjectChain) == 1 && node.ObjectChain[0] == "Math" {
			randomNodes = append(randomNodes, node.ID)
		}
	}
	if len(randomNodes) == 0 {
		return nil
	}

	reachable := make(map[dfg.NodeID]bool)
	for _, start := range randomNodes {
		queue := []dfg.NodeID{start}
		reachable[start] = true
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, next := range g.Node(cur).FlowsTo {
				if !reachable[next] {
					reachable[next] = true
					queue = append(queue, next)
				}
			}
		}
	}

	var out []diagnostic.Diagnostic
	seen := map[dfg.NodeID]bool{}
	for _, node := range g.Nodes() {
		if node.Kind != dfg.CallNode {
			continue
		}
		sinks := r.Sinks.MatchCall(node.ObjectChain, node.Name)
		for _, sink := range sinks {
			if sink.Category != taint.CryptoSensitive {
				continue
			}
			positions := sink.ArgPositions
			if len(positions) == 0 {
				positions = []int{0}
			}
			args := node.FlowsFrom
			for _, pos := range positions {
				if pos < 0 || pos >= len(args) {
					continue
				}
				if reachable[args[pos]] && !seen[node.ID] {
					seen[node.ID] = true
					out = append(out, rules.Diag(r.Metadata(), f, node.Span,
						"Math.random() is not cryptographically secure; use crypto.randomBytes/randomUUID here",
						diagnostic.High))
				}
			}
		}
	}
	return out
}
