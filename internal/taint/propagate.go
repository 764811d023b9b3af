package taint

import (
	"github.com/grayline/vetjs/internal/dfg"
	"github.com/grayline/vetjs/internal/sourcemap"
)

// Registries bundles the three taint registries rules need.
type Registries struct {
	Sources    *SourcesRegistry
	Sinks      *SinksRegistry
	Sanitizers *SanitizersRegistry
}

// NewRegistries builds all three registries with their built-in patterns.
func NewRegistries() *Registries {
	return &Registries{
		Sources:    NewSourcesRegistry(),
		Sinks:      NewSinksRegistry(),
		Sanitizers: NewSanitizersRegistry(),
	}
}

// Tag is one taint category attached to a node, with the span of the
// source construct that introduced it (for diagnostics and best-effort
// path reporting).
type Tag struct {
	Category SourceCategory
	Source   sourcemap.Span
}

// State is the per-node taint tagging computed by Propagate, i.e. the
// taint state (C8/C9's TaintState).
type State struct {
	tags map[dfg.NodeID][]Tag
}

func (s *State) add(id dfg.NodeID, tag Tag) bool {
	for _, existing := range s.tags[id] {
		if existing.Category == tag.Category && existing.Source == tag.Source {
			return false
		}
	}
	s.tags[id] = append(s.tags[id], tag)
	return true
}

// Tags returns the taint tags on a node, if any.
func (s *State) Tags(id dfg.NodeID) []Tag { return s.tags[id] }

// Finding is one source-to-sink taint flow.
type Finding struct {
	SourceSpan     sourcemap.Span
	SourceCategory SourceCategory
	SinkSpan       sourcemap.Span
	SinkCategory   SinkCategory
	Path           []dfg.NodeID
}

// Seed tags every DFG node that is itself a taint source: tainted
// parameters/variables by name, and property accesses matching a
// registered source pattern.
func Seed(g *dfg.Graph, reg *Registries) *State {
	state := &State{tags: make(map[dfg.NodeID][]Tag)}
	for _, node := range g.Nodes() {
		switch node.Kind {
		case dfg.ParameterNode, dfg.VariableNode:
			if cat, ok := reg.Sources.IsTaintedParameter(node.Name); ok {
				state.add(node.ID, Tag{Category: cat, Source: node.Span})
			}
		case dfg.PropertyAccessNode:
			if pat, ok := reg.Sources.Match(node.ObjectChain, node.Name, node.Name != ""); ok {
				state.add(node.ID, Tag{Category: pat.Category, Source: node.Span})
			}
		}
	}
	return state
}

// Propagate runs the worklist fixpoint: push every tainted node's tags
// along its flows-to edges, dropping categories a sanitizer call clears.
// A property access that is itself a registered source (req.body) keeps
// its own span as the source for its category; the same category arriving
// from its object (a tainted req parameter) is not added to it.
func Propagate(g *dfg.Graph, reg *Registries, state *State) {
	var worklist []dfg.NodeID
	for id := range state.tags {
		worklist = append(worklist, id)
	}
	for len(worklist) > 0 {
		id := worklist[0]
		worklist = worklist[1:]
		node := g.Node(id)
		for _, next := range node.FlowsTo {
			nextNode := g.Node(next)
			cleared := map[SourceCategory]bool{}
			if nextNode.Kind == dfg.CallNode {
				for _, san := range reg.Sanitizers.MatchCall(nextNode.ObjectChain, nextNode.Name) {
					for _, tag := range state.tags[id] {
						if sanitizerClears(san.Category, tag.Category) {
							cleared[tag.Category] = true
						}
					}
				}
			}
			if nextNode.Kind == dfg.PropertyAccessNode {
				for _, own := range state.tags[next] {
					if own.Source == nextNode.Span {
						cleared[own.Category] = true
					}
				}
			}
			changed := false
			for _, tag := range state.tags[id] {
				if cleared[tag.Category] {
					continue
				}
				if state.add(next, tag) {
					changed = true
				}
			}
			if changed {
				worklist = append(worklist, next)
			}
		}
	}
}

// sanitizerClears maps a sanitizer category to the source categories it is
// effective against. A sanitizer only clears the categories its own
// category addresses; other tagged categories on the same node persist.
func sanitizerClears(san SanitizerCategory, src SourceCategory) bool {
	switch san {
	case SanitizeCommandInjection:
		return true // command injection sanitizers clear any tainted arg reaching a shell sink
	case SanitizeSqlInjection:
		return true
	case SanitizeXss:
		return src == UserInput
	case SanitizePathTraversal:
		return src == FileSystem || src == UserInput
	case SanitizeUrlEncoding:
		return src == UserInput
	case SanitizeGeneral:
		return true
	}
	return false
}

// Find inspects every Call node whose callee matches a registered sink and
// every property-assignment sink, emitting one Finding per distinct
// (source span, source category, sink span, sink category) combination.
func Find(g *dfg.Graph, reg *Registries, state *State) []Finding {
	var findings []Finding
	seen := map[[4]any]bool{}

	emit := func(tag Tag, sinkSpan sourcemap.Span, sinkCat SinkCategory, argNode dfg.NodeID) {
		key := [4]any{tag.Source, tag.Category, sinkSpan, sinkCat}
		if seen[key] {
			return
		}
		seen[key] = true
		findings = append(findings, Finding{
			SourceSpan:     tag.Source,
			SourceCategory: tag.Category,
			SinkSpan:       sinkSpan,
			SinkCategory:   sinkCat,
			Path:           path(g, argNode),
		})
	}

	for _, node := range g.Nodes() {
		if node.Kind != dfg.CallNode {
			continue
		}
		sinks := reg.Sinks.MatchCall(node.ObjectChain, node.Name)
		if len(sinks) == 0 {
			continue
		}
		args := node.FlowsFrom
		for _, sink := range sinks {
			positions := sink.ArgPositions
			if len(positions) == 0 {
				positions = []int{0}
			}
			for _, pos := range positions {
				if pos < 0 || pos >= len(args) {
					continue
				}
				for _, tag := range state.Tags(args[pos]) {
					emit(tag, node.Span, sink.Category, args[pos])
				}
			}
		}
	}

	// Property-assignment sinks (innerHTML/outerHTML): the value being
	// assigned flows into the PropertyAccess node itself.
	for _, node := range g.Nodes() {
		if node.Kind != dfg.PropertyAccessNode || node.Name == "" {
			continue
		}
		sinks := reg.Sinks.MatchProperty(node.Name)
		for _, sink := range sinks {
			for _, tag := range state.Tags(node.ID) {
				emit(tag, node.Span, sink.Category, node.ID)
			}
		}
	}

	return findings
}

// path does a best-effort backward walk from sinkArg over flows-from
// edges, used purely for reporting. It collects every transitive
// predecessor of sinkArg, not only the nodes between the finding's source
// and the sink, and returns them reversed so sinkArg comes last.
func path(g *dfg.Graph, sinkArg dfg.NodeID) []dfg.NodeID {
	seen := map[dfg.NodeID]bool{sinkArg: true}
	order := []dfg.NodeID{sinkArg}
	queue := []dfg.NodeID{sinkArg}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, pred := range g.Node(cur).FlowsFrom {
			if !seen[pred] {
				seen[pred] = true
				order = append(order, pred)
				queue = append(queue, pred)
			}
		}
	}
	// reverse to source-to-sink order
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order
}
