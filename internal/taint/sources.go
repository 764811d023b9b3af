package taint

// SourcesRegistry holds every known taint-source pattern plus the
// supplemental whole-parameter taint map (parameters named req/request/ctx
// are tainted from their declaration, independent of any property access).
type SourcesRegistry struct {
	patterns       *registry[SourcePattern]
	parameterNames map[string]SourceCategory
}

// NewSourcesRegistry builds a registry pre-populated with the built-in
// Express/Node/DOM source patterns.
func NewSourcesRegistry() *SourcesRegistry {
	r := &SourcesRegistry{patterns: newRegistry[SourcePattern](), parameterNames: make(map[string]SourceCategory)}
	r.registerExpressSources()
	r.registerNodeSources()
	r.registerDomSources()
	r.registerDefaultParameterNames()
	return r
}

func (r *SourcesRegistry) add(objectPath []string, prop PropertyMatcher, cat SourceCategory, desc string) {
	r.patterns.register(SourcePattern{
		Pattern: Pattern{ObjectPath: objectPath, Property: prop, Description: desc, Provenance: BuiltIn},
		Category: cat,
	}, objectPath[0])
}

func (r *SourcesRegistry) registerExpressSources() {
	for _, obj := range []string{"req", "request"} {
		for _, prop := range []string{"body", "query", "params", "headers", "cookies"} {
			r.add([]string{obj}, PropertyMatcher{Kind: Exact, Name: prop}, HttpRequest, obj+"."+prop)
		}
	}
	for _, prop := range []string{"request", "query", "params"} {
		r.add([]string{"ctx"}, PropertyMatcher{Kind: Exact, Name: prop}, HttpRequest, "ctx."+prop)
	}
}

func (r *SourcesRegistry) registerNodeSources() {
	r.add([]string{"process", "env"}, PropertyMatcher{Kind: Any}, Environment, "process.env.*")
	r.add([]string{"process", "argv"}, PropertyMatcher{Kind: Any}, Environment, "process.argv.*")
}

func (r *SourcesRegistry) registerDomSources() {
	for _, obj := range []string{"document", "window", "location"} {
		for _, prop := range []string{"href", "search", "hash", "pathname"} {
			if obj == "location" {
				r.add([]string{"location"}, PropertyMatcher{Kind: Exact, Name: prop}, UserInput, "location."+prop)
			} else {
				r.add([]string{obj, "location"}, PropertyMatcher{Kind: Exact, Name: prop}, UserInput, obj+".location."+prop)
			}
		}
	}
	for _, prop := range []string{"cookie", "referrer", "URL", "documentURI"} {
		r.add([]string{"document"}, PropertyMatcher{Kind: Exact, Name: prop}, UserInput, "document."+prop)
	}
}

func (r *SourcesRegistry) registerDefaultParameterNames() {
	r.parameterNames["req"] = HttpRequest
	r.parameterNames["request"] = HttpRequest
	r.parameterNames["ctx"] = HttpRequest
}

// RegisterPattern extends the registry from configuration.
func (r *SourcesRegistry) RegisterPattern(p SourcePattern) {
	if len(p.ObjectPath) == 0 {
		return
	}
	r.patterns.register(p, p.ObjectPath[0])
}

// RegisterParameterName extends the whole-parameter taint map from
// configuration.
func (r *SourcesRegistry) RegisterParameterName(name string, cat SourceCategory) {
	r.parameterNames[name] = cat
}

// Match looks up whether an object chain + optional property is a known
// taint source.
func (r *SourcesRegistry) Match(objectChain []string, property string, hasProperty bool) (SourcePattern, bool) {
	if len(objectChain) == 0 {
		return SourcePattern{}, false
	}
	for _, p := range r.patterns.candidates(objectChain[0]) {
		if p.matches(objectChain, property, hasProperty) {
			return p, true
		}
	}
	return SourcePattern{}, false
}

// IsTaintedParameter reports whether a bare parameter name is
// taint-from-declaration.
func (r *SourcesRegistry) IsTaintedParameter(name string) (SourceCategory, bool) {
	cat, ok := r.parameterNames[name]
	return cat, ok
}

// Patterns exposes every registered source pattern.
func (r *SourcesRegistry) Patterns() []SourcePattern { return r.patterns.All() }
