package taint

// SanitizersRegistry holds every known taint-clearing pattern.
type SanitizersRegistry struct {
	patterns *registry[SanitizerPattern]
}

// NewSanitizersRegistry builds a registry pre-populated with the built-in
// shell/SQL/HTML/path sanitizer patterns.
func NewSanitizersRegistry() *SanitizersRegistry {
	r := &SanitizersRegistry{patterns: newRegistry[SanitizerPattern]()}
	r.registerShellSanitizers()
	r.registerSqlSanitizers()
	r.registerXssSanitizers()
	r.registerPathSanitizers()
	return r
}

func (r *SanitizersRegistry) add(objectPath []string, prop PropertyMatcher, cat SanitizerCategory, desc string) {
	var key string
	if len(objectPath) > 0 {
		key = objectPath[0]
	} else {
		key = desc
	}
	r.patterns.register(SanitizerPattern{
		Pattern:  Pattern{ObjectPath: objectPath, Property: prop, Description: desc, Provenance: BuiltIn},
		Category: cat,
	}, key)
}

func (r *SanitizersRegistry) registerShellSanitizers() {
	r.add(nil, PropertyMatcher{Kind: Exact, Name: "shellEscape"}, SanitizeCommandInjection, "shellEscape")
	r.add(nil, PropertyMatcher{Kind: Exact, Name: "shellQuote"}, SanitizeCommandInjection, "shellQuote")
	r.add([]string{"shlex"}, PropertyMatcher{Kind: Exact, Name: "quote"}, SanitizeCommandInjection, "shlex.quote")
}

func (r *SanitizersRegistry) registerSqlSanitizers() {
	r.add([]string{"mysql"}, PropertyMatcher{Kind: Exact, Name: "escape"}, SanitizeSqlInjection, "mysql.escape")
	r.add([]string{"mysql"}, PropertyMatcher{Kind: Exact, Name: "format"}, SanitizeSqlInjection, "mysql.format")
	r.add([]string{"pg"}, PropertyMatcher{Kind: Exact, Name: "escapeLiteral"}, SanitizeSqlInjection, "pg.escapeLiteral")
	r.add([]string{"db"}, PropertyMatcher{Kind: Exact, Name: "prepare"}, SanitizeSqlInjection, "db.prepare")
	r.add(nil, PropertyMatcher{Kind: Exact, Name: "bind"}, SanitizeSqlInjection, "statement.bind")
	r.add(nil, PropertyMatcher{Kind: Exact, Name: "sql"}, SanitizeSqlInjection, "sql`...`")
}

func (r *SanitizersRegistry) registerXssSanitizers() {
	r.add(nil, PropertyMatcher{Kind: Exact, Name: "escapeHtml"}, SanitizeXss, "escapeHtml")
	r.add([]string{"DOMPurify"}, PropertyMatcher{Kind: Exact, Name: "sanitize"}, SanitizeXss, "DOMPurify.sanitize")
	r.add([]string{"validator"}, PropertyMatcher{Kind: Exact, Name: "escape"}, SanitizeXss, "validator.escape")
}

func (r *SanitizersRegistry) registerPathSanitizers() {
	r.add([]string{"path"}, PropertyMatcher{Kind: Exact, Name: "normalize"}, SanitizePathTraversal, "path.normalize")
	r.add([]string{"path"}, PropertyMatcher{Kind: Exact, Name: "basename"}, SanitizePathTraversal, "path.basename")
	r.add(nil, PropertyMatcher{Kind: Exact, Name: "encodeURIComponent"}, SanitizeUrlEncoding, "encodeURIComponent")
	r.add([]string{"querystring"}, PropertyMatcher{Kind: Exact, Name: "stringify"}, SanitizeUrlEncoding, "querystring.stringify")
}

// RegisterPattern extends the registry from configuration.
func (r *SanitizersRegistry) RegisterPattern(p SanitizerPattern) {
	var key string
	if len(p.ObjectPath) > 0 {
		key = p.ObjectPath[0]
	} else {
		key = p.Description
	}
	r.patterns.register(p, key)
}

// MatchCall matches a call's callee against registered sanitizers,
// returning the categories it clears.
func (r *SanitizersRegistry) MatchCall(objectChain []string, method string) []SanitizerPattern {
	var out []SanitizerPattern
	for _, p := range r.patterns.All() {
		if len(p.ObjectPath) == 0 {
			if p.Property.matches(method, true) {
				out = append(out, p)
			}
			continue
		}
		if p.matches(objectChain, method, true) {
			out = append(out, p)
		}
	}
	return out
}

func (r *SanitizersRegistry) Patterns() []SanitizerPattern { return r.patterns.All() }
