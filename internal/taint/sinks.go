package taint

// SinksRegistry holds every known taint-sink pattern.
type SinksRegistry struct {
	patterns *registry[SinkPattern]
}

// NewSinksRegistry builds a registry pre-populated with the built-in sink
// patterns covering code execution, command injection, SQL injection, XSS,
// file system access, and outbound network requests.
func NewSinksRegistry() *SinksRegistry {
	r := &SinksRegistry{patterns: newRegistry[SinkPattern]()}
	r.registerCodeExecutionSinks()
	r.registerCommandInjectionSinks()
	r.registerSqlInjectionSinks()
	r.registerXssSinks()
	r.registerFileSystemSinks()
	r.registerNetworkSinks()
	r.registerCryptoSensitiveSinks()
	return r
}

func (r *SinksRegistry) add(objectPath []string, prop PropertyMatcher, cat SinkCategory, argPositions []int, desc string) {
	r.patterns.register(SinkPattern{
		Pattern:      Pattern{ObjectPath: objectPath, Property: prop, Description: desc, Provenance: BuiltIn},
		Category:     cat,
		ArgPositions: argPositions,
	}, firstSymbolOrSelf(objectPath, desc))
}

// firstSymbolOrSelf indexes bare-call sinks (no object, e.g. eval) by their
// own name rather than an empty object path.
func firstSymbolOrSelf(objectPath []string, name string) string {
	if len(objectPath) > 0 {
		return objectPath[0]
	}
	return name
}

func (r *SinksRegistry) addBare(name string, cat SinkCategory, argPositions []int) {
	r.patterns.register(SinkPattern{
		Pattern:      Pattern{ObjectPath: []string{name}, Property: PropertyMatcher{Kind: None}, Description: name, Provenance: BuiltIn},
		Category:     cat,
		ArgPositions: argPositions,
	}, name)
}

func (r *SinksRegistry) registerCodeExecutionSinks() {
	r.addBare("eval", CodeExecution, []int{0})
	r.addBare("Function", CodeExecution, []int{0})
}

func (r *SinksRegistry) registerCommandInjectionSinks() {
	for _, fn := range []string{"exec", "spawn", "execFile", "execSync", "spawnSync", "execFileSync"} {
		r.add([]string{"child_process"}, PropertyMatcher{Kind: Exact, Name: fn}, CommandInjection, []int{0}, "child_process."+fn)
	}
}

func (r *SinksRegistry) registerSqlInjectionSinks() {
	for _, obj := range []string{"db", "connection", "pool", "sequelize", "prisma"} {
		method := "query"
		if obj == "sequelize" {
			method = "query"
		}
		r.add([]string{obj}, PropertyMatcher{Kind: Exact, Name: method}, SqlInjection, []int{0}, obj+".query")
	}
	r.add([]string{"db"}, PropertyMatcher{Kind: Exact, Name: "execute"}, SqlInjection, []int{0}, "db.execute")
	r.add([]string{"knex"}, PropertyMatcher{Kind: Exact, Name: "raw"}, SqlInjection, []int{0}, "knex.raw")
	r.add([]string{"prisma"}, PropertyMatcher{Kind: Exact, Name: "$queryRaw"}, SqlInjection, []int{0}, "prisma.$queryRaw")
}

func (r *SinksRegistry) registerXssSinks() {
	r.add([]string{"document"}, PropertyMatcher{Kind: Exact, Name: "write"}, XssSink, []int{0}, "document.write")
	r.add([]string{"document"}, PropertyMatcher{Kind: Exact, Name: "writeln"}, XssSink, []int{0}, "document.writeln")
	// innerHTML/outerHTML fire on assignment, not call; no args, matched
	// specially by the propagator against assignment targets.
	r.add([]string{}, PropertyMatcher{Kind: Exact, Name: "innerHTML"}, XssSink, nil, "*.innerHTML")
	r.add([]string{}, PropertyMatcher{Kind: Exact, Name: "outerHTML"}, XssSink, nil, "*.outerHTML")
}

func (r *SinksRegistry) registerFileSystemSinks() {
	for _, fn := range []string{"readFile", "writeFile", "unlink", "mkdir", "rename", "copyFile", "readFileSync", "writeFileSync", "unlinkSync", "mkdirSync", "renameSync", "copyFileSync"} {
		positions := []int{0}
		if fn == "rename" || fn == "copyFile" || fn == "renameSync" || fn == "copyFileSync" {
			positions = []int{0, 1}
		}
		r.add([]string{"fs"}, PropertyMatcher{Kind: Exact, Name: fn}, FileSystemSink, positions, "fs."+fn)
	}
}

func (r *SinksRegistry) registerNetworkSinks() {
	r.addBare("fetch", NetworkRequest, []int{1})
	for _, fn := range []string{"get", "post", "request"} {
		r.add([]string{"axios"}, PropertyMatcher{Kind: Exact, Name: fn}, NetworkRequest, []int{1}, "axios."+fn)
		r.add([]string{"http"}, PropertyMatcher{Kind: Exact, Name: fn}, NetworkRequest, []int{1}, "http."+fn)
	}
	r.add([]string{"XMLHttpRequest"}, PropertyMatcher{Kind: Exact, Name: "open"}, NetworkRequest, []int{1}, "XMLHttpRequest.open")
}

// registerCryptoSensitiveSinks covers argument positions where a tainted
// value would undermine a cryptographic operation: cipher key/iv, JWT
// signing secrets, and token/id generator seeds. Used by
// no-insecure-randomness (S011).
func (r *SinksRegistry) registerCryptoSensitiveSinks() {
	r.add([]string{"crypto"}, PropertyMatcher{Kind: Exact, Name: "createCipheriv"}, CryptoSensitive, []int{1, 2}, "crypto.createCipheriv")
	r.add([]string{"crypto"}, PropertyMatcher{Kind: Exact, Name: "createDecipheriv"}, CryptoSensitive, []int{1, 2}, "crypto.createDecipheriv")
	r.add([]string{"jwt"}, PropertyMatcher{Kind: Exact, Name: "sign"}, CryptoSensitive, []int{1}, "jwt.sign")
	for _, fn := range []string{"randomToken", "generateId", "generateToken", "randomId"} {
		r.addBare(fn, CryptoSensitive, []int{0})
	}
}

// RegisterPattern extends the registry from configuration.
func (r *SinksRegistry) RegisterPattern(p SinkPattern) {
	r.patterns.register(p, firstSymbolOrSelf(p.ObjectPath, p.Description))
}

// MatchCall matches a call's object chain + method name against registered
// sinks (for bare calls like eval, objectChain is nil and method is the
// call's own Name).
func (r *SinksRegistry) MatchCall(objectChain []string, method string) []SinkPattern {
	var key string
	chain, hasMethod := objectChain, true
	if len(objectChain) > 0 {
		key = objectChain[0]
	} else {
		// A bare call is looked up as a one-element chain with no
		// property, the shape addBare registers.
		key = method
		chain, hasMethod = []string{method}, false
	}
	var out []SinkPattern
	for _, p := range r.patterns.candidates(key) {
		if len(p.ObjectPath) == 0 {
			if p.Property.matches(method, true) {
				out = append(out, p)
			}
			continue
		}
		if p.matches(chain, method, hasMethod) {
			out = append(out, p)
		}
	}
	return out
}

// MatchProperty matches a property-assignment sink like innerHTML, where
// there is no call and no object path constraint.
func (r *SinksRegistry) MatchProperty(property string) []SinkPattern {
	var out []SinkPattern
	for _, p := range r.patterns.All() {
		if len(p.ArgPositions) == 0 && len(p.ObjectPath) == 0 && p.Property.matches(property, true) {
			out = append(out, p)
		}
	}
	return out
}

func (r *SinksRegistry) Patterns() []SinkPattern { return r.patterns.All() }
