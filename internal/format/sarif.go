package format

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/minio/highwayhash"

	"github.com/grayline/vetjs/internal/diagnostic"
)

const sarifSchema = "https://json.schemastore.org/sarif-2.1.0.json"
const sarifVersion = "2.1.0"

// fingerprintKey is the fixed 32-byte highwayhash key used to compute a
// stable fingerprint for every finding.
var fingerprintKey = []byte("0123456789ABCDEF0123456789ABCDEF")

// generateFingerprint computes SARIF's partialFingerprints value: a pure
// function of (rule id, file, line) so the same finding gets the same
// fingerprint across runs regardless of diagnostic ordering.
func generateFingerprint(ruleID, file string, line int) (string, error) {
	h, err := highwayhash.New64(fingerprintKey)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(h, "%s:%s:%d", ruleID, file, line)
	sum := h.Sum64()
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, sum)
	return hex.EncodeToString(buf), nil
}

func securitySeverity(s diagnostic.Severity) string {
	switch s {
	case diagnostic.Error:
		return "8.0"
	case diagnostic.Warning:
		return "6.0"
	case diagnostic.Info:
		return "3.0"
	default:
		return "1.0"
	}
}

func sarifLevel(s diagnostic.Severity) string {
	switch s {
	case diagnostic.Error:
		return "error"
	case diagnostic.Warning:
		return "warning"
	default:
		return "note"
	}
}

type sarifLog struct {
	Schema  string      `json:"$schema"`
	Version string      `json:"version"`
	Runs    []sarifRun  `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name            string      `json:"name"`
	Version         string      `json:"version,omitempty"`
	InformationURI  string      `json:"informationUri,omitempty"`
	Rules           []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID         string               `json:"id"`
	Name       string               `json:"name,omitempty"`
	Properties *sarifRuleProperties `json:"properties,omitempty"`
}

type sarifRuleProperties struct {
	Tags             []string `json:"tags,omitempty"`
	SecuritySeverity string   `json:"security-severity,omitempty"`
}

type sarifResult struct {
	RuleID              string                 `json:"ruleId"`
	Level               string                 `json:"level"`
	Message             sarifMessage           `json:"message"`
	Locations           []sarifLocation        `json:"locations"`
	PartialFingerprints map[string]string      `json:"partialFingerprints,omitempty"`
	Fixes               []sarifFix             `json:"fixes,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn,omitempty"`
	EndLine     int `json:"endLine,omitempty"`
	EndColumn   int `json:"endColumn,omitempty"`
}

type sarifFix struct {
	Description      sarifMessage              `json:"description"`
	ArtifactChanges  []sarifArtifactChange     `json:"artifactChanges"`
}

type sarifArtifactChange struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Replacements     []sarifReplacement    `json:"replacements"`
}

type sarifReplacement struct {
	DeletedRegion    sarifRegion        `json:"deletedRegion"`
	InsertedContent  sarifInsertedText  `json:"insertedContent"`
}

type sarifInsertedText struct {
	Text string `json:"text"`
}

// ruleTags returns the SARIF tags for one rule: its category
// (quality/security) plus, for a handful of well-known security rules, an
// `external/cwe/cwe-N` CWE reference.
func ruleTags(ruleID string) []string {
	tags := []string{"quality"}
	if isSecurityRule(ruleID) {
		tags = []string{"security"}
		if cwe, ok := cweByRuleID[ruleID]; ok {
			tags = append(tags, fmt.Sprintf("external/cwe/cwe-%d", cwe))
		}
	}
	return tags
}

// cweByRuleID maps the security catalogue's stable ids to the CWE their
// finding corresponds to.
var cweByRuleID = map[string]int{
	"S001": 95,  // code execution (eval/Function)
	"S002": 78,  // OS command injection
	"S003": 89,  // SQL injection
	"S004": 79,  // cross-site scripting
	"S005": 22,  // improper path/file access
	"S006": 22,  // path traversal
	"S007": 918, // server-side request forgery
	"S010": 798, // hardcoded credentials
	"S011": 330, // insufficiently random values
	"S020": 95,  // code execution
	"S022": 502, // unsafe deserialization
}

// RenderSARIF renders the run as a SARIF 2.1.0 log with one run, a rules
// catalogue built from the distinct rule ids seen, and one result per
// diagnostic.
func RenderSARIF(result Result) (string, error) {
	driver := sarifDriver{Name: result.ToolName, Version: result.ToolVersion, InformationURI: ""}

	seenRules := map[string]bool{}
	var results []sarifResult
	for _, d := range result.Diagnostics {
		if !seenRules[d.RuleID] {
			seenRules[d.RuleID] = true
			props := &sarifRuleProperties{Tags: ruleTags(d.RuleID)}
			if isSecurityRule(d.RuleID) {
				props.SecuritySeverity = securitySeverity(d.Severity)
			}
			driver.Rules = append(driver.Rules, sarifRule{ID: d.RuleID, Properties: props})
		}
		fp, err := generateFingerprint(d.RuleID, d.File, d.StartLine)
		if err != nil {
			return "", err
		}
		sr := sarifResult{
			RuleID: d.RuleID,
			Level:  sarifLevel(d.Severity),
			Message: sarifMessage{Text: d.Message},
			Locations: []sarifLocation{{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{URI: d.File},
					Region: sarifRegion{
						StartLine: d.StartLine, StartColumn: d.StartCol + 1,
						EndLine: d.EndLine, EndColumn: d.EndCol + 1,
					},
				},
			}},
			PartialFingerprints: map[string]string{"primaryLocationLineHash": fp},
		}
		for _, fx := range d.Fixes {
			sr.Fixes = append(sr.Fixes, toSARIFFix(d, fx))
		}
		results = append(results, sr)
	}
	if results == nil {
		results = []sarifResult{}
	}

	log := sarifLog{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs:    []sarifRun{{Tool: sarifTool{Driver: driver}, Results: results}},
	}
	b, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// toSARIFFix maps a diagnostic.Fix onto SARIF's artifactChanges shape.
// ReplaceWith becomes a deletedRegion spanning the diagnostic's start to
// the fix's recorded end, with insertedContent holding the replacement
// text. InsertBefore becomes a zero-width deletedRegion at the
// diagnostic's start, with insertedContent holding the text to splice in.
func toSARIFFix(d diagnostic.Diagnostic, fx diagnostic.Fix) sarifFix {
	region := sarifRegion{StartLine: d.StartLine, StartColumn: d.StartCol + 1}
	switch fx.Kind {
	case diagnostic.ReplaceWith:
		region.EndLine = fx.EndLine
		region.EndColumn = fx.EndColumn + 1
	case diagnostic.InsertBefore:
		region.EndLine = d.StartLine
		region.EndColumn = d.StartCol + 1
	}
	return sarifFix{
		Description: sarifMessage{Text: fx.Title},
		ArtifactChanges: []sarifArtifactChange{{
			ArtifactLocation: sarifArtifactLocation{URI: d.File},
			Replacements: []sarifReplacement{{
				DeletedRegion:   region,
				InsertedContent: sarifInsertedText{Text: fx.Text},
			}},
		}},
	}
}
