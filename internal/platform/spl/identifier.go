package spl

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Kind is the semantic kind of an identifier, resolved from its code system.
type Kind string

const (
	KindUnknown      Kind = "unknown"
	KindNDC          Kind = "NDC"
	KindNDCLabeler   Kind = "NDC_LABELER"
	KindUNII         Kind = "UNII"
	KindSetID        Kind = "SetID"
	KindANDA         Kind = "ANDA"
	KindNDA          Kind = "NDA"
	KindBLA          Kind = "BLA"
	KindApplication  Kind = "APPLICATION"
	KindDUNS         Kind = "DUNS"
	KindFEI          Kind = "FEI"
	KindOTCMonograph Kind = "OTC_MONOGRAPH"
	KindLOINC        Kind = "LOINC"
	KindNCI          Kind = "NCI"
)

// codeSystemKinds is read-only after package initialization.
var codeSystemKinds = map[string]Kind{
	OIDNDC:          KindNDC,
	OIDUNII:         KindUNII,
	OIDApplication:  KindApplication,
	OIDOTCMonograph: KindOTCMonograph,
	OIDDUNS:         KindDUNS,
	OIDFEI:          KindFEI,
	OIDLOINC:        KindLOINC,
	OIDNCIThesaurus: KindNCI,
}

// NDCLevel tells whether an NDC names a product or one of its packages.
type NDCLevel int

const (
	NDCInvalid NDCLevel = iota
	NDCProduct
	NDCPackage
)

// Identifier is a resolved code or instance identifier.
type Identifier struct {
	Kind       Kind
	CodeSystem string
	Value      string
	// NDCLevel is set for KindNDC only; NDCInvalid marks a malformed code
	// that callers must drop.
	NDCLevel NDCLevel
}

// Valid reports whether the identifier may be propagated into a record.
func (id Identifier) Valid() bool {
	if id.Value == "" {
		return false
	}
	if id.Kind == KindNDC {
		return id.NDCLevel != NDCInvalid
	}
	return true
}

// KindOf returns the kind registered for a code-system OID, or KindUnknown.
func KindOf(codeSystem string) Kind {
	if k, ok := codeSystemKinds[strings.TrimSpace(codeSystem)]; ok {
		return k
	}
	return KindUnknown
}

// Resolve classifies a coded value by its code system. It never fails:
// unknown systems resolve to KindUnknown, malformed NDCs to NDCInvalid.
func Resolve(codeSystem, value string) Identifier {
	value = strings.TrimSpace(value)
	id := Identifier{
		Kind:       KindOf(codeSystem),
		CodeSystem: strings.TrimSpace(codeSystem),
		Value:      value,
	}

	switch id.Kind {
	case KindNDC:
		ndc, level := ClassifyNDC(value)
		id.Value = ndc
		id.NDCLevel = level
	case KindApplication:
		id.Kind = ApplicationKind(value)
	case KindUNII:
		id.Value = strings.ToUpper(value)
	}
	return id
}

// ResolveInstance classifies an II (root/extension) identifier. A bare UUID
// root resolves to KindSetID. An NDC root on an organization id carries the
// labeler code, not a product code, and resolves to KindNDCLabeler.
func ResolveInstance(root, extension string) Identifier {
	root = strings.TrimSpace(root)
	extension = strings.TrimSpace(extension)

	if extension == "" {
		if _, err := uuid.Parse(root); err == nil {
			return Identifier{Kind: KindSetID, Value: strings.ToLower(root)}
		}
		return Identifier{Kind: KindUnknown, CodeSystem: root}
	}

	if KindOf(root) == KindNDC && labelerCodePattern.MatchString(extension) {
		return Identifier{Kind: KindNDCLabeler, CodeSystem: root, Value: extension}
	}
	return Resolve(root, extension)
}

// ApplicationKind sub-classifies an FDA application number by its prefix.
func ApplicationKind(value string) Kind {
	v := strings.ToUpper(strings.TrimSpace(value))
	switch {
	case strings.HasPrefix(v, "ANDA"):
		return KindANDA
	case strings.HasPrefix(v, "NDA"):
		return KindNDA
	case strings.HasPrefix(v, "BLA"):
		return KindBLA
	default:
		return KindApplication
	}
}

// IsApplication reports whether k is one of the application-number kinds.
func (k Kind) IsApplication() bool {
	switch k {
	case KindANDA, KindNDA, KindBLA, KindApplication:
		return true
	}
	return false
}

var (
	ndcSegmentPattern  = regexp.MustCompile(`^(\d+)-(\d+)(?:-(\d+))?$`)
	ndcDigitsPattern   = regexp.MustCompile(`^\d{11}$`)
	labelerCodePattern = regexp.MustCompile(`^\d{4,5}$`)
)

// Recognized hyphenation patterns, as segment lengths. Two-segment codes are
// labeler-product codes; three-segment codes name a package. The 10 and 11
// digit counts hold for package codes only: a labeler-product code has no
// package segment, so its 4-4 and 5-3 forms carry 8 digits and 5-4 carries 9.
var (
	productNDCShapes = [][2]int{{4, 4}, {5, 3}, {5, 4}}
	packageNDCShapes = [][3]int{{4, 4, 2}, {5, 3, 2}, {5, 4, 1}, {5, 4, 2}}
)

// ClassifyNDC validates an NDC candidate and returns it in canonical
// hyphenated form with its level. A bare 11-digit code is read as 5-4-2.
// Anything else is NDCInvalid.
func ClassifyNDC(candidate string) (string, NDCLevel) {
	s := strings.TrimSpace(candidate)
	if ndcDigitsPattern.MatchString(s) {
		return s[:5] + "-" + s[5:9] + "-" + s[9:], NDCPackage
	}

	m := ndcSegmentPattern.FindStringSubmatch(s)
	if m == nil {
		return "", NDCInvalid
	}

	if m[3] == "" {
		for _, shape := range productNDCShapes {
			if len(m[1]) == shape[0] && len(m[2]) == shape[1] {
				return s, NDCProduct
			}
		}
		return "", NDCInvalid
	}

	for _, shape := range packageNDCShapes {
		if len(m[1]) == shape[0] && len(m[2]) == shape[1] && len(m[3]) == shape[2] {
			return s, NDCPackage
		}
	}
	return "", NDCInvalid
}

// NDC11 converts a package NDC into the 11-digit 5-4-2 billing form by
// zero-padding the short segment.
func NDC11(ndc string) (string, bool) {
	s, level := ClassifyNDC(ndc)
	if level != NDCPackage {
		return "", false
	}
	parts := strings.Split(s, "-")
	return leftPad(parts[0], 5) + "-" + leftPad(parts[1], 4) + "-" + leftPad(parts[2], 2), true
}

// ProductNDCOf returns the labeler-product prefix of a package NDC.
func ProductNDCOf(packageNDC string) (string, bool) {
	s, level := ClassifyNDC(packageNDC)
	if level != NDCPackage {
		return "", false
	}
	return s[:strings.LastIndex(s, "-")], true
}

func leftPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
