package spl

// ParserVersion is stamped into every record's source block.
const ParserVersion = "1.0.0"

// DocumentType is the SPL document family.
type DocumentType string

const (
	DocumentPrescription DocumentType = "prescription"
	DocumentOTC          DocumentType = "otc"
	DocumentHomeopathic  DocumentType = "homeopathic"
	DocumentOther        DocumentType = "other"
	DocumentUnknown      DocumentType = "unknown"
)

// Role is an ingredient's role within a product.
type Role string

const (
	RoleActive   Role = "active"
	RoleInactive Role = "inactive"
	RoleOther    Role = "other"
)

// RxOTCFlag marks a product as prescription or over-the-counter.
type RxOTCFlag string

const (
	FlagRX      RxOTCFlag = "RX"
	FlagOTC     RxOTCFlag = "OTC"
	FlagUnknown RxOTCFlag = "UNKNOWN"
)

// Record is the normalized form of one SPL document. It is built once by
// Parser.Parse and not modified afterwards.
type Record struct {
	Source   Source       `json:"source"`
	SPL      SPLMetadata  `json:"spl"`
	Labeler  Organization `json:"labeler"`
	Products []Product    `json:"products"`
	Sections []Section    `json:"sections"`
	Derived  Derived      `json:"derived"`
}

// Source describes where and when a record was produced.
type Source struct {
	Dataset       string `json:"dataset"`
	Format        string `json:"format"`
	InputFilename string `json:"input_filename"`
	ParsedAt      string `json:"parsed_at"`
	ParserVersion string `json:"parser_version"`
}

// SPLMetadata holds the document-level header facts.
type SPLMetadata struct {
	DocumentID    DocumentID   `json:"document_id"`
	SetID         SetID        `json:"set_id"`
	VersionNumber *int         `json:"version_number"`
	EffectiveTime *string      `json:"effective_time"`
	Title         *string      `json:"title"`
	DocumentType  DocumentType `json:"document_type"`
}

// DocumentID identifies one version of a label.
type DocumentID struct {
	Root      *string `json:"root"`
	Extension *string `json:"extension"`
}

// SetID identifies a label across all of its versions.
type SetID struct {
	Root *string `json:"root"`
}

// Organization is a labeler or manufacturer. It is never nil in a record;
// a missing organization has a nil Name and no ids.
type Organization struct {
	Name   *string `json:"name"`
	OrgIDs []OrgID `json:"org_ids"`
}

// OrgID is one organization identifier. TypeHint is the resolved identifier
// kind (DUNS, FEI, NDC_LABELER, ...) or nil when the root is not recognized.
type OrgID struct {
	Root      *string `json:"root"`
	Extension *string `json:"extension"`
	TypeHint  *string `json:"type_hint"`
}

// Product is one manufactured product declared by the label.
type Product struct {
	ProductName             *string                 `json:"product_name"`
	GenericName             *string                 `json:"generic_name"`
	Routes                  []string                `json:"routes"`
	DosageForms             []string                `json:"dosage_forms"`
	NDC                     NDCInfo                 `json:"ndc"`
	Regulatory              Regulatory              `json:"regulatory"`
	Ingredients             []Ingredient            `json:"ingredients"`
	Packages                []Package               `json:"packages"`
	PhysicalCharacteristics PhysicalCharacteristics `json:"physical_characteristics"`
	Manufacturer            *Organization           `json:"manufacturer,omitempty"`
}

// NDCInfo buckets a product's NDCs by level. Both lists only ever hold
// well-formed codes.
type NDCInfo struct {
	ProductNDCs []string `json:"product_ndcs"`
	PackageNDCs []string `json:"package_ndcs"`
}

// Regulatory carries marketing and scheduling facts for a product.
type Regulatory struct {
	RxOTCFlag         RxOTCFlag `json:"rx_otc_flag"`
	ApplicationNumber *string   `json:"application_number"`
	OTCMonographID    *string   `json:"otc_monograph_id"`
	MarketingCategory *string   `json:"marketing_category"`
	DEASchedule       *string   `json:"dea_schedule"`
}

// Ingredient is one substance of a product.
type Ingredient struct {
	Name        *string         `json:"name"`
	Role        Role            `json:"role"`
	UNII        *string         `json:"unii"`
	Strength    Strength        `json:"strength"`
	Homeopathic HomeopathicInfo `json:"homeopathic"`
}

// Strength is the ingredient quantity ratio. Each side is independently
// optional.
type Strength struct {
	NumeratorValue   *float64 `json:"numerator_value"`
	NumeratorUnit    *string  `json:"numerator_unit"`
	DenominatorValue *float64 `json:"denominator_value"`
	DenominatorUnit  *string  `json:"denominator_unit"`
}

// HomeopathicInfo is only populated from explicit potency units and moiety
// names.
type HomeopathicInfo struct {
	Potency        *string `json:"potency"`
	SourceMaterial *string `json:"source_material"`
}

// Package is one level of a product's packaging hierarchy. Contents holds
// the packages nested inside it, in document order.
type Package struct {
	PackageNDC         *string         `json:"package_ndc"`
	Description        *string         `json:"description"`
	Quantity           PackageQuantity `json:"quantity"`
	MarketingStartDate *string         `json:"marketing_start_date"`
	MarketingStatus    *string         `json:"marketing_status"`
	Contents           []Package       `json:"contents"`
}

// PackageQuantity is the amount of the inner item held by a package.
type PackageQuantity struct {
	Value *float64 `json:"value"`
	Unit  *string  `json:"unit"`
}

// PhysicalCharacteristics holds the SPL characteristic values of a product.
type PhysicalCharacteristics struct {
	Color   *string `json:"color"`
	Shape   *string `json:"shape"`
	Size    *string `json:"size"`
	Imprint *string `json:"imprint"`
	Flavor  *string `json:"flavor"`
}

// Section is one LOINC-coded label section. Nested sections appear as their
// own entries after their parent.
type Section struct {
	CodeSystem *string `json:"code_system"`
	Code       *string `json:"code"`
	Display    *string `json:"display"`
	Title      *string `json:"title"`
	TextXHTML  *string `json:"text_xhtml"`
	TextPlain  *string `json:"text_plain"`
}

// Derived holds fields computed from the extracted record.
type Derived struct {
	MergeKeys            MergeKeys            `json:"merge_keys"`
	SectionPresenceFlags SectionPresenceFlags `json:"section_presence_flags"`
}

// MergeKeys are "kind:value" keys used to merge records into a knowledge
// base.
type MergeKeys struct {
	Primary   []string `json:"primary"`
	Secondary []string `json:"secondary"`
}

// SectionPresenceFlags reports which clinical concerns the label covers.
type SectionPresenceFlags struct {
	BoxedWarning            bool `json:"boxed_warning"`
	IndicationsAndUsage     bool `json:"indications_and_usage"`
	Contraindications       bool `json:"contraindications"`
	WarningsAndPrecautions  bool `json:"warnings_and_precautions"`
	StorageAndHandling      bool `json:"storage_and_handling"`
	DosageAndAdministration bool `json:"dosage_and_administration"`
	AdverseReactions        bool `json:"adverse_reactions"`
	DrugInteractions        bool `json:"drug_interactions"`
}

// Label returns the key used to group a record: the set id root, else the
// document id root, else "unknown".
func (r *Record) Label() string {
	if r.SPL.SetID.Root != nil {
		return *r.SPL.SetID.Root
	}
	if r.SPL.DocumentID.Root != nil {
		return *r.SPL.DocumentID.Root
	}
	return "unknown"
}
