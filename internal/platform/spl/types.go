package spl

import "encoding/xml"

// HL7 v3 namespaces and code-system OIDs used by FDA SPL documents.
const (
	HL7Namespace = "urn:hl7-org:v3"
	XSINamespace = "http://www.w3.org/2001/XMLSchema-instance"

	OIDLOINC          = "2.16.840.1.113883.6.1"
	OIDNDC            = "2.16.840.1.113883.6.69"
	OIDUNII           = "2.16.840.1.113883.4.9"
	OIDApplication    = "2.16.840.1.113883.3.150"
	OIDOTCMonograph   = "2.16.840.1.113883.3.9421"
	OIDDUNS           = "1.3.6.1.4.1.519.1"
	OIDFEI            = "2.16.840.1.113883.4.82"
	OIDNCIThesaurus   = "2.16.840.1.113883.3.26.1.1"
	OIDCharacteristic = "2.16.840.1.113883.1.11.19255"
)

// Characteristic codes (OIDCharacteristic) read from subjectOf/characteristic.
const (
	CharColor      = "SPLCOLOR"
	CharShape      = "SPLSHAPE"
	CharSize       = "SPLSIZE"
	CharImprint    = "SPLIMPRINT"
	CharFlavor     = "SPLFLAVOR"
	CharControlled = "SPLCONTROLLED"
)

// The types below bind the subset of the SPL schema the extractors read.
// Every child is optional; a missing element unmarshals to nil or an empty
// slice and the extractors treat both the same way.

type documentElement struct {
	XMLName       xml.Name               `xml:"urn:hl7-org:v3 document"`
	ID            *idElement             `xml:"id"`
	Code          *codeElement           `xml:"code"`
	Title         *markupElement         `xml:"title"`
	EffectiveTime *timeElement           `xml:"effectiveTime"`
	SetID         *idElement             `xml:"setId"`
	VersionNumber *valueElement          `xml:"versionNumber"`
	Authors       []authorElement        `xml:"author"`
	Components    []bodyComponentElement `xml:"component"`
}

type idElement struct {
	Root      string `xml:"root,attr"`
	Extension string `xml:"extension,attr"`
}

type codeElement struct {
	Code           string `xml:"code,attr"`
	CodeSystem     string `xml:"codeSystem,attr"`
	CodeSystemName string `xml:"codeSystemName,attr"`
	DisplayName    string `xml:"displayName,attr"`
	NullFlavor     string `xml:"nullFlavor,attr"`
}

type valueElement struct {
	Value string `xml:"value,attr"`
}

type timeElement struct {
	Value string        `xml:"value,attr"`
	Low   *valueElement `xml:"low"`
	High  *valueElement `xml:"high"`
}

// markupElement keeps the raw inner markup of mixed-content elements such as
// title, name and the section narrative.
type markupElement struct {
	Inner string `xml:",innerxml"`
}

type authorElement struct {
	AssignedEntity *assignedEntityElement `xml:"assignedEntity"`
}

type assignedEntityElement struct {
	RepresentedOrganization *organizationElement `xml:"representedOrganization"`
	AssignedOrganization    *organizationElement `xml:"assignedOrganization"`
}

type organizationElement struct {
	IDs              []idElement             `xml:"id"`
	Name             *markupElement          `xml:"name"`
	AssignedEntities []assignedEntityElement `xml:"assignedEntity"`
}

type bodyComponentElement struct {
	StructuredBody *structuredBodyElement `xml:"structuredBody"`
}

type structuredBodyElement struct {
	Components []sectionComponentElement `xml:"component"`
}

type sectionComponentElement struct {
	Section *sectionElement `xml:"section"`
}

type sectionElement struct {
	ID         *idElement                `xml:"id"`
	Code       *codeElement              `xml:"code"`
	Title      *markupElement            `xml:"title"`
	Text       *markupElement            `xml:"text"`
	Subjects   []subjectElement          `xml:"subject"`
	Components []sectionComponentElement `xml:"component"`
}

type subjectElement struct {
	ManufacturedProduct *productElement `xml:"manufacturedProduct"`
}

// productElement binds both levels of manufacturedProduct: the outer role
// (consumedIn, subjectOf) and the inner entity (code, name, ingredients,
// packaging). Older labels collapse both levels into one element.
type productElement struct {
	ManufacturedProduct *productElement           `xml:"manufacturedProduct"`
	SubjectOf           []productSubjectOfElement `xml:"subjectOf"`
	ConsumedIn          []consumedInElement       `xml:"consumedIn"`

	Code                *codeElement               `xml:"code"`
	Name                *markupElement             `xml:"name"`
	FormCode            *codeElement               `xml:"formCode"`
	AsEntityWithGeneric []entityWithGenericElement `xml:"asEntityWithGeneric"`
	Ingredients         []ingredientElement        `xml:"ingredient"`
	ActiveIngredients   []legacyIngredientElement  `xml:"activeIngredient"`
	InactiveIngredients []legacyIngredientElement  `xml:"inactiveIngredient"`
	AsContent           []contentElement           `xml:"asContent"`
	Parts               []partElement              `xml:"part"`
}

type entityWithGenericElement struct {
	GenericMedicine *genericMedicineElement `xml:"genericMedicine"`
}

type genericMedicineElement struct {
	Name *markupElement `xml:"name"`
}

type partElement struct {
	Quantity    *ratioElement   `xml:"quantity"`
	PartProduct *productElement `xml:"partProduct"`
}

type ingredientElement struct {
	ClassCode           string            `xml:"classCode,attr"`
	Quantity            *ratioElement     `xml:"quantity"`
	IngredientSubstance *substanceElement `xml:"ingredientSubstance"`
}

// legacyIngredientElement binds the pre-2009 activeIngredient and
// inactiveIngredient forms.
type legacyIngredientElement struct {
	ClassCode                   string            `xml:"classCode,attr"`
	Quantity                    *ratioElement     `xml:"quantity"`
	ActiveIngredientSubstance   *substanceElement `xml:"activeIngredientSubstance"`
	InactiveIngredientSubstance *substanceElement `xml:"inactiveIngredientSubstance"`
}

type substanceElement struct {
	Code         *codeElement          `xml:"code"`
	Name         *markupElement        `xml:"name"`
	ActiveMoiety []activeMoietyElement `xml:"activeMoiety"`
}

type activeMoietyElement struct {
	ActiveMoiety *substanceElement `xml:"activeMoiety"`
}

type ratioElement struct {
	Numerator   *quantityElement `xml:"numerator"`
	Denominator *quantityElement `xml:"denominator"`
}

type quantityElement struct {
	Value string `xml:"value,attr"`
	Unit  string `xml:"unit,attr"`
}

type contentElement struct {
	Quantity                 *ratioElement             `xml:"quantity"`
	ContainerPackagedProduct *packagedProductElement   `xml:"containerPackagedProduct"`
	SubjectOf                []contentSubjectOfElement `xml:"subjectOf"`
}

type packagedProductElement struct {
	Code      *codeElement     `xml:"code"`
	FormCode  *codeElement     `xml:"formCode"`
	AsContent []contentElement `xml:"asContent"`
}

type contentSubjectOfElement struct {
	MarketingAct *marketingActElement `xml:"marketingAct"`
}

type marketingActElement struct {
	Code          *codeElement `xml:"code"`
	StatusCode    *codeElement `xml:"statusCode"`
	EffectiveTime *timeElement `xml:"effectiveTime"`
}

type productSubjectOfElement struct {
	Approval       *approvalElement       `xml:"approval"`
	MarketingAct   *marketingActElement   `xml:"marketingAct"`
	Characteristic *characteristicElement `xml:"characteristic"`
	Policy         *policyElement         `xml:"policy"`
}

type approvalElement struct {
	IDs    []idElement    `xml:"id"`
	Code   *codeElement   `xml:"code"`
	Holder *holderElement `xml:"holder"`
}

type holderElement struct {
	Role *holderRoleElement `xml:"role"`
}

type holderRoleElement struct {
	PlayingOrganization *organizationElement `xml:"playingOrganization"`
}

type policyElement struct {
	ClassCode string       `xml:"classCode,attr"`
	Code      *codeElement `xml:"code"`
}

type characteristicElement struct {
	Code  *codeElement                `xml:"code"`
	Value *characteristicValueElement `xml:"value"`
}

// characteristicValueElement covers the CE, PQ, ST and INT value forms.
type characteristicValueElement struct {
	Type        string `xml:"http://www.w3.org/2001/XMLSchema-instance type,attr"`
	Code        string `xml:"code,attr"`
	CodeSystem  string `xml:"codeSystem,attr"`
	DisplayName string `xml:"displayName,attr"`
	Value       string `xml:"value,attr"`
	Unit        string `xml:"unit,attr"`
	Text        string `xml:",chardata"`
}

type consumedInElement struct {
	SubstanceAdministration *substanceAdministrationElement `xml:"substanceAdministration"`
}

type substanceAdministrationElement struct {
	RouteCode *codeElement `xml:"routeCode"`
}
