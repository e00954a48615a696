package kg

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/ehr/spl/internal/platform/spl"
)

// Build projects a record into its connected subgraph: one organization,
// one label_version, and one entity per product, package, ingredient and
// section. Building the same record twice yields identical graphs.
func Build(rec *spl.Record) *Graph {
	g := New()
	if rec == nil {
		return g
	}
	b := builder{g: g, rec: rec, labelKey: rec.Label()}
	b.build()
	return g
}

type builder struct {
	g        *Graph
	rec      *spl.Record
	labelKey string
	labelID  string
	orgID    string
}

func (b *builder) build() {
	b.orgID = "organization:" + organizationKey(b.rec.Labeler)
	b.labelID = LabelVersionID(b.rec)

	b.g.AddEntity(Entity{
		EntityType: EntityOrganization,
		EntityID:   b.orgID,
		Properties: organizationProps(b.rec.Labeler),
	})
	b.g.AddEntity(Entity{
		EntityType: EntityLabelVersion,
		EntityID:   b.labelID,
		Properties: labelProps(b.rec),
	})
	b.g.AddEdge(Edge{EdgeType: EdgeLabeledBy, SourceID: b.labelID, TargetID: b.orgID})
	b.g.AddEdge(Edge{EdgeType: EdgeHasLabelVersion, SourceID: b.orgID, TargetID: b.labelID})

	for i := range b.rec.Products {
		b.product(i, &b.rec.Products[i])
	}
	for i := range b.rec.Sections {
		b.section(i, &b.rec.Sections[i])
	}
}

func (b *builder) product(index int, p *spl.Product) {
	key := b.labelKey + ":" + strconv.Itoa(index)
	if len(p.NDC.ProductNDCs) > 0 && !b.g.HasEntity("product:"+p.NDC.ProductNDCs[0]) {
		key = p.NDC.ProductNDCs[0]
	}
	id := "product:" + key

	b.g.AddEntity(Entity{EntityType: EntityProduct, EntityID: id, Properties: productProps(p)})
	b.g.AddEdge(Edge{EdgeType: EdgeHasProduct, SourceID: b.labelID, TargetID: id})

	for i := range p.Packages {
		b.pkg(id, key, strconv.Itoa(i), &p.Packages[i])
	}

	for i := range p.Ingredients {
		ing := &p.Ingredients[i]
		ingID := "ingredient:" + key + ":" + ingredientKey(ing, i)
		if b.g.HasEntity(ingID) {
			ingID = "ingredient:" + key + ":" + strconv.Itoa(i)
		}
		b.g.AddEntity(Entity{EntityType: EntityIngredient, EntityID: ingID, Properties: ingredientProps(ing)})
		b.g.AddEdge(Edge{
			EdgeType:   EdgeHasIngredient,
			SourceID:   id,
			TargetID:   ingID,
			Properties: map[string]any{"role": string(ing.Role)},
		})
	}
}

// pkg adds a package and its nested contents. path is the dotted position
// of the package inside the product's hierarchy.
func (b *builder) pkg(parentID, productKey, path string, p *spl.Package) {
	id := "package:" + productKey + ":" + path
	if p.PackageNDC != nil && !b.g.HasEntity("package:"+*p.PackageNDC) {
		id = "package:" + *p.PackageNDC
	}

	b.g.AddEntity(Entity{EntityType: EntityPackage, EntityID: id, Properties: packageProps(p)})
	b.g.AddEdge(Edge{EdgeType: EdgeHasPackage, SourceID: parentID, TargetID: id})

	for i := range p.Contents {
		b.pkg(id, productKey, path+"."+strconv.Itoa(i), &p.Contents[i])
	}
}

func (b *builder) section(index int, s *spl.Section) {
	code := "untitled"
	if s.Code != nil {
		code = *s.Code
	}
	id := "section:" + b.labelKey + ":" + strconv.Itoa(index) + ":" + code

	b.g.AddEntity(Entity{EntityType: EntitySection, EntityID: id, Properties: sectionProps(s)})
	b.g.AddEdge(Edge{
		EdgeType:   EdgeHasSection,
		SourceID:   b.labelID,
		TargetID:   id,
		Properties: map[string]any{"position": index},
	})
}

// organizationKey prefers a DUNS number, then any identifier extension,
// then a hash of the name.
func organizationKey(org spl.Organization) string {
	for _, id := range org.OrgIDs {
		if id.TypeHint != nil && *id.TypeHint == "DUNS" && id.Extension != nil {
			return *id.Extension
		}
	}
	for _, id := range org.OrgIDs {
		if id.Extension != nil {
			return *id.Extension
		}
	}
	if org.Name != nil {
		return "name-" + shortHash(strings.ToLower(*org.Name))
	}
	return "unknown"
}

// LabelVersionID returns the id of the label_version entity Build roots
// the record's subgraph at.
func LabelVersionID(rec *spl.Record) string {
	return "label_version:" + labelVersionKey(rec)
}

func labelVersionKey(rec *spl.Record) string {
	switch {
	case rec.SPL.SetID.Root != nil && rec.SPL.VersionNumber != nil:
		return *rec.SPL.SetID.Root + ":v" + strconv.Itoa(*rec.SPL.VersionNumber)
	case rec.SPL.SetID.Root != nil:
		return *rec.SPL.SetID.Root
	case rec.SPL.DocumentID.Root != nil:
		return *rec.SPL.DocumentID.Root
	default:
		return "unknown"
	}
}

func ingredientKey(ing *spl.Ingredient, index int) string {
	if ing.UNII != nil {
		return *ing.UNII
	}
	if ing.Name != nil {
		return "name-" + shortHash(strings.ToLower(*ing.Name))
	}
	return strconv.Itoa(index)
}

func shortHash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:6])
}
