// Package kg projects normalized SPL records into knowledge-graph entities
// and edges.
package kg

// EntityType names the kind of a graph node.
type EntityType string

const (
	EntityOrganization EntityType = "organization"
	EntityLabelVersion EntityType = "label_version"
	EntityProduct      EntityType = "product"
	EntityPackage      EntityType = "package"
	EntityIngredient   EntityType = "ingredient"
	EntitySection      EntityType = "section"
)

// EdgeType names the relation between two entities.
type EdgeType string

const (
	EdgeHasLabelVersion EdgeType = "HAS_LABEL_VERSION"
	EdgeHasProduct      EdgeType = "HAS_PRODUCT"
	EdgeHasPackage      EdgeType = "HAS_PACKAGE"
	EdgeHasIngredient   EdgeType = "HAS_INGREDIENT"
	EdgeHasSection      EdgeType = "HAS_SECTION"
	EdgeLabeledBy       EdgeType = "LABELED_BY"
)

// Entity is a graph node. EntityID has the form "type:identifier" and is
// stable across builds of the same record.
type Entity struct {
	EntityType EntityType     `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Properties map[string]any `json:"properties"`
}

// Edge is a directed relation between two entity ids.
type Edge struct {
	EdgeType   EdgeType       `json:"edge_type"`
	SourceID   string         `json:"source_id"`
	TargetID   string         `json:"target_id"`
	Properties map[string]any `json:"properties"`
}

type edgeKey struct {
	typ            EdgeType
	source, target string
}

// Graph is an ordered set of entities and edges. Entities are unique by id
// and edges by (type, source, target); the first occurrence wins.
type Graph struct {
	Entities []Entity `json:"entities"`
	Edges    []Edge   `json:"edges"`

	entityIndex map[string]int
	edgeIndex   map[edgeKey]int
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		Entities:    []Entity{},
		Edges:       []Edge{},
		entityIndex: make(map[string]int),
		edgeIndex:   make(map[edgeKey]int),
	}
}

func (g *Graph) index() {
	if g.entityIndex != nil {
		return
	}
	g.entityIndex = make(map[string]int, len(g.Entities))
	g.edgeIndex = make(map[edgeKey]int, len(g.Edges))
	for i, e := range g.Entities {
		if _, ok := g.entityIndex[e.EntityID]; !ok {
			g.entityIndex[e.EntityID] = i
		}
	}
	for i, e := range g.Edges {
		k := edgeKey{e.EdgeType, e.SourceID, e.TargetID}
		if _, ok := g.edgeIndex[k]; !ok {
			g.edgeIndex[k] = i
		}
	}
}

// AddEntity adds e unless an entity with the same id exists. It reports
// whether e was added.
func (g *Graph) AddEntity(e Entity) bool {
	g.index()
	if _, ok := g.entityIndex[e.EntityID]; ok {
		return false
	}
	if e.Properties == nil {
		e.Properties = map[string]any{}
	}
	g.entityIndex[e.EntityID] = len(g.Entities)
	g.Entities = append(g.Entities, e)
	return true
}

// AddEdge adds e unless an identical relation exists.
func (g *Graph) AddEdge(e Edge) bool {
	g.index()
	k := edgeKey{e.EdgeType, e.SourceID, e.TargetID}
	if _, ok := g.edgeIndex[k]; ok {
		return false
	}
	if e.Properties == nil {
		e.Properties = map[string]any{}
	}
	g.edgeIndex[k] = len(g.Edges)
	g.Edges = append(g.Edges, e)
	return true
}

// HasEntity reports whether an entity with the given id exists.
func (g *Graph) HasEntity(id string) bool {
	g.index()
	_, ok := g.entityIndex[id]
	return ok
}

// Entity returns the entity with the given id.
func (g *Graph) Entity(id string) (Entity, bool) {
	g.index()
	i, ok := g.entityIndex[id]
	if !ok {
		return Entity{}, false
	}
	return g.Entities[i], true
}

// Merge appends the entities and edges of other that g does not already
// hold. Organizations shared by several labels collapse into one node.
func (g *Graph) Merge(other *Graph) {
	if other == nil {
		return
	}
	for _, e := range other.Entities {
		g.AddEntity(e)
	}
	for _, e := range other.Edges {
		g.AddEdge(e)
	}
}

// CountByType returns the number of entities of each type.
func (g *Graph) CountByType() map[EntityType]int {
	out := make(map[EntityType]int)
	for _, e := range g.Entities {
		out[e.EntityType]++
	}
	return out
}
