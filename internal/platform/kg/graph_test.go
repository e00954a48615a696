package kg

import (
	"encoding/json"
	"testing"

	"github.com/ehr/spl/internal/platform/spl/spltest"
)

func TestGraph_Merge(t *testing.T) {
	combined := New()
	combined.Merge(Build(parse(t, spltest.PrescriptionXML)))
	first := len(combined.Entities)

	combined.Merge(Build(parse(t, spltest.PrescriptionXML)))
	if len(combined.Entities) != first {
		t.Errorf("expected merging the same graph to be a no-op, got %d entities", len(combined.Entities))
	}

	combined.Merge(Build(parse(t, spltest.NoProductXML)))
	if len(combined.Entities) != first+3 {
		t.Errorf("expected %d entities, got %d", first+3, len(combined.Entities))
	}
	combined.Merge(nil)
}

func TestGraph_AddEdgeDedupes(t *testing.T) {
	g := New()
	e := Edge{EdgeType: EdgeHasProduct, SourceID: "a", TargetID: "b"}
	if !g.AddEdge(e) {
		t.Error("expected first edge to be added")
	}
	if g.AddEdge(e) {
		t.Error("expected duplicate edge to be rejected")
	}
	if g.Edges[0].Properties == nil {
		t.Error("expected non-nil properties")
	}
}

func TestGraph_DecodedIndex(t *testing.T) {
	data, err := json.Marshal(Build(parse(t, spltest.PrescriptionXML)))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !g.HasEntity("product:12345-6789") {
		t.Error("expected index to be rebuilt after decoding")
	}
	if g.AddEntity(Entity{EntityType: EntityProduct, EntityID: "product:12345-6789"}) {
		t.Error("expected existing entity to be rejected")
	}
}
