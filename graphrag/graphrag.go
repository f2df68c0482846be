// Package graphrag implements the GraphRAG subsystem of spec §4.8: entity
// extraction, entity resolution, label-propagation community detection,
// and community summarization.
package graphrag

// EntityType is one of the fixed allowed entity categories (spec §4.8).
type EntityType string

const (
	EntityModule       EntityType = "Module"
	EntityClass        EntityType = "Class"
	EntityFunction     EntityType = "Function"
	EntityVariable     EntityType = "Variable"
	EntityConcept      EntityType = "Concept"
	EntityPerson       EntityType = "Person"
	EntityOrganization EntityType = "Organization"
	EntityOther        EntityType = "Other"
)

var validEntityTypes = map[EntityType]bool{
	EntityModule: true, EntityClass: true, EntityFunction: true, EntityVariable: true,
	EntityConcept: true, EntityPerson: true, EntityOrganization: true, EntityOther: true,
}

// RelationshipType is one of the fixed allowed relationship categories
// (spec §4.8).
type RelationshipType string

const (
	RelCalls      RelationshipType = "CALLS"
	RelUses       RelationshipType = "USES"
	RelExtends    RelationshipType = "EXTENDS"
	RelImplements RelationshipType = "IMPLEMENTS"
	RelContains   RelationshipType = "CONTAINS"
	RelDependsOn  RelationshipType = "DEPENDS_ON"
	RelRelatedTo  RelationshipType = "RELATED_TO"
	RelCreatedBy  RelationshipType = "CREATED_BY"
)

var validRelationshipTypes = map[RelationshipType]bool{
	RelCalls: true, RelUses: true, RelExtends: true, RelImplements: true,
	RelContains: true, RelDependsOn: true, RelRelatedTo: true, RelCreatedBy: true,
}

// Entity is one extracted node (spec §3).
type Entity struct {
	Name        string
	Type        EntityType
	Description string
}

// Relationship is one extracted edge between two entity names (spec §3).
type Relationship struct {
	Source      string
	Target      string
	Type        RelationshipType
	Description string
}

// Extraction is the parsed result of one extraction call.
type Extraction struct {
	Entities      []Entity
	Relationships []Relationship
}
