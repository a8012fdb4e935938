package cadastre

import "github.com/terralink/cadastre/id"

// ID is the primary identifier type for all cadastre entities.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix
