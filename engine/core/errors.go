package core

import "github.com/rotisserie/eris"

// Error taxonomy. Every failure is returned at the point of misuse, wrapped
// with context; test with eris.Is.
var (
	// ErrDuplicateComponent: a component type name is already registered
	ErrDuplicateComponent = eris.New("duplicate component type")
	// ErrUnknownComponent: a type name or handle does not resolve
	ErrUnknownComponent = eris.New("unknown component type")
	// ErrComponentNotPresent: the entity does not hold the component
	ErrComponentNotPresent = eris.New("component not present on entity")
	// ErrInvalidStateShape: partial state names a field outside the schema
	ErrInvalidStateShape = eris.New("state does not match component schema")
	// ErrFatalMisuse marks programmer errors that should halt the process
	ErrFatalMisuse = eris.New("fatal misuse")
	// ErrUnknownEntity: the id was never issued or has been removed
	ErrUnknownEntity = eris.New("unknown entity")
	// ErrTableBusy: structural removal from a table while it is iterated
	ErrTableBusy = eris.New("component table is being iterated")
	// ErrReentrantPass: Tick or BeforeRender called from inside a pass
	ErrReentrantPass = eris.New("re-entrant update pass")
)
