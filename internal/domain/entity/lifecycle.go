package entity

// Lifecycle estado de vida de las entidades de configuración (producto, ubicación, receta).
// Un registro RETIRED no se borra: sigue referenciable desde movimientos e informes,
// pero no acepta nuevos movimientos.
type Lifecycle string

const (
	LifecycleActive  Lifecycle = "ACTIVE"
	LifecycleRetired Lifecycle = "RETIRED"
)

// IsActive indica si el registro acepta nuevas operaciones.
func (l Lifecycle) IsActive() bool { return l == LifecycleActive }
