package enums

// ProductionState tracks a manufacturing order lifecycle.
type ProductionState string

const (
	ProductionStateDraft    ProductionState = "draft"
	ProductionStateProgress ProductionState = "progress"
	ProductionStateDone     ProductionState = "done"
	ProductionStateCancel   ProductionState = "cancel"
)

// String implements fmt.Stringer.
func (s ProductionState) String() string {
	return string(s)
}

// ProductionRole distinguishes the moves attached to a production order.
type ProductionRole string

const (
	// ProductionRoleRaw marks a consumed raw-material move.
	ProductionRoleRaw ProductionRole = "raw"
	// ProductionRoleFinished marks the finished-good move.
	ProductionRoleFinished ProductionRole = "finished"
	// ProductionRoleByproduct marks a byproduct output move.
	ProductionRoleByproduct ProductionRole = "byproduct"
)

// String implements fmt.Stringer.
func (r ProductionRole) String() string {
	return string(r)
}
