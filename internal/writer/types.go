// internal/writer/types.go
package writer

// endpointClient is the exact contract the writer uses.
type endpointClient interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}

// StatusPlan is where one driver's status block lives.
type StatusPlan struct {
	Endpoint string
	UnitID   uint8
	Address  uint16 // first holding register of the block
}
