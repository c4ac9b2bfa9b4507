package serverpackets

// OpcodeInventoryChangeFailure is the server opcode for SMSG_INVENTORY_CHANGE_FAILURE.
const OpcodeInventoryChangeFailure uint16 = 0x112

// InventoryChangeFailure reports an inventory error (e.g. bag full): error (uint8).
type InventoryChangeFailure struct {
	Error uint8
}

// Opcode returns OpcodeInventoryChangeFailure.
func (p *InventoryChangeFailure) Opcode() uint16 { return OpcodeInventoryChangeFailure }

// Write serializes the payload.
func (p *InventoryChangeFailure) Write() ([]byte, error) {
	return []byte{p.Error}, nil
}
