package bytecode

import "errors"

// ErrUnknownOpcode is returned by Decode when it meets a 16-bit opcode
// absent from the supplied Table. Bytecode decoding is the one
// unconditionally fatal decode path in this format (spec §7): there is
// no lossy skip of an unrecognised instruction.
var ErrUnknownOpcode = errors.New("bytecode: unknown opcode")
