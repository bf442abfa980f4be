// Package bytecode implements the instruction encoder/decoder and
// disassembler for the module image's function bodies (spec §4.2). The
// opcode-to-name/operand-shape mapping is treated as an opaque external
// collaborator by the module-image format itself (spec §1); this
// package supplies one concrete mapping so the codec and disassembler
// are testable end to end, the same way a VM's own opcode table would.
package bytecode

// Opcode is a 16-bit instruction code.
type Opcode uint16

// Shape identifies an instruction's operand layout.
type Shape uint8

// Instruction shapes, per spec §4.2.
const (
	ShapeNone        Shape = iota // op                    (2 bytes)
	ShapeI16                      // op, i16               (4 bytes)
	ShapeI16x3                    // op, i16, i16, i16      (8 bytes)
	ShapeI32                      // op, i32               (8 bytes, 2-byte pad)
	ShapeI16I32                   // op, i16, i32           (8 bytes)
	ShapeI32x2                    // op, i32, i32           (12 bytes, pad)
	ShapeI32x3                    // op, i32, i32, i32      (16 bytes, pad)
	ShapeI64                      // op, i64                (12 bytes, pad)
	ShapeF32                      // op, f32                (8 bytes, pad)
	ShapeF64                      // op, f64                (12 bytes, pad)
)

// Size returns the total encoded byte length of an instruction with
// this shape.
func (s Shape) Size() int {
	switch s {
	case ShapeNone:
		return 2
	case ShapeI16:
		return 4
	case ShapeI16x3:
		return 8
	case ShapeI32:
		return 8
	case ShapeI16I32:
		return 8
	case ShapeI32x2:
		return 12
	case ShapeI32x3:
		return 16
	case ShapeI64:
		return 12
	case ShapeF32:
		return 8
	case ShapeF64:
		return 12
	default:
		return 0
	}
}

// needsAlignment reports whether this shape's payload contains a
// 32-bit-or-wider field, and therefore must start on a 4-byte boundary
// (§4.2 alignment invariant).
func (s Shape) needsAlignment() bool {
	switch s {
	case ShapeNone, ShapeI16, ShapeI16x3:
		return false
	default:
		return true
	}
}

// hasStub reports whether this opcode carries a next_inst_offset stub
// field patched at block close (§4.2).
func (op Opcode) hasStub() bool {
	switch op {
	case OpBlockAlt, OpBlockNez, OpBreak, OpBreakAlt:
		return true
	default:
		return false
	}
}

// Info describes one opcode: its mnemonic, its shape, and (for
// disassembly) which operand-rendering family it belongs to.
type Info struct {
	Mnemonic string
	Shape    Shape
	Render   RenderKind
}

// RenderKind selects the disassembler's operand rendering convention
// for a family of opcodes (§4.2).
type RenderKind uint8

// Render kinds.
const (
	RenderNone        RenderKind = iota // no operands
	RenderImmediate16                   // plain decimal i16
	RenderImmediate32                   // 0x{:08x}
	RenderImmediate64                   // low:0x{:08x}  high:0x{:08x}
	RenderLocalLoad                     // layers:L  index:I
	RenderDataLoad                      // offset:0xH  index:I
	RenderBlock                         // type:T  local:L
	RenderBlockAlt                      // type:T  local:L  offset:0xH
	RenderBlockNez                      // local:L  offset:0xH
	RenderBreak                         // layers:L  offset:0xH (break, recur)
	RenderBreakAlt                      // offset:0xH
)

// A minimal but representative opcode table: enough to exercise every
// shape, every stub-carrying instruction, and every disassembler render
// family named in spec §4.2. A concrete VM's full opcode enumeration is
// out of this library's scope (spec §1); callers that decode a real
// program pass their own Table to Decode, Disassemble, or NewEncoder.
const (
	OpNop       Opcode = 0x0100
	OpEqzI32    Opcode = 0x0800
	OpImmI32    Opcode = 0x0101
	OpImmI64    Opcode = 0x0102
	OpImmF32    Opcode = 0x0103
	OpImmF64    Opcode = 0x0104
	OpAddImmI32 Opcode = 0x0402
	OpLocalLoad Opcode = 0x0600
	OpDataLoad  Opcode = 0x0700
	OpBlock     Opcode = 0x0900
	OpBlockAlt  Opcode = 0x0901
	OpBlockNez  Opcode = 0x0902
	OpBreak     Opcode = 0x0910
	OpBreakAlt  Opcode = 0x0911
	OpRecur     Opcode = 0x0920
	OpEnd       Opcode = 0x0930
	OpCall      Opcode = 0x0a00
)

// DefaultTable is the opcode table used by the package-level Encoder/
// Decoder helpers and by the seed test vectors.
var DefaultTable = Table{
	OpNop:       {Mnemonic: "nop", Shape: ShapeNone, Render: RenderNone},
	OpEqzI32:    {Mnemonic: "eqz_i32", Shape: ShapeNone, Render: RenderNone},
	OpImmI32:    {Mnemonic: "imm_i32", Shape: ShapeI32, Render: RenderImmediate32},
	OpImmI64:    {Mnemonic: "imm_i64", Shape: ShapeI64, Render: RenderImmediate64},
	OpImmF32:    {Mnemonic: "imm_f32", Shape: ShapeF32, Render: RenderImmediate32},
	OpImmF64:    {Mnemonic: "imm_f64", Shape: ShapeF64, Render: RenderImmediate64},
	OpAddImmI32: {Mnemonic: "add_imm_i32", Shape: ShapeI16, Render: RenderImmediate16},
	OpLocalLoad: {Mnemonic: "local_load_i32", Shape: ShapeI16x3, Render: RenderLocalLoad},
	OpDataLoad:  {Mnemonic: "data_load_i32", Shape: ShapeI16I32, Render: RenderDataLoad},
	OpBlock:     {Mnemonic: "block", Shape: ShapeI32x2, Render: RenderBlock},
	OpBlockAlt:  {Mnemonic: "block_alt", Shape: ShapeI32x3, Render: RenderBlockAlt},
	OpBlockNez:  {Mnemonic: "block_nez", Shape: ShapeI32x2, Render: RenderBlockNez},
	OpBreak:     {Mnemonic: "break", Shape: ShapeI16I32, Render: RenderBreak},
	OpBreakAlt:  {Mnemonic: "break_alt", Shape: ShapeI32, Render: RenderBreakAlt},
	OpRecur:     {Mnemonic: "recur", Shape: ShapeI16I32, Render: RenderBreak},
	OpEnd:       {Mnemonic: "end", Shape: ShapeNone, Render: RenderNone},
	OpCall:      {Mnemonic: "call", Shape: ShapeI32, Render: RenderImmediate32},
}

// Table maps opcodes to their Info. A zero Table looks up nothing;
// callers always use DefaultTable or a table they built themselves.
type Table map[Opcode]Info

// Lookup returns the Info for op and whether it is known.
func (t Table) Lookup(op Opcode) (Info, bool) {
	info, ok := t[op]
	return info, ok
}
