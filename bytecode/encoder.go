package bytecode

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// openBlock records a block's start address, for recur targets, and
// where its pending stub lives in the output buffer, so Encoder.End can
// patch it once the block's end is known.
type openBlock struct {
	startAddr uint32 // absolute byte offset of the block's own opcode
	stubAddr  uint32 // absolute byte offset of the stub field, or noStub if none
}

// Encoder assembles one function's bytecode, inserting alignment nops
// and tracking open blocks for stub backpatching (§4.2).
type Encoder struct {
	table   Table
	buf     bytes.Buffer
	stack   []openBlock
	pending []pendingBreak
}

// NewEncoder returns an Encoder using table to validate/size opcodes.
func NewEncoder(table Table) *Encoder {
	return &Encoder{table: table}
}

// Len returns the number of bytes emitted so far.
func (e *Encoder) Len() uint32 {
	return uint32(e.buf.Len())
}

// align emits a 2-byte nop if the current offset isn't 4-aligned.
func (e *Encoder) align() {
	if e.buf.Len()%4 != 0 {
		binary.Write(&e.buf, binary.LittleEndian, uint16(OpNop))
	}
}

func (e *Encoder) emitHeader(op Opcode, shape Shape) {
	if shape.needsAlignment() {
		e.align()
	}
	binary.Write(&e.buf, binary.LittleEndian, uint16(op))
}

// Emit writes an instruction with no operands (ShapeNone).
func (e *Encoder) Emit(op Opcode) error {
	info, ok := e.table.Lookup(op)
	if !ok {
		return fmt.Errorf("bytecode: unknown opcode %#04x", uint16(op))
	}
	if info.Shape != ShapeNone {
		return fmt.Errorf("bytecode: opcode %s requires operands", info.Mnemonic)
	}
	e.emitHeader(op, ShapeNone)
	return nil
}

// EmitI16 writes an op,i16 or op,i16,i16,i16 instruction. Pass one
// value for ShapeI16, three for ShapeI16x3.
func (e *Encoder) EmitI16(op Opcode, values ...uint16) error {
	info, ok := e.table.Lookup(op)
	if !ok {
		return fmt.Errorf("bytecode: unknown opcode %#04x", uint16(op))
	}
	switch info.Shape {
	case ShapeI16:
		if len(values) != 1 {
			return fmt.Errorf("bytecode: %s needs 1 i16 operand, got %d", info.Mnemonic, len(values))
		}
	case ShapeI16x3:
		if len(values) != 3 {
			return fmt.Errorf("bytecode: %s needs 3 i16 operands, got %d", info.Mnemonic, len(values))
		}
	default:
		return fmt.Errorf("bytecode: opcode %s is not an i16-shaped instruction", info.Mnemonic)
	}
	e.emitHeader(op, info.Shape)
	for _, v := range values {
		binary.Write(&e.buf, binary.LittleEndian, v)
	}
	return nil
}

// EmitI32 writes an op,i32 instruction, such as imm_i32 or a non-stub
// branch-free jump target.
func (e *Encoder) EmitI32(op Opcode, value uint32) error {
	info, ok := e.table.Lookup(op)
	if !ok {
		return fmt.Errorf("bytecode: unknown opcode %#04x", uint16(op))
	}
	if info.Shape != ShapeI32 {
		return fmt.Errorf("bytecode: opcode %s is not an op,i32 instruction", info.Mnemonic)
	}
	e.emitHeader(op, ShapeI32)
	binary.Write(&e.buf, binary.LittleEndian, uint16(0)) // 2-byte pad
	binary.Write(&e.buf, binary.LittleEndian, value)
	return nil
}

// EmitI16I32 writes an op,i16,i32 instruction.
func (e *Encoder) EmitI16I32(op Opcode, i16 uint16, i32 uint32) error {
	info, ok := e.table.Lookup(op)
	if !ok {
		return fmt.Errorf("bytecode: unknown opcode %#04x", uint16(op))
	}
	if info.Shape != ShapeI16I32 {
		return fmt.Errorf("bytecode: opcode %s is not an op,i16,i32 instruction", info.Mnemonic)
	}
	e.emitHeader(op, ShapeI16I32)
	binary.Write(&e.buf, binary.LittleEndian, i16)
	binary.Write(&e.buf, binary.LittleEndian, i32)
	return nil
}

// EmitI32x2 writes an op,i32,i32 instruction with no stub bookkeeping.
func (e *Encoder) EmitI32x2(op Opcode, a, b uint32) error {
	info, ok := e.table.Lookup(op)
	if !ok {
		return fmt.Errorf("bytecode: unknown opcode %#04x", uint16(op))
	}
	if info.Shape != ShapeI32x2 {
		return fmt.Errorf("bytecode: opcode %s is not an op,i32,i32 instruction", info.Mnemonic)
	}
	e.emitHeader(op, ShapeI32x2)
	binary.Write(&e.buf, binary.LittleEndian, uint16(0))
	binary.Write(&e.buf, binary.LittleEndian, a)
	binary.Write(&e.buf, binary.LittleEndian, b)
	return nil
}

// EmitI32x3 writes an op,i32,i32,i32 instruction.
func (e *Encoder) EmitI32x3(op Opcode, a, b, c uint32) error {
	info, ok := e.table.Lookup(op)
	if !ok {
		return fmt.Errorf("bytecode: unknown opcode %#04x", uint16(op))
	}
	if info.Shape != ShapeI32x3 {
		return fmt.Errorf("bytecode: opcode %s is not an op,i32,i32,i32 instruction", info.Mnemonic)
	}
	e.emitHeader(op, ShapeI32x3)
	binary.Write(&e.buf, binary.LittleEndian, uint16(0))
	binary.Write(&e.buf, binary.LittleEndian, a)
	binary.Write(&e.buf, binary.LittleEndian, b)
	binary.Write(&e.buf, binary.LittleEndian, c)
	return nil
}

// EmitI64 writes the op,i64 pseudo-instruction.
func (e *Encoder) EmitI64(op Opcode, value uint64) error {
	info, ok := e.table.Lookup(op)
	if !ok || info.Shape != ShapeI64 {
		return fmt.Errorf("bytecode: opcode %#04x is not an op,i64 instruction", uint16(op))
	}
	e.emitHeader(op, ShapeI64)
	binary.Write(&e.buf, binary.LittleEndian, uint16(0))
	binary.Write(&e.buf, binary.LittleEndian, value)
	return nil
}

// EmitF32 writes the op,f32 pseudo-instruction.
func (e *Encoder) EmitF32(op Opcode, value float32) error {
	info, ok := e.table.Lookup(op)
	if !ok || info.Shape != ShapeF32 {
		return fmt.Errorf("bytecode: opcode %#04x is not an op,f32 instruction", uint16(op))
	}
	e.emitHeader(op, ShapeF32)
	binary.Write(&e.buf, binary.LittleEndian, uint16(0))
	binary.Write(&e.buf, binary.LittleEndian, math.Float32bits(value))
	return nil
}

// EmitF64 writes the op,f64 pseudo-instruction.
func (e *Encoder) EmitF64(op Opcode, value float64) error {
	info, ok := e.table.Lookup(op)
	if !ok || info.Shape != ShapeF64 {
		return fmt.Errorf("bytecode: opcode %#04x is not an op,f64 instruction", uint16(op))
	}
	e.emitHeader(op, ShapeF64)
	binary.Write(&e.buf, binary.LittleEndian, uint16(0))
	binary.Write(&e.buf, binary.LittleEndian, math.Float64bits(value))
	return nil
}

// noStub marks an openBlock as having no patchable field (plain
// "block", whose two i32s are type-index and local-variable-list-index
// immediates, not a branch target).
const noStub = ^uint32(0)

// BeginBlock opens a block, block_alt, or block_nez instruction and
// pushes it onto the control-flow stack. block takes (type_index,
// local_variable_list_index) and carries no stub. block_alt takes the
// same pair plus a next_inst_offset stub. block_nez takes only
// local_variable_list_index plus a next_inst_offset stub. In both
// stub-carrying cases the field is written as a zero placeholder and
// its address recorded for patching by the matching End.
func (e *Encoder) BeginBlock(op Opcode, immediates ...uint32) error {
	info, ok := e.table.Lookup(op)
	if !ok {
		return fmt.Errorf("bytecode: unknown opcode %#04x", uint16(op))
	}

	var wantShape Shape
	var wantImmediates int
	switch op {
	case OpBlock:
		wantShape, wantImmediates = ShapeI32x2, 2
	case OpBlockAlt:
		wantShape, wantImmediates = ShapeI32x3, 2
	case OpBlockNez:
		wantShape, wantImmediates = ShapeI32x2, 1
	default:
		return fmt.Errorf("bytecode: opcode %s does not open a block", info.Mnemonic)
	}
	if info.Shape != wantShape {
		return fmt.Errorf("bytecode: opcode %s has an unsupported block shape", info.Mnemonic)
	}
	if len(immediates) != wantImmediates {
		return fmt.Errorf("bytecode: %s needs %d immediate(s), got %d", info.Mnemonic, wantImmediates, len(immediates))
	}

	e.align()
	startAddr := e.Len()
	binary.Write(&e.buf, binary.LittleEndian, uint16(op))
	binary.Write(&e.buf, binary.LittleEndian, uint16(0))
	for _, v := range immediates {
		binary.Write(&e.buf, binary.LittleEndian, v)
	}

	stubAddr := noStub
	if op.hasStub() {
		stubAddr = uint32(e.buf.Len())
		binary.Write(&e.buf, binary.LittleEndian, uint32(0))
	}

	e.stack = append(e.stack, openBlock{startAddr: startAddr, stubAddr: stubAddr})
	return nil
}

// Break emits a break or break_alt instruction. layers counts outward
// from the innermost currently-open block (0 = that block itself). If
// layers addresses a block still open on the control-flow stack, its
// stub is reserved here and patched by that block's End. If layers
// reaches past the outermost open block — a break out of the function
// itself — no stub is needed; the field is left zero and the VM
// ignores it (§4.2). break carries layers as an explicit i16 operand;
// break_alt carries no layers operand at all (its target is resolved
// purely by which block's End patches the stub), so layers here only
// drives this encoder's own bookkeeping for that case.
func (e *Encoder) Break(op Opcode, layers uint32) error {
	info, ok := e.table.Lookup(op)
	if !ok {
		return fmt.Errorf("bytecode: unknown opcode %#04x", uint16(op))
	}
	if layers > 0xffff {
		return fmt.Errorf("bytecode: break layers %d overflows i16", layers)
	}

	var stubAddr uint32
	switch op {
	case OpBreak:
		if info.Shape != ShapeI16I32 {
			return fmt.Errorf("bytecode: opcode %s has an unsupported break shape", info.Mnemonic)
		}
		e.emitHeader(op, info.Shape)
		binary.Write(&e.buf, binary.LittleEndian, uint16(layers))
		stubAddr = uint32(e.buf.Len())
		binary.Write(&e.buf, binary.LittleEndian, uint32(0))
	case OpBreakAlt:
		if info.Shape != ShapeI32 {
			return fmt.Errorf("bytecode: opcode %s has an unsupported break shape", info.Mnemonic)
		}
		e.emitHeader(op, info.Shape)
		binary.Write(&e.buf, binary.LittleEndian, uint16(0))
		stubAddr = uint32(e.buf.Len())
		binary.Write(&e.buf, binary.LittleEndian, uint32(0))
	default:
		return fmt.Errorf("bytecode: opcode %s is not a break instruction", info.Mnemonic)
	}

	if int(layers) < len(e.stack) {
		targetDepth := len(e.stack) - 1 - int(layers)
		e.pending = append(e.pending, pendingBreak{targetDepth: targetDepth, stubAddr: stubAddr})
	}
	return nil
}

// Recur emits a recur instruction. Like Break, layers counts outward
// from the innermost currently-open block. Unlike break/break_alt, its
// start_inst_offset target is the targeted block's own start address —
// already known at emission time — so no stub is reserved and no
// backpatching happens at End (§4.2). A layers value reaching past the
// outermost open block targets the function itself; the VM ignores the
// field in that case, so it is left at zero.
func (e *Encoder) Recur(op Opcode, layers uint32) error {
	info, ok := e.table.Lookup(op)
	if !ok || op != OpRecur {
		return fmt.Errorf("bytecode: opcode %#04x is not recur", uint16(op))
	}
	if info.Shape != ShapeI16I32 {
		return fmt.Errorf("bytecode: opcode %s has an unsupported recur shape", info.Mnemonic)
	}
	if layers > 0xffff {
		return fmt.Errorf("bytecode: recur layers %d overflows i16", layers)
	}

	var target uint32
	if int(layers) < len(e.stack) {
		target = e.stack[len(e.stack)-1-int(layers)].startAddr
	}

	e.emitHeader(op, info.Shape)
	binary.Write(&e.buf, binary.LittleEndian, uint16(layers))
	binary.Write(&e.buf, binary.LittleEndian, target)
	return nil
}

type pendingBreak struct {
	targetDepth int
	stubAddr    uint32
}

// End closes the innermost open block, patching its own stub (if any)
// to the current offset, and resolves any pending breaks targeting
// this block.
func (e *Encoder) End() error {
	if len(e.stack) == 0 {
		return fmt.Errorf("bytecode: end with no open block")
	}
	depth := len(e.stack) - 1
	block := e.stack[depth]
	e.emitHeader(OpEnd, ShapeNone)
	endOffset := e.Len()

	if block.stubAddr != noStub {
		e.fillStub(block.stubAddr, endOffset)
	}

	remaining := e.pending[:0]
	for _, p := range e.pending {
		if p.targetDepth == depth {
			e.fillStub(p.stubAddr, endOffset)
		} else {
			remaining = append(remaining, p)
		}
	}
	e.pending = remaining

	e.stack = e.stack[:depth]
	return nil
}

// fillStub overwrites the 4-byte placeholder at addr with value. addr
// is an absolute offset into the encoded buffer, as returned when the
// stub was reserved.
func (e *Encoder) fillStub(addr, value uint32) {
	b := e.buf.Bytes()
	binary.LittleEndian.PutUint32(b[addr:addr+4], value)
}

// Bytes returns the encoded function body. It is an error to call this
// while any block remains open.
func (e *Encoder) Bytes() ([]byte, error) {
	if len(e.stack) != 0 {
		return nil, fmt.Errorf("bytecode: %d block(s) still open", len(e.stack))
	}
	return e.buf.Bytes(), nil
}
