package bytecode

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Instruction is one decoded instruction: its address, opcode, and
// shape-appropriate operands. Only the fields relevant to Info.Shape
// are meaningful; the rest are zero.
type Instruction struct {
	Address uint32
	Opcode  Opcode
	Info    Info

	I16  [3]uint16
	I32  [3]uint32
	I64  uint64
	F32  float32
	F64  float64
}

// Decode walks code one instruction at a time. Decoding stops and
// returns ErrUnknownOpcode the first time it meets an opcode absent
// from table; the returned slice holds every instruction successfully
// decoded up to (not including) the offending one, matching spec
// §4.2's "no lossy skip" contract.
func Decode(table Table, code []byte) ([]Instruction, error) {
	var out []Instruction
	offset := uint32(0)
	for int(offset) < len(code) {
		if int(offset)+2 > len(code) {
			return out, fmt.Errorf("%w: truncated opcode at %#x", errTruncated, offset)
		}
		op := Opcode(binary.LittleEndian.Uint16(code[offset:]))
		info, ok := table.Lookup(op)
		if !ok {
			return out, fmt.Errorf("%w: %#04x at offset %#x", ErrUnknownOpcode, uint16(op), offset)
		}

		size := info.Shape.Size()
		if int(offset)+size > len(code) {
			return out, fmt.Errorf("%w: instruction at %#x needs %d bytes, only %d remain", errTruncated, offset, size, len(code)-int(offset))
		}

		inst := Instruction{Address: offset, Opcode: op, Info: info}
		body := code[offset+2 : offset+uint32(size)]
		switch info.Shape {
		case ShapeNone:
			// no operands
		case ShapeI16:
			inst.I16[0] = binary.LittleEndian.Uint16(body)
		case ShapeI16x3:
			inst.I16[0] = binary.LittleEndian.Uint16(body[0:])
			inst.I16[1] = binary.LittleEndian.Uint16(body[2:])
			inst.I16[2] = binary.LittleEndian.Uint16(body[4:])
		case ShapeI32:
			inst.I32[0] = binary.LittleEndian.Uint32(body[2:])
		case ShapeI16I32:
			inst.I16[0] = binary.LittleEndian.Uint16(body[0:])
			inst.I32[0] = binary.LittleEndian.Uint32(body[2:])
		case ShapeI32x2:
			inst.I32[0] = binary.LittleEndian.Uint32(body[2:])
			inst.I32[1] = binary.LittleEndian.Uint32(body[6:])
		case ShapeI32x3:
			inst.I32[0] = binary.LittleEndian.Uint32(body[2:])
			inst.I32[1] = binary.LittleEndian.Uint32(body[6:])
			inst.I32[2] = binary.LittleEndian.Uint32(body[10:])
		case ShapeI64:
			inst.I64 = binary.LittleEndian.Uint64(body[2:])
		case ShapeF32:
			inst.F32 = math.Float32frombits(binary.LittleEndian.Uint32(body[2:]))
		case ShapeF64:
			inst.F64 = math.Float64frombits(binary.LittleEndian.Uint64(body[2:]))
		}

		out = append(out, inst)
		offset += uint32(size)
	}
	return out, nil
}

var errTruncated = fmt.Errorf("%w: truncated instruction", ErrUnknownOpcode)
