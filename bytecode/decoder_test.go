package bytecode

import "testing"

func TestDecodeShapes(t *testing.T) {
	e := NewEncoder(DefaultTable)
	if err := e.EmitI16(OpLocalLoad, 1, 2, 3); err != nil {
		t.Fatal(err)
	}
	if err := e.EmitI16I32(OpDataLoad, 7, 0x20); err != nil {
		t.Fatal(err)
	}
	if err := e.EmitI64(OpImmI64, 0x1122334455667788); err != nil {
		t.Fatal(err)
	}
	if err := e.EmitF32(OpImmF32, 3.5); err != nil {
		t.Fatal(err)
	}
	if err := e.EmitF64(OpImmF64, 2.5); err != nil {
		t.Fatal(err)
	}

	code, err := e.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	insts, err := Decode(DefaultTable, code)
	if err != nil {
		t.Fatal(err)
	}
	if len(insts) != 5 {
		t.Fatalf("expected 5 instructions, got %d", len(insts))
	}

	ll := insts[0]
	if ll.I16 != [3]uint16{1, 2, 3} {
		t.Errorf("local_load operands = %v, want [1 2 3]", ll.I16)
	}
	dl := insts[1]
	if dl.I16[0] != 7 || dl.I32[0] != 0x20 {
		t.Errorf("data_load operands = i16:%d i32:%#x, want 7 0x20", dl.I16[0], dl.I32[0])
	}
	if insts[2].I64 != 0x1122334455667788 {
		t.Errorf("imm_i64 = %#x, want 0x1122334455667788", insts[2].I64)
	}
	if insts[3].F32 != 3.5 {
		t.Errorf("imm_f32 = %v, want 3.5", insts[3].F32)
	}
	if insts[4].F64 != 2.5 {
		t.Errorf("imm_f64 = %v, want 2.5", insts[4].F64)
	}
}

func TestDecodeUnknownOpcodeFatal(t *testing.T) {
	code := []byte{
		0x00, 0x08, // eqz_i32 — valid
		0xff, 0xff, // unknown
		0x00, 0x08, // would-be eqz_i32, never reached
	}
	insts, err := Decode(DefaultTable, code)
	if err == nil {
		t.Fatal("expected an error for an unknown opcode")
	}
	if len(insts) != 1 {
		t.Fatalf("expected exactly the instructions before the bad opcode (1), got %d", len(insts))
	}
}

func TestDecodeTruncatedInstruction(t *testing.T) {
	// imm_i32 needs 8 bytes but only 5 are present.
	code := []byte{0x01, 0x01, 0x00, 0x00, 0x13}
	if _, err := Decode(DefaultTable, code); err == nil {
		t.Fatal("expected an error decoding a truncated instruction")
	}
}
