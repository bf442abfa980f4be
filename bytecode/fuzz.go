package bytecode

// Fuzz is a go-fuzz entry point exercising the bytecode decoder and
// disassembler against arbitrary byte streams.
func Fuzz(data []byte) int {
	insts, err := Decode(DefaultTable, data)
	if err != nil {
		return 0
	}
	if _, err := Disassemble(DefaultTable, data); err != nil {
		return 0
	}
	if len(insts) == 0 {
		return 0
	}
	return 1
}
