package bytecode

import (
	"fmt"
	"strings"
)

// Disassemble renders code as human-readable text, one two-row block
// per instruction: a hex/mnemonic/operand row, followed by indented
// continuation hex rows for instructions longer than 8 bytes (§4.2).
// It stops at the first unrecognised opcode, appending nothing further
// for it (mirroring Decode's fatal-on-unknown-opcode contract).
func Disassemble(table Table, code []byte) (string, error) {
	insts, decErr := Decode(table, code)

	var b strings.Builder
	for _, inst := range insts {
		writeInstruction(&b, code, inst)
	}
	if decErr != nil {
		return b.String(), decErr
	}
	return b.String(), nil
}

func writeInstruction(b *strings.Builder, code []byte, inst Instruction) {
	size := inst.Info.Shape.Size()
	raw := code[inst.Address : inst.Address+uint32(size)]

	firstRowLen := size
	if firstRowLen > 8 {
		firstRowLen = 8
	}
	fmt.Fprintf(b, "0x%04x  %s%s%-28s  %s\n",
		inst.Address,
		hexRow(raw[:firstRowLen], 8),
		"",
		inst.Info.Mnemonic,
		renderOperands(inst),
	)
	for off := 8; off < len(raw); off += 8 {
		end := off + 8
		if end > len(raw) {
			end = len(raw)
		}
		fmt.Fprintf(b, "        %s\n", hexRow(raw[off:end], 8))
	}
}

// hexRow renders up to width bytes as space-separated hex pairs, with
// an extra gap after the fourth byte (§4.2's "two-byte gap after byte
// 4"), padded to a stable column width.
func hexRow(b []byte, width int) string {
	var sb strings.Builder
	for i := 0; i < width; i++ {
		if i > 0 {
			if i == 4 {
				sb.WriteString("  ")
			} else {
				sb.WriteByte(' ')
			}
		}
		if i < len(b) {
			fmt.Fprintf(&sb, "%02x", b[i])
		} else {
			sb.WriteString("  ")
		}
	}
	return sb.String()
}

// renderOperands formats an instruction's operands per its RenderKind,
// matching the source's per-opcode-family conventions (§4.2).
func renderOperands(inst Instruction) string {
	switch inst.Info.Render {
	case RenderNone:
		return ""
	case RenderImmediate16:
		return fmt.Sprintf("%d", inst.I16[0])
	case RenderImmediate32:
		return fmt.Sprintf("0x%08x", inst.I32[0])
	case RenderImmediate64:
		lo := uint32(inst.I64)
		hi := uint32(inst.I64 >> 32)
		return fmt.Sprintf("low:0x%08x  high:0x%08x", lo, hi)
	case RenderLocalLoad:
		return fmt.Sprintf("layers:%d  index:%d", inst.I16[0], inst.I16[1])
	case RenderDataLoad:
		return fmt.Sprintf("offset:0x%x  index:%d", inst.I32[0], inst.I16[0])
	case RenderBlock:
		return fmt.Sprintf("type:%-2d  local:%d", inst.I32[0], inst.I32[1])
	case RenderBlockAlt:
		return fmt.Sprintf("type:%-2d  local:%-2d  offset:0x%x", inst.I32[0], inst.I32[1], inst.I32[2])
	case RenderBlockNez:
		return fmt.Sprintf("local:%-2d  offset:0x%x", inst.I32[0], inst.I32[1])
	case RenderBreak:
		return fmt.Sprintf("layers:%-2d  offset:0x%x", inst.I16[0], inst.I32[0])
	case RenderBreakAlt:
		return fmt.Sprintf("offset:0x%x", inst.I32[0])
	default:
		return ""
	}
}
