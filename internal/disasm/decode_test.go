package disasm_test

import (
	"bytes"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"dis6502/internal/disasm"
	"dis6502/internal/opcode"
)

func u16(v uint16) *uint16 { return &v }

var _ = Describe("Disassemble", func() {
	var table *opcode.Table

	BeforeEach(func() {
		var err error
		table, err = opcode.Default()
		Expect(err).ToNot(HaveOccurred())
	})

	lines := func(data []byte, rng disasm.Range) []string {
		stream, err := disasm.Disassemble(table, data, rng)
		Expect(err).ToNot(HaveOccurred())
		return stream.Lines()
	}

	Describe("Immediate and absolute operands", func() {
		// lda #$bd; ldy #$bd; jsr $ba28
		It("should decode the reference listing", func() {
			data := []byte{0xa9, 0xbd, 0xa0, 0xbd, 0x20, 0x28, 0xba}

			Expect(lines(data, disasm.Range{Start: 0, End: 7})).To(Equal([]string{
				"0x0000 a9 bd lda #$bd",
				"0x0002 a0 bd ldy #$bd",
				"0x0004 20 28 ba jsr $ba28",
			}))
		})

		It("should keep raw bytes in memory order and display the address high byte first", func() {
			stream, err := disasm.Disassemble(table, []byte{0xbd, 0x00, 0xc0}, disasm.Range{Start: 0, End: 3})
			Expect(err).ToNot(HaveOccurred())

			Expect(stream).To(HaveLen(1))
			Expect(stream[0].Raw).To(Equal([]byte{0xbd, 0x00, 0xc0}))
			Expect(stream[0].Text).To(Equal("lda $c000,x"))
		})

		It("should render zero page indexed indirect operands", func() {
			Expect(lines([]byte{0xb1, 0x10, 0x81, 0xfe}, disasm.Range{Start: 0, End: 4})).To(Equal([]string{
				"0x0000 b1 10 lda ($10),y",
				"0x0002 81 fe sta ($fe,x)",
			}))
		})
	})

	Describe("Implied instructions", func() {
		It("should decode 0x00 as a single byte instruction", func() {
			stream, err := disasm.Disassemble(table, []byte{0x00}, disasm.Range{Start: 0, End: 1})
			Expect(err).ToNot(HaveOccurred())

			Expect(stream).To(HaveLen(1))
			Expect(stream[0].Raw).To(Equal([]byte{0x00}))
			Expect(stream[0].Text).To(Equal("brk"))
		})

		It("should decode consecutive implied instructions", func() {
			Expect(lines([]byte{0xea, 0x0a, 0x60}, disasm.Range{Start: 0, End: 3})).To(Equal([]string{
				"0x0000 ea nop",
				"0x0001 0a asl",
				"0x0002 60 rts",
			}))
		})
	})

	Describe("Relative branches", func() {
		It("should compute a forward target from the following instruction", func() {
			data := []byte{0xea, 0xea, 0xea, 0xf0, 0x48}

			Expect(lines(data, disasm.Range{Start: 3, End: 5})).To(Equal([]string{
				"0x0003 f0 48 beq $004d",
			}))
		})

		It("should compute a backward target", func() {
			data := []byte{0xea, 0xea, 0xea, 0xea, 0xd0, 0xfa}

			Expect(lines(data, disasm.Range{Start: 4, End: 6})).To(Equal([]string{
				"0x0004 d0 fa bne $0000",
			}))
		})

		It("should wrap targets below zero around the 64K address space", func() {
			Expect(lines([]byte{0xf0, 0x80}, disasm.Range{Start: 0, End: 2})).To(Equal([]string{
				"0x0000 f0 80 beq $ff82",
			}))
		})

		It("should render non-branch single operands as plain bytes", func() {
			Expect(lines([]byte{0xa9, 0x80}, disasm.Range{Start: 0, End: 2})).To(Equal([]string{
				"0x0000 a9 80 lda #$80",
			}))
		})
	})

	Describe("Unknown opcodes", func() {
		It("should render ??? and advance one byte", func() {
			stream, err := disasm.Disassemble(table, []byte{0x02, 0xa9, 0x01}, disasm.Range{Start: 0, End: 3})
			Expect(err).ToNot(HaveOccurred())

			Expect(stream).To(HaveLen(2))
			Expect(stream[0].Raw).To(HaveLen(1))
			Expect(stream[0].Text).To(Equal(disasm.Unknown))
			Expect(stream[0].Known()).To(BeFalse())
			Expect(stream[1].Addr).To(Equal(uint16(1)))
			Expect(stream[1].Text).To(Equal("lda #$01"))
		})

		It("should decode an operand-looking byte after ??? as an opcode", func() {
			Expect(lines([]byte{0xff, 0xff}, disasm.Range{Start: 0, End: 2})).To(Equal([]string{
				"0x0000 ff ???",
				"0x0001 ff ???",
			}))
		})
	})

	Describe("Bounds", func() {
		It("should fail when the operand lies past the end of the buffer", func() {
			_, err := disasm.Disassemble(table, []byte{0xea, 0x20, 0x28}, disasm.Full([]byte{0xea, 0x20, 0x28}))
			Expect(errors.Is(err, disasm.ErrOutOfBounds)).To(BeTrue())

			var be *disasm.BoundsError
			Expect(errors.As(err, &be)).To(BeTrue())
			Expect(be.Addr).To(Equal(uint16(1)))
			Expect(be.Opcode).To(Equal(byte(0x20)))
			Expect(be.Len).To(Equal(3))
		})

		It("should fail when the operand lies past the end bound", func() {
			data := []byte{0xa9, 0xbd, 0xa0, 0xbd, 0x20, 0x28, 0xba}

			stream, err := disasm.Disassemble(table, data, disasm.Range{Start: 0, End: 5})
			Expect(err).To(MatchError(disasm.ErrOutOfBounds))
			Expect(stream).To(BeNil())
		})

		It("should reject ranges outside the buffer", func() {
			data := []byte{0xea, 0xea}

			for _, rng := range []disasm.Range{
				{Start: -1, End: 2},
				{Start: 0, End: 3},
				{Start: 2, End: 1},
			} {
				_, err := disasm.Disassemble(table, data, rng)
				Expect(err).To(MatchError(disasm.ErrOutOfBounds), "range %+v", rng)
			}
		})

		It("should reject buffers larger than the address space", func() {
			data := bytes.Repeat([]byte{0xea}, disasm.AddressSpace+2)

			stream, err := disasm.Disassemble(table, data, disasm.Full(data))
			Expect(err).To(MatchError(disasm.ErrOutOfBounds))
			Expect(stream).To(BeNil())
		})

		It("should decode a buffer filling the whole address space", func() {
			data := bytes.Repeat([]byte{0xea}, disasm.AddressSpace)

			stream, err := disasm.Disassemble(table, data, disasm.Full(data))
			Expect(err).ToNot(HaveOccurred())
			Expect(stream).To(HaveLen(disasm.AddressSpace))
			Expect(stream[len(stream)-1].String()).To(Equal("0xFFFF ea nop"))
		})

		It("should return an empty stream for an empty range", func() {
			stream, err := disasm.Disassemble(table, []byte{0xea}, disasm.Range{Start: 1, End: 1})
			Expect(err).ToNot(HaveOccurred())
			Expect(stream).To(BeEmpty())
		})
	})

	Describe("Resolve", func() {
		It("should default to the whole buffer", func() {
			Expect(disasm.Resolve(nil, nil, 7)).To(Equal(disasm.Range{Start: 0, End: 7}))
		})

		It("should use the supplied bounds", func() {
			Expect(disasm.Resolve(u16(2), u16(4), 7)).To(Equal(disasm.Range{Start: 2, End: 4}))
			Expect(disasm.Resolve(u16(2), nil, 7)).To(Equal(disasm.Range{Start: 2, End: 7}))
			Expect(disasm.Resolve(nil, u16(4), 7)).To(Equal(disasm.Range{Start: 0, End: 4}))
		})
	})

	Describe("Custom tables", func() {
		It("should decode only what the table populates", func() {
			custom, err := opcode.Parse([]byte(`{"ea": {"ins": "NOP"}, "4c": {"ins": "JMP $hhll"}}`))
			Expect(err).ToNot(HaveOccurred())

			stream, err := disasm.Disassemble(custom, []byte{0xea, 0xa9, 0x4c, 0x00, 0x80}, disasm.Range{Start: 0, End: 5})
			Expect(err).ToNot(HaveOccurred())
			Expect(stream.Lines()).To(Equal([]string{
				"0x0000 ea NOP",
				"0x0001 a9 ???",
				"0x0002 4c 00 80 JMP $8000",
			}))
		})
	})
})
