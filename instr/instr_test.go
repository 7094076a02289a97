package instr_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/duet/instr"
)

var _ = Describe("Operand", func() {
	It("should prefer integers over registers", func() {
		o, err := instr.ParseOperand("-17")
		Expect(err).NotTo(HaveOccurred())
		Expect(o.IsLiteral()).To(BeTrue())
		Expect(o.Value()).To(Equal(int64(-17)))
	})

	It("should parse register names", func() {
		o, err := instr.ParseOperand("p")
		Expect(err).NotTo(HaveOccurred())
		Expect(o.IsLiteral()).To(BeFalse())
		Expect(o.Register()).To(Equal(instr.Register('p')))
		Expect(o.String()).To(Equal("p"))
	})

	It("should reject anything else", func() {
		_, err := instr.ParseOperand("ab")
		Expect(err).To(HaveOccurred())

		_, err = instr.ParseOperand("A")
		Expect(err).To(HaveOccurred())
	})

	It("should index registers from a", func() {
		Expect(instr.Register('a').Index()).To(Equal(0))
		Expect(instr.Register('z').Index()).To(Equal(instr.NumRegisters - 1))
		Expect(instr.Register('{').Valid()).To(BeFalse())
	})
})

var _ = Describe("Program", func() {
	var prog instr.Program

	BeforeEach(func() {
		prog = instr.NewProgram("p",
			instr.Set('a', instr.Imm(1)),
			instr.Jgz(instr.Reg('a'), instr.Imm(-1)),
			instr.Snd(instr.Reg('a')),
			instr.Rcv('b'),
		)
	})

	It("should report out of range program counters", func() {
		_, ok := prog.At(-1)
		Expect(ok).To(BeFalse())

		_, ok = prog.At(4)
		Expect(ok).To(BeFalse())

		i, ok := prog.At(3)
		Expect(ok).To(BeTrue())
		Expect(i.Op).To(Equal(instr.OpRcv))
	})

	It("should not share its backing array", func() {
		insts := prog.Insts()
		insts[0] = instr.Rcv('z')

		i, _ := prog.At(0)
		Expect(i.Op).To(Equal(instr.OpSet))
	})

	It("should render the text form", func() {
		var lines []string
		for _, i := range prog.Insts() {
			lines = append(lines, i.String())
		}

		Expect(lines).To(Equal([]string{"set a 1", "jgz a -1", "snd a", "rcv b"}))
	})

	It("should look up mnemonics", func() {
		op, ok := instr.LookupOpcode("mod")
		Expect(ok).To(BeTrue())
		Expect(op).To(Equal(instr.OpMod))

		_, ok = instr.LookupOpcode("sub")
		Expect(ok).To(BeFalse())
	})

	It("should list the operands an instruction reads", func() {
		Expect(instr.Add('a', instr.Imm(2)).Reads()).
			To(Equal([]instr.Operand{instr.Reg('a'), instr.Imm(2)}))
		Expect(instr.Rcv('a').Reads()).To(BeEmpty())
	})
})
