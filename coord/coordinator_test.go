package coord_test

import (
	"errors"

	gomock "github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/duet/asm"
	"github.com/sarchlab/duet/coord"
	"github.com/sarchlab/duet/core"
	"github.com/sarchlab/duet/instr"
)

func mustParse(text string) instr.Program {
	prog, err := asm.Parse("test", text)
	Expect(err).NotTo(HaveOccurred())
	return prog
}

func build(text string) *coord.Coordinator {
	return coord.NewBuilder().
		WithProgram(mustParse(text)).
		Build("Duet")
}

var _ = Describe("Coordinator", func() {
	It("should count nothing when the program never communicates", func() {
		c := build("set a 1\nadd a 2\nmul a 3\nmod a 4")

		r, err := c.Run()

		Expect(err).NotTo(HaveOccurred())
		Expect(r.Reason).To(Equal(coord.ReasonHalted))
		Expect(r.Count()).To(Equal(0))
		Expect(r.Sent).To(Equal([2]int{0, 0}))
		Expect(r.Rounds).To(Equal(4))
	})

	It("should halt both lanes of an empty program in one round", func() {
		r, err := build("").Run()

		Expect(err).NotTo(HaveOccurred())
		Expect(r.Reason).To(Equal(coord.ReasonHalted))
		Expect(r.Rounds).To(Equal(1))
	})

	It("should deliver a value sent by A to a receive in B", func() {
		c := build(`
			jgz p 3
			set a 7
			snd a
			rcv b
		`)

		r, err := c.Run()

		Expect(err).NotTo(HaveOccurred())
		Expect(r.Lanes[1].Registers["b"]).To(Equal(int64(7)))
		Expect(r.Lanes[1].Status).To(Equal(core.Halted))
		Expect(r.Lanes[0].Status).To(Equal(core.BlockedOnReceive))
		Expect(r.Sent).To(Equal([2]int{1, 0}))
		Expect(r.Reason).To(Equal(coord.ReasonDeadlock))
	})

	It("should solve the duet example", func() {
		c := build("snd 1\nsnd 2\nsnd p\nrcv a\nrcv b\nrcv c\nrcv d")

		r, err := c.Run()

		Expect(err).NotTo(HaveOccurred())
		Expect(r.Count()).To(Equal(3))
		Expect(r.Reason).To(Equal(coord.ReasonDeadlock))
		Expect(r.Lanes[0].Registers["c"]).To(Equal(int64(1)))
		Expect(r.Lanes[1].Registers).NotTo(HaveKey("c"))
	})

	It("should give the same result when run twice", func() {
		c := build(`
			set i 5
			jgz p 5
			snd i
			add i -1
			jgz i -2
			rcv a
			rcv a
			snd a
			add i -1
			jgz i -3
		`)

		first, err := c.Run()
		Expect(err).NotTo(HaveOccurred())

		second, err := c.Run()
		Expect(err).NotTo(HaveOccurred())

		Expect(first.Sent).To(Equal([2]int{6, 5}))
		Expect(first.Reason).To(Equal(coord.ReasonHalted))
		Expect(second.Sent).To(Equal(first.Sent))
		Expect(second.Rounds).To(Equal(first.Rounds))
		Expect(second.Lanes).To(Equal(first.Lanes))
	})

	It("should detect a deadlock after one round when both lanes receive first", func() {
		r, err := build("rcv a\nsnd 1").Run()

		Expect(err).NotTo(HaveOccurred())
		Expect(r.Reason).To(Equal(coord.ReasonDeadlock))
		Expect(r.Rounds).To(Equal(1))
		Expect(r.Count()).To(Equal(0))
	})

	It("should never run a halted lane again", func() {
		r, err := build("jgz p -1\nsnd 5\nrcv a").Run()

		Expect(err).NotTo(HaveOccurred())
		Expect(r.Lanes[1].Status).To(Equal(core.Halted))
		Expect(r.Lanes[1].Steps).To(Equal(1))
		Expect(r.Lanes[1].PC).To(Equal(int64(-1)))
		Expect(r.Sent).To(Equal([2]int{1, 0}))
		Expect(r.Reason).To(Equal(coord.ReasonDeadlock))
	})

	It("should stop when A sends its identity and B receives it and halts", func() {
		prog := mustParse("jgz p 2\nsnd p\nrcv a")

		r, err := coord.NewBuilder().WithProgram(prog).Build("Duet").Run()

		Expect(err).NotTo(HaveOccurred())
		Expect(r.Count()).To(Equal(0))
		Expect(r.Sent[0]).To(Equal(1))
		Expect(r.Lanes[1].Status).To(Equal(core.Halted))
		Expect(r.Reason).To(Equal(coord.ReasonDeadlock))
		// two rounds of work plus the round that observed no progress
		Expect(r.Rounds).To(Equal(3))

		r, err = coord.NewBuilder().
			WithProgram(prog).
			WithDesignatedLane(0).
			Build("Duet").
			Run()

		Expect(err).NotTo(HaveOccurred())
		Expect(r.Count()).To(Equal(1))
	})

	It("should run a single lane wired to itself", func() {
		prog := mustParse("set a 1\nadd a 2\nsnd a\nrcv b\njgz a -1")

		r, err := coord.NewBuilder().
			WithProgram(prog).
			WithLoopback(true).
			Build("Loop").
			Run()

		Expect(err).NotTo(HaveOccurred())
		Expect(r.Lanes).To(HaveLen(1))
		Expect(r.Count()).To(Equal(1))
		Expect(r.Lanes[0].LastSent).To(Equal(int64(3)))
		Expect(r.Lanes[0].Registers["b"]).To(Equal(int64(3)))
		Expect(r.Reason).To(Equal(coord.ReasonDeadlock))
	})

	It("should send 3 exactly once per lane in lockstep mode", func() {
		r, err := build("set a 1\nadd a 2\nsnd a\nrcv b\njgz a -1").Run()

		Expect(err).NotTo(HaveOccurred())
		Expect(r.Sent).To(Equal([2]int{1, 1}))
		Expect(r.Reason).To(Equal(coord.ReasonDeadlock))
	})

	It("should abort on modulo by zero", func() {
		r, err := build("set a 5\nmod a p").Run()

		var arithErr *core.ArithmeticError
		Expect(errors.As(err, &arithErr)).To(BeTrue())
		Expect(arithErr.Op).To(Equal(instr.OpMod))
		Expect(arithErr.PC).To(Equal(int64(1)))
		Expect(r).To(Equal(coord.Result{}))
	})

	It("should stop at the round limit", func() {
		r, err := coord.NewBuilder().
			WithProgram(mustParse("jgz 1 0")).
			WithMaxRounds(100).
			Build("Spin").
			Run()

		Expect(errors.Is(err, coord.ErrRoundLimit)).To(BeTrue())
		Expect(r.Reason).To(Equal(coord.ReasonRoundLimit))
		Expect(r.Rounds).To(Equal(100))
	})

	It("should honor a custom identity register", func() {
		r, err := coord.NewBuilder().
			WithProgram(mustParse("snd i")).
			WithIdentityRegister('i').
			Build("Duet").
			Run()

		Expect(err).NotTo(HaveOccurred())
		Expect(r.Lanes[0].LastSent).To(Equal(int64(0)))
		Expect(r.Lanes[1].LastSent).To(Equal(int64(1)))
	})

	It("should reject invalid options", func() {
		Expect(func() { coord.NewBuilder().WithDesignatedLane(2) }).To(Panic())
		Expect(func() { coord.NewBuilder().WithMaxRounds(-1) }).To(Panic())
	})
})

var _ = Describe("Session", func() {
	It("should report done after termination", func() {
		s := build("rcv a").Start()

		done, err := s.Round()
		Expect(err).NotTo(HaveOccurred())
		Expect(done).To(BeTrue())
		Expect(s.Done()).To(BeTrue())

		done, err = s.Round()
		Expect(err).NotTo(HaveOccurred())
		Expect(done).To(BeTrue())
		Expect(s.Result().Rounds).To(Equal(1))
	})
})

var _ = Describe("Hooks", func() {
	var (
		mockCtrl *gomock.Controller
		hook     *MockHook
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		hook = NewMockHook(mockCtrl)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should report every lane step and every round", func() {
		c := build("snd 4")
		c.AcceptHook(hook)

		var positions []*sim.HookPos
		var sends []int64
		hook.EXPECT().
			Func(gomock.Any()).
			Do(func(ctx sim.HookCtx) {
				positions = append(positions, ctx.Pos)
				if e, ok := ctx.Item.(coord.LaneEvent); ok && e.Outcome.Sent {
					sends = append(sends, e.Outcome.Value)
				}
			}).
			Times(3)

		r, err := c.Run()

		Expect(err).NotTo(HaveOccurred())
		Expect(r.Reason).To(Equal(coord.ReasonHalted))
		Expect(positions).To(Equal([]*sim.HookPos{
			coord.HookPosLaneStep,
			coord.HookPosLaneStep,
			coord.HookPosRound,
		}))
		Expect(sends).To(Equal([]int64{4, 4}))
	})

	It("should accept the trace hook", func() {
		c := build("snd 1\nrcv a")
		c.AcceptHook(coord.NewTraceHook())

		r, err := c.Run()

		Expect(err).NotTo(HaveOccurred())
		Expect(r.Count()).To(Equal(1))
	})
})
