package api

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/duet/asm"
	"github.com/sarchlab/duet/coord"
	"github.com/sarchlab/duet/core"
)

var _ = Describe("Driver", func() {
	var (
		engine sim.Engine
		driver *Driver
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		driver = DriverBuilder{}.
			WithEngine(engine).
			WithFreq(1 * sim.GHz).
			Build("Driver")
	})

	coordinatorFor := func(text string) *coord.Coordinator {
		prog, err := asm.Parse("test", text)
		Expect(err).NotTo(HaveOccurred())

		return coord.NewBuilder().WithProgram(prog).Build("Duet")
	}

	It("should not tick without a session", func() {
		Expect(driver.Tick()).To(BeFalse())
	})

	It("should match a direct run", func() {
		c := coordinatorFor("snd 1\nsnd 2\nsnd p\nrcv a\nrcv b\nrcv c\nrcv d")

		want, err := c.Run()
		Expect(err).NotTo(HaveOccurred())

		got, err := driver.Run(c)
		Expect(err).NotTo(HaveOccurred())

		Expect(got).To(Equal(want))
		Expect(got.Count()).To(Equal(3))
		Expect(driver.session).To(BeNil())
	})

	It("should advance simulated time by one cycle per round", func() {
		c := coordinatorFor("set a 1\nadd a 1\nadd a 1")

		r, err := driver.Run(c)
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Reason).To(Equal(coord.ReasonHalted))
		Expect(r.Rounds).To(Equal(3))
		Expect(float64(engine.CurrentTime())).To(BeNumerically(">", 0))
	})

	It("should surface arithmetic errors", func() {
		_, err := driver.Run(coordinatorFor("mod a 0"))

		var arithErr *core.ArithmeticError
		Expect(errors.As(err, &arithErr)).To(BeTrue())
	})

	It("should return the partial result at the round limit", func() {
		prog, err := asm.Parse("spin", "jgz 1 0")
		Expect(err).NotTo(HaveOccurred())

		c := coord.NewBuilder().WithProgram(prog).WithMaxRounds(10).Build("Spin")

		r, err := driver.Run(c)
		Expect(errors.Is(err, coord.ErrRoundLimit)).To(BeTrue())
		Expect(r.Rounds).To(Equal(10))
	})

	It("should be reusable", func() {
		c := coordinatorFor("rcv a")

		for i := 0; i < 2; i++ {
			r, err := driver.Run(c)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Reason).To(Equal(coord.ReasonDeadlock))
		}
	})
})
