package sim_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/itosim/internal/dynamo"
	"github.com/san-kum/itosim/internal/noise"
	"github.com/san-kum/itosim/internal/schedule"
	"github.com/san-kum/itosim/internal/sim"
	"github.com/san-kum/itosim/internal/store"
)

type counting struct {
	inits, extends, redraws, histograms, failures int
	last                                          sim.HistogramRequest
}

func (c *counting) Init(sim.Layout)                   { c.inits++ }
func (c *counting) Extend(int, float64, []float64)    { c.extends++ }
func (c *counting) Redraw(sim.Layout, store.Snapshot) { c.redraws++ }
func (c *counting) Fail(error)                        { c.failures++ }

func (c *counting) Histogram(h sim.HistogramRequest) {
	c.histograms++
	c.last = h
}

var _ = Describe("Driver lifecycle", func() {
	var (
		d      *sim.Driver
		r      *counting
		clock  *schedule.Manual
		cfg    sim.Config
		period time.Duration
	)

	BeforeEach(func() {
		r = &counting{}
		clock = schedule.NewManual()
		d = sim.New(r, clock, noise.NewBoxMuller(2024), nil)
		cfg = sim.Config{
			TMax:            2,
			NumSamples:      20,
			NumTrajectories: 4,
			NumBins:         5,
			Speed:           96,
			F:               "2*B_t",
			G:               "1",
		}
		period = sim.Period(cfg.Speed)
	})

	It("starts idle", func() {
		Expect(d.State()).To(Equal(sim.Idle))
		Expect(d.Step()).To(BeZero())
	})

	Describe("an animated run", func() {
		BeforeEach(func() {
			Expect(d.Start(cfg)).To(Succeed())
		})

		It("is running with one pending tick", func() {
			Expect(d.State()).To(Equal(sim.Running))
			Expect(clock.Pending()).To(Equal(1))
			Expect(r.inits).To(Equal(1))
		})

		It("takes one step per period", func() {
			clock.Advance(5 * period)
			Expect(d.Step()).To(Equal(5))
			Expect(r.extends).To(Equal(5))
		})

		It("completes on the tick after the last step", func() {
			clock.Advance(time.Duration(cfg.NumSamples) * period)
			Expect(d.Step()).To(Equal(cfg.NumSamples))
			Expect(d.State()).To(Equal(sim.Running))

			clock.Advance(period)
			Expect(d.State()).To(Equal(sim.Completed))
			Expect(r.histograms).To(Equal(1))
			Expect(r.last.Values).To(HaveLen(cfg.NumTrajectories))
			Expect(clock.Pending()).To(BeZero())
		})

		It("can be stopped and restarted", func() {
			clock.Advance(3 * period)
			Expect(d.Stop()).To(Succeed())
			Expect(d.State()).To(Equal(sim.Stopped))

			s, ok := d.Summary()
			Expect(ok).To(BeTrue())
			Expect(s.Step).To(Equal(3))

			Expect(d.Start(cfg)).To(Succeed())
			Expect(d.Step()).To(BeZero())
			Expect(r.inits).To(Equal(2))
			_, ok = d.Summary()
			Expect(ok).To(BeFalse())
		})

		It("rejects a second start", func() {
			Expect(d.Start(cfg)).To(MatchError(dynamo.ErrInvalidTransition))
		})

		It("keeps its state across speed changes", func() {
			clock.Advance(4 * period)
			Expect(d.ChangeSpeed(sim.MinSpeed)).To(Succeed())
			Expect(d.Step()).To(Equal(4))
			Expect(clock.Pending()).To(Equal(1))

			clock.Advance(sim.Period(sim.MinSpeed))
			Expect(d.Step()).To(Equal(5))
		})
	})

	Describe("a batch run", func() {
		It("renders once and completes", func() {
			Expect(d.Recompute(context.Background(), cfg)).To(Succeed())
			Expect(d.State()).To(Equal(sim.Completed))
			Expect(r.redraws).To(Equal(1))
			Expect(r.extends).To(BeZero())
			Expect(r.histograms).To(Equal(1))
			Expect(d.TerminalValues()).To(HaveLen(cfg.NumTrajectories))
		})

		It("may follow a completed animation", func() {
			Expect(d.Start(cfg)).To(Succeed())
			clock.Advance(time.Duration(cfg.NumSamples+1) * period)
			Expect(d.State()).To(Equal(sim.Completed))

			Expect(d.Recompute(context.Background(), cfg)).To(Succeed())
			Expect(r.histograms).To(Equal(2))
		})
	})

	Describe("failures", func() {
		It("returns to idle on a bad integrand", func() {
			cfg.F = "sqrt(B_t - 1)"
			Expect(d.Start(cfg)).To(Succeed())
			clock.Advance(period)

			Expect(d.State()).To(Equal(sim.Idle))
			Expect(d.Err()).To(MatchError(dynamo.ErrEvaluation))
			Expect(r.failures).To(Equal(1))
			Expect(r.histograms).To(BeZero())
		})

		It("can start again after a failure", func() {
			cfg.NumBins = 0
			Expect(d.Start(cfg)).To(MatchError(dynamo.ErrConfig))
			cfg.NumBins = 5
			Expect(d.Start(cfg)).To(Succeed())
			Expect(d.Err()).ToNot(HaveOccurred())
		})
	})
})
