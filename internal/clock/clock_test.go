package clock_test

import (
	"errors"
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orrery/internal/clock"
)

type fakeWall struct {
	now time.Time
}

func (f *fakeWall) Now() time.Time          { return f.now }
func (f *fakeWall) Advance(d time.Duration) { f.now = f.now.Add(d) }

var _ = Describe("Clock", func() {
	var (
		wall  *fakeWall
		start time.Time
		c     *clock.Clock
	)

	BeforeEach(func() {
		wall = &fakeWall{now: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)}
		start = time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC)
		c = clock.New(start, clock.WithWallClock(wall.Now))
	})

	It("starts at the given time", func() {
		Expect(c.Now()).To(Equal(start))
		Expect(c.Speed()).To(Equal(1.0))
		Expect(c.Paused()).To(BeFalse())
	})

	It("runs at real time by default", func() {
		wall.Advance(90 * time.Second)
		Expect(c.Now()).To(Equal(start.Add(90 * time.Second)))
	})

	It("scales elapsed wall time by the speed multiplier", func() {
		Expect(c.SetSpeed(86400)).To(Succeed())
		wall.Advance(2 * time.Second)
		Expect(c.Now()).To(Equal(start.Add(48 * time.Hour)))
	})

	It("keeps time already elapsed when the speed changes", func() {
		wall.Advance(10 * time.Second)
		Expect(c.SetSpeed(60)).To(Succeed())
		wall.Advance(time.Second)
		Expect(c.Now()).To(Equal(start.Add(70 * time.Second)))
	})

	It("runs backwards with a negative speed", func() {
		Expect(c.SetSpeed(-2)).To(Succeed())
		wall.Advance(5 * time.Second)
		Expect(c.Now()).To(Equal(start.Add(-10 * time.Second)))
	})

	It("rejects non-finite speeds", func() {
		err := c.SetSpeed(math.Inf(1))
		Expect(errors.Is(err, clock.ErrInvalidSpeed)).To(BeTrue())
		Expect(c.Speed()).To(Equal(1.0))
	})

	Context("when paused", func() {
		BeforeEach(func() {
			wall.Advance(5 * time.Second)
			c.Pause()
		})

		It("freezes simulation time", func() {
			wall.Advance(time.Hour)
			Expect(c.Now()).To(Equal(start.Add(5 * time.Second)))
			Expect(c.Paused()).To(BeTrue())
		})

		It("resumes from where it stopped", func() {
			wall.Advance(time.Hour)
			c.Resume()
			wall.Advance(3 * time.Second)
			Expect(c.Now()).To(Equal(start.Add(8 * time.Second)))
		})

		It("still honours jumps", func() {
			c.Advance(24 * time.Hour)
			Expect(c.Now()).To(Equal(start.Add(24*time.Hour + 5*time.Second)))
		})
	})

	It("toggles between paused and running", func() {
		Expect(c.Toggle()).To(BeTrue())
		Expect(c.Paused()).To(BeTrue())
		Expect(c.Toggle()).To(BeFalse())
		Expect(c.Paused()).To(BeFalse())
	})

	It("jumps directly to a time", func() {
		target := time.Date(2030, time.June, 1, 0, 0, 0, 0, time.UTC)
		wall.Advance(time.Minute)
		c.SetTime(target)
		Expect(c.Now()).To(Equal(target))
		wall.Advance(time.Second)
		Expect(c.Now()).To(Equal(target.Add(time.Second)))
	})

	It("saturates instead of overflowing at extreme speeds", func() {
		Expect(c.SetSpeed(1e15)).To(Succeed())
		wall.Advance(time.Hour)
		Expect(c.Now().After(start)).To(BeTrue())
	})

	It("can start paused with a custom speed", func() {
		pc := clock.New(start, clock.WithWallClock(wall.Now), clock.WithSpeed(1000), clock.WithPaused())
		wall.Advance(time.Minute)
		Expect(pc.Now()).To(Equal(start))
		Expect(pc.Speed()).To(BeNumerically("==", 1000))
	})
})
