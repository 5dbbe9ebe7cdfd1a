package view_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Linux0Hat/physicium/internal/physics"
	"github.com/Linux0Hat/physicium/internal/view"
)

type circle struct {
	c view.Point
	r float64
}

type line struct {
	p0, p1 view.Point
}

type text struct {
	pos view.Point
	s   string
}

type recorder struct {
	circles []circle
	lines   []line
	texts   []text
}

func (r *recorder) DrawCircle(c view.Point, radius float64) {
	r.circles = append(r.circles, circle{c, radius})
}

func (r *recorder) DrawLine(p0, p1 view.Point) {
	r.lines = append(r.lines, line{p0, p1})
}

func (r *recorder) DrawText(pos view.Point, s string) {
	r.texts = append(r.texts, text{pos, s})
}

var _ = Describe("Renderer", func() {
	var (
		vp   *view.Viewport
		rec  *recorder
		rend *view.Renderer
		snap physics.Snapshot
	)

	BeforeEach(func() {
		vp = view.NewViewport(200, 100)
		Expect(vp.SetMeterSize(10)).To(Succeed())
		rec = &recorder{}
		rend = view.NewRenderer()
		snap = physics.Snapshot{Bodies: []physics.BodyState{
			{Handle: 0, Position: physics.Vec(0, 0), Velocity: physics.Vec(3, 4), Radius: 1, Mass: 1},
			{Handle: 1, Position: physics.Vec(2, -1), Velocity: physics.Vec(0, 0), Radius: 0.5, Mass: 1},
			{Handle: 2, Position: physics.Vec(500, 0), Velocity: physics.Vec(0, 1), Radius: 1, Mass: 1},
		}}
	})

	Describe("Draw", func() {
		It("emits a scaled circle per visible body", func() {
			rend.Draw(snap, vp, rec)

			Expect(rec.circles).To(Equal([]circle{
				{view.Point{X: 100, Y: 50}, 10},
				{view.Point{X: 120, Y: 60}, 5},
			}))
			Expect(rec.lines).To(BeEmpty())
			Expect(rec.texts).To(BeEmpty())
		})

		It("scales radii exactly by default", func() {
			Expect(vp.SetMeterSize(0.001)).To(Succeed())
			rend.Draw(snap, vp, rec)
			Expect(rec.circles).To(HaveLen(3))
			Expect(rec.circles[0].r).To(BeNumerically("~", 0.001, 1e-12))
			Expect(rec.circles[1].r).To(BeNumerically("~", 0.0005, 1e-12))
		})

		It("keeps tiny bodies visible with a minimum radius", func() {
			rend.MinRadius = 0.5
			Expect(vp.SetMeterSize(0.001)).To(Succeed())
			rend.Draw(snap, vp, rec)
			Expect(rec.circles).NotTo(BeEmpty())
			for _, c := range rec.circles {
				Expect(c.r).To(BeNumerically(">=", 0.5))
			}
		})

		It("does not mutate its inputs", func() {
			before := snap.Bodies[0]
			center, meter := vp.Center(), vp.MeterSize()
			rend.Draw(snap, vp, rec)
			rend.DrawVectors(snap, vp, rec, 2, true)
			Expect(snap.Bodies[0]).To(Equal(before))
			Expect(vp.Center()).To(Equal(center))
			Expect(vp.MeterSize()).To(Equal(meter))
		})
	})

	Describe("DrawVectors", func() {
		It("draws velocity lines proportional to speed", func() {
			rend.DrawVectors(snap, vp, rec, 2, false)

			Expect(rec.lines).To(HaveLen(2))
			first := rec.lines[0]
			Expect(first.p0).To(Equal(view.Point{X: 100, Y: 50}))
			Expect(first.p1.X).To(BeNumerically("~", 106, 1e-12))
			Expect(first.p1.Y).To(BeNumerically("~", 42, 1e-12))
			Expect(rec.texts).To(BeEmpty())
		})

		It("labels magnitudes when asked", func() {
			rend.DrawVectors(snap, vp, rec, 1, true)

			Expect(rec.texts).To(HaveLen(3))
			Expect(rec.texts[0].s).To(Equal("5.00"))
			Expect(rec.texts[1].s).To(Equal("0.00"))
			Expect(rec.texts[1].pos).To(Equal(view.Point{X: 120, Y: 60}), "resting bodies are labelled at their center")
		})
	})
})
