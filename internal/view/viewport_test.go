package view_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Linux0Hat/physicium/internal/physics"
	"github.com/Linux0Hat/physicium/internal/view"
)

var _ = Describe("Viewport", func() {
	var vp *view.Viewport

	BeforeEach(func() {
		vp = view.NewViewport(800, 600)
	})

	It("starts centered on the origin at one pixel per unit", func() {
		Expect(vp.Center()).To(Equal(physics.Vector2{}))
		Expect(vp.MeterSize()).To(Equal(view.DefaultMeterSize))
		w, h := vp.Size()
		Expect(w).To(Equal(800))
		Expect(h).To(Equal(600))
		Expect(vp.Project(physics.Vec(0, 0))).To(Equal(view.Point{X: 400, Y: 300}))
	})

	It("flips the vertical axis", func() {
		Expect(vp.Project(physics.Vec(10, 20))).To(Equal(view.Point{X: 410, Y: 280}))
		Expect(vp.Project(physics.Vec(-10, -20))).To(Equal(view.Point{X: 390, Y: 320}))
	})

	It("applies center and meter size", func() {
		vp.SetViewCenter(5, -5)
		Expect(vp.SetMeterSize(50)).To(Succeed())

		Expect(vp.Project(physics.Vec(5, -5))).To(Equal(view.Point{X: 400, Y: 300}))
		Expect(vp.Project(physics.Vec(6, -4))).To(Equal(view.Point{X: 450, Y: 250}))
		Expect(vp.ProjectLength(0.4)).To(BeNumerically("~", 20, 1e-12))
	})

	It("round-trips through Unproject", func() {
		vp.SetViewCenter(-3.5, 12)
		Expect(vp.SetMeterSize(7.25)).To(Succeed())
		for _, p := range []physics.Vector2{physics.Vec(0, 0), physics.Vec(-40, 3), physics.Vec(1e3, -1e3)} {
			back := vp.Unproject(vp.Project(p))
			Expect(back.X).To(BeNumerically("~", p.X, 1e-9))
			Expect(back.Y).To(BeNumerically("~", p.Y, 1e-9))
		}
	})

	DescribeTable("rejects invalid meter sizes",
		func(m float64) {
			err := vp.SetMeterSize(m)
			Expect(err).To(MatchError(view.ErrInvalidParameter))
			Expect(vp.MeterSize()).To(Equal(view.DefaultMeterSize))
		},
		Entry("zero", 0.0),
		Entry("negative", -2.0),
		Entry("NaN", math.NaN()),
		Entry("infinite", math.Inf(1)),
	)

	It("culls circles that do not touch the viewport", func() {
		Expect(vp.Contains(view.Point{X: 0, Y: 0}, 1)).To(BeTrue())
		Expect(vp.Contains(view.Point{X: -5, Y: 300}, 6)).To(BeTrue())
		Expect(vp.Contains(view.Point{X: -5, Y: 300}, 4)).To(BeFalse())
		Expect(vp.Contains(view.Point{X: 400, Y: 610}, 5)).To(BeFalse())
	})
})
