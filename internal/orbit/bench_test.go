package orbit

import (
	"math"
	"testing"
	"time"
)

func BenchmarkEvaluateKeplerian(b *testing.B) {
	o := KeplerianOrbit{SemiMajorAxis: 1.496e8, Eccentricity: 0.0167, Inclination: 0.00005, RAAN: -11.26, ArgPeriapsis: 114.2, MeanMotion: 1.99e-7, Epoch: origin}
	t := origin

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = EvaluateKeplerian(o, t)
		t = t.Add(time.Hour)
	}
}

func BenchmarkEvaluateSampled(b *testing.B) {
	tbl := make(Table, 10000)
	for i := 0; i < 10000; i++ {
		theta := float64(i) / 10000 * 2 * math.Pi
		tbl[float64(i)*60] = Vec3{math.Cos(theta), math.Sin(theta), 0}
	}
	s, _ := NewSampledTrajectory(tbl)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.At(float64(i%600000) + 0.5)
	}
}

func BenchmarkEvaluateTable(b *testing.B) {
	tbl := make(Table, 1000)
	for i := 0; i < 1000; i++ {
		tbl[float64(i)*60] = Vec3{X: float64(i)}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = EvaluateTable(tbl, at(float64(i%60000)), origin)
	}
}
