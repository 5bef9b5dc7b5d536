package analytics

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Distributions computes the p-values used by the hypothesis tests.
type Distributions interface {
	// TwoTailedTPValue returns P(|T| >= |t|) for Student's t with df degrees of freedom.
	TwoTailedTPValue(t, df float64) float64
	// FPValue returns the upper tail P(F >= f).
	FPValue(f, df1, df2 float64) float64
	// ChiSquarePValue returns the upper tail P(X >= chi).
	ChiSquarePValue(chi, df float64) float64
	// NormalCDF returns P(Z <= z) for the standard normal.
	NormalCDF(z float64) float64
}

// ApproximateDistributions reproduces the historical approximations used by the
// evaluation reports. The incomplete beta function is the identity in x, so t and F
// p-values reduce to df/(df+t^2) and df2/(df2+df1*F). Results are therefore only
// indicative for small samples, but stay numerically identical to earlier reports.
type ApproximateDistributions struct{}

func (ApproximateDistributions) TwoTailedTPValue(t, df float64) float64 {
	if df <= 0 || math.IsNaN(t) {
		return 1
	}
	if math.IsInf(t, 0) {
		return 0
	}
	x := df / (df + t*t)
	return clampProbability(IncompleteBeta(df/2, 0.5, x))
}

func (ApproximateDistributions) FPValue(f, df1, df2 float64) float64 {
	if df1 <= 0 || df2 <= 0 || f <= 0 || math.IsNaN(f) {
		return 1
	}
	if math.IsInf(f, 1) {
		return 0
	}
	x := df2 / (df2 + df1*f)
	return clampProbability(IncompleteBeta(df2/2, df1/2, x))
}

func (ApproximateDistributions) ChiSquarePValue(chi, df float64) float64 {
	if df <= 0 || chi <= 0 || math.IsNaN(chi) {
		return 1
	}
	return clampProbability(1 - GammaCDF(chi/2, df/2))
}

func (ApproximateDistributions) NormalCDF(z float64) float64 {
	return NormalCDF(z)
}

// ExactDistributions evaluates the true distribution functions through gonum.
type ExactDistributions struct{}

func (ExactDistributions) TwoTailedTPValue(t, df float64) float64 {
	if df <= 0 || math.IsNaN(t) {
		return 1
	}
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return clampProbability(2 * (1 - dist.CDF(math.Abs(t))))
}

func (ExactDistributions) FPValue(f, df1, df2 float64) float64 {
	if df1 <= 0 || df2 <= 0 || f <= 0 || math.IsNaN(f) {
		return 1
	}
	dist := distuv.F{D1: df1, D2: df2}
	return clampProbability(1 - dist.CDF(f))
}

func (ExactDistributions) ChiSquarePValue(chi, df float64) float64 {
	if df <= 0 || chi <= 0 || math.IsNaN(chi) {
		return 1
	}
	dist := distuv.ChiSquared{K: df}
	return clampProbability(1 - dist.CDF(chi))
}

func (ExactDistributions) NormalCDF(z float64) float64 {
	return distuv.UnitNormal.CDF(z)
}

// NormalCDF approximates the standard normal CDF with the Abramowitz-Stegun
// rational polynomial (26.2.17).
func NormalCDF(x float64) float64 {
	t := 1 / (1 + 0.2316419*math.Abs(x))
	d := 0.3989423 * math.Exp(-x*x/2)
	p := d * t * (0.3193815 + t*(-0.3565638+t*(1.781478+t*(-1.821256+t*1.330274))))
	if x > 0 {
		return 1 - p
	}
	return p
}

// IncompleteBeta stands in for the regularized incomplete beta function and returns x
// unchanged. ExactDistributions should be used where accurate p-values matter.
func IncompleteBeta(a, b, x float64) float64 {
	return x
}

// Gamma approximates the gamma function with Stirling's series, using the reflection
// formula for z < 0.5.
func Gamma(z float64) float64 {
	if z < 0.5 {
		return math.Pi / (math.Sin(math.Pi*z) * Gamma(1-z))
	}
	return math.Sqrt(2*math.Pi/z) * math.Pow(z/math.E, z) * (1 + 1/(12*z) + 1/(288*z*z))
}

// logStirlingGamma is the logarithm of Gamma's Stirling series, valid for z >= 0.5.
func logStirlingGamma(z float64) float64 {
	return 0.5*math.Log(2*math.Pi/z) + z*(math.Log(z)-1) + math.Log(1+1/(12*z)+1/(288*z*z))
}

// GammaCDF returns the regularized lower incomplete gamma P(k, x) from its power series.
// When x^k or Gamma(k) overflow (large chi-square df) the same series is evaluated in
// log space.
func GammaCDF(x, k float64) float64 {
	if x <= 0 || k <= 0 {
		return 0
	}
	term := 1 / k
	sum := term
	for n := 1; n < 100; n++ {
		term *= x / (k + float64(n))
		sum += term
		if term < sum*1e-10 {
			break
		}
	}
	lower := math.Pow(x, k) * math.Exp(-x) * sum
	p := lower / Gamma(k)
	if math.IsInf(p, 0) || math.IsNaN(p) {
		p = math.Exp(k*math.Log(x) - x + math.Log(sum) - logStirlingGamma(k))
	}
	return clampProbability(p)
}

func clampProbability(p float64) float64 {
	if math.IsNaN(p) {
		return 1
	}
	return math.Max(0, math.Min(1, p))
}
