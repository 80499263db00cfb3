// Package mix provides the dry/wet blending helper shared by the generators.
package mix

// DryWet blends two samples. amount 0 is fully dry, 1 fully wet.
func DryWet(dry, wet, amount float64) float64 {
	return dry*(1.0-amount) + wet*amount
}
