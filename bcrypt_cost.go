//go:build !race

package bearer

func passwordHashCost() int {
	return 14
}
