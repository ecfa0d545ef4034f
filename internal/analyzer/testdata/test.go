package main

const limit = 3

var total int

func add(a, b int) int {
	sum := a + b
	return sum
}

func main() {
	double := func(x int) int { return x * 2 }
	for total < limit {
		total = add(total, double(1))
	}
}
