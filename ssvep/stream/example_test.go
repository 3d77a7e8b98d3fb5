package stream_test

import (
	"fmt"

	"github.com/cwbudde/algo-ssvep/ssvep/stream"
)

func ExampleMemory() {
	src, err := stream.NewMemory("board-0", 250, 2)
	if err != nil {
		panic(err)
	}
	defer src.Close()

	_ = src.Append([][]float64{{1, 2, 3}, {4, 5, 6}})

	recent, start, _ := src.Recent(2)
	fmt.Println(start, recent)
	// Output:
	// 1 [[2 3] [5 6]]
}
