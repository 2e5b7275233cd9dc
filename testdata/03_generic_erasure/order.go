package order

type Comparator[T any] interface {
	Compare(a, b T) int
}

//spi:provide
type ByLength struct{}

func (ByLength) Compare(a, b string) int { return len(a) - len(b) }

//spi:provide
type ByValue struct{}

func (ByValue) Compare(a, b int) int { return a - b }

var (
	_ Comparator[string] = ByLength{}
	_ Comparator[int]    = ByValue{}
)
