package zoo

type Animal interface {
	Name() string
}

// Cat is registered under Animal.
//
//spi:provide
type Cat struct{}

func (Cat) Name() string { return "cat" }

//spi:provide
type Dog struct{}

func (d *Dog) Name() string { return "dog" }

// Fish is not marked and is never registered.
type Fish struct{}

func (Fish) Name() string { return "fish" }

// Anything is an interface; marking it is reported and ignored.
//
//spi:provide
type Anything interface{}
