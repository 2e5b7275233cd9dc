package pond

type Swimmer interface {
	Swim()
}

type Flyer interface {
	Fly()
}

//spi:provide
type Duck struct{}

func (Duck) Swim() {}
func (Duck) Fly()  {}

//spi:provide Swimmer
type Goose struct{}

func (Goose) Swim() {}
func (Goose) Fly()  {}

//spi:provide Flyer
type Carp struct{}

func (Carp) Swim() {}
