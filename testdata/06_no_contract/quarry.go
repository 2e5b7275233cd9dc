package quarry

type Miner interface {
	Mine() int
}

//spi:provide
type Rock struct{}

//spi:provide
type Pick struct{}

func (Pick) Mine() int { return 1 }
