package stable

type Equine interface {
	Gallop() int
}

type Horse struct {
	speed int
}

func (h Horse) Gallop() int { return h.speed }

// Mule embeds Horse, so both Equine and Horse are candidates.
//
//spi:provide Horse
type Mule struct {
	Horse
	stubborn bool
}

// Hinny makes no choice and is ambiguous.
//
//spi:provide
type Hinny struct {
	*Horse
}
