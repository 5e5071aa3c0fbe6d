package scraper

import (
	"context"
	"log/slog"

	"github.com/drewfead/lunchmap/internal"
)

// Restaurants without a parseable menu. They answer with a fixed menu or a link out and
// never touch the network.
const (
	linkOutDisplay         = "Oförändrad lunchmeny"
	curryRepublikMenuURL   = "https://www.curryrepublik.se/meny"
	thaiSushiForYouMenuURL = "https://thaisushiforyou.se/meny"
)

type staticSource struct {
	descriptor string
	menu       internal.Menu
}

// Static returns a source that always answers with menu.
func Static(descriptor string, menu internal.Menu) internal.Source {
	return &staticSource{descriptor: descriptor, menu: menu}
}

func (s *staticSource) Descriptor() string {
	return s.descriptor
}

func (s *staticSource) FetchMenu(_ context.Context, req internal.MenuRequest) (internal.Menu, error) {
	slog.Debug("fetch-menu", "descriptor", s.descriptor, "date", req.Now.Date, "variant", s.menu.Variant)
	return s.menu, nil
}

func DocksideBurgers() internal.Source {
	return Static("docksideburgers", internal.SimpleList("Burgare", "Månadens burgare"))
}

func Laziza() internal.Source {
	return Static("laziza", internal.SimpleList("Libanesisk buffé"))
}

func VHPizzeria() internal.Source {
	return Static("vhpizzeria", internal.SimpleList("Pizzabuffé"))
}

func CurryRepublik() internal.Source {
	return Static("curryrepublik", internal.LinkOnly(linkOutDisplay, curryRepublikMenuURL))
}

func ThaiSushiForYou() internal.Source {
	return Static("thaisushiforyou", internal.LinkOnly(linkOutDisplay, thaiSushiForYouMenuURL))
}
