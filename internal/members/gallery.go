package members

import "math/rand/v2"

// GalleryItem is one entry of the members-only gallery.
type GalleryItem struct {
	Title string
	Image string
}

// gallery is the fixed members-only content set. Serving it is the
// whole point of the page; it exists to demonstrate the login gate.
var gallery = []GalleryItem{
	{Title: "Harbor at dawn", Image: "/static/img/gallery-01.svg"},
	{Title: "Meridian lounge", Image: "/static/img/gallery-02.svg"},
	{Title: "Summer meetup", Image: "/static/img/gallery-03.svg"},
}

// Gallery returns the full gallery set.
func Gallery() []GalleryItem {
	return gallery
}

// Featured picks one gallery item at random for the page header.
func Featured() GalleryItem {
	return gallery[rand.IntN(len(gallery))]
}
